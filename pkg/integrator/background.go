package integrator

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Background is a vertical sky gradient returned for rays that miss everything
type Background struct {
	Top    core.Vec3 `json:"top"`    // Color straight up
	Bottom core.Vec3 `json:"bottom"` // Color straight down
}

// DefaultBackground returns the white to sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color based on ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Lerp(b.Top, t)
}

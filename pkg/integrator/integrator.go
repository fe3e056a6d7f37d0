package integrator

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ShadowAcneEpsilon is the minimum hit distance for every ray-scene query.
// Round-off can leave a scattered ray's origin just inside the surface it left.
const ShadowAcneEpsilon = 0.001

// Termination records why a path stopped
type Termination int

const (
	TerminationEscaped        Termination = iota // missed all geometry and picked up the background
	TerminationAbsorbed                          // a material absorbed the ray
	TerminationDepthExhausted                    // the bounce budget ran out
)

func (t Termination) String() string {
	switch t {
	case TerminationEscaped:
		return "escaped"
	case TerminationAbsorbed:
		return "absorbed"
	case TerminationDepthExhausted:
		return "depth exhausted"
	default:
		return "unknown"
	}
}

// PathResult is the outcome of tracing one camera sample
type PathResult struct {
	Color       core.Vec3   // Radiance estimate carried back to the camera
	Segments    int         // Number of ray-scene queries made
	Termination Termination // How the path ended
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace follows a camera ray through at most depth scene queries
	Trace(ray core.Ray, depth int, sampler core.Sampler) PathResult
}

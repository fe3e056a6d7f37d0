package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 `json:"center"`        // Eye position
	LookAt        core.Vec3 `json:"lookAt"`        // Point the camera looks at
	Up            core.Vec3 `json:"up"`            // Up hint, need not be orthogonal
	VFov          float64   `json:"vfov"`          // Vertical field of view in degrees
	AspectRatio   float64   `json:"aspectRatio"`   // Width / height
	Aperture      float64   `json:"aperture"`      // Lens diameter, 0 = pinhole
	FocusDistance float64   `json:"focusDistance"` // 0 = distance from Center to LookAt
}

// MergeCameraConfig returns base with every non-zero field of override applied.
// A zero Aperture or FocusDistance in override keeps the base value, so an
// override cannot turn a lens camera back into a pinhole.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Camera generates rays for rendering using a thin lens model.
// All state is derived once at construction and never changes.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera basis: right, up, backward
	lensRadius      float64
	focusDistance   float64
}

// NewCamera derives the viewport and lens from config
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, fmt.Errorf("%w: vertical fov %g must be in (0, 180)", ErrInvalidCamera, config.VFov)
	}
	if config.AspectRatio <= 0 {
		return nil, fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidCamera, config.AspectRatio)
	}
	if config.Aperture < 0 {
		return nil, fmt.Errorf("%w: aperture %g must not be negative", ErrInvalidCamera, config.Aperture)
	}

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}
	if focusDistance <= 0 {
		return nil, fmt.Errorf("%w: focus distance %g must be positive", ErrInvalidCamera, focusDistance)
	}

	w, err := config.Center.Subtract(config.LookAt).UnitVector()
	if err != nil {
		return nil, fmt.Errorf("%w: eye and look-at coincide: %w", ErrInvalidCamera, err)
	}
	u, err := config.Up.Cross(w).UnitVector()
	if err != nil {
		return nil, fmt.Errorf("%w: up %v is parallel to the view direction: %w", ErrInvalidCamera, config.Up, err)
	}
	v := w.Cross(u)

	theta := core.DegreesToRadians(config.VFov)
	halfHeight := math.Tan(theta / 2)
	viewportHeight := 2.0 * halfHeight
	viewportWidth := config.AspectRatio * viewportHeight

	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		focusDistance:   focusDistance,
	}, nil
}

// GetRay generates a ray through viewport coordinates (s, t) where 0 <= s,t <= 1,
// s running left to right and t bottom to top
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	offset := core.Vec3{}
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// FocusDistance returns the distance to the plane of perfect focus
func (c *Camera) FocusDistance() float64 {
	return c.focusDistance
}

// LensRadius returns half the aperture
func (c *Camera) LensRadius() float64 {
	return c.lensRadius
}

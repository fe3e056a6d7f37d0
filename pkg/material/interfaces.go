package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Material interface for surfaces that scatter rays.
// A false return signals full absorption: the path terminates and contributes black.
type Material interface {
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The outgoing ray, starting at the hit point
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// Normal always opposes the incoming ray; FrontFace records which side was struck.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal facing the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the outward-facing side
	Material  Material  // Material of the hit object, shared with other shapes
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

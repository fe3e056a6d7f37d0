package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering.
// Offsetting the normal by a uniform unit vector yields a cosine-weighted direction,
// so the estimator weight reduces to the albedo.
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}

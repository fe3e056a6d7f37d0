package material

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering.
// Reflection versus refraction is chosen per sample with Schlick probability;
// only the average over many samples converges to the Fresnel split.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass never absorbs
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // entering (air to glass)
	} else {
		refractionRatio = d.RefractiveIndex // exiting (glass to air)
	}

	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var direction core.Vec3
	if CannotRefract(refractionRatio, sinTheta) || sampler.Get1D() < Reflectance(cosTheta, refractionRatio) {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = core.Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}

// CannotRefract reports total internal reflection: Snell's law has no solution
func CannotRefract(refractionRatio, sinTheta float64) bool {
	return refractionRatio*sinTheta > 1.0
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation.
// r0 is symmetric in the ratio, so either n or 1/n may be passed.
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

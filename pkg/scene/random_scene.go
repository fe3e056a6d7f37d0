package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// NewRandomScene creates the cover scene: a grid of small randomized spheres
// around three large feature spheres. seed makes the layout reproducible.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           600,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            seed,
	}

	s, err := newScene(cameraConfig, samplingConfig, integrator.DefaultBackground())
	if err != nil {
		return nil, err
	}

	// Layout draws come from their own stream so render sampling stays independent
	sampler := core.NewSeededSampler(seed)

	groundMaterial := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, groundMaterial))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMat < 0.8:
				albedo := core.RandomVec3(sampler).MultiplyVec(core.RandomVec3(sampler))
				sphereMaterial = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.RandomVec3Range(sampler, 0.5, 1)
				fuzz := core.RandomRange(sampler, 0, 0.5)
				sphereMaterial = material.NewMetal(albedo, fuzz)
			default:
				sphereMaterial = material.NewDielectric(1.5)
			}

			s.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s, nil
}

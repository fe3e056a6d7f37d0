package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// NewGlassScene creates a row of glass spheres: solid, thin hollow shell,
// thick hollow shell around a diffuse core, and a low index bubble
func NewGlassScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 1, 3),
		LookAt:      core.NewVec3(0, 0.4, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           400,
		SamplesPerPixel: 200,
		MaxDepth:        50,
		Seed:            42,
	}

	background := integrator.Background{
		Top:    core.NewVec3(0.4, 0.6, 1.0),
		Bottom: core.NewVec3(1.0, 0.9, 0.8),
	}

	s, err := newScene(cameraConfig, samplingConfig, background)
	if err != nil {
		return nil, err
	}

	ground := material.NewLambertian(core.NewVec3(0.45, 0.45, 0.5))
	glass := material.NewDielectric(1.5)
	bubble := material.NewDielectric(1.0 / 1.33)
	diffuseCore := material.NewLambertian(core.NewVec3(0.7, 0.15, 0.1))

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),

		geometry.NewSphere(core.NewVec3(-2.4, 0.5, -1), 0.5, glass),

		geometry.NewSphere(core.NewVec3(-0.8, 0.5, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(-0.8, 0.5, -1), -0.48, glass),

		geometry.NewSphere(core.NewVec3(0.8, 0.5, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(0.8, 0.5, -1), -0.4, glass),
		geometry.NewSphere(core.NewVec3(0.8, 0.5, -1), 0.25, diffuseCore),

		geometry.NewSphere(core.NewVec3(2.4, 0.5, -1), 0.5, bubble),
	)

	return s, nil
}

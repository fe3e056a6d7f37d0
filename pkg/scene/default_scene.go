package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// NewDefaultScene creates three spheres on a large ground sphere: hollow glass,
// diffuse and fuzzy metal
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}

	s, err := newScene(cameraConfig, samplingConfig, integrator.DefaultBackground())
	if err != nil {
		return nil, err
	}

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter),
		// Negative inner radius flips the normals, leaving a hollow shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, materialGlass),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, materialRight),
	)

	return s, nil
}

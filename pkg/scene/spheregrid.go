package scene

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := core.DegreesToRadians(h)
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to nonlinear LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a grid of colored metal spheres lit by the sky
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(4.5, 6, 18),    // Position camera farther back and slightly lower
		LookAt:        core.NewVec3(4.5, 0.8, 4.5), // Look at center of grid, slightly lower
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.02, // Small depth of field for some focus variation
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           800,
		SamplesPerPixel: 100,
		MaxDepth:        40,
		Seed:            42,
	}

	s, err := newScene(cameraConfig, samplingConfig, integrator.DefaultBackground())
	if err != nil {
		return nil, err
	}

	// Ground sphere large enough to read as a plane under the grid
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.NewSphere(core.NewVec3(4.5, -1000, 4.5), 1000, ground))

	gridSize := 10

	// Target area: roughly 9x9 units (to fit nicely in camera view)
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			color := oklchToRGB(lightness, chroma, hue)
			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0

			s.Add(geometry.NewSphere(position, sphereRadius, material.NewMetal(color, roughness)))
		}
	}

	return s, nil
}

package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

var logger = log.New("scene")

var (
	ErrUnknownScene        = errors.New("scene: unknown scene")
	ErrUnknownMaterial     = errors.New("scene: unknown material")
	ErrUnknownMaterialKind = errors.New("scene: unknown material kind")
	ErrInvalidMaterial     = errors.New("scene: invalid material")
	ErrInvalidSphere       = errors.New("scene: invalid sphere")
	ErrInvalidConfig       = errors.New("scene: invalid config")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Objects in the scene
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig
}

// Overrides holds command line adjustments applied on top of a scene's defaults.
// Zero fields keep the scene value.
type Overrides struct {
	Width           int
	AspectRatio     float64
	SamplesPerPixel int
	MaxDepth        int
	Seed            *int64
}

// newScene builds the camera and derives the image height from the camera aspect ratio
func newScene(cameraConfig renderer.CameraConfig, sampling renderer.SamplingConfig, background integrator.Background) (*Scene, error) {
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}
	sampling.Height = renderer.ImageHeight(sampling.Width, cameraConfig.AspectRatio)

	return &Scene{
		Camera:         camera,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		Background:     background,
		SamplingConfig: sampling,
	}, nil
}

// Add appends objects to the world
func (s *Scene) Add(objects ...geometry.Shape) {
	s.World.Add(objects...)
}

// SphereCount returns the number of objects in the world
func (s *Scene) SphereCount() int {
	return s.World.Len()
}

// Apply merges overrides into the sampling and camera configuration and rebuilds the camera
func (s *Scene) Apply(o Overrides) error {
	if o.Width < 0 || o.AspectRatio < 0 || o.SamplesPerPixel < 0 || o.MaxDepth < 0 {
		return fmt.Errorf("%w: overrides must not be negative", ErrInvalidConfig)
	}

	cameraConfig := renderer.MergeCameraConfig(s.CameraConfig, renderer.CameraConfig{AspectRatio: o.AspectRatio})
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return err
	}

	sampling := s.SamplingConfig
	if o.Width > 0 {
		sampling.Width = o.Width
	}
	if o.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = o.SamplesPerPixel
	}
	if o.MaxDepth > 0 {
		sampling.MaxDepth = o.MaxDepth
	}
	if o.Seed != nil {
		sampling.Seed = *o.Seed
	}
	sampling.Height = renderer.ImageHeight(sampling.Width, cameraConfig.AspectRatio)

	s.Camera = camera
	s.CameraConfig = cameraConfig
	s.SamplingConfig = sampling
	return nil
}

// NewRaytracer wires the scene's world and background into a path tracer
func (s *Scene) NewRaytracer() (*renderer.Raytracer, error) {
	integ := integrator.NewPathTracingIntegrator(s.World, s.Background)
	return renderer.NewRaytracer(s.Camera, integ, s.SamplingConfig)
}

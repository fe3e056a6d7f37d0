package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Material kinds accepted in scene files
const (
	KindLambertian = "lambertian"
	KindMetal      = "metal"
	KindDielectric = "dielectric"
)

// MaterialConfig describes one entry of the material table
type MaterialConfig struct {
	Kind            string    `json:"kind"`
	Albedo          core.Vec3 `json:"albedo"`
	Fuzz            float64   `json:"fuzz,omitempty"`
	RefractiveIndex float64   `json:"refractiveIndex,omitempty"`
}

// SphereConfig places a sphere; Material names an entry in the material table
type SphereConfig struct {
	Center   core.Vec3 `json:"center"`
	Radius   float64   `json:"radius"` // negative radius inverts the surface
	Material string    `json:"material"`
}

// Config is the JSON scene description
type Config struct {
	Name            string                    `json:"name,omitempty"`
	Description     string                    `json:"description,omitempty"`
	Width           int                       `json:"width,omitempty"`
	AspectRatio     float64                   `json:"aspectRatio,omitempty"`
	SamplesPerPixel int                       `json:"samplesPerPixel,omitempty"`
	MaxDepth        int                       `json:"maxDepth,omitempty"`
	Seed            *int64                    `json:"seed,omitempty"` // nil keeps the default seed
	Camera          renderer.CameraConfig     `json:"camera"`
	Background      *integrator.Background    `json:"background,omitempty"`
	Materials       map[string]MaterialConfig `json:"materials"`
	Spheres         []SphereConfig            `json:"spheres"`
}

// defaultFileCamera is used for camera fields a scene file leaves out
func defaultFileCamera() renderer.CameraConfig {
	return renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
}

// ReadConfig decodes a scene description, rejecting unknown fields
func ReadConfig(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// LoadConfig reads and decodes a scene description file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: reading %s: %w", path, err)
	}
	cfg, err := ReadConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile builds a scene from a JSON description file
func LoadFile(path string) (*Scene, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	s, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// BuildMaterial creates the material described by mc
func BuildMaterial(mc MaterialConfig) (material.Material, error) {
	switch mc.Kind {
	case KindLambertian:
		return material.NewLambertian(mc.Albedo), nil
	case KindMetal:
		return material.NewMetal(mc.Albedo, mc.Fuzz), nil
	case KindDielectric:
		if mc.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("%w: refractive index %g must be positive", ErrInvalidMaterial, mc.RefractiveIndex)
		}
		return material.NewDielectric(mc.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMaterialKind, mc.Kind)
	}
}

// Build resolves the material table and creates the scene. Spheres naming the
// same material share one instance.
func (cfg *Config) Build() (*Scene, error) {
	cameraConfig := renderer.MergeCameraConfig(defaultFileCamera(), cfg.Camera)
	if cfg.AspectRatio != 0 {
		cameraConfig.AspectRatio = cfg.AspectRatio
	}

	sampling := renderer.DefaultSamplingConfig()
	if cfg.Width != 0 {
		sampling.Width = cfg.Width
	}
	if cfg.SamplesPerPixel != 0 {
		sampling.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth != 0 {
		sampling.MaxDepth = cfg.MaxDepth
	}
	if cfg.Seed != nil {
		sampling.Seed = *cfg.Seed
	}
	if sampling.Width < 0 || sampling.SamplesPerPixel < 0 || sampling.MaxDepth < 0 || cameraConfig.AspectRatio < 0 {
		return nil, fmt.Errorf("%w: dimensions and sample counts must be positive", ErrInvalidConfig)
	}

	background := integrator.DefaultBackground()
	if cfg.Background != nil {
		background = *cfg.Background
	}

	s, err := newScene(cameraConfig, sampling, background)
	if err != nil {
		return nil, err
	}

	materials := make(map[string]material.Material, len(cfg.Materials))
	for _, name := range slices.Sorted(maps.Keys(cfg.Materials)) {
		m, err := BuildMaterial(cfg.Materials[name])
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	for i, sc := range cfg.Spheres {
		m, ok := materials[sc.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: %w %q", i, ErrUnknownMaterial, sc.Material)
		}
		if sc.Radius == 0 {
			return nil, fmt.Errorf("sphere %d: %w: radius must not be zero", i, ErrInvalidSphere)
		}
		s.Add(geometry.NewSphere(sc.Center, sc.Radius, m))
	}

	logger.Debugf("built scene %q with %d materials and %d spheres", cfg.Name, len(materials), s.SphereCount())
	return s, nil
}

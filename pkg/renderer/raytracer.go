package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/log"
)

var logger = log.New("renderer")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   `json:"width"`           // Image width
	Height          int   `json:"height"`          // Image height
	SamplesPerPixel int   `json:"samplesPerPixel"` // Number of rays per pixel
	MaxDepth        int   `json:"maxDepth"`        // Maximum ray bounce depth
	Seed            int64 `json:"seed"`            // Seed for the sampler
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Validate checks that the image and sampling budget are usable
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidSampling, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidSampling, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %d must be positive", ErrInvalidSampling, c.MaxDepth)
	}
	return nil
}

// ImageHeight derives the image height from a width and aspect ratio, never below 1
func ImageHeight(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}

// ProgressFunc receives the number of scanlines still to be rendered after
// the current one, counting down to 0 on the last scanline
type ProgressFunc func(scanlinesRemaining int)

// Raytracer runs the per-pixel sampling loop on a single goroutine
type Raytracer struct {
	camera     *Camera
	integrator integrator.Integrator
	config     SamplingConfig
	sampler    core.Sampler
	progress   ProgressFunc
}

// NewRaytracer creates a new raytracer with a sampler seeded from config.Seed
func NewRaytracer(camera *Camera, integ integrator.Integrator, config SamplingConfig) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: no camera", ErrInvalidCamera)
	}

	return &Raytracer{
		camera:     camera,
		integrator: integ,
		config:     config,
		sampler:    core.NewSeededSampler(config.Seed),
	}, nil
}

// SetSampler replaces the random source
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// SetProgressFunc installs a callback invoked before each scanline
func (rt *Raytracer) SetProgressFunc(fn ProgressFunc) {
	rt.progress = fn
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// SamplePixel accumulates SamplesPerPixel jittered samples for pixel (i, j),
// where j counts rows from the bottom of the image
func (rt *Raytracer) SamplePixel(i, j int, stats *RenderStats) PixelStats {
	var ps PixelStats

	// Divisors keep the outermost sample centers on the viewport edges
	sDiv := float64(max(1, rt.config.Width-1))
	tDiv := float64(max(1, rt.config.Height-1))

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s := (float64(i) + rt.sampler.Get1D()) / sDiv
		t := (float64(j) + rt.sampler.Get1D()) / tDiv

		ray := rt.camera.GetRay(s, t, rt.sampler)
		result := rt.integrator.Trace(ray, rt.config.MaxDepth, rt.sampler)

		ps.AddSample(result.Color)
		if stats != nil {
			stats.Record(result)
		}
	}

	return ps
}

// RenderPass renders every pixel and returns the gamma corrected image.
// ctx is checked before each scanline; a cancelled render returns ctx.Err().
func (rt *Raytracer) RenderPass(ctx context.Context) (*image.RGBA, RenderStats, error) {
	buffer := NewPixelBuffer(rt.config.Width, rt.config.Height)
	stats := NewRenderStats(rt.config)
	start := time.Now()

	for j := rt.config.Height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			logger.Noticef("render cancelled with %d scanlines left: %v", j+1, err)
			return nil, stats, err
		}

		logger.Debugf("Scanlines remaining: %d", j)
		if rt.progress != nil {
			rt.progress(j)
		}

		for i := 0; i < rt.config.Width; i++ {
			ps := rt.SamplePixel(i, j, &stats)
			buffer.WriteColor(i, j, ps.ColorAccum, ps.SampleCount)
		}
	}

	stats.Duration = time.Since(start)
	logger.Infof("rendered %dx%d at %d spp in %s", rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel, stats.Duration)

	return buffer.Image(), stats, nil
}

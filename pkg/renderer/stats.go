package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/olekukonko/tablewriter"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width
	Height          int           // Image height
	TotalPixels     int           // Total number of pixels rendered
	SamplesPerPixel int           // Samples taken for each pixel
	MaxDepth        int           // Bounce budget per path
	TotalSamples    int           // Total number of camera paths traced
	TotalSegments   int           // Total ray-scene queries across all paths
	Escaped         int           // Paths that reached the background
	Absorbed        int           // Paths ended by an absorbing material
	DepthExhausted  int           // Paths truncated by MaxDepth
	Duration        time.Duration // Wall time for the pass
}

// NewRenderStats creates empty statistics for a render with config
func NewRenderStats(config SamplingConfig) RenderStats {
	return RenderStats{
		Width:           config.Width,
		Height:          config.Height,
		TotalPixels:     config.Width * config.Height,
		SamplesPerPixel: config.SamplesPerPixel,
		MaxDepth:        config.MaxDepth,
	}
}

// Record adds one traced path
func (s *RenderStats) Record(result integrator.PathResult) {
	s.TotalSamples++
	s.TotalSegments += result.Segments

	switch result.Termination {
	case integrator.TerminationEscaped:
		s.Escaped++
	case integrator.TerminationAbsorbed:
		s.Absorbed++
	case integrator.TerminationDepthExhausted:
		s.DepthExhausted++
	}
}

// AverageSegments returns the mean number of scene queries per path
func (s RenderStats) AverageSegments() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.TotalSegments) / float64(s.TotalSamples)
}

// percent formats n as a share of the traced paths
func (s RenderStats) percent(n int) string {
	if s.TotalSamples == 0 {
		return "0.0 %"
	}
	return fmt.Sprintf("%02.1f %%", 100*float64(n)/float64(s.TotalSamples))
}

// WriteTable renders the statistics as a text table
func (s RenderStats) WriteTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"Samples per pixel", fmt.Sprintf("%d", s.SamplesPerPixel)},
		{"Max depth", fmt.Sprintf("%d", s.MaxDepth)},
		{"Paths traced", fmt.Sprintf("%d", s.TotalSamples)},
		{"Ray segments", fmt.Sprintf("%d", s.TotalSegments)},
		{"Segments per path", fmt.Sprintf("%.2f", s.AverageSegments())},
		{"Escaped to sky", s.percent(s.Escaped)},
		{"Absorbed", s.percent(s.Absorbed)},
		{"Depth exhausted", s.percent(s.DepthExhausted)},
	})
	table.SetFooter([]string{"Render time", s.Duration.String()})
	table.Render()
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum.AddInPlace(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

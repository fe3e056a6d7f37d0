package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// PathTracingIntegrator implements fixed-depth unidirectional path tracing
// without Russian roulette or light sampling.
type PathTracingIntegrator struct {
	world      geometry.Shape
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(world geometry.Shape, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		world:      world,
		background: background,
	}
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, depth, sampler).Color
}

// Trace walks the path iteratively. The returned color is the product of every
// attenuation along the path times the background radiance where it escaped,
// or black if it was absorbed or ran out of depth.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, depth int, sampler core.Sampler) PathResult {
	throughput := core.NewVec3(1, 1, 1)
	result := PathResult{}

	for remaining := depth; ; remaining-- {
		// If we've exceeded the ray bounce limit, no more light is gathered
		if remaining <= 0 {
			result.Termination = TerminationDepthExhausted
			return result
		}

		result.Segments++
		hit, isHit := pt.world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			result.Color = throughput.MultiplyVec(pt.background.Color(ray))
			result.Termination = TerminationEscaped
			return result
		}

		scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
		if !didScatter {
			result.Termination = TerminationAbsorbed
			return result
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}
}

package core

import (
	"math"
	"math/rand"
)

// MaxRejectionAttempts caps the rejection samplers. Each attempt succeeds with
// probability pi/6 (ball) or pi/4 (disk), so the cap is only reached by a broken source.
const MaxRejectionAttempts = 64

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic generator
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// FixedSampler replays a fixed list of values in order, wrapping around.
// Useful for forcing a particular branch in tests.
type FixedSampler struct {
	Values []float64
	next   int
}

// NewFixedSampler creates a sampler that cycles through values
func NewFixedSampler(values ...float64) *FixedSampler {
	return &FixedSampler{Values: values}
}

// Get1D returns the next value
func (f *FixedSampler) Get1D() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

// Get2D returns the next two values
func (f *FixedSampler) Get2D() Vec2 {
	return NewVec2(f.Get1D(), f.Get1D())
}

// Get3D returns the next three values
func (f *FixedSampler) Get3D() Vec3 {
	return NewVec3(f.Get1D(), f.Get1D(), f.Get1D())
}

// RandomRange returns a uniform value in [minVal, maxVal)
func RandomRange(sampler Sampler, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*sampler.Get1D()
}

// RandomVec3 returns a vector uniform in [0,1)^3
func RandomVec3(sampler Sampler) Vec3 {
	return sampler.Get3D()
}

// RandomVec3Range returns a vector uniform in [minVal,maxVal)^3
func RandomVec3Range(sampler Sampler, minVal, maxVal float64) Vec3 {
	return NewVec3(
		RandomRange(sampler, minVal, maxVal),
		RandomRange(sampler, minVal, maxVal),
		RandomRange(sampler, minVal, maxVal),
	)
}

// RandomInUnitSphere rejection-samples a point strictly inside the unit ball.
// After MaxRejectionAttempts misses it falls back to SamplePointInUnitSphere.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for range MaxRejectionAttempts {
		p := RandomVec3Range(sampler, -1, 1)
		if p.LengthSquared() < 1 {
			return p
		}
	}
	return SamplePointInUnitSphere(sampler.Get3D())
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	for range MaxRejectionAttempts {
		p := RandomInUnitSphere(sampler)
		if lenSq := p.LengthSquared(); lenSq > 1e-160 {
			return p.Divide(math.Sqrt(lenSq))
		}
	}
	return SampleOnUnitSphere(sampler.Get2D())
}

// RandomInUnitDisk rejection-samples a point inside the unit disk in the z=0 plane
// (for depth of field). After MaxRejectionAttempts misses it falls back to SamplePointInUnitDisk.
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for range MaxRejectionAttempts {
		p := NewVec3(RandomRange(sampler, -1, 1), RandomRange(sampler, -1, 1), 0)
		if p.LengthSquared() < 1 {
			return p
		}
	}
	return SamplePointInUnitDisk(sampler.Get2D())
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	// Scale by just under one so the result stays strictly inside the disk
	r *= 1 - 1e-12
	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// SamplePointInUnitSphere generates a random point inside a unit sphere using the inverse CDF method
func SamplePointInUnitSphere(sample Vec3) Vec3 {
	// r = ∛(u₁) to account for volume scaling, φ = 2π·u₂, cos(θ) = 2·u₃ - 1
	r := math.Cbrt(sample.X) * (1 - 1e-12)
	phi := 2 * math.Pi * sample.Y
	cosTheta := 2*sample.Z - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	x := r * sinTheta * math.Cos(phi)
	y := r * sinTheta * math.Sin(phi)
	z := r * cosTheta

	return NewVec3(x, y, z)
}

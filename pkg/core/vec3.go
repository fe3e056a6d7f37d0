package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// nearZeroEpsilon is the per-component threshold below which a vector counts as zero
const nearZeroEpsilon = 1e-8

// Vec3 represents a 3D vector, a point, or a linear RGB color
type Vec3 struct {
	X, Y, Z float64
}

// Point and Color are aliases that document intent at call sites
type (
	Point = Vec3
	Color = Vec3
)

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar. Division by zero yields infinities.
func (v Vec3) Divide(scalar float64) Vec3 {
	return v.Multiply(1 / scalar)
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// DivideVec returns component-wise division of two vectors
func (v Vec3) DivideVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X / other.X,
		Y: v.Y / other.Y,
		Z: v.Z / other.Z,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{
		X: -v.X,
		Y: -v.Y,
		Z: -v.Z,
	}
}

// AddInPlace accumulates other into v
func (v *Vec3) AddInPlace(other Vec3) {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
}

// MultiplyInPlace scales v by scalar
func (v *Vec3) MultiplyInPlace(scalar float64) {
	v.X *= scalar
	v.Y *= scalar
	v.Z *= scalar
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The caller guarantees a non-zero length; a zero vector propagates NaNs.
func (v Vec3) Normalize() Vec3 {
	return v.Divide(v.Length())
}

// UnitVector returns a unit vector in the same direction, or ErrDegenerateVector
// when the length is zero or not finite.
func (v Vec3) UnitVector() (Vec3, error) {
	length := v.Length()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return Vec3{}, fmt.Errorf("%w: %v", ErrDegenerateVector, v)
	}
	return v.Divide(length), nil
}

// NearZero reports whether every component is below 1e-8 in magnitude
func (v Vec3) NearZero() bool {
	return math.Abs(v.X) < nearZeroEpsilon &&
		math.Abs(v.Y) < nearZeroEpsilon &&
		math.Abs(v.Z) < nearZeroEpsilon
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// GammaCorrect applies gamma correction to color values
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	invGamma := 1.0 / gamma
	return Vec3{
		X: math.Pow(v.X, invGamma),
		Y: math.Pow(v.Y, invGamma),
		Z: math.Pow(v.Z, invGamma),
	}
}

// Lerp linearly interpolates from v (t=0) to other (t=1)
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return v.Multiply(1.0 - t).Add(other.Multiply(t))
}

// String formats the vector as "x y z"
func (v Vec3) String() string {
	return fmt.Sprintf("%g %g %g", v.X, v.Y, v.Z)
}

// MarshalJSON encodes the vector as a [x, y, z] array
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// UnmarshalJSON decodes a [x, y, z] array
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var comps []float64
	if err := json.Unmarshal(data, &comps); err != nil {
		return fmt.Errorf("core: vec3 must be an array of numbers: %w", err)
	}
	if len(comps) != 3 {
		return fmt.Errorf("core: vec3 needs 3 components, got %d", len(comps))
	}
	*v = Vec3{comps[0], comps[1], comps[2]}
	return nil
}

// Reflect mirrors v about the surface normal n: v - 2*dot(v,n)*n
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit vector uv through a surface with normal n using Snell's law
func Refract(uv, n Vec3, etaiOverEtat float64) Vec3 {
	cosTheta := math.Min(uv.Negate().Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Vec2 represents a 2D sample
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

package geometry

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// Sphere represents a sphere shape.
// A negative radius flips the outward normal inward, modeling the inner wall of a hollow shell.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return material.HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := (-halfB - sqrtD) / a
	if !inRange(root, tMin, tMax) {
		root = (-halfB + sqrtD) / a
		if !inRange(root, tMin, tMax) {
			return material.HitRecord{}, false
		}
	}

	hitRecord := material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Dividing by the signed radius inverts the normal for negative radii
	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// inRange reports whether t lies strictly inside (tMin, tMax). NaN is never in range.
func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t < tMax
}

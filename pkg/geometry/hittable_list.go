package geometry

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// HittableList is a linear collection of shapes. It is built once during scene
// construction and only read while rendering.
type HittableList struct {
	Objects []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(objects ...Shape) *HittableList {
	list := &HittableList{}
	list.Add(objects...)
	return list
}

// Add appends shapes to the list
func (l *HittableList) Add(objects ...Shape) {
	l.Objects = append(l.Objects, objects...)
}

// Clear removes all shapes
func (l *HittableList) Clear() {
	l.Objects = nil
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit returns the nearest intersection across all shapes. Each candidate is
// tested against the closest hit so far, so the result does not depend on insertion order.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range l.Objects {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

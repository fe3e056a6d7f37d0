package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.Ray{Origin: core.NewVec3(-1, 1, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasReflection := false
	hasRefraction := false

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 2000; i++ {
		result, scattered := glass.Scatter(ray, hit, sampler)
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}

		expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
		if result.Attenuation != expectedAttenuation {
			t.Fatalf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
		}

		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	// At 45° air->glass, reflection probability is ~5%
	if !hasRefraction || !hasReflection {
		t.Errorf("Expected both branches, reflection=%t refraction=%t", hasReflection, hasRefraction)
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Ray leaving glass at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: rayDirection}

	// Normal faces the incoming ray on the inside of the surface
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false,
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if !CannotRefract(1.5, sinTheta) {
		t.Fatal("Test setup should produce total internal reflection")
	}

	// A draw of 0.999 would always pick refraction if refraction were possible
	sampler := core.NewFixedSampler(0.999)
	result, _ := glass.Scatter(ray, hit, sampler)

	expected := core.Reflect(rayDirection, hit.Normal)
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-10 {
		t.Errorf("Expected mirror reflection %v, got %v", expected, result.Scattered.Direction)
	}
}

func TestDielectricNormalIncidence(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -2))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	tests := []struct {
		name     string
		draw     float64
		expected core.Vec3
	}{
		// Schlick reflectance at normal incidence is 0.04
		{"draw above reflectance refracts", 0.5, core.NewVec3(0, 0, -1)},
		{"draw below reflectance reflects", 0.01, core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := glass.Scatter(ray, hit, core.NewFixedSampler(tt.draw))
			if result.Scattered.Direction.Subtract(tt.expected).Length() > 1e-10 {
				t.Errorf("Expected %v, got %v", tt.expected, result.Scattered.Direction)
			}
		})
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence glass", 1.0, 1.5, 0.04},
		{"normal incidence inverted ratio", 1.0, 1.0 / 1.5, 0.04},
		{"grazing incidence", 0.0, 1.5, 1.0},
		{"matched index", 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflectance(tt.cosine, tt.ratio); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	var front HitRecord
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", front)
	}

	var back HitRecord
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), outward)
	if back.FrontFace || back.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got %+v", back)
	}
}

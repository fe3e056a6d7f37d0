package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"scale", a.Multiply(2), NewVec3(2, 4, 6)},
		{"divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"componentwise multiply", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"componentwise divide", b.DivideVec(a), NewVec3(4, -2.5, 2)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if d := a.Dot(b); d != 12 {
		t.Errorf("Expected dot 12, got %f", d)
	}
	if l := NewVec3(3, 4, 0).Length(); l != 5 {
		t.Errorf("Expected length 5, got %f", l)
	}
}

func TestVec3_InPlace(t *testing.T) {
	acc := NewVec3(0, 0, 0)
	acc.AddInPlace(NewVec3(1, 2, 3))
	acc.AddInPlace(NewVec3(1, 2, 3))
	acc.MultiplyInPlace(0.5)

	if acc != NewVec3(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got %v", acc)
	}
}

func TestVec3_DivideByZeroPropagates(t *testing.T) {
	v := NewVec3(1, 0, -1).Divide(0)
	if !math.IsInf(v.X, 1) || !math.IsNaN(v.Y) || !math.IsInf(v.Z, -1) {
		t.Errorf("Expected (+Inf, NaN, -Inf), got %v", v)
	}
	if v.IsFinite() {
		t.Error("Expected non-finite vector")
	}
}

func TestVec3_UnitVector(t *testing.T) {
	unit, err := NewVec3(0, 3, 4).UnitVector()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(unit.Length()-1) > 1e-12 || math.Abs(unit.Y-0.6) > 1e-12 {
		t.Errorf("Expected (0, 0.6, 0.8), got %v", unit)
	}

	degenerate := []Vec3{
		NewVec3(0, 0, 0),
		NewVec3(math.Inf(1), 0, 0),
		NewVec3(math.NaN(), 1, 1),
	}
	for _, v := range degenerate {
		if _, err := v.UnitVector(); !errors.Is(err, ErrDegenerateVector) {
			t.Errorf("Expected ErrDegenerateVector for %v, got %v", v, err)
		}
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected bool
	}{
		{NewVec3(0, 0, 0), true},
		{NewVec3(1e-9, -1e-9, 5e-9), true},
		{NewVec3(1e-8, 0, 0), false},
		{NewVec3(0, 0, -0.5), false},
	}

	for _, tt := range tests {
		if got := tt.v.NearZero(); got != tt.expected {
			t.Errorf("NearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
		}
	}
}

func TestVec3_ClampAndGamma(t *testing.T) {
	v := NewVec3(-0.5, 0.25, 3)

	if got := v.Clamp(0, 1); got != NewVec3(0, 0.25, 1) {
		t.Errorf("Clamp(0, 1) = %v", got)
	}
	if got := NewVec3(0.25, 1, 0.0625).GammaCorrect(2); got != NewVec3(0.5, 1, 0.25) {
		t.Errorf("GammaCorrect(2) = %v", got)
	}
	if got := NewVec3(math.Inf(1), 0, 0).GammaCorrect(2).Clamp(0, 0.999); got != NewVec3(0.999, 0, 0) {
		t.Errorf("Infinite channel should clamp, got %v", got)
	}
}

func TestReflect(t *testing.T) {
	// 45 degrees down onto a floor bounces 45 degrees up
	got := Reflect(NewVec3(1, -1, 0), NewVec3(0, 1, 0))
	if got != NewVec3(1, 1, 0) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
}

func TestRefract_NormalIncidenceIsUndeviated(t *testing.T) {
	dir := NewVec3(0, 0, -1)
	normal := NewVec3(0, 0, 1)

	for _, eta := range []float64{1.0 / 1.5, 1.5, 1.0} {
		got := Refract(dir, normal, eta)
		if got.Subtract(dir).Length() > 1e-12 {
			t.Errorf("eta=%f: expected %v, got %v", eta, dir, got)
		}
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	// 30 degree incidence from air into glass
	eta := 1.0 / 1.5
	theta := math.Pi / 6
	dir := NewVec3(math.Sin(theta), -math.Cos(theta), 0)
	normal := NewVec3(0, 1, 0)

	got := Refract(dir, normal, eta)
	sinOut := got.X / got.Length()
	if math.Abs(sinOut-eta*math.Sin(theta)) > 1e-9 {
		t.Errorf("Expected sin(theta_t)=%f, got %f", eta*math.Sin(theta), sinOut)
	}
	if math.Abs(got.Length()-1) > 1e-9 {
		t.Errorf("Expected unit refracted direction, got length %f", got.Length())
	}
}

func TestVec3_JSON(t *testing.T) {
	var v Vec3
	if err := json.Unmarshal([]byte(`[0.5, 0.7, 1]`), &v); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != NewVec3(0.5, 0.7, 1) {
		t.Errorf("Expected (0.5,0.7,1), got %v", v)
	}

	data, err := json.Marshal(NewVec3(1, 2, 3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "[1,2,3]" {
		t.Errorf("Expected [1,2,3], got %s", data)
	}

	for _, bad := range []string{`[1, 2]`, `{"x": 1}`, `"abc"`} {
		if err := json.Unmarshal([]byte(bad), &v); err == nil {
			t.Errorf("Expected error decoding %s", bad)
		}
	}
}

func TestDegreesToRadians(t *testing.T) {
	if got := DegreesToRadians(180); math.Abs(got-math.Pi) > 1e-15 {
		t.Errorf("Expected pi, got %f", got)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))

	if got := ray.At(0.5); got != NewVec3(1, 1, 0) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
	if got := ray.At(-1); got != NewVec3(1, 1, 3) {
		t.Errorf("Expected (1,1,3), got %v", got)
	}
}

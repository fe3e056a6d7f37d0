package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/scene"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"sphere-tracer"}, args...))
	return out.String(), err
}

func decodePNG(t *testing.T, filename string) (int, int) {
	t.Helper()
	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", filename, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", filename, err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestLoadScene(t *testing.T) {
	tests := []struct {
		name         string
		configPath   string
		sceneID      string
		expectedName string
		expectError  bool
	}{
		{"default scene", "", "default", "default", false},
		{"random scene", "", "random", "random", false},
		{"glass scene", "", "glass", "glass", false},
		{"scene file by id", "", "file:three-spheres", "three-spheres", false},
		{"scene file by path", filepath.Join("scenes", "mirror-hall.json"), "default", "mirror-hall", false},
		{"unknown scene", "", "cornell", "", true},
		{"no scene", "", "", "", true},
		{"missing file", filepath.Join("scenes", "missing.json"), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, name, err := loadScene(tt.configPath, tt.sceneID)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, got scene %q", name)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadScene failed: %v", err)
			}
			if name != tt.expectedName {
				t.Errorf("Expected name %q, got %q", tt.expectedName, name)
			}
			if sc.SphereCount() == 0 {
				t.Error("Scene has no spheres")
			}
		})
	}
}

func TestUnknownSceneError(t *testing.T) {
	_, _, err := loadScene("", "cornell")
	if !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestSceneBaseName(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"default", "default"},
		{"file:three-spheres", "three-spheres"},
		{"scenes/mirror-hall.json", "mirror-hall"},
		{"/tmp/nested/dir/my-scene.json", "my-scene"},
	}

	for _, tt := range tests {
		if got := sceneBaseName(tt.ref); got != tt.expected {
			t.Errorf("sceneBaseName(%q) = %q, expected %q", tt.ref, got, tt.expected)
		}
	}
}

func TestOutputFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := outputFilename("random", now)
	expected := filepath.Join("output", "random", "render_20240309_140507.png")
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, args := range [][]string{{"-v", "scenes"}, {"-vv", "scenes"}, {"scenes"}} {
		if _, err := runApp(t, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}

	out, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "0.1.0") {
		t.Errorf("Expected version in output, got %q", out)
	}
}

func TestGradientCommand(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "image.png")

	if _, err := runApp(t, "gradient", "--width", "32", "--height", "16", "--out", filename); err != nil {
		t.Fatalf("gradient command failed: %v", err)
	}

	w, h := decodePNG(t, filename)
	if w != 32 || h != 16 {
		t.Errorf("Expected 32x16, got %dx%d", w, h)
	}

	if _, err := runApp(t, "gradient", "--width", "0", "--out", filename); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestRenderCommand(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "render.png")

	out, err := runApp(t, "render", "--scene", "default", "--width", "12", "--aspect", "2",
		"--spp", "2", "--depth", "4", "--seed", "5", "--out", filename)
	if err != nil {
		t.Fatalf("render command failed: %v", err)
	}

	w, h := decodePNG(t, filename)
	if w != 12 || h != 6 {
		t.Errorf("Expected 12x6, got %dx%d", w, h)
	}
	for _, want := range []string{"Paths traced", "144", "Max depth"} {
		if !strings.Contains(out, want) {
			t.Errorf("Stats output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommandConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "hall.png")

	_, err := runApp(t, "render", "--config", filepath.Join("scenes", "mirror-hall.json"),
		"--width", "8", "--spp", "1", "--out", filename)
	if err != nil {
		t.Fatalf("render command failed: %v", err)
	}

	w, h := decodePNG(t, filename)
	if w != 8 || h != 6 {
		t.Errorf("Expected 8x6, got %dx%d", w, h)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, "render", "--scene", "nope", "--out", filepath.Join(dir, "a.png")); err == nil {
		t.Error("Expected error for unknown scene")
	}
	if _, err := runApp(t, "render", "--width", "-3", "--out", filepath.Join(dir, "b.png")); err == nil {
		t.Error("Expected error for negative width")
	}
}

func TestScenesCommand(t *testing.T) {
	out, err := runApp(t, "scenes")
	if err != nil {
		t.Fatalf("scenes command failed: %v", err)
	}

	for _, want := range []string{"default", "random", "glass", "file:three-spheres", "Mirror Hall"} {
		if !strings.Contains(out, want) {
			t.Errorf("Scene listing missing %q:\n%s", want, out)
		}
	}
}

package renderer

import (
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		accum    core.Vec3
		spp      int
		expected color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), 1, color.RGBA{0, 0, 0, 255}},
		{"white clamps below 256", core.NewVec3(1, 1, 1), 1, color.RGBA{255, 255, 255, 255}},
		{"gamma 2", core.NewVec3(0.25, 0.25, 0.25), 1, color.RGBA{128, 128, 128, 255}},
		{"averaged", core.NewVec3(1, 2, 4), 4, color.RGBA{128, 181, 255, 255}},
		{"over bright", core.NewVec3(10, 0, 0), 1, color.RGBA{255, 0, 0, 255}},
		{"negative", core.NewVec3(-1, 0, 0), 1, color.RGBA{0, 0, 0, 255}},
		{"nan", core.NewVec3(math.NaN(), 1, 0), 1, color.RGBA{0, 255, 0, 255}},
		{"inf", core.NewVec3(math.Inf(1), 0, 0), 1, color.RGBA{255, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRGBA(tt.accum, tt.spp)
			if got != tt.expected {
				t.Errorf("ToRGBA(%v, %d) = %v, expected %v", tt.accum, tt.spp, got, tt.expected)
			}
		})
	}
}

func TestPixelBufferFlipsRows(t *testing.T) {
	buffer := NewPixelBuffer(3, 2)
	buffer.WriteColor(0, 0, core.NewVec3(1, 0, 0), 1)
	buffer.WriteColor(2, 1, core.NewVec3(0, 0, 1), 1)

	img := buffer.Image()
	if c := img.RGBAAt(0, 1); c.R != 255 {
		t.Errorf("Sample-plane row 0 should land on the bottom image row, got %v", c)
	}
	if c := img.RGBAAt(2, 0); c.B != 255 {
		t.Errorf("Sample-plane top row should land on image row 0, got %v", c)
	}
	if c := img.RGBAAt(1, 0); c != (color.RGBA{}) {
		t.Errorf("Unwritten pixel should stay zero, got %v", c)
	}
}

func TestRenderGradient(t *testing.T) {
	img := RenderGradient(256, 256)

	tests := []struct {
		name     string
		x, y     int
		expected color.RGBA
	}{
		{"top left", 0, 0, color.RGBA{0, 0, 63, 255}},
		{"top right", 255, 0, color.RGBA{255, 0, 63, 255}},
		{"bottom left", 0, 255, color.RGBA{0, 255, 63, 255}},
		{"bottom right", 255, 255, color.RGBA{255, 255, 63, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.expected {
				t.Errorf("Pixel (%d,%d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestSavePNG(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "gradient.png")
	img := RenderGradient(16, 8)

	if err := SavePNG(img, filename); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open written file: %v", err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}

	r, g, b, _ := decoded.At(15, 0).RGBA()
	want := img.RGBAAt(15, 0)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("Decoded pixel (%d,%d,%d) differs from %v", r>>8, g>>8, b>>8, want)
	}
}

func TestSavePNGBadPath(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := SavePNG(RenderGradient(2, 2), filename); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}

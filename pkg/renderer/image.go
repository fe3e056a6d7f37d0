package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// PixelBuffer is the output sink for finished linear colors
type PixelBuffer struct {
	width  int
	height int
	img    *image.RGBA
}

// NewPixelBuffer creates a black buffer of the given size
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// WriteColor stores the average of an accumulated sample sum. y counts rows
// from the bottom so it matches the viewport t coordinate.
func (b *PixelBuffer) WriteColor(x, y int, accum core.Vec3, samplesPerPixel int) {
	b.img.SetRGBA(x, b.height-1-y, ToRGBA(accum, samplesPerPixel))
}

// Image returns the underlying image, row 0 at the top
func (b *PixelBuffer) Image() *image.RGBA {
	return b.img
}

// ToRGBA averages accum over samplesPerPixel, applies gamma 2 and quantizes to 8 bits.
// NaN and negative channels become 0.
func ToRGBA(accum core.Vec3, samplesPerPixel int) color.RGBA {
	scale := 1.0 / float64(max(1, samplesPerPixel))
	c := zeroNaN(accum.Multiply(scale)).
		Clamp(0, math.Inf(1)).
		GammaCorrect(2).
		Clamp(0, 0.999)

	return color.RGBA{
		R: uint8(256 * c.X),
		G: uint8(256 * c.Y),
		B: uint8(256 * c.Z),
		A: 255,
	}
}

func zeroNaN(v core.Vec3) core.Vec3 {
	for _, c := range []*float64{&v.X, &v.Y, &v.Z} {
		if math.IsNaN(*c) {
			*c = 0
		}
	}
	return v
}

// SavePNG writes img to filename
func SavePNG(img image.Image, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("renderer: creating %s: %w", filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("renderer: closing %s: %w", filename, cerr)
		}
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("renderer: encoding %s: %w", filename, err)
	}
	return nil
}

// RenderGradient produces the red/green test pattern: red grows with x and
// green with the image row, with blue fixed at 0.25. Values are written
// linearly at 255 scale without gamma, so the output path can be checked
// without tracing.
func RenderGradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	xDiv := float64(max(1, width-1))
	yDiv := float64(max(1, height-1))

	for y := height - 1; y >= 0; y-- {
		logger.Debugf("Scanlines remaining: %d", y)
		for x := 0; x < width; x++ {
			r := float64(x) / xDiv
			g := float64(y) / yDiv
			b := 0.25
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255 * r),
				G: uint8(255 * g),
				B: uint8(255 * b),
				A: 255,
			})
		}
	}

	return img
}

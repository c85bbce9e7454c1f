package renderer

import (
	"image"

	"github.com/achilleasa/gridtrace/tracer"
	"github.com/achilleasa/gridtrace/types"
)

// A rendered frame. Pix holds 4 bytes (RGBA) per pixel in row-major order;
// the first row is the top of the image as seen by the camera.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// Allocate a frame with every pixel set to the background color.
func newFrame(width, height int, background types.Vec3) *Frame {
	f := &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
	}

	var bg [4]uint8
	tracer.EncodeRGBA(background, bg[:])
	for offset := 0; offset < len(f.Pix); offset += 4 {
		copy(f.Pix[offset:offset+4], bg[:])
	}
	return f
}

// Get the RGBA bytes of the pixel at (x, y).
func (f *Frame) At(x, y int) []uint8 {
	offset := 4 * (y*f.Width + x)
	return f.Pix[offset : offset+4]
}

// Wrap the frame pixels in an image without copying them.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: 4 * f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

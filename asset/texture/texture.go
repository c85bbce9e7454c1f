package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/log"
	"github.com/achilleasa/gridtrace/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var logger = log.New("texture")

// A decoded texture with linear RGB texels in [0, 1]. Row 0 is the top row
// of the source image.
type Texture struct {
	Name   string
	Width  int
	Height int
	Texels []types.Vec3
}

// Decode a texture from a Resource. Any format registered with the image
// package is supported (png, jpeg, gif, bmp and tiff).
func New(res *asset.Resource) (*Texture, error) {
	img, format, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	tex := FromImage(res.Name(), img)
	logger.Debugf("loaded %s texture %s (%dx%d)", format, res.Path(), tex.Width, tex.Height)
	return tex, nil
}

// Convert an image into a texture.
func FromImage(name string, img image.Image) *Texture {
	bounds := img.Bounds()
	tex := &Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Texels: make([]types.Vec3, bounds.Dx()*bounds.Dy()),
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			tex.Texels[offset] = types.Vec3{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(b) / 0xffff,
			}
			offset++
		}
	}

	return tex
}

// Sample the texture with bilinear filtering. UVs wrap around and V=0 is
// the bottom row of the image.
func (t *Texture) Sample(uv types.Vec2) types.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return types.Vec3{}
	}

	u := wrap(uv[0])*float64(t.Width) - 0.5
	v := (1.0-wrap(uv[1]))*float64(t.Height) - 0.5

	x0 := math.Floor(u)
	y0 := math.Floor(v)
	fx := u - x0
	fy := v - y0

	c00 := t.texel(int(x0), int(y0))
	c10 := t.texel(int(x0)+1, int(y0))
	c01 := t.texel(int(x0), int(y0)+1)
	c11 := t.texel(int(x0)+1, int(y0)+1)

	top := c00.Mul(1 - fx).Add(c10.Mul(fx))
	bottom := c01.Mul(1 - fx).Add(c11.Mul(fx))
	return top.Mul(1 - fy).Add(bottom.Mul(fy))
}

func (t *Texture) texel(x, y int) types.Vec3 {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y %= t.Height
	if y < 0 {
		y += t.Height
	}
	return t.Texels[y*t.Width+x]
}

// Map a coordinate into [0, 1).
func wrap(c float64) float64 {
	c -= math.Floor(c)
	if c >= 1 {
		c = 0
	}
	return c
}

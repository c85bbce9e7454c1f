package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/types"
	"golang.org/x/image/bmp"
)

func checkerboard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})
	return img
}

func approx(a, b types.Vec3) bool {
	return math.Abs(a[0]-b[0]) < 1e-6 && math.Abs(a[1]-b[1]) < 1e-6 && math.Abs(a[2]-b[2]) < 1e-6
}

func TestLoadPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checkerboard()); err != nil {
		t.Fatal(err)
	}

	tex, err := New(asset.NewResourceFromStream("checker.png", &buf))
	if err != nil {
		t.Fatal(err)
	}

	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("expected 2x2 texture; got %dx%d", tex.Width, tex.Height)
	}
	if tex.Name != "checker.png" {
		t.Fatalf("expected texture name checker.png; got %s", tex.Name)
	}
	if !approx(tex.Texels[0], types.Vec3{1, 0, 0}) {
		t.Fatalf("expected first texel to be red; got %v", tex.Texels[0])
	}
}

func TestLoadBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, checkerboard()); err != nil {
		t.Fatal(err)
	}

	tex, err := New(asset.NewResourceFromStream("checker.bmp", &buf))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(tex.Texels[3], types.Vec3{1, 1, 1}) {
		t.Fatalf("expected last texel to be white; got %v", tex.Texels[3])
	}
}

func TestLoadInvalidData(t *testing.T) {
	_, err := New(asset.NewResourceFromStream("bogus.png", bytes.NewReader([]byte("not an image"))))
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSample(t *testing.T) {
	tex := FromImage("checker", checkerboard())

	type spec struct {
		uv  types.Vec2
		exp types.Vec3
	}
	specs := []spec{
		// Texel centers; V=0 is the bottom row
		{types.Vec2{0.25, 0.75}, types.Vec3{1, 0, 0}},
		{types.Vec2{0.75, 0.75}, types.Vec3{0, 1, 0}},
		{types.Vec2{0.25, 0.25}, types.Vec3{0, 0, 1}},
		{types.Vec2{0.75, 0.25}, types.Vec3{1, 1, 1}},
		// Wrapping
		{types.Vec2{1.25, -0.25}, types.Vec3{1, 0, 0}},
		// Midway between red and green
		{types.Vec2{0.5, 0.75}, types.Vec3{0.5, 0.5, 0}},
	}

	for index, s := range specs {
		got := tex.Sample(s.uv)
		if !approx(got, s.exp) {
			t.Fatalf("[spec %d] expected sample at %v to be %v; got %v", index, s.uv, s.exp, got)
		}
	}
}

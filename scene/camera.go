package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/types"
)

// Indices into the ImagePlane corner list.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// The camera type controls the scene camera.
type Camera struct {
	Eye     types.Vec3
	ViewDir types.Vec3
	UpDir   types.Vec3

	// Width of the film back in world units. The film height is derived
	// from the frame aspect ratio.
	FilmWidth float64

	// Distance from the eye to the image plane (perspective cameras only).
	FocalLength float64

	Perspective bool
}

// Create a perspective camera at the origin looking down the -Z axis.
func NewCamera() *Camera {
	return &Camera{
		Eye:         types.Vec3{0, 0, 0},
		ViewDir:     types.Vec3{0, 0, -1},
		UpDir:       types.Vec3{0, 1, 0},
		FilmWidth:   1.0,
		FocalLength: 1.0,
		Perspective: true,
	}
}

// Point the camera at a target position.
func (c *Camera) LookAt(target types.Vec3) {
	if dir := target.Sub(c.Eye).Normalize(); dir != (types.Vec3{}) {
		c.ViewDir = dir
	}
}

// Rotate the view and up vectors by yaw (around up) and pitch (around the
// camera right vector). Angles are in radians.
func (c *Camera) Rotate(yaw, pitch float64) {
	right := c.ViewDir.Cross(c.UpDir).Normalize()
	pitchQuat := types.QuatFromAxisAngle(right, pitch)
	yawQuat := types.QuatFromAxisAngle(c.UpDir, yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()
	c.ViewDir = orientQuat.Rotate(c.ViewDir).Normalize()
	c.UpDir = orientQuat.Rotate(c.UpDir).Normalize()
}

func (c *Camera) String() string {
	mode := "orthographic"
	if c.Perspective {
		mode = "perspective"
	}
	return fmt.Sprintf(
		"%s camera eye: (%3.3f, %3.3f, %3.3f) view: (%3.3f, %3.3f, %3.3f) up: (%3.3f, %3.3f, %3.3f) film: %3.3f focal: %3.3f",
		mode,
		c.Eye[0], c.Eye[1], c.Eye[2],
		c.ViewDir[0], c.ViewDir[1], c.ViewDir[2],
		c.UpDir[0], c.UpDir[1], c.UpDir[2],
		c.FilmWidth, c.FocalLength,
	)
}

// The world-space rectangle that primary rays pass through.
type ImagePlane struct {
	// Right and up unit vectors.
	X types.Vec3
	Y types.Vec3

	// World-space distance between adjacent pixels.
	PixelPitch float64

	// The plane corners indexed by TopLeft, TopRight, BottomLeft and BottomRight.
	Corners [4]types.Vec3

	Width  int
	Height int

	eye         types.Vec3
	view        types.Vec3
	perspective bool
}

// Build the image plane for a frame with the given dimensions. Row 0 of the
// frame maps to the top edge of the plane.
func (c *Camera) ImagePlane(width, height int) ImagePlane {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	view := c.ViewDir.Normalize()
	if view == (types.Vec3{}) {
		view = types.Vec3{0, 0, -1}
	}

	x := view.Cross(c.UpDir).Normalize()
	if x == (types.Vec3{}) {
		// Up is parallel to view; pick any perpendicular axis
		alt := types.Vec3{0, 1, 0}
		if math.Abs(view[1]) > 0.9 {
			alt = types.Vec3{0, 0, 1}
		}
		x = view.Cross(alt).Normalize()
	}
	y := x.Cross(view).Normalize()

	filmWidth := c.FilmWidth
	if filmWidth <= 0 {
		filmWidth = 1.0
	}
	pitch := filmWidth / float64(width)
	halfW := 0.5 * filmWidth
	halfH := 0.5 * pitch * float64(height)

	center := c.Eye
	if c.Perspective {
		center = c.Eye.Add(view.Mul(c.FocalLength))
	}

	ip := ImagePlane{
		X:           x,
		Y:           y,
		PixelPitch:  pitch,
		Width:       width,
		Height:      height,
		eye:         c.Eye,
		view:        view,
		perspective: c.Perspective,
	}
	ip.Corners[TopLeft] = center.Sub(x.Mul(halfW)).Add(y.Mul(halfH))
	ip.Corners[TopRight] = center.Add(x.Mul(halfW)).Add(y.Mul(halfH))
	ip.Corners[BottomLeft] = center.Sub(x.Mul(halfW)).Sub(y.Mul(halfH))
	ip.Corners[BottomRight] = center.Add(x.Mul(halfW)).Sub(y.Mul(halfH))

	return ip
}

// Get the world-space position of a sample inside pixel (col, row). The
// offsets sx and sy are in [0, 1) pixel units; 0.5 is the pixel center.
func (ip ImagePlane) SamplePoint(col, row int, sx, sy float64) types.Vec3 {
	return ip.Corners[TopLeft].
		Add(ip.X.Mul(ip.PixelPitch * (float64(col) + sx))).
		Sub(ip.Y.Mul(ip.PixelPitch * (float64(row) + sy)))
}

// Generate the primary ray through a point on the image plane. Perspective
// rays start at the eye; orthographic rays start on the plane and run
// parallel to the view direction.
func (ip ImagePlane) Ray(point types.Vec3) geometry.Ray {
	if ip.perspective {
		return geometry.Ray{Origin: ip.eye, Dir: point.Sub(ip.eye).Normalize()}
	}
	return geometry.Ray{Origin: point, Dir: ip.view}
}

// Returns true if primary rays share the eye as their origin.
func (ip ImagePlane) Perspective() bool {
	return ip.perspective
}

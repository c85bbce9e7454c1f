package tracer

import (
	"math"
	"time"

	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
	"github.com/achilleasa/gridtrace/voxel"
)

// A Tracer renders chunks of a frame. Each worker owns a tracer; the grid,
// the shader and the image plane are shared and must not be modified while
// tracers are running.
type Tracer struct {
	id      string
	grid    *voxel.Grid
	walker  *voxel.Walker
	shader  *Shader
	plane   scene.ImagePlane
	sampler *Sampler

	offsets []types.Vec2
	stats   Stats
}

// Create a tracer.
func New(id string, grid *voxel.Grid, shader *Shader, plane scene.ImagePlane, sampler *Sampler) *Tracer {
	return &Tracer{
		id:      id,
		grid:    grid,
		walker:  grid.NewWalker(),
		shader:  shader,
		plane:   plane,
		sampler: sampler,
		offsets: make([]types.Vec2, 0, sampler.Count()),
		stats:   Stats{Id: id},
	}
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Trace the pixels in a chunk and write their RGBA values to frame, which
// holds 4 bytes per pixel in row-major order starting from the top row.
func (tr *Tracer) Trace(c Chunk, frame []uint8) {
	start := time.Now()
	for pixel := c.Start; pixel < c.End; pixel++ {
		pixelStart := time.Now()
		color := tr.TracePixel(pixel)
		tr.stats.PixelTime.Add(time.Since(pixelStart))
		EncodeRGBA(color, frame[4*pixel:4*pixel+4])
	}
	tr.stats.Chunks++
	tr.stats.Pixels += c.Len()
	tr.stats.BusyTime += time.Since(start)
}

// Trace all samples for a pixel and return their average. Each sample is
// clamped to [0, 1] before averaging.
func (tr *Tracer) TracePixel(pixel int) types.Vec3 {
	col := pixel % tr.plane.Width
	row := pixel / tr.plane.Width

	home, hasHome := tr.grid.Home()
	hasHome = hasHome && tr.plane.Perspective()

	tr.offsets = tr.sampler.Offsets(pixel, tr.offsets)
	var sum types.Vec3
	for _, off := range tr.offsets {
		r := tr.plane.Ray(tr.plane.SamplePoint(col, row, off[0], off[1]))

		var sample types.Vec3
		if hasHome {
			// Primary rays start at the eye so they share the home voxel
			if hit, ok := tr.walker.TraceFrom(r, home, math.Inf(1)); ok {
				sample = tr.shader.Shade(tr.walker, r, hit)
			} else {
				sample = tr.shader.Background
			}
		} else {
			sample = tr.shader.Trace(tr.walker, r)
		}
		sum = sum.Add(sample.Clamp(0, 1))
	}

	return sum.Mul(1.0 / float64(len(tr.offsets)))
}

// Get the statistics collected so far.
func (tr *Tracer) Stats() Stats {
	s := tr.stats
	s.Walker = tr.walker.Stats
	return s
}

// Encode a color with components in [0, 1] as opaque RGBA bytes.
func EncodeRGBA(c types.Vec3, dst []uint8) {
	c = c.Clamp(0, 1)
	dst[0] = uint8(math.Round(c[0] * 255))
	dst[1] = uint8(math.Round(c[1] * 255))
	dst[2] = uint8(math.Round(c[2] * 255))
	dst[3] = 255
}

package voxel

import (
	"math"

	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/types"
)

// The boundary faces of the grid in the order they are tested when a ray
// starts outside the grid. On ties the earlier face wins.
var boundaryFaces = [6]struct {
	axis int
	max  bool
}{
	{0, false}, {0, true},
	{1, false}, {1, true},
	{2, false}, {2, true},
}

// The closest intersection found by a walk.
type Hit struct {
	geometry.Hit

	Mesh int
	Face int
}

// A Walker traces rays through a Grid. Walkers are not safe for concurrent
// use; each worker should create its own.
type Walker struct {
	grid  *Grid
	Stats Stats
}

// Create a walker for this grid.
func (g *Grid) NewWalker() *Walker {
	return &Walker{grid: g}
}

// Find the voxel through which a ray enters the grid. Rays starting inside
// the grid begin in the voxel containing their origin. The call fails if
// the ray never reaches the grid.
func (w *Walker) Locate(r geometry.Ray) ([3]int, bool) {
	g := w.grid
	if g.Bounds.Contains(r.Origin, 0) {
		return g.cellOf(r.Origin), true
	}

	tol := 1e-9 * math.Max(1, g.Bounds.Size().MaxComponent())
	bestT := math.Inf(1)
	bestFace := -1
	var bestPoint types.Vec3
	for faceIndex, face := range boundaryFaces {
		if r.Dir[face.axis] == 0 {
			continue
		}

		plane := g.Bounds.Min[face.axis]
		if face.max {
			plane = g.Bounds.Max[face.axis]
		}

		t := (plane - r.Origin[face.axis]) / r.Dir[face.axis]
		if t <= 0 || t >= bestT {
			continue
		}

		p := r.At(t)
		inside := true
		for axis := 0; axis < 3; axis++ {
			if axis != face.axis && (p[axis] < g.Bounds.Min[axis]-tol || p[axis] > g.Bounds.Max[axis]+tol) {
				inside = false
				break
			}
		}
		if inside {
			bestT, bestFace, bestPoint = t, faceIndex, p
		}
	}

	if bestFace == -1 {
		return [3]int{}, false
	}

	idx := g.cellOf(bestPoint)
	face := boundaryFaces[bestFace]
	if face.max {
		idx[face.axis] = g.N - 1
	} else {
		idx[face.axis] = 0
	}
	return idx, true
}

// Find the closest intersection along the ray no further than maxDist.
// Pass math.Inf(1) for an unbounded search.
func (w *Walker) Trace(r geometry.Ray, maxDist float64) (Hit, bool) {
	w.Stats.Rays++
	start, ok := w.Locate(r)
	if !ok {
		return Hit{}, false
	}
	return w.walk(r, start, maxDist)
}

// Like Trace but starts the walk at a known voxel, skipping the entry
// lookup. Used for primary rays leaving the home voxel.
func (w *Walker) TraceFrom(r geometry.Ray, start [3]int, maxDist float64) (Hit, bool) {
	w.Stats.Rays++
	return w.walk(r, start, maxDist)
}

// Step through the grid one voxel at a time until a hit is found or the
// ray leaves the grid.
func (w *Walker) walk(r geometry.Ray, idx [3]int, maxDist float64) (Hit, bool) {
	g := w.grid
	meshes := g.meshes

	for InRange(g.N, idx) {
		w.Stats.VoxelsTraversed++
		vox := &g.Voxels[Flatten(g.N, idx)]

		axis, step, _, ok := vox.Bounds.ExitAxis(r)
		if !ok {
			return Hit{}, false
		}

		var best Hit
		found := false
		for _, mf := range vox.Meshes {
			faces := meshes[mf.Mesh].Faces
			for _, faceIndex := range mf.Faces {
				face := &faces[faceIndex]
				w.Stats.IntersectionTests++
				hit, ok := geometry.IntersectTriangle(r, face.Vertices[0], face.Vertices[1], face.Vertices[2])
				if !ok {
					continue
				}
				w.Stats.IntersectionHits++

				// Hits outside this voxel are picked up when the
				// walk reaches the voxel that contains them
				if (found && hit.T >= best.T) || !vox.Bounds.Contains(hit.Point, g.eps) {
					continue
				}
				best = Hit{Hit: hit, Mesh: mf.Mesh, Face: faceIndex}
				found = true
			}
		}

		if found {
			// Any hit in the following voxels is even further away
			if best.T > maxDist {
				return Hit{}, false
			}
			w.Stats.RayHits++
			return best, true
		}

		idx[axis] += step
	}

	return Hit{}, false
}

package geometry

import (
	"math"

	"github.com/achilleasa/gridtrace/types"
)

// Test whether triangle (a, b, c) overlaps the axis-aligned box with the
// given center and half extents using the separating axis theorem. The
// candidate axes are the 3 box normals, the triangle normal and the 9 cross
// products between the box normals and the triangle edges. Touching counts
// as overlapping.
func TriangleBoxOverlap(center, half types.Vec3, a, b, c types.Vec3) bool {
	verts := [3]types.Vec3{a.Sub(center), b.Sub(center), c.Sub(center)}

	// Box normals
	for axis := 0; axis < 3; axis++ {
		lo := math.Min(verts[0][axis], math.Min(verts[1][axis], verts[2][axis]))
		hi := math.Max(verts[0][axis], math.Max(verts[1][axis], verts[2][axis]))
		if lo > half[axis] || hi < -half[axis] {
			return false
		}
	}

	edges := [3]types.Vec3{
		verts[1].Sub(verts[0]),
		verts[2].Sub(verts[1]),
		verts[0].Sub(verts[2]),
	}

	// Triangle normal
	if separates(edges[0].Cross(edges[1]), verts, half) {
		return false
	}

	// Edge cross products
	for _, edge := range edges {
		for axis := 0; axis < 3; axis++ {
			var unit types.Vec3
			unit[axis] = 1
			if separates(unit.Cross(edge), verts, half) {
				return false
			}
		}
	}

	return true
}

// Check whether axis l separates the triangle from the box. Degenerate axes
// never separate.
func separates(l types.Vec3, verts [3]types.Vec3, half types.Vec3) bool {
	if l.Dot(l) < 1e-24 {
		return false
	}

	p0, p1, p2 := l.Dot(verts[0]), l.Dot(verts[1]), l.Dot(verts[2])
	r := half[0]*math.Abs(l[0]) + half[1]*math.Abs(l[1]) + half[2]*math.Abs(l[2])

	return math.Min(p0, math.Min(p1, p2)) > r || math.Max(p0, math.Max(p1, p2)) < -r
}

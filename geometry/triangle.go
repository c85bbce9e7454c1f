package geometry

import (
	"math"

	"github.com/achilleasa/gridtrace/types"
)

// Barycentric weights that undershoot zero by less than this amount are
// still treated as inside the triangle so rays hitting a shared edge do not
// slip between two faces.
const baryTolerance = 1e-9

// A ray/triangle intersection.
type Hit struct {
	// The ray parameter.
	T float64

	// World space intersection point.
	Point types.Vec3

	// Barycentric weights for the first, second and third vertex. They
	// are non-negative and sum to 1.
	Bary types.Vec3
}

// Intersect a ray with the triangle (v0, v1, v2). A hit is reported only
// if it lies strictly further than RayEpsilon along the ray.
func IntersectTriangle(r Ray, v0, v1, v2 types.Vec3) (Hit, bool) {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	nn := n.Dot(n)
	if nn < 1e-24 {
		return Hit{}, false
	}

	t, ok := IntersectPlane(r, v0, n)
	if !ok || t <= RayEpsilon {
		return Hit{}, false
	}

	p := r.At(t)

	// Signed sub-triangle areas relative to the full triangle
	u := v1.Sub(p).Cross(v2.Sub(p)).Dot(n) / nn
	v := v2.Sub(p).Cross(v0.Sub(p)).Dot(n) / nn
	w := 1.0 - u - v
	if u < -baryTolerance || v < -baryTolerance || w < -baryTolerance {
		return Hit{}, false
	}

	u, v, w = math.Max(u, 0), math.Max(v, 0), math.Max(w, 0)
	sum := u + v + w

	return Hit{
		T:     t,
		Point: p,
		Bary:  types.Vec3{u / sum, v / sum, w / sum},
	}, true
}

// Get the unit normal of the triangle (v0, v1, v2) using counter-clockwise
// winding. Degenerate triangles return the zero vector.
func TriangleNormal(v0, v1, v2 types.Vec3) types.Vec3 {
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// Get the bounding box of a triangle.
func TriangleBounds(v0, v1, v2 types.Vec3) AABB {
	return AABB{
		Min: types.MinVec3(types.MinVec3(v0, v1), v2),
		Max: types.MaxVec3(types.MaxVec3(v0, v1), v2),
	}
}

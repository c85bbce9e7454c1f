package geometry

import (
	"math"

	"github.com/achilleasa/gridtrace/types"
)

// An axis-aligned bounding box.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// An inverted box that any Union call will replace.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: types.Vec3{inf, inf, inf},
		Max: types.Vec3{-inf, -inf, -inf},
	}
}

// Returns true if the box has not been grown by any point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Grow the box so it includes point p.
func (b AABB) Union(p types.Vec3) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Grow the box so it includes box o.
func (b AABB) UnionBox(o AABB) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, o.Min),
		Max: types.MaxVec3(b.Max, o.Max),
	}
}

// Grow the box by eps along every axis in both directions.
func (b AABB) Expand(eps float64) AABB {
	e := types.Vec3{eps, eps, eps}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b AABB) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Size() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Check whether p lies inside the box grown by eps.
func (b AABB) Contains(p types.Vec3, eps float64) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis]-eps || p[axis] > b.Max[axis]+eps {
			return false
		}
	}
	return true
}

// Check whether two boxes overlap. Touching boxes overlap.
func (b AABB) Overlaps(o AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] > o.Max[axis] || b.Max[axis] < o.Min[axis] {
			return false
		}
	}
	return true
}

// Find the face through which a ray travelling inside the box leaves it.
// It returns the exit axis, the step direction along that axis (+1 or -1)
// and the ray parameter at the exit plane. The call fails if the ray
// direction is zero.
func (b AABB) ExitAxis(r Ray) (axis int, step int, t float64, ok bool) {
	t = math.Inf(1)
	for a := 0; a < 3; a++ {
		var tPlane float64
		var s int
		switch {
		case r.Dir[a] > 0:
			tPlane = (b.Max[a] - r.Origin[a]) / r.Dir[a]
			s = 1
		case r.Dir[a] < 0:
			tPlane = (b.Min[a] - r.Origin[a]) / r.Dir[a]
			s = -1
		default:
			continue
		}

		if tPlane < t {
			t, axis, step, ok = tPlane, a, s, true
		}
	}

	return axis, step, t, ok
}

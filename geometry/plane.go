package geometry

import (
	"math"

	"github.com/achilleasa/gridtrace/types"
)

// Intersect a ray with the plane passing through point with the given
// normal. Rays parallel to the plane never hit it. The returned t may be
// negative; callers decide which side of the origin they accept.
func IntersectPlane(r Ray, point, normal types.Vec3) (float64, bool) {
	denom := normal.Dot(r.Dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	return normal.Dot(point.Sub(r.Origin)) / denom, true
}

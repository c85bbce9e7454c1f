package geometry

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/achilleasa/gridtrace/types"
	"github.com/stretchr/testify/require"
)

func TestIntersectTriangleAtKnownPoint(t *testing.T) {
	v0 := types.Vec3{0, 0, 0}
	v1 := types.Vec3{2, 0, 0}
	v2 := types.Vec3{0, 2, 0}

	target := types.Vec3{0.5, 0.25, 0}
	origin := types.Vec3{3, -1, 5}
	r := Ray{Origin: origin, Dir: target.Sub(origin).Normalize()}

	hit, ok := IntersectTriangle(r, v0, v1, v2)
	require.True(t, ok)
	require.InDelta(t, target[0], hit.Point[0], 1e-6)
	require.InDelta(t, target[1], hit.Point[1], 1e-6)
	require.InDelta(t, target[2], hit.Point[2], 1e-6)
	require.InDelta(t, 1.0, hit.Bary[0]+hit.Bary[1]+hit.Bary[2], 1e-9)
	for i := 0; i < 3; i++ {
		require.GreaterOrEqual(t, hit.Bary[i], 0.0)
	}

	// Reconstruct the point from the weights
	p := v0.Mul(hit.Bary[0]).Add(v1.Mul(hit.Bary[1])).Add(v2.Mul(hit.Bary[2]))
	require.InDelta(t, 0, p.Sub(target).Len(), 1e-6)
}

func TestIntersectTriangleRejects(t *testing.T) {
	v0 := types.Vec3{0, 0, 0}
	v1 := types.Vec3{1, 0, 0}
	v2 := types.Vec3{0, 1, 0}

	type spec struct {
		descr string
		ray   Ray
	}
	specs := []spec{
		{"outside", Ray{Origin: types.Vec3{0.8, 0.8, 1}, Dir: types.Vec3{0, 0, -1}}},
		{"behind", Ray{Origin: types.Vec3{0.2, 0.2, 1}, Dir: types.Vec3{0, 0, 1}}},
		{"parallel", Ray{Origin: types.Vec3{-1, 0.2, 0}, Dir: types.Vec3{1, 0, 0}}},
		{"self intersection", Ray{Origin: types.Vec3{0.2, 0.2, 0}, Dir: types.Vec3{0, 0, -1}}},
	}

	for _, s := range specs {
		_, ok := IntersectTriangle(s.ray, v0, v1, v2)
		require.False(t, ok, s.descr)
	}

	_, ok := IntersectTriangle(Ray{Origin: types.Vec3{0, 0, 1}, Dir: types.Vec3{0, 0, -1}}, v0, v0, v2)
	require.False(t, ok, "degenerate triangle")
}

func TestIntersectTriangleSharedEdge(t *testing.T) {
	// Two triangles forming a quad; a ray through the shared diagonal must
	// hit at least one of them.
	a := types.Vec3{0, 0, 0}
	b := types.Vec3{1, 0, 0}
	c := types.Vec3{1, 1, 0}
	d := types.Vec3{0, 1, 0}

	r := Ray{Origin: types.Vec3{0.5, 0.5, 1}, Dir: types.Vec3{0, 0, -1}}
	_, ok1 := IntersectTriangle(r, a, b, c)
	_, ok2 := IntersectTriangle(r, a, c, d)
	require.True(t, ok1 || ok2)
}

func TestAABBExitAxis(t *testing.T) {
	box := AABB{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{1, 1, 1}}

	axis, step, tExit, ok := box.ExitAxis(Ray{Origin: types.Vec3{0.5, 0.5, 0.5}, Dir: types.Vec3{0, -1, 0.25}})
	require.True(t, ok)
	require.Equal(t, 1, axis)
	require.Equal(t, -1, step)
	require.InDelta(t, 0.5, tExit, 1e-12)

	axis, step, _, ok = box.ExitAxis(Ray{Origin: types.Vec3{0.9, 0.5, 0.5}, Dir: types.Vec3{1, 0, 1}})
	require.True(t, ok)
	require.Equal(t, 0, axis)
	require.Equal(t, 1, step)

	_, _, _, ok = box.ExitAxis(Ray{Origin: types.Vec3{0.5, 0.5, 0.5}})
	require.False(t, ok)
}

func TestAABBHelpers(t *testing.T) {
	box := EmptyAABB()
	require.True(t, box.IsEmpty())

	box = box.Union(types.Vec3{1, -1, 2}).Union(types.Vec3{-1, 1, 0})
	require.False(t, box.IsEmpty())
	require.Equal(t, types.Vec3{-1, -1, 0}, box.Min)
	require.Equal(t, types.Vec3{1, 1, 2}, box.Max)
	require.Equal(t, types.Vec3{0, 0, 1}, box.Center())

	require.True(t, box.Contains(types.Vec3{1, 1, 2}, 0))
	require.False(t, box.Contains(types.Vec3{1.1, 1, 2}, 0))
	require.True(t, box.Contains(types.Vec3{1.1, 1, 2}, 0.2))

	other := AABB{Min: types.Vec3{1, 1, 2}, Max: types.Vec3{3, 3, 3}}
	require.True(t, box.Overlaps(other))
	other.Min[0] = 1.01
	require.False(t, box.Overlaps(other))
}

func TestIntersectPlane(t *testing.T) {
	r := Ray{Origin: types.Vec3{0, 0, 5}, Dir: types.Vec3{0, 0, -2}}
	tHit, ok := IntersectPlane(r, types.Vec3{0, 0, 1}, types.Vec3{0, 0, 1})
	require.True(t, ok)
	require.InDelta(t, 2.0, tHit, 1e-12)

	_, ok = IntersectPlane(Ray{Dir: types.Vec3{1, 0, 0}}, types.Vec3{}, types.Vec3{0, 0, 1})
	require.False(t, ok)
}

func TestTriangleBoxOverlapCases(t *testing.T) {
	center := types.Vec3{}
	half := types.Vec3{1, 1, 1}

	type spec struct {
		descr   string
		a, b, c types.Vec3
		exp     bool
	}
	specs := []spec{
		{"inside", types.Vec3{0, 0, 0}, types.Vec3{0.5, 0, 0}, types.Vec3{0, 0.5, 0}, true},
		{"far away", types.Vec3{5, 5, 5}, types.Vec3{6, 5, 5}, types.Vec3{5, 6, 5}, false},
		{"encloses box section", types.Vec3{-10, -10, 0}, types.Vec3{10, -10, 0}, types.Vec3{0, 10, 0}, true},
		{"touches face", types.Vec3{1, 0, 0}, types.Vec3{2, 0, 0}, types.Vec3{2, 1, 0}, true},
		{"separated by triangle plane", types.Vec3{3.5, 0, 0}, types.Vec3{0, 3.5, 0}, types.Vec3{0, 0, 3.5}, false},
		{"separated by edge axis", types.Vec3{2, 0.2, 0}, types.Vec3{0.2, 2, 0}, types.Vec3{2, 2, 0}, false},
	}

	for _, s := range specs {
		require.Equal(t, s.exp, TriangleBoxOverlap(center, half, s.a, s.b, s.c), s.descr)
	}
}

func TestTriangleBoxOverlapMatchesClipping(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	center := types.Vec3{0.25, -0.5, 0.1}
	half := types.Vec3{0.5, 0.75, 0.3}

	randPoint := func() types.Vec3 {
		return types.Vec3{
			center[0] + (rng.Float64()*2-1)*2,
			center[1] + (rng.Float64()*2-1)*2,
			center[2] + (rng.Float64()*2-1)*2,
		}
	}

	var overlapping int
	for i := 0; i < 5000; i++ {
		a, b, c := randPoint(), randPoint(), randPoint()
		exp := clipOverlap(center, half, a, b, c)
		if exp {
			overlapping++
		}
		require.Equal(t, exp, TriangleBoxOverlap(center, half, a, b, c), "triangle %d: %v %v %v", i, a, b, c)
	}

	// Make sure both outcomes were exercised
	require.Greater(t, overlapping, 100)
	require.Less(t, overlapping, 4900)
}

// Reference overlap test: clip the triangle against each of the 6 box
// planes and check whether anything survives.
func clipOverlap(center, half types.Vec3, a, b, c types.Vec3) bool {
	poly := []types.Vec3{a, b, c}
	for axis := 0; axis < 3; axis++ {
		for _, sign := range []float64{-1, 1} {
			limit := center[axis] + sign*half[axis]
			inside := func(p types.Vec3) bool {
				if sign < 0 {
					return p[axis] >= limit
				}
				return p[axis] <= limit
			}

			var out []types.Vec3
			for i := range poly {
				cur := poly[i]
				prev := poly[(i+len(poly)-1)%len(poly)]
				curIn, prevIn := inside(cur), inside(prev)
				if curIn != prevIn {
					s := (limit - prev[axis]) / (cur[axis] - prev[axis])
					out = append(out, prev.Add(cur.Sub(prev).Mul(s)))
				}
				if curIn {
					out = append(out, cur)
				}
			}
			if len(out) == 0 {
				return false
			}
			poly = out
		}
	}
	return len(poly) > 0 && !math.IsNaN(poly[0][0])
}

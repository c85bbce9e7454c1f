package tracer

import (
	"math"
	"testing"
	"time"

	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
	"github.com/achilleasa/gridtrace/voxel"
	"github.com/stretchr/testify/require"
)

func tri(a, b, c types.Vec3) scene.Face {
	n := geometry.TriangleNormal(a, b, c)
	return scene.Face{
		Vertices: [3]types.Vec3{a, b, c},
		Normals:  [3]types.Vec3{n, n, n},
	}
}

// A triangle on the z = 0 plane facing +Z.
func floorFace() scene.Face {
	return tri(types.XYZ(-1, -1, 0), types.XYZ(1, -1, 0), types.XYZ(0, 1, 0))
}

func shadeAt(t *testing.T, sc *scene.Scene, r geometry.Ray) types.Vec3 {
	g := voxel.FromScene(sc, 4, 0)
	sh := NewShader(sc, 0, types.XYZ(0.1, 0.2, 0.3))
	return sh.Trace(g.NewWalker(), r)
}

func TestShaderDirectionalLight(t *testing.T) {
	mat := &scene.Material{Diffuse: types.XYZ(0.5, 0.25, 1)}
	lights := []scene.Light{
		{Kind: scene.DirectionalLight, Color: types.XYZ(1, 1, 1), Intensity: 0.8, Direction: types.XYZ(0, 0, 1)},
	}
	sc := scene.New([]*scene.Mesh{scene.NewMesh("floor", []scene.Face{floorFace()}, mat)}, lights, nil)

	color := shadeAt(t, sc, geometry.Ray{Origin: types.XYZ(0, 0, 5), Dir: types.XYZ(0, 0, -1)})
	require.InDeltaSlice(t, []float64{0.4, 0.2, 0.8}, color[:], 1e-9)

	// Misses get the background color
	color = shadeAt(t, sc, geometry.Ray{Origin: types.XYZ(5, 5, 5), Dir: types.XYZ(0, 0, -1)})
	require.Equal(t, types.XYZ(0.1, 0.2, 0.3), color)
}

func TestShaderTwoSided(t *testing.T) {
	mat := &scene.Material{Diffuse: types.XYZ(1, 1, 1)}
	lights := []scene.Light{
		{Kind: scene.DirectionalLight, Color: types.XYZ(1, 1, 1), Intensity: 1, Direction: types.XYZ(0, 0, -1)},
	}
	sc := scene.New([]*scene.Mesh{scene.NewMesh("floor", []scene.Face{floorFace()}, mat)}, lights, nil)

	color := shadeAt(t, sc, geometry.Ray{Origin: types.XYZ(0, 0, -5), Dir: types.XYZ(0, 0, 1)})
	require.InDeltaSlice(t, []float64{1, 1, 1}, color[:], 1e-9)
}

func TestShaderAmbientAndSpecular(t *testing.T) {
	mat := &scene.Material{
		Ambient:   types.XYZ(0.1, 0.1, 0.1),
		Diffuse:   types.XYZ(0.5, 0.5, 0.5),
		Specular:  types.XYZ(1, 0.5, 0),
		Shininess: 10,
	}
	lights := []scene.Light{
		{Kind: scene.AmbientLight, Color: types.XYZ(1, 1, 1), Intensity: 0.5},
		{Kind: scene.DirectionalLight, Color: types.XYZ(1, 1, 1), Intensity: 1, Direction: types.XYZ(0, 0, 1)},
	}
	sc := scene.New([]*scene.Mesh{scene.NewMesh("floor", []scene.Face{floorFace()}, mat)}, lights, nil)

	// Head-on view of a head-on light: full diffuse and full specular
	color := shadeAt(t, sc, geometry.Ray{Origin: types.XYZ(0, 0, 5), Dir: types.XYZ(0, 0, -1)})
	require.InDeltaSlice(t, []float64{0.05 + 0.5 + 1, 0.05 + 0.5 + 0.5, 0.05 + 0.5}, color[:], 1e-9)

	// Lights behind the surface contribute nothing but the ambient term
	sc.Lights[1].Direction = types.XYZ(0, 0, -1)
	color = shadeAt(t, sc, geometry.Ray{Origin: types.XYZ(0, 0, 5), Dir: types.XYZ(0, 0, -1)})
	require.InDeltaSlice(t, []float64{0.05, 0.05, 0.05}, color[:], 1e-9)
}

func TestShaderPointLightShadow(t *testing.T) {
	mat := &scene.Material{Diffuse: types.XYZ(1, 1, 1)}
	occluder := tri(types.XYZ(-2, -2, 2), types.XYZ(2, -2, 2), types.XYZ(0, 2, 2))
	meshes := []*scene.Mesh{
		scene.NewMesh("floor", []scene.Face{floorFace()}, mat),
		scene.NewMesh("occluder", []scene.Face{occluder}, mat),
	}

	// Start between the floor and the occluder so the primary ray hits the floor
	r := geometry.Ray{Origin: types.XYZ(0, 0, 1), Dir: types.XYZ(0, 0, -1)}
	shade := func(lightPos types.Vec3) types.Vec3 {
		lights := []scene.Light{
			{Kind: scene.PointLight, Color: types.XYZ(1, 1, 1), Intensity: 1, Position: lightPos},
		}
		return shadeAt(t, scene.New(meshes, lights, nil), r)
	}

	control := shade(types.XYZ(0, 0, 1.5))
	require.InDeltaSlice(t, []float64{1, 1, 1}, control[:], 1e-9)

	shadowed := shade(types.XYZ(0, 0, 4))
	require.Less(t, shadowed[0], control[0])
	require.Equal(t, types.Vec3{}, shadowed)
}

func TestSamplerOffsets(t *testing.T) {
	s := NewSampler(Uniform, 1, 0)
	require.Equal(t, []types.Vec2{{0.5, 0.5}}, s.Offsets(0, nil))

	s = NewSampler(Uniform, 2, 0)
	third := 1.0 / 3.0
	offsets := s.Offsets(7, nil)
	require.Len(t, offsets, 4)
	require.InDeltaSlice(t, []float64{third, third}, offsets[0][:], 1e-12)
	require.InDeltaSlice(t, []float64{2 * third, 2 * third}, offsets[3][:], 1e-12)

	for _, st := range []SamplingType{Jittered, Random} {
		s = NewSampler(st, 3, 42)
		first := s.Offsets(11, nil)
		require.Len(t, first, 9)
		for index, off := range first {
			require.True(t, off[0] >= 0 && off[0] < 1 && off[1] >= 0 && off[1] < 1, "%s offset %v out of range", st, off)
			if st == Jittered {
				cx, cy := index%3, index/3
				require.Equal(t, cx, int(off[0]*3), "%s offset %v not in its cell", st, off)
				require.Equal(t, cy, int(off[1]*3), "%s offset %v not in its cell", st, off)
			}
		}

		// The stream depends only on the seed and the pixel
		s.Offsets(12, nil)
		again := NewSampler(st, 3, 42).Offsets(11, nil)
		require.Equal(t, first, again)
		require.Equal(t, first, s.Offsets(11, nil))
		require.NotEqual(t, first, s.Offsets(12, nil))
	}

	// Adaptive sampling falls back to the uniform pattern
	require.Equal(t, NewSampler(Uniform, 2, 0).Offsets(0, nil), NewSampler(Adaptive, 2, 0).Offsets(0, nil))
	require.Equal(t, 1, NewSampler(Uniform, 0, 0).Count())
}

func TestParseSamplingType(t *testing.T) {
	type spec struct {
		in     string
		exp    SamplingType
		expErr bool
	}
	specs := []spec{
		{"uniform", Uniform, false},
		{"Jittered", Jittered, false},
		{" random ", Random, false},
		{"adaptive", Adaptive, false},
		{"stratified", Uniform, true},
	}

	for index, s := range specs {
		st, err := ParseSamplingType(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if st != s.exp {
			t.Fatalf("[spec %d] expected %s; got %s", index, s.exp, st)
		}
	}

	var st SamplingType
	require.NoError(t, st.UnmarshalText([]byte("random")))
	require.Equal(t, Random, st)
	text, err := st.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "random", string(text))
	require.Error(t, st.UnmarshalText([]byte("bogus")))
}

func TestTimeStatsMerge(t *testing.T) {
	samples := []time.Duration{3, 9, 4, 12, 7, 1, 30, 2}
	var all, left, right TimeStats
	for index, d := range samples {
		d *= time.Millisecond
		all.Add(d)
		if index < 3 {
			left.Add(d)
		} else {
			right.Add(d)
		}
	}

	var sum, sq float64
	for _, d := range samples {
		sum += (d * time.Millisecond).Seconds()
	}
	mean := sum / float64(len(samples))
	for _, d := range samples {
		delta := (d * time.Millisecond).Seconds() - mean
		sq += delta * delta
	}
	stdDev := math.Sqrt(sq / float64(len(samples)))

	require.InDelta(t, mean, all.Mean, 1e-12)
	require.InDelta(t, stdDev, all.StdDev(), 1e-12)

	var merged TimeStats
	merged.Merge(left)
	merged.Merge(right)
	merged.Merge(TimeStats{})
	require.Equal(t, all.N, merged.N)
	require.InDelta(t, mean, merged.Mean, 1e-12)
	require.InDelta(t, stdDev, merged.StdDev(), 1e-12)
	require.Zero(t, TimeStats{}.StdDev())
}

func TestTracerChunk(t *testing.T) {
	mat := &scene.Material{Diffuse: types.XYZ(1, 0.5, 0)}
	lights := []scene.Light{
		{Kind: scene.DirectionalLight, Color: types.XYZ(1, 1, 1), Intensity: 1, Direction: types.XYZ(0, 0, 1)},
	}
	cam := scene.NewCamera()
	cam.Eye = types.XYZ(0, 0, 5)
	cam.FilmWidth = 3
	sc := scene.New([]*scene.Mesh{scene.NewMesh("floor", []scene.Face{floorFace()}, mat)}, lights, cam)

	g := voxel.FromScene(sc, 2, 0)
	sh := NewShader(sc, 0, types.XYZ(0, 0, 1))
	tr := New("worker-0", g, sh, cam.ImagePlane(3, 3), NewSampler(Uniform, 1, 0))
	require.Equal(t, "worker-0", tr.Id())

	frame := make([]uint8, 4*9)
	tr.Trace(Chunk{Start: 3, End: 6}, frame)

	// Only the center pixel sees the triangle
	require.Equal(t, []uint8{0, 0, 255, 255}, frame[12:16])
	require.Equal(t, []uint8{255, 128, 0, 255}, frame[16:20])
	require.Equal(t, []uint8{0, 0, 255, 255}, frame[20:24])
	require.Equal(t, make([]uint8, 12), frame[:12])

	stats := tr.Stats()
	require.Equal(t, 1, stats.Chunks)
	require.Equal(t, 3, stats.Pixels)
	require.Equal(t, uint64(3), stats.PixelTime.N)
	// Three primary rays plus one shadow ray
	require.Equal(t, uint64(4), stats.Walker.Rays)
	require.Equal(t, uint64(1), stats.Walker.RayHits)
}

func TestEncodeRGBA(t *testing.T) {
	dst := make([]uint8, 4)
	EncodeRGBA(types.XYZ(-1, 0.5, 2), dst)
	require.Equal(t, []uint8{0, 128, 255, 255}, dst)
}

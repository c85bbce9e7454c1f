package voxel

import (
	"math"
	"time"

	"github.com/achilleasa/gridtrace/geometry"
	"github.com/achilleasa/gridtrace/log"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
)

const (
	// Cells are never thinner than this along any axis. Flat scenes get a
	// grid of this thickness centered on them.
	MinCellSize = 1e-4

	// Default tolerance added to the voxel half-size when testing faces
	// for overlap and when accepting hits inside a voxel.
	DefaultOverlapEpsilon = 1e-6
)

var logger = log.New("voxel grid")

// The faces of a single mesh that overlap a voxel.
type MeshFaces struct {
	Mesh  int
	Faces []int
}

// A grid cell.
type Voxel struct {
	Bounds geometry.AABB

	// Overlapping faces grouped by mesh in ascending mesh index order.
	Meshes []MeshFaces
}

// Returns true if no face overlaps this voxel.
func (v *Voxel) IsEmpty() bool {
	return len(v.Meshes) == 0
}

// A uniform grid of N x N x N voxels covering the scene.
type Grid struct {
	// Voxels per dimension.
	N int

	// Per-axis cell size.
	CellSize types.Vec3

	// The grid bounds. They equal the scene bounds unless an axis is
	// thinner than N * MinCellSize.
	Bounds geometry.AABB

	// Voxels in Flatten order.
	Voxels []Voxel

	meshes  []*scene.Mesh
	eps     float64
	home    [3]int
	hasHome bool
}

// Build a grid for a scene. The camera eye selects the home voxel.
func FromScene(sc *scene.Scene, n int, eps float64) *Grid {
	return Build(sc.BBox(), sc.Meshes, n, eps, sc.Camera.Eye)
}

// Partition bbox into n^3 voxels and register every face with the voxels
// it overlaps. Counts below 1 are clamped to 1 and a non-positive eps is
// replaced by DefaultOverlapEpsilon. If eye lies inside the grid, the voxel
// containing it is cached as the home voxel.
func Build(bbox geometry.AABB, meshes []*scene.Mesh, n int, eps float64, eye types.Vec3) *Grid {
	start := time.Now()
	if n < 1 {
		logger.Warningf("invalid voxel count %d; clamping to 1", n)
		n = 1
	}
	if eps <= 0 {
		eps = DefaultOverlapEpsilon
	}

	g := &Grid{
		N:      n,
		meshes: meshes,
		eps:    eps,
		Voxels: make([]Voxel, n*n*n),
	}
	g.setupBounds(bbox)

	for flat := range g.Voxels {
		g.Voxels[flat].Bounds = g.cellBounds(Unflatten(n, flat))
	}

	refs := 0
	for meshIndex, mesh := range meshes {
		if len(mesh.Faces) == 0 || !mesh.BBox().Overlaps(g.Bounds.Expand(eps)) {
			continue
		}
		for faceIndex := range mesh.Faces {
			refs += g.insertFace(meshIndex, faceIndex, &mesh.Faces[faceIndex])
		}
	}

	if g.Bounds.Contains(eye, 0) {
		g.home, g.hasHome = g.cellOf(eye), true
	}

	logger.Infof(
		"built %dx%dx%d grid with %d face references (%d non-empty voxels) in %d ms",
		n, n, n, refs, g.NonEmpty(), time.Since(start).Nanoseconds()/1e6,
	)
	return g
}

// Calculate grid bounds and cell sizes.
func (g *Grid) setupBounds(bbox geometry.AABB) {
	g.Bounds = bbox
	for axis := 0; axis < 3; axis++ {
		span := bbox.Max[axis] - bbox.Min[axis]
		cell := span / float64(g.N)
		if cell < MinCellSize {
			cell = MinCellSize
			center := 0.5 * (bbox.Min[axis] + bbox.Max[axis])
			halfSpan := 0.5 * cell * float64(g.N)
			g.Bounds.Min[axis] = center - halfSpan
			g.Bounds.Max[axis] = center + halfSpan
		}
		g.CellSize[axis] = cell
	}
}

// Get the bounds of the cell at idx. The last cell along each axis ends
// exactly at the grid bounds.
func (g *Grid) cellBounds(idx [3]int) geometry.AABB {
	var b geometry.AABB
	for axis := 0; axis < 3; axis++ {
		b.Min[axis] = g.Bounds.Min[axis] + float64(idx[axis])*g.CellSize[axis]
		if idx[axis] == g.N-1 {
			b.Max[axis] = g.Bounds.Max[axis]
		} else {
			b.Max[axis] = g.Bounds.Min[axis] + float64(idx[axis]+1)*g.CellSize[axis]
		}
	}
	return b
}

// Get the index of the cell along axis that contains coordinate c. Values
// outside the grid are clamped to the nearest cell.
func (g *Grid) axisIndex(axis int, c float64) int {
	i := int(math.Floor((c - g.Bounds.Min[axis]) / g.CellSize[axis]))
	if i < 0 {
		return 0
	}
	if i >= g.N {
		return g.N - 1
	}
	return i
}

// Get the indices of the cell containing p (clamped to the grid).
func (g *Grid) cellOf(p types.Vec3) [3]int {
	return [3]int{g.axisIndex(0, p[0]), g.axisIndex(1, p[1]), g.axisIndex(2, p[2])}
}

// Register a face with every voxel it overlaps and return the number of
// registrations. Only voxels within one cell of the face bounds are tested.
func (g *Grid) insertFace(meshIndex, faceIndex int, face *scene.Face) int {
	bounds := face.Bounds().Expand(g.eps)

	var lo, hi [3]int
	for axis := 0; axis < 3; axis++ {
		lo[axis] = g.axisIndex(axis, bounds.Min[axis]-g.CellSize[axis])
		hi[axis] = g.axisIndex(axis, bounds.Max[axis]+g.CellSize[axis])
	}

	inserted := 0
	var idx [3]int
	for idx[2] = lo[2]; idx[2] <= hi[2]; idx[2]++ {
		for idx[1] = lo[1]; idx[1] <= hi[1]; idx[1]++ {
			for idx[0] = lo[0]; idx[0] <= hi[0]; idx[0]++ {
				vox := &g.Voxels[Flatten(g.N, idx)]
				half := vox.Bounds.Size().Mul(0.5).Add(types.Vec3{g.eps, g.eps, g.eps})
				if !geometry.TriangleBoxOverlap(vox.Bounds.Center(), half, face.Vertices[0], face.Vertices[1], face.Vertices[2]) {
					continue
				}

				last := len(vox.Meshes) - 1
				if last < 0 || vox.Meshes[last].Mesh != meshIndex {
					vox.Meshes = append(vox.Meshes, MeshFaces{Mesh: meshIndex})
					last++
				}
				vox.Meshes[last].Faces = append(vox.Meshes[last].Faces, faceIndex)
				inserted++
			}
		}
	}
	return inserted
}

// Get the voxel at idx.
func (g *Grid) Voxel(idx [3]int) *Voxel {
	return &g.Voxels[Flatten(g.N, idx)]
}

// Get the cached voxel containing the camera eye.
func (g *Grid) Home() ([3]int, bool) {
	return g.home, g.hasHome
}

// Get the meshes the grid was built from.
func (g *Grid) Meshes() []*scene.Mesh {
	return g.meshes
}

// Get the overlap tolerance.
func (g *Grid) Epsilon() float64 {
	return g.eps
}

// Count voxels with at least one face.
func (g *Grid) NonEmpty() int {
	count := 0
	for i := range g.Voxels {
		if !g.Voxels[i].IsEmpty() {
			count++
		}
	}
	return count
}

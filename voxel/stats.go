package voxel

// Counters collected by a Walker. Each walker owns its counters so they
// can be updated without synchronization and merged once tracing ends.
type Stats struct {
	// Rays traced, including shadow rays.
	Rays uint64

	// Ray/triangle tests performed.
	IntersectionTests uint64

	// Ray/triangle tests that reported an intersection.
	IntersectionHits uint64

	// Rays that found a closest hit.
	RayHits uint64

	// Voxels visited.
	VoxelsTraversed uint64
}

// Add the counters of another walker.
func (s *Stats) Merge(other Stats) {
	s.Rays += other.Rays
	s.IntersectionTests += other.IntersectionTests
	s.IntersectionHits += other.IntersectionHits
	s.RayHits += other.RayHits
	s.VoxelsTraversed += other.VoxelsTraversed
}

func (s Stats) TestsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.IntersectionTests) / float64(s.Rays)
}

func (s Stats) VoxelsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.VoxelsTraversed) / float64(s.Rays)
}

// Get the percentage of intersection tests that reported a hit.
func (s Stats) HitRatio() float64 {
	if s.IntersectionTests == 0 {
		return 0
	}
	return 100 * float64(s.IntersectionHits) / float64(s.IntersectionTests)
}

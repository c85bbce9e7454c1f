package tracer

import (
	"math"
	"time"

	"github.com/achilleasa/gridtrace/voxel"
)

// Running mean and variance of a series of durations (in seconds) using
// Welford's algorithm.
type TimeStats struct {
	N    uint64
	Mean float64
	m2   float64
}

// Record a duration.
func (ts *TimeStats) Add(d time.Duration) {
	x := d.Seconds()
	ts.N++
	delta := x - ts.Mean
	ts.Mean += delta / float64(ts.N)
	ts.m2 += delta * (x - ts.Mean)
}

// Combine with the series collected by another worker.
func (ts *TimeStats) Merge(other TimeStats) {
	if other.N == 0 {
		return
	}
	if ts.N == 0 {
		*ts = other
		return
	}

	n := ts.N + other.N
	delta := other.Mean - ts.Mean
	ts.m2 += other.m2 + delta*delta*float64(ts.N)*float64(other.N)/float64(n)
	ts.Mean += delta * float64(other.N) / float64(n)
	ts.N = n
}

// Get the population standard deviation.
func (ts TimeStats) StdDev() float64 {
	if ts.N == 0 {
		return 0
	}
	return math.Sqrt(ts.m2 / float64(ts.N))
}

// Statistics collected by a single tracer.
type Stats struct {
	// The tracer id.
	Id string

	// Number of chunks and pixels processed.
	Chunks int
	Pixels int

	// Grid walker counters.
	Walker voxel.Stats

	// Per-pixel trace times.
	PixelTime TimeStats

	// Total time spent tracing chunks.
	BusyTime time.Duration
}

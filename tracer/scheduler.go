package tracer

import "sync"

// Chunks handed out by the scheduler shrink as the frame nears completion.
// Each worker should receive about this many chunks from the remaining range.
const chunksPerWorker = 4

// A contiguous range [Start, End) of flattened pixel indices.
type Chunk struct {
	Start int
	End   int
}

// Get the number of pixels in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// The ChunkScheduler splits the flattened pixel range of a frame into
// chunks that are handed out to workers on demand. Chunk sizes are derived
// from the amount of remaining work so that expensive regions of the frame
// do not leave workers idle near the end of the render.
//
// ChunkScheduler is safe for concurrent use.
type ChunkScheduler struct {
	mu       sync.Mutex
	next     int
	total    int
	workers  int
	minChunk int
}

// Create a scheduler for total pixels shared by the given number of
// workers. Worker and chunk counts below 1 are clamped to 1.
func NewChunkScheduler(total, workers, minChunk int) *ChunkScheduler {
	if workers < 1 {
		workers = 1
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if total < 0 {
		total = 0
	}
	return &ChunkScheduler{
		total:    total,
		workers:  workers,
		minChunk: minChunk,
	}
}

// Get the next chunk of work. The second return value is false once the
// whole range has been handed out.
//
// The chunk size for the remaining range R, W workers and a minimum chunk
// size C is max(C, R / (W * chunksPerWorker)).
func (sch *ChunkScheduler) Next() (Chunk, bool) {
	sch.mu.Lock()
	defer sch.mu.Unlock()

	remaining := sch.total - sch.next
	if remaining <= 0 {
		return Chunk{}, false
	}

	size := remaining / (sch.workers * chunksPerWorker)
	if size < sch.minChunk {
		size = sch.minChunk
	}
	if size > remaining {
		size = remaining
	}

	c := Chunk{Start: sch.next, End: sch.next + size}
	sch.next = c.End
	return c, true
}

// Get the number of pixels not yet handed out.
func (sch *ChunkScheduler) Remaining() int {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	return sch.total - sch.next
}

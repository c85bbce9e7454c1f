package tracer

import (
	"sort"
	"sync"
	"testing"
)

func TestChunkSchedulerSizes(t *testing.T) {
	type spec struct {
		total    int
		workers  int
		minChunk int
		expSizes []int
	}
	specs := []spec{
		// remaining / (workers * 4) with a floor of minChunk
		{100, 1, 10, []int{25, 18, 14, 10, 10, 10, 10, 3}},
		{10, 2, 4, []int{4, 4, 2}},
		{5, 0, 0, []int{1, 1, 1, 1, 1}},
		{0, 4, 16, nil},
	}

	for index, s := range specs {
		sch := NewChunkScheduler(s.total, s.workers, s.minChunk)
		var sizes []int
		next := 0
		for {
			c, ok := sch.Next()
			if !ok {
				break
			}
			if c.Start != next {
				t.Fatalf("[spec %d] expected chunk to start at %d; got %d", index, next, c.Start)
			}
			next = c.End
			sizes = append(sizes, c.Len())
		}

		if len(sizes) != len(s.expSizes) {
			t.Fatalf("[spec %d] expected chunk sizes %v; got %v", index, s.expSizes, sizes)
		}
		for i := range sizes {
			if sizes[i] != s.expSizes[i] {
				t.Fatalf("[spec %d] expected chunk sizes %v; got %v", index, s.expSizes, sizes)
			}
		}
		if sch.Remaining() != 0 {
			t.Fatalf("[spec %d] expected no remaining pixels; got %d", index, sch.Remaining())
		}
	}
}

func TestChunkSchedulerConcurrentCoverage(t *testing.T) {
	total := 10007
	workers := 8
	sch := NewChunkScheduler(total, workers, 3)

	var (
		mu     sync.Mutex
		chunks []Chunk
		wg     sync.WaitGroup
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				c, ok := sch.Next()
				if !ok {
					return
				}
				mu.Lock()
				chunks = append(chunks, c)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Start < chunks[j].Start })
	next := 0
	for _, c := range chunks {
		if c.Start != next || c.Len() < 1 {
			t.Fatalf("expected contiguous non-empty chunk starting at %d; got %+v", next, c)
		}
		next = c.End
	}
	if next != total {
		t.Fatalf("expected chunks to cover %d pixels; got %d", total, next)
	}
}

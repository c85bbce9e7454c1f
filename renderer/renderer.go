package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/gridtrace/log"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/tracer"
	"github.com/achilleasa/gridtrace/voxel"
	"github.com/google/uuid"
)

var logger = log.New("renderer")

// A Renderer produces frames of a scene. The voxel grid is rebuilt for every
// frame and discarded once the frame is complete.
type Renderer struct {
	scene *scene.Scene
	opts  Options

	mu     sync.Mutex
	report Report
}

// Create a renderer for a scene. Invalid option values are clamped.
func New(sc *scene.Scene, opts Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}

	opts = opts.Normalize()
	if opts.SupersamplingType == tracer.Adaptive {
		logger.Notice("adaptive supersampling is not available; using the uniform pattern")
	}

	return &Renderer{
		scene: sc,
		opts:  opts,
	}, nil
}

// Get the normalized render options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Get the diagnostics report for the last rendered frame.
func (r *Renderer) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report
}

// Render a frame. The frame is always fully initialized: if ctx is
// cancelled before all pixels are traced, the remaining pixels keep the
// background color and an error wrapping ErrInterrupted is returned along
// with the frame.
//
// The context is only checked between chunks.
func (r *Renderer) Render(ctx context.Context) (*Frame, error) {
	id := uuid.New().String()
	start := time.Now()
	opts := r.opts

	frame := newFrame(opts.Width, opts.Height, opts.Background)

	logger.Infof("[%s] building %d^3 voxel grid for %d polygons", id, opts.VoxelsPerDimension, r.scene.FaceCount())
	grid := voxel.FromScene(r.scene, opts.VoxelsPerDimension, opts.OverlapEpsilon)
	plane := r.scene.Camera.ImagePlane(opts.Width, opts.Height)
	shader := tracer.NewShader(r.scene, opts.ShadowRayEpsilon, opts.Background)
	prepTime := time.Since(start)

	pixelCount := opts.Width * opts.Height
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers > pixelCount {
		workers = pixelCount
	}

	logger.Infof("[%s] tracing %dx%d frame using %d workers", id, opts.Width, opts.Height, workers)
	renderStart := time.Now()
	sch := tracer.NewChunkScheduler(pixelCount, workers, opts.MinChunkSize)
	tracers := make([]*tracer.Tracer, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for index := range tracers {
		tr := tracer.New(
			fmt.Sprintf("worker-%d", index),
			grid, shader, plane,
			tracer.NewSampler(opts.SupersamplingType, opts.SupersamplingFactor, opts.Seed),
		)
		tracers[index] = tr

		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				c, ok := sch.Next()
				if !ok {
					return
				}
				tr.Trace(c, frame.Pix)
			}
		}()
	}
	wg.Wait()
	renderTime := time.Since(renderStart)

	stats := make([]tracer.Stats, len(tracers))
	for index, tr := range tracers {
		stats[index] = tr.Stats()
	}

	report := Report{
		RenderID:          id,
		Width:             opts.Width,
		Height:            opts.Height,
		Voxels:            grid.N,
		NonEmptyVoxels:    grid.NonEmpty(),
		SamplesPerPixel:   opts.SupersamplingFactor * opts.SupersamplingFactor,
		SupersamplingType: opts.SupersamplingType.String(),
		PrepTimeSeconds:   prepTime.Seconds(),
		RenderTimeSeconds: renderTime.Seconds(),
		TotalTimeSeconds:  time.Since(start).Seconds(),
		PolygonCount:      r.scene.FaceCount(),
	}
	report.collect(stats)

	r.mu.Lock()
	r.report = report
	r.mu.Unlock()

	if err := ctx.Err(); err != nil && sch.Remaining() > 0 {
		instrumentFrame(&report, "interrupted")
		logger.Warningf("[%s] render interrupted with %d pixels left", id, sch.Remaining())
		return frame, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	instrumentFrame(&report, "ok")
	logger.Noticef("[%s] rendered %dx%d frame in %d ms", id, opts.Width, opts.Height, time.Since(start).Nanoseconds()/1e6)
	return frame, nil
}

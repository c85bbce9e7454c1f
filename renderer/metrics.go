package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusLabel   = "status"
	stageLabel    = "stage"
	samplingLabel = "sampling"
)

var (
	framesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridtrace_frames_total",
		Help: "The number of rendered frames.",
	}, []string{
		statusLabel,
		samplingLabel,
	})

	raysTraced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridtrace_rays_total",
		Help: "The number of primary and shadow rays traced.",
	})

	intersectionTests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridtrace_intersection_tests_total",
		Help: "The number of ray/triangle intersection tests.",
	})

	voxelsTraversed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridtrace_voxels_traversed_total",
		Help: "The number of voxels visited by grid walks.",
	})

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridtrace_stage_duration_seconds",
		Help:    "The time spent in each render stage.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{
		stageLabel,
	})
)

func instrumentFrame(report *Report, status string) {
	framesRendered.With(prometheus.Labels{
		statusLabel:   status,
		samplingLabel: report.SupersamplingType,
	}).Inc()

	raysTraced.Add(float64(report.RayCount))
	intersectionTests.Add(float64(report.IntersectionTestCount))
	voxelsTraversed.Add(float64(report.VoxelsTraversedCount))

	stageLatency.With(prometheus.Labels{stageLabel: "prep"}).Observe(report.PrepTimeSeconds)
	stageLatency.With(prometheus.Labels{stageLabel: "render"}).Observe(report.RenderTimeSeconds)
}

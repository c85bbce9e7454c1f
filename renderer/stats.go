package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/achilleasa/gridtrace/tracer"
	"github.com/achilleasa/gridtrace/voxel"
	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/encoding/json"
)

type TracerStat struct {
	// The tracer id.
	Id string `json:"id"`

	// Chunks and pixels traced and the percentage of the frame they represent.
	Chunks       int     `json:"chunks"`
	Pixels       int     `json:"pixels"`
	FramePercent float64 `json:"frame_percent"`

	// Rays traced by this tracer, including shadow rays.
	Rays uint64 `json:"rays"`

	// Time spent tracing.
	BusySeconds float64 `json:"busy_seconds"`
}

// Diagnostics for a rendered frame.
type Report struct {
	RenderID string `json:"render_id"`

	Width             int    `json:"width"`
	Height            int    `json:"height"`
	Voxels            int    `json:"voxels_per_dimension"`
	NonEmptyVoxels    int    `json:"non_empty_voxels"`
	SamplesPerPixel   int    `json:"samples_per_pixel"`
	SupersamplingType string `json:"supersampling_type"`

	// Grid construction, pixel tracing and total wall time.
	PrepTimeSeconds   float64 `json:"prep_time_seconds"`
	RenderTimeSeconds float64 `json:"render_time_seconds"`
	TotalTimeSeconds  float64 `json:"total_time_seconds"`

	// Per-pixel trace time statistics (seconds).
	MeanTimePerPixel   float64 `json:"mean_time_per_pixel"`
	StdDevTimePerPixel float64 `json:"std_dev_time_per_pixel"`

	PolygonCount int `json:"polygon_count"`

	RayCount                    uint64  `json:"ray_count"`
	AvgIntersectionTestsPerRay  float64 `json:"avg_intersection_tests_per_ray"`
	AvgVoxelsTraversedPerRay    float64 `json:"avg_voxels_traversed_per_ray"`
	IntersectionTestCount       uint64  `json:"intersection_test_count"`
	IntersectionHitRatioPercent float64 `json:"intersection_hit_ratio_percent"`
	VoxelsTraversedCount        uint64  `json:"voxels_traversed_count"`

	// Individual tracer stats.
	Tracers []TracerStat `json:"tracers"`
}

// Reduce the per-tracer statistics into the report.
func (r *Report) collect(stats []tracer.Stats) {
	var (
		pixelTime tracer.TimeStats
		total     int
	)
	r.Tracers = r.Tracers[:0]
	for _, s := range stats {
		total += s.Pixels
	}

	var walker voxel.Stats
	for _, s := range stats {
		walker.Merge(s.Walker)
		pixelTime.Merge(s.PixelTime)

		var percent float64
		if total > 0 {
			percent = 100 * float64(s.Pixels) / float64(total)
		}
		r.Tracers = append(r.Tracers, TracerStat{
			Id:           s.Id,
			Chunks:       s.Chunks,
			Pixels:       s.Pixels,
			FramePercent: percent,
			Rays:         s.Walker.Rays,
			BusySeconds:  s.BusyTime.Seconds(),
		})
	}

	r.MeanTimePerPixel = pixelTime.Mean
	r.StdDevTimePerPixel = pixelTime.StdDev()
	r.RayCount = walker.Rays
	r.AvgIntersectionTestsPerRay = walker.TestsPerRay()
	r.AvgVoxelsTraversedPerRay = walker.VoxelsPerRay()
	r.IntersectionTestCount = walker.IntersectionTests
	r.IntersectionHitRatioPercent = walker.HitRatio()
	r.VoxelsTraversedCount = walker.VoxelsTraversed
}

// Render the report as a pair of text tables.
func (r *Report) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Chunks", "Pixels", "% of frame", "Rays", "Busy time"})
	for _, stat := range r.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.Chunks),
			fmt.Sprintf("%d", stat.Pixels),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%.3f s", stat.BusySeconds),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", fmt.Sprintf("%.3f s", r.RenderTimeSeconds)})
	table.Render()

	summary := tablewriter.NewWriter(&buf)
	summary.SetAutoFormatHeaders(false)
	summary.SetAutoWrapText(false)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.AppendBulk([][]string{
		{"Render id", r.RenderID},
		{"Frame size", fmt.Sprintf("%dx%d", r.Width, r.Height)},
		{"Grid", fmt.Sprintf("%d^3 (%d non-empty)", r.Voxels, r.NonEmptyVoxels)},
		{"Samples per pixel", fmt.Sprintf("%d (%s)", r.SamplesPerPixel, r.SupersamplingType)},
		{"Prep time", fmt.Sprintf("%.3f s", r.PrepTimeSeconds)},
		{"Render time", fmt.Sprintf("%.3f s", r.RenderTimeSeconds)},
		{"Total time", fmt.Sprintf("%.3f s", r.TotalTimeSeconds)},
		{"Mean time per pixel", fmt.Sprintf("%.3f us", 1e6*r.MeanTimePerPixel)},
		{"Std dev time per pixel", fmt.Sprintf("%.3f us", 1e6*r.StdDevTimePerPixel)},
		{"Polygon count", fmt.Sprintf("%d", r.PolygonCount)},
		{"Rays", fmt.Sprintf("%d", r.RayCount)},
		{"Avg intersection tests per ray", fmt.Sprintf("%.2f", r.AvgIntersectionTestsPerRay)},
		{"Avg voxels traversed per ray", fmt.Sprintf("%.2f", r.AvgVoxelsTraversedPerRay)},
		{"Intersection tests", fmt.Sprintf("%d", r.IntersectionTestCount)},
		{"Intersection hit ratio", fmt.Sprintf("%.2f %%", r.IntersectionHitRatioPercent)},
	})
	summary.Render()

	return buf.String()
}

// Write the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

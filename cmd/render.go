package cmd

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"time"

	"github.com/achilleasa/gridtrace/asset/reader"
	"github.com/achilleasa/gridtrace/renderer"
	"github.com/achilleasa/gridtrace/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
)

// Build render options from the optional config file and the command flags.
// Flags that are explicitly set override config file values. Without a
// config file the flag defaults apply.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	if cfgFile := ctx.String("config"); cfgFile != "" {
		var err error
		if opts, err = renderer.LoadOptions(cfgFile); err != nil {
			return opts, err
		}
	}

	override := func(name string) bool {
		return ctx.IsSet(name) || ctx.String("config") == ""
	}
	if override("width") {
		opts.Width = ctx.Int("width")
	}
	if override("height") {
		opts.Height = ctx.Int("height")
	}
	if override("voxels") {
		opts.VoxelsPerDimension = ctx.Int("voxels")
	}
	if override("supersampling") {
		opts.SupersamplingFactor = ctx.Int("supersampling")
	}
	if override("workers") {
		opts.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		opts.Seed = uint64(ctx.Int64("seed"))
	}
	if ctx.IsSet("shadow-eps") {
		opts.ShadowRayEpsilon = ctx.Float64("shadow-eps")
	}
	if ctx.IsSet("ss-type") {
		st, err := tracer.ParseSamplingType(ctx.String("ss-type"))
		if err != nil {
			return opts, err
		}
		opts.SupersamplingType = st
	}

	return opts, nil
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}
	if err = setupLogging(ctx, opts.LogLevel); err != nil {
		return err
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	if yaw, pitch := ctx.Float64("yaw"), ctx.Float64("pitch"); yaw != 0 || pitch != 0 {
		sc.Camera.Rotate(yaw, pitch)
	}
	logger.Infof("camera: %s", sc.Camera)

	r, err := renderer.New(sc, opts)
	if err != nil {
		return err
	}

	// Stop tracing on interrupt but still write out the partial frame
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frame, renderErr := r.Render(renderCtx)
	if renderErr != nil && !errors.Is(renderErr, renderer.ErrInterrupted) {
		return renderErr
	}

	// Display stats
	report := r.Report()
	logger.Noticef("frame statistics\n%s", report.Table())

	if err = writeFrame(frame, ctx.String("out")); err != nil {
		return err
	}

	if reportFile := ctx.String("report"); reportFile != "" {
		if err = writeReport(&report, reportFile); err != nil {
			return err
		}
	}

	if metricsFile := ctx.String("metrics-file"); metricsFile != "" {
		if err = prometheus.WriteToTextfile(metricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("could not write metrics: %w", err)
		}
		logger.Infof("wrote metrics to %s", metricsFile)
	}

	return renderErr
}

func writeFrame(frame *renderer.Frame, imgFile string) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, frame.Image()); err != nil {
		return fmt.Errorf("error encoding png file: %w", err)
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}

func writeReport(report *renderer.Report, reportFile string) error {
	f, err := os.Create(reportFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = report.WriteJSON(f); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	logger.Infof("wrote report to %s", reportFile)
	return nil
}

package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/gridtrace/tracer"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func newRenderContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("render", flag.ContinueOnError)
	set.String("config", "", "")
	set.Int("width", 512, "")
	set.Int("height", 512, "")
	set.Int("voxels", 16, "")
	set.Int("supersampling", 1, "")
	set.String("ss-type", "uniform", "")
	set.Float64("shadow-eps", 0, "")
	set.Int("workers", 0, "")
	set.Int64("seed", 0, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestRenderOptionsFromFlags(t *testing.T) {
	opts, err := renderOptions(newRenderContext(t, "-width", "64", "-ss-type", "random", "-seed", "7", "-shadow-eps", "0.01"))
	require.NoError(t, err)
	require.Equal(t, 64, opts.Width)
	require.Equal(t, 512, opts.Height)
	require.Equal(t, 16, opts.VoxelsPerDimension)
	require.Equal(t, tracer.Random, opts.SupersamplingType)
	require.Equal(t, uint64(7), opts.Seed)
	require.Equal(t, 0.01, opts.ShadowRayEpsilon)

	_, err = renderOptions(newRenderContext(t, "-ss-type", "bogus"))
	require.Error(t, err)
}

func TestRenderOptionsConfigOverrides(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("width: 300\nheight: 200\nvoxels_per_dimension: 32\n"), 0644))

	opts, err := renderOptions(newRenderContext(t, "-config", cfgFile, "-height", "100"))
	require.NoError(t, err)
	require.Equal(t, 300, opts.Width)
	require.Equal(t, 100, opts.Height)
	require.Equal(t, 32, opts.VoxelsPerDimension)
	require.Equal(t, 1, opts.SupersamplingFactor)

	_, err = renderOptions(newRenderContext(t, "-config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/achilleasa/gridtrace/tracer"
	"github.com/achilleasa/gridtrace/types"
	"github.com/achilleasa/gridtrace/voxel"
	"gopkg.in/yaml.v3"
)

type Options struct {
	// Frame dims.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Grid resolution and the tolerance used when assigning faces to voxels.
	VoxelsPerDimension int     `yaml:"voxels_per_dimension"`
	OverlapEpsilon     float64 `yaml:"overlap_epsilon"`

	// Each pixel is sampled SupersamplingFactor^2 times.
	SupersamplingFactor int                 `yaml:"supersampling_factor"`
	SupersamplingType   tracer.SamplingType `yaml:"supersampling_type"`

	// Offset applied to shadow ray origins to avoid self-shadowing.
	ShadowRayEpsilon float64 `yaml:"shadow_ray_epsilon"`

	// Color for pixels and samples that miss the scene.
	Background types.Vec3 `yaml:"background,flow"`

	// Number of tracing goroutines; 0 uses one per CPU.
	Workers int `yaml:"workers"`

	// The smallest number of pixels handed to a worker at a time.
	MinChunkSize int `yaml:"min_chunk_size"`

	// Seed for the jittered and random sampling patterns.
	Seed uint64 `yaml:"seed"`

	// Log verbosity (debug, info, notice, warning, error).
	LogLevel string `yaml:"log_level,omitempty"`
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		Width:               512,
		Height:              512,
		VoxelsPerDimension:  16,
		OverlapEpsilon:      voxel.DefaultOverlapEpsilon,
		SupersamplingFactor: 1,
		SupersamplingType:   tracer.Uniform,
		ShadowRayEpsilon:    tracer.DefaultShadowRayEpsilon,
		MinChunkSize:        64,
	}
}

// Return a copy of the options with every count clamped to at least 1 and
// non-positive tolerances replaced by their defaults. A Workers value of 0
// is kept and resolved when rendering.
func (o Options) Normalize() Options {
	clamp := func(name string, v *int) {
		if *v < 1 {
			logger.Warningf("invalid %s %d; clamping to 1", name, *v)
			*v = 1
		}
	}
	clamp("width", &o.Width)
	clamp("height", &o.Height)
	clamp("voxel count", &o.VoxelsPerDimension)
	clamp("supersampling factor", &o.SupersamplingFactor)
	clamp("min chunk size", &o.MinChunkSize)

	if o.Workers < 0 {
		o.Workers = 0
	}
	if o.OverlapEpsilon <= 0 {
		o.OverlapEpsilon = voxel.DefaultOverlapEpsilon
	}
	if o.ShadowRayEpsilon <= 0 {
		o.ShadowRayEpsilon = tracer.DefaultShadowRayEpsilon
	}
	if o.SupersamplingType > tracer.Adaptive {
		logger.Warningf("invalid supersampling type %d; using %s", o.SupersamplingType, tracer.Uniform)
		o.SupersamplingType = tracer.Uniform
	}
	return o
}

// Load options from a YAML file. Fields missing from the file keep their
// default values. Unknown fields are reported as errors.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("renderer: could not read options: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("renderer: could not parse options from %s: %w", path, err)
	}

	return opts, nil
}

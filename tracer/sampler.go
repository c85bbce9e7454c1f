package tracer

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/achilleasa/gridtrace/types"
)

// The pattern used to place supersamples inside a pixel.
type SamplingType uint8

const (
	// A regular M x M grid of sample points.
	Uniform SamplingType = iota

	// One random point inside each cell of an M x M grid.
	Jittered

	// M x M random points anywhere inside the pixel.
	Random

	// Reserved. Behaves like Uniform.
	Adaptive
)

var samplingTypeNames = [...]string{"uniform", "jittered", "random", "adaptive"}

func (st SamplingType) String() string {
	if int(st) < len(samplingTypeNames) {
		return samplingTypeNames[st]
	}
	return fmt.Sprintf("SamplingType(%d)", st)
}

// Parse a sampling type name. Names are case insensitive.
func ParseSamplingType(name string) (SamplingType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for index, n := range samplingTypeNames {
		if n == name {
			return SamplingType(index), nil
		}
	}
	return Uniform, fmt.Errorf("tracer: unknown sampling type %q", name)
}

func (st SamplingType) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

func (st *SamplingType) UnmarshalText(text []byte) error {
	parsed, err := ParseSamplingType(string(text))
	if err != nil {
		return err
	}
	*st = parsed
	return nil
}

// A Sampler generates the sample offsets for each pixel. Random patterns are
// seeded from the sampler seed and the pixel index so the offsets for a
// pixel do not depend on which worker traces it.
//
// Samplers are not safe for concurrent use.
type Sampler struct {
	Type SamplingType

	// Samples per pixel along each axis.
	Factor int

	seed uint64
	pcg  *rand.PCG
	rng  *rand.Rand
}

// Create a sampler. Factors below 1 are clamped to 1.
func NewSampler(st SamplingType, factor int, seed uint64) *Sampler {
	if factor < 1 {
		factor = 1
	}
	pcg := rand.NewPCG(seed, 0)
	return &Sampler{
		Type:   st,
		Factor: factor,
		seed:   seed,
		pcg:    pcg,
		rng:    rand.New(pcg),
	}
}

// Get the number of samples per pixel.
func (s *Sampler) Count() int {
	return s.Factor * s.Factor
}

// Fill dst with the sample offsets for a pixel. Offsets are in [0, 1)
// pixel units measured from the pixel's top-left corner. The returned
// slice reuses dst's storage when it is large enough.
func (s *Sampler) Offsets(pixel int, dst []types.Vec2) []types.Vec2 {
	dst = dst[:0]
	m := s.Factor
	if s.Type == Jittered || s.Type == Random {
		s.pcg.Seed(s.seed, uint64(pixel))
	}

	inv := 1.0 / float64(m)
	for sy := 0; sy < m; sy++ {
		for sx := 0; sx < m; sx++ {
			var off types.Vec2
			switch s.Type {
			case Jittered:
				off = types.XY((float64(sx)+s.rng.Float64())*inv, (float64(sy)+s.rng.Float64())*inv)
			case Random:
				off = types.XY(s.rng.Float64(), s.rng.Float64())
			default:
				off = types.XY(float64(sx+1)/float64(m+1), float64(sy+1)/float64(m+1))
			}
			dst = append(dst, off)
		}
	}
	return dst
}

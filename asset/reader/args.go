package reader

import (
	"fmt"
	"strconv"

	"github.com/achilleasa/gridtrace/types"
)

// A single non-empty, non-comment line of an OBJ or MTL file.
type statement struct {
	keyword string
	args    []string

	file string
	line int
}

func (s statement) where() string {
	return fmt.Sprintf("%s:%d", s.file, s.line)
}

// Parse the first n arguments as floats. Extra arguments are ignored.
func (s statement) floats(n int) ([]float64, error) {
	if len(s.args) < n {
		return nil, arityError(s.keyword, n, len(s.args))
	}

	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(s.args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%q argument %d: %w", s.keyword, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func (s statement) scalar() (float64, error) {
	v, err := s.floats(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (s statement) vec2() (types.Vec2, error) {
	v, err := s.floats(2)
	if err != nil {
		return types.Vec2{}, err
	}
	return types.XY(v[0], v[1]), nil
}

func (s statement) vec3() (types.Vec3, error) {
	v, err := s.floats(3)
	if err != nil {
		return types.Vec3{}, err
	}
	return types.XYZ(v[0], v[1], v[2]), nil
}

// Require exactly n arguments.
func (s statement) exactly(n int) error {
	if len(s.args) != n {
		return arityError(s.keyword, n, len(s.args))
	}
	return nil
}

func arityError(keyword string, want, got int) error {
	return fmt.Errorf("%q takes %d value(s); found %d", keyword, want, got)
}

// Map a 1-based (or negative, end-relative) OBJ index token onto a slot of a
// coordinate list holding count entries. Positive indices are shifted by base,
// the list length at the time the current file started parsing.
func resolveIndex(token string, count, base int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return -1, fmt.Errorf("bad index %q", token)
	}

	var slot int
	switch {
	case index < 0:
		slot = count + index
	case index > 0:
		slot = base + index - 1
	default:
		return -1, fmt.Errorf("index 0 is not valid")
	}

	if slot < 0 || slot >= count {
		return -1, fmt.Errorf("index %d outside of %d defined entries", index, count)
	}
	return slot, nil
}

// Package food generates the static attractant field agents steer toward.
// A field is produced once per run, either procedurally from the run's
// generator or supplied whole by the caller (for example decoded from an
// image), and never changes afterwards.
package food

import (
	"errors"
	"fmt"
)

var (
	// ErrImageRequired is returned when the image strategy is selected but no
	// field was supplied.
	ErrImageRequired = errors.New("food: image strategy requires a supplied field")
	// ErrDimensionMismatch is returned when a supplied field does not match
	// the simulation grid.
	ErrDimensionMismatch = errors.New("food: field dimensions do not match grid")
	// ErrUnknownStrategy is returned for strategy values or names outside the
	// defined set.
	ErrUnknownStrategy = errors.New("food: unknown strategy")
	// ErrInvalidParams is returned for negative density or non-positive grid
	// dimensions.
	ErrInvalidParams = errors.New("food: invalid parameters")
)

// Field is a W×H attractant grid with values in [0,1]. R, G and B are
// optional parallel color channels in [0,1]; they are either all set or all
// nil.
type Field struct {
	W, H  int
	Value []float32
	R     []float32
	G     []float32
	B     []float32
}

// NewField creates an all-zero field without color channels.
func NewField(w, h int) *Field {
	return &Field{W: w, H: h, Value: make([]float32, w*h)}
}

// HasColor reports whether the color channels are present.
func (f *Field) HasColor() bool {
	return f.R != nil && f.G != nil && f.B != nil
}

// Validate checks that f matches a w×h grid, including channel lengths.
func (f *Field) Validate(w, h int) error {
	if f.W != w || f.H != h {
		return fmt.Errorf("%w: field is %dx%d, grid is %dx%d", ErrDimensionMismatch, f.W, f.H, w, h)
	}
	n := w * h
	if len(f.Value) != n {
		return fmt.Errorf("%w: value channel has %d cells, want %d", ErrDimensionMismatch, len(f.Value), n)
	}
	if f.R != nil || f.G != nil || f.B != nil {
		if len(f.R) != n || len(f.G) != n || len(f.B) != n {
			return fmt.Errorf("%w: color channels must all have %d cells", ErrDimensionMismatch, n)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := &Field{W: f.W, H: f.H, Value: cloneSlice(f.Value)}
	if f.HasColor() {
		c.R = cloneSlice(f.R)
		c.G = cloneSlice(f.G)
		c.B = cloneSlice(f.B)
	}
	return c
}

// ColorAt returns the color channels at flat index i.
func (f *Field) ColorAt(i int) (r, g, b float32) {
	return f.R[i], f.G[i], f.B[i]
}

func cloneSlice(s []float32) []float32 {
	if s == nil {
		return nil
	}
	out := make([]float32, len(s))
	copy(out, s)
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

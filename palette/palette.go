// Package palette holds the named color-stop catalog and the 256-entry lookup
// tables built from it.
package palette

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownPalette is returned for a name that is not in the catalog.
var ErrUnknownPalette = errors.New("unknown palette")

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// catalog maps palette names to evenly spaced color stops (first stop at 0,
// last at 1).
var catalog = map[string][]RGB{
	"magma": {
		{0, 0, 4}, {28, 16, 68}, {79, 18, 123}, {129, 37, 129}, {181, 54, 122},
		{229, 80, 100}, {251, 135, 97}, {254, 194, 135}, {252, 253, 191},
	},
	"inferno": {
		{0, 0, 4}, {31, 12, 72}, {85, 15, 109}, {136, 34, 106}, {186, 54, 85},
		{227, 89, 51}, {249, 140, 10}, {249, 201, 50}, {252, 255, 164},
	},
	"viridis": {
		{68, 1, 84}, {72, 40, 120}, {62, 74, 137}, {49, 104, 142}, {38, 130, 142},
		{31, 158, 137}, {53, 183, 121}, {109, 205, 89}, {180, 222, 44}, {253, 231, 37},
	},
	"plasma": {
		{13, 8, 135}, {84, 2, 163}, {139, 10, 165}, {185, 50, 137},
		{219, 92, 104}, {244, 136, 73}, {254, 188, 43}, {240, 249, 33},
	},
	"cividis": {
		{0, 32, 77}, {0, 52, 110}, {57, 72, 108}, {87, 92, 109}, {112, 113, 115},
		{138, 134, 120}, {166, 157, 117}, {196, 181, 101}, {227, 208, 80}, {255, 234, 70},
	},
	"bone": {
		{0, 0, 0}, {41, 41, 57}, {84, 84, 116}, {126, 146, 158}, {166, 198, 198}, {255, 255, 255},
	},
	"slime": {
		{2, 6, 5}, {10, 40, 20}, {40, 110, 40}, {140, 200, 60}, {230, 250, 150}, {255, 255, 230},
	},
	"ember": {
		{0, 0, 0}, {60, 6, 2}, {140, 30, 5}, {220, 90, 10}, {255, 170, 40}, {255, 240, 200},
	},
}

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stops returns a copy of the named palette's stops.
func Stops(name string) ([]RGB, error) {
	stops, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	out := make([]RGB, len(stops))
	copy(out, stops)
	return out, nil
}

// Table is a 256-entry lookup table.
type Table [256]RGB

// LUT builds the lookup table for a named palette.
func LUT(name string) (*Table, error) {
	stops, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return FromStops(stops), nil
}

// FromStops builds a table by piecewise-linear interpolation between evenly
// spaced stops. Entry 0 is the first stop and entry 255 the last.
func FromStops(stops []RGB) *Table {
	var t Table
	n := len(stops)
	if n == 0 {
		return &t
	}
	if n == 1 {
		for i := range t {
			t[i] = stops[0]
		}
		return &t
	}

	segs := float64(n - 1)
	for i := range t {
		pos := float64(i) / 255 * segs
		k := int(pos)
		if k >= n-1 {
			t[i] = stops[n-1]
			continue
		}
		f := pos - float64(k)
		a, b := stops[k], stops[k+1]
		t[i] = RGB{
			R: lerp8(a.R, b.R, f),
			G: lerp8(a.G, b.G, f),
			B: lerp8(a.B, b.B, f),
		}
	}
	return &t
}

func lerp8(a, b uint8, f float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*f
	return uint8(math.Round(v))
}

// Index returns the table index for a value in [0,1]; out-of-range values
// are clamped.
func Index(v float32) int {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int(v*255 + 0.5)
}

// Map returns the color for a value in [0,1].
func (t *Table) Map(v float32) RGB {
	return t[Index(v)]
}

// Sample returns the color for v as [0,1] channel values.
func (t *Table) Sample(v float32) (r, g, b float32) {
	c := t[Index(v)]
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

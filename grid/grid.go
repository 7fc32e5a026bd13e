// Package grid provides the flat scalar field used for trail grids, food
// fields and color accumulators.
package grid

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// Grid is a W×H scalar field stored row-major.
type Grid struct {
	W, H int
	Data []float32
}

// New creates a zero-initialized grid.
func New(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]float32, w*h)}
}

// Index returns the flat index of cell (x, y).
func (g *Grid) Index(x, y int) int {
	return y*g.W + x
}

// At returns the value of cell (x, y).
func (g *Grid) At(x, y int) float32 {
	return g.Data[y*g.W+x]
}

// Add adds v to the cell at flat index i.
func (g *Grid) Add(i int, v float32) {
	g.Data[i] += v
}

// Cell floors a continuous position and clamps it to the grid bounds,
// returning the flat index. Positions outside the grid map to the nearest
// edge cell rather than wrapping.
func (g *Grid) Cell(x, y float64) int {
	return CellIndex(x, y, g.W, g.H)
}

// CellIndex is Cell for callers that hold only the dimensions.
func CellIndex(x, y float64, w, h int) int {
	cx := int(math.Floor(x))
	cy := int(math.Floor(y))
	if cx < 0 {
		cx = 0
	} else if cx >= w {
		cx = w - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= h {
		cy = h - 1
	}
	return cy*w + cx
}

// Zero clears every cell.
func (g *Grid) Zero() {
	clear(g.Data)
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, Data: make([]float32, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// CopyFrom overwrites g with src. Both must share dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.Data, src.Data)
}

// AddFrom accumulates src into g element-wise.
func (g *Grid) AddFrom(src *Grid) {
	d := g.Data
	s := src.Data[:len(d)]
	for i := range d {
		d[i] += s[i]
	}
}

// Mass returns the sum of all cells. Trail and food grids are non-negative,
// so the absolute sum is the total mass.
func (g *Grid) Mass() float32 {
	return blas32.Asum(g.vector())
}

// Max returns the largest cell value (grids are non-negative).
func (g *Grid) Max() float32 {
	if len(g.Data) == 0 {
		return 0
	}
	return g.Data[blas32.Iamax(g.vector())]
}

func (g *Grid) vector() blas32.Vector {
	return blas32.Vector{N: len(g.Data), Inc: 1, Data: g.Data}
}

// SameSize reports whether g and o share dimensions.
func (g *Grid) SameSize(o *Grid) bool {
	return g.W == o.W && g.H == o.H
}

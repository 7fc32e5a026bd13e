package food

import (
	"fmt"
	"math"

	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/rng"
)

// DefaultClusters is the blob count used when Params.Clusters is not set.
const DefaultClusters = 5

// Params configures food generation.
type Params struct {
	Strategy Strategy `yaml:"strategy"`
	// Density scales every procedural contribution before the final clamp.
	// Zero means 1.
	Density float64 `yaml:"density"`
	// Clusters is the blob count for clusters and the target cell count for
	// grid. Zero means DefaultClusters.
	Clusters int `yaml:"clusters"`
	// Palette, when set, colorizes procedural fields so color-carrying runs
	// can use them.
	Palette string `yaml:"palette"`
}

func (p Params) density() float64 {
	if p.Density == 0 {
		return 1
	}
	return p.Density
}

func (p Params) clusters() int {
	if p.Clusters <= 0 {
		return DefaultClusters
	}
	return p.Clusters
}

// Validate checks parameter ranges without consuming any randomness.
func (p Params) Validate() error {
	if p.Strategy >= numStrategies {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(p.Strategy))
	}
	if p.Density < 0 || math.IsNaN(p.Density) {
		return fmt.Errorf("%w: density %v", ErrInvalidParams, p.Density)
	}
	if p.Palette != "" {
		if _, err := palette.LUT(p.Palette); err != nil {
			return err
		}
	}
	return nil
}

// Generate produces a w×h food field. Procedural strategies draw from r in a
// fixed order, so the same generator state yields the same field. The image
// strategy returns a copy of external and consumes no randomness.
func Generate(p Params, w, h int, r *rng.Rand, external *Field) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidParams, w, h)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var f *Field
	switch p.Strategy {
	case Image:
		if external == nil {
			return nil, ErrImageRequired
		}
		if err := external.Validate(w, h); err != nil {
			return nil, err
		}
		f = external.Clone()
	case Clusters, Rings, Gradient, Lattice, Mixed, Noise, Veins:
		f = NewField(w, h)
		amp := p.density()
		switch p.Strategy {
		case Clusters:
			addClusters(f, p.clusters(), amp, r)
		case Rings:
			addRings(f, amp, r)
		case Gradient:
			addGradient(f, amp, r)
		case Lattice:
			addLattice(f, p.clusters(), amp, r)
		case Mixed:
			addMixed(f, p.clusters(), amp, r)
		case Noise:
			addNoise(f, amp, r)
		case Veins:
			addVeins(f, amp, r)
		}
		for i, v := range f.Value {
			f.Value[i] = clamp01(v)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(p.Strategy))
	}

	if p.Palette != "" && !f.HasColor() {
		lut, err := palette.LUT(p.Palette)
		if err != nil {
			return nil, err
		}
		Colorize(f, lut)
	}
	return f, nil
}

// addBlob adds a gaussian bump, visiting only cells within three radii.
func addBlob(f *Field, cx, cy, radius, strength float64) {
	if radius <= 0 {
		return
	}
	reach := 3 * radius
	x0 := max(int(math.Floor(cx-reach)), 0)
	x1 := min(int(math.Ceil(cx+reach)), f.W-1)
	y0 := max(int(math.Floor(cy-reach)), 0)
	y1 := min(int(math.Ceil(cy+reach)), f.H-1)
	inv := 1 / (2 * radius * radius)

	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		row := f.Value[y*f.W : y*f.W+f.W]
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			row[x] += float32(strength * math.Exp(-(dx*dx+dy*dy)*inv))
		}
	}
}

func minDim(f *Field) float64 {
	return float64(min(f.W, f.H))
}

// addClusters draws, per blob: center x, center y, radius, strength.
func addClusters(f *Field, n int, amp float64, r *rng.Rand) {
	m := minDim(f)
	for i := 0; i < n; i++ {
		cx := r.Float64() * float64(f.W)
		cy := r.Float64() * float64(f.H)
		radius := m * r.Range(0.04, 0.16)
		strength := r.Range(0.5, 1.0)
		addBlob(f, cx, cy, radius, strength*amp)
	}
}

// addRings draws center x, center y, ring count, then per ring: radius
// jitter, thickness, strength.
func addRings(f *Field, amp float64, r *rng.Rand) {
	m := minDim(f)
	cx := float64(f.W) * r.Range(0.25, 0.75)
	cy := float64(f.H) * r.Range(0.25, 0.75)
	count := 3 + r.Intn(4)
	maxR := m * 0.45

	for k := 0; k < count; k++ {
		radius := maxR * (float64(k) + 0.5 + r.Range(-0.2, 0.2)) / float64(count)
		thickness := m * r.Range(0.01, 0.035)
		strength := r.Range(0.6, 1.0) * amp
		inv := 1 / (2 * thickness * thickness)

		for y := 0; y < f.H; y++ {
			dy := float64(y) + 0.5 - cy
			row := f.Value[y*f.W : y*f.W+f.W]
			for x := range row {
				dx := float64(x) + 0.5 - cx
				d := math.Sqrt(dx*dx+dy*dy) - radius
				row[x] += float32(strength * math.Exp(-d*d*inv))
			}
		}
	}
}

// addGradient draws one angle; the ramp passes 0.5 through the grid center.
func addGradient(f *Field, amp float64, r *rng.Rand) {
	sin, cos := math.Sincos(r.Angle())
	diag := math.Hypot(float64(f.W), float64(f.H))
	hx, hy := float64(f.W)/2, float64(f.H)/2

	for y := 0; y < f.H; y++ {
		dy := float64(y) + 0.5 - hy
		row := f.Value[y*f.W : y*f.W+f.W]
		for x := range row {
			dx := float64(x) + 0.5 - hx
			proj := (dx*cos + dy*sin) / diag
			row[x] += float32((0.5 + proj) * amp)
		}
	}
}

// addLattice lays roughly n blobs on a grid, drawing per cell: jitter x,
// jitter y, strength.
func addLattice(f *Field, n int, amp float64, r *rng.Rand) {
	cols := int(math.Ceil(math.Sqrt(float64(n) * float64(f.W) / float64(f.H))))
	cols = max(cols, 1)
	rows := max((n+cols-1)/cols, 1)
	cellW := float64(f.W) / float64(cols)
	cellH := float64(f.H) / float64(rows)
	radius := math.Min(cellW, cellH) * 0.25

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			jx := r.Range(-0.15, 0.15) * cellW
			jy := r.Range(-0.15, 0.15) * cellH
			strength := r.Range(0.7, 1.0)
			cx := (float64(col)+0.5)*cellW + jx
			cy := (float64(row)+0.5)*cellH + jy
			addBlob(f, cx, cy, radius, strength*amp)
		}
	}
}

// mixable are the strategies Mixed chooses from.
var mixable = [...]Strategy{Clusters, Rings, Gradient, Lattice}

// addMixed draws k in {2,3}, picks k distinct strategies by partial
// Fisher-Yates, then renders each at amp/k.
func addMixed(f *Field, n int, amp float64, r *rng.Rand) {
	k := 2 + r.Intn(2)
	pool := mixable
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	share := amp / float64(k)
	for _, s := range pool[:k] {
		switch s {
		case Clusters:
			addClusters(f, n, share, r)
		case Rings:
			addRings(f, share, r)
		case Gradient:
			addGradient(f, share, r)
		case Lattice:
			addLattice(f, n, share, r)
		}
	}
}

// MixedChoice reports which strategies Mixed would pick from a generator in
// the given state, without touching the caller's generator.
func MixedChoice(state uint32) []Strategy {
	r := rng.New(int64(state))
	k := 2 + r.Intn(2)
	pool := mixable
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := make([]Strategy, k)
	copy(out, pool[:k])
	return out
}

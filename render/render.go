// Package render turns a simulation result into an opaque RGBA image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"

	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/sim"
)

const (
	// DefaultPalette is used when Options.Palette is empty.
	DefaultPalette = "magma"
	// DefaultAmbientRadius is the box blur radius of the ambient layer.
	DefaultAmbientRadius = 24.0
	// DefaultAmbientStrength scales the ambient layer before it is added.
	DefaultAmbientStrength = 0.15
)

var (
	ErrEmptyResult  = errors.New("render: result has no trails")
	ErrSizeMismatch = errors.New("render: grid size does not match result")
)

// Mode selects how trail data becomes color.
type Mode uint8

const (
	// ModePalette maps the first population's trail through a palette.
	ModePalette Mode = iota
	// ModeBlend adds every population's color scaled by its intensity.
	ModeBlend
	// ModeCarried uses the carried-color accumulators directly.
	ModeCarried
)

func (m Mode) String() string {
	switch m {
	case ModePalette:
		return "palette"
	case ModeBlend:
		return "blend"
	case ModeCarried:
		return "carried"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// SelectMode picks the mode the data in res supports.
func SelectMode(res *sim.Result) Mode {
	switch {
	case res.HasColor():
		return ModeCarried
	case len(res.Trails) > 1:
		return ModeBlend
	default:
		return ModePalette
	}
}

// Options controls rendering. The zero value renders with DefaultPalette and
// no ambient layer.
type Options struct {
	Palette string `yaml:"palette"`
	// Ambient adds a blurred copy of the food color under carried-color
	// renders.
	Ambient         bool    `yaml:"ambient"`
	AmbientRadius   float64 `yaml:"ambient_radius"`
	AmbientStrength float64 `yaml:"ambient_strength"`
}

func (o Options) palette() string {
	if o.Palette == "" {
		return DefaultPalette
	}
	return o.Palette
}

func (o Options) ambientRadius() float64 {
	if o.AmbientRadius <= 0 {
		return DefaultAmbientRadius
	}
	return o.AmbientRadius
}

func (o Options) ambientStrength() float64 {
	if o.AmbientStrength <= 0 {
		return DefaultAmbientStrength
	}
	return o.AmbientStrength
}

// Render draws res into a new Width×Height image. Alpha is always 255.
func Render(res *sim.Result, opts Options) (*image.RGBA, error) {
	if len(res.Trails) == 0 {
		return nil, ErrEmptyResult
	}
	n := res.Width * res.Height
	for i, g := range res.Trails {
		if len(g.Data) != n {
			return nil, fmt.Errorf("%w: trail %d has %d cells, want %d", ErrSizeMismatch, i, len(g.Data), n)
		}
	}
	if len(res.Populations) < len(res.Trails) {
		return nil, fmt.Errorf("%w: %d populations for %d trails", ErrSizeMismatch, len(res.Populations), len(res.Trails))
	}
	for c, g := range res.Color {
		if len(g.Data) != n {
			return nil, fmt.Errorf("%w: color channel %d has %d cells, want %d", ErrSizeMismatch, c, len(g.Data), n)
		}
	}
	if f := res.Food; opts.Ambient && f != nil && f.HasColor() {
		if err := f.Validate(res.Width, res.Height); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSizeMismatch, err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	switch mode := SelectMode(res); mode {
	case ModePalette:
		lut, err := palette.LUT(opts.palette())
		if err != nil {
			return nil, err
		}
		renderPalette(img, res, lut)
	case ModeBlend:
		renderBlend(img, res)
	case ModeCarried:
		renderCarried(img, res, opts)
	default:
		return nil, fmt.Errorf("render: unsupported mode %v", mode)
	}
	return img, nil
}

func renderPalette(img *image.RGBA, res *sim.Result, lut *palette.Table) {
	data := res.Trails[0].Data
	pix := img.Pix
	for i, v := range data {
		c := lut.Map(v)
		o := i * 4
		pix[o] = c.R
		pix[o+1] = c.G
		pix[o+2] = c.B
		pix[o+3] = 255
	}
}

func renderBlend(img *image.RGBA, res *sim.Result) {
	pix := img.Pix
	for i := 0; i < res.Width*res.Height; i++ {
		var r, g, b float32
		for p, t := range res.Trails {
			v := t.Data[i]
			c := res.Populations[p].Color
			r += float32(c.R) * v
			g += float32(c.G) * v
			b += float32(c.B) * v
		}
		o := i * 4
		pix[o] = to8(r)
		pix[o+1] = to8(g)
		pix[o+2] = to8(b)
		pix[o+3] = 255
	}
}

func renderCarried(img *image.RGBA, res *sim.Result, opts Options) {
	rc, gc, bc := res.Color[0].Data, res.Color[1].Data, res.Color[2].Data

	var ambient *image.RGBA
	if opts.Ambient && res.Food != nil && res.Food.HasColor() {
		ambient = blur.Box(foodImage(res), opts.ambientRadius())
	}
	strength := float32(opts.ambientStrength())

	pix := img.Pix
	for i := range rc {
		r, g, b := rc[i]*255, gc[i]*255, bc[i]*255
		o := i * 4
		if ambient != nil {
			r += float32(ambient.Pix[o]) * strength
			g += float32(ambient.Pix[o+1]) * strength
			b += float32(ambient.Pix[o+2]) * strength
		}
		pix[o] = to8(r)
		pix[o+1] = to8(g)
		pix[o+2] = to8(b)
		pix[o+3] = 255
	}
}

// foodImage converts the food color channels into an image for blurring.
func foodImage(res *sim.Result) *image.RGBA {
	f := res.Food
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for i := range f.Value {
		img.SetRGBA(i%f.W, i/f.W, color.RGBA{
			R: to8(f.R[i] * 255),
			G: to8(f.G[i] * 255),
			B: to8(f.B[i] * 255),
			A: 255,
		})
	}
	return img
}

// to8 rounds a 0..255 channel value and clamps it.
func to8(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

package food

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/pthm-cable/slime/palette"
)

// FromImage converts an already-decoded image into a w×h field with color
// channels. The image is resampled when its size differs from the grid.
// Value holds Rec. 601 luminance.
func FromImage(img image.Image, w, h int) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidParams, w, h)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidParams)
	}
	if b.Dx() != w || b.Dy() != h {
		img = transform.Resize(img, w, h, transform.Linear)
		b = img.Bounds()
	}

	n := w * h
	f := &Field{
		W: w, H: h,
		Value: make([]float32, n),
		R:     make([]float32, n),
		G:     make([]float32, n),
		B:     make([]float32, n),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*w + x
			r := float32(cr) / 0xffff
			g := float32(cg) / 0xffff
			bl := float32(cb) / 0xffff
			f.R[i], f.G[i], f.B[i] = r, g, bl
			f.Value[i] = clamp01(0.299*r + 0.587*g + 0.114*bl)
		}
	}
	return f, nil
}

// Colorize fills the field's color channels by mapping each value through t.
func Colorize(f *Field, t *palette.Table) {
	n := len(f.Value)
	f.R = make([]float32, n)
	f.G = make([]float32, n)
	f.B = make([]float32, n)
	for i, v := range f.Value {
		f.R[i], f.G[i], f.B[i] = t.Sample(v)
	}
}

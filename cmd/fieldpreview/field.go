package main

import (
	"image/color"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/palette"
)

// proceduralStrategies lists the strategies the preview can generate on its
// own; image needs a file.
func proceduralStrategies() []food.Strategy {
	var out []food.Strategy
	for _, s := range food.Strategies() {
		if s.Procedural() {
			out = append(out, s)
		}
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func indexOfStrategy(list []food.Strategy, s food.Strategy) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

// foodPaletteName maps slider position 0 to no palette.
func foodPaletteName(names []string, i int) string {
	if i <= 0 || i > len(names) {
		return ""
	}
	return names[i-1]
}

// fieldPixels writes carried colors when the field has them, otherwise the
// value channel through lut.
func fieldPixels(f *food.Field, lut *palette.Table, dst []color.RGBA) {
	for i, v := range f.Value {
		if f.HasColor() {
			r, g, b := f.ColorAt(i)
			dst[i] = color.RGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: 255}
			continue
		}
		c := lut.Map(v)
		dst[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
}

func unit8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

func fieldStats(f *food.Field) (lo, hi, avg float32) {
	lo, hi = 1, 0
	var sum float64
	for _, v := range f.Value {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += float64(v)
	}
	return lo, hi, float32(sum / float64(len(f.Value)))
}

// foodYAML renders a config fragment that reproduces the previewed field.
func foodYAML(p food.Params, seed int64) string {
	frag := struct {
		Agents struct {
			Seed int64 `yaml:"seed"`
		} `yaml:"agents"`
		Food food.Params `yaml:"food"`
	}{Food: p}
	frag.Agents.Seed = seed
	out, err := yaml.Marshal(frag)
	if err != nil {
		return "# " + err.Error()
	}
	return string(out)
}

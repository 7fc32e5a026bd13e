package grid

import "math"

// Normalize rescales g in place so its maximum becomes exactly 1, then
// applies value^gamma. A grid whose maximum is not positive is left as is.
func (g *Grid) Normalize(gamma float64) {
	peak := g.Max()
	if peak <= 0 {
		return
	}
	for i, v := range g.Data {
		g.Data[i] = applyGamma(v/peak, gamma)
	}
}

// NormalizeShared rescales three channel grids by the largest per-cell sum
// r+g+b, so relative channel proportions (hue) survive, then applies gamma to
// each channel.
func NormalizeShared(r, g, b *Grid, gamma float64) {
	var peak float32
	for i := range r.Data {
		s := r.Data[i] + g.Data[i] + b.Data[i]
		if s > peak {
			peak = s
		}
	}
	if peak <= 0 {
		return
	}
	for _, ch := range [3]*Grid{r, g, b} {
		for i, v := range ch.Data {
			ch.Data[i] = applyGamma(v/peak, gamma)
		}
	}
}

func applyGamma(v float32, gamma float64) float32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	if gamma == 1 {
		return v
	}
	return float32(math.Pow(float64(v), gamma))
}

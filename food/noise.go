package food

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/slime/rng"
)

// Noise FBM shape.
const (
	noiseOctaves    = 4
	noiseLacunarity = 2.0
	noiseGain       = 0.5
	noiseFeatures   = 4.0 // base features across the short side
	noiseContrast   = 2.0 // exponent: higher = sparser patches
)

// Veins turbulence shape.
const (
	veinsAlpha    = 2.0
	veinsBeta     = 2.0
	veinsOctaves  = 3
	veinsFeatures = 3.0
	veinsSharp    = 6.0 // ridge exponent: higher = thinner channels
)

// addNoise draws one seed and renders contrast-shaped simplex FBM.
func addNoise(f *Field, amp float64, r *rng.Rand) {
	n := opensimplex.New(int64(r.Uint32()))
	base := noiseFeatures / minDim(f)

	var norm float64
	for o, a := 0, 1.0; o < noiseOctaves; o++ {
		norm += a
		a *= noiseGain
	}

	for y := 0; y < f.H; y++ {
		row := f.Value[y*f.W : y*f.W+f.W]
		for x := range row {
			var sum float64
			freq, a := base, 1.0
			for o := 0; o < noiseOctaves; o++ {
				sum += a * n.Eval2(float64(x)*freq, float64(y)*freq)
				freq *= noiseLacunarity
				a *= noiseGain
			}
			v := clamp01(float32((sum/norm + 1) / 2))
			row[x] += float32(math.Pow(float64(v), noiseContrast) * amp)
		}
	}
}

// addVeins draws one seed and renders ridged Perlin turbulence: bright thin
// channels along the noise zero crossings.
func addVeins(f *Field, amp float64, r *rng.Rand) {
	p := perlin.NewPerlin(veinsAlpha, veinsBeta, veinsOctaves, int64(r.Uint32()))
	scale := veinsFeatures / minDim(f)

	for y := 0; y < f.H; y++ {
		row := f.Value[y*f.W : y*f.W+f.W]
		for x := range row {
			ridge := 1 - math.Abs(p.Noise2D(float64(x)*scale, float64(y)*scale))
			ridge = math.Max(0, math.Min(1, ridge))
			row[x] += float32(math.Pow(ridge, veinsSharp) * amp)
		}
	}
}

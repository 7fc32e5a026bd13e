// Package rng provides the seeded pseudo-random generator shared by the food
// field generator and the simulation engine. A run is reproducible from one
// integer seed because every draw goes through an explicitly owned Rand.
package rng

import "math"

// mulberry32 increment (Weyl sequence step).
const weyl = 0x6D2B79F5

// twoTo32 maps a 32-bit output onto [0,1).
const twoTo32 = 4294967296.0

// Next advances state by one mulberry32 step and returns a value in [0,1)
// together with the new state. It has no side effects.
func Next(state uint32) (float64, uint32) {
	v, s := nextUint32(state)
	return float64(v) / twoTo32, s
}

func nextUint32(state uint32) (uint32, uint32) {
	state += weyl
	t := state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14), state
}

// Rand is a generator instance. The zero value is usable and equivalent to
// New(0). Rand is not safe for concurrent use.
type Rand struct {
	state uint32
}

// New creates a generator seeded from the low 32 bits of seed.
func New(seed int64) *Rand {
	return &Rand{state: uint32(seed)}
}

// State returns the current internal state.
func (r *Rand) State() uint32 {
	return r.state
}

// Uint32 returns the next raw 32-bit output.
func (r *Rand) Uint32() uint32 {
	var v uint32
	v, r.state = nextUint32(r.state)
	return v
}

// Float64 returns the next value in [0,1).
func (r *Rand) Float64() float64 {
	var v float64
	v, r.state = Next(r.state)
	return v
}

// Range returns a value in [lo,hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Intn returns an int in [0,n). It returns 0 when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Sign returns -1 or +1 with equal probability.
func (r *Rand) Sign() float64 {
	if r.Float64() < 0.5 {
		return -1
	}
	return 1
}

// Angle returns a heading in [0,2π).
func (r *Rand) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}

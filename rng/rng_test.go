package rng

import "testing"

func TestNextIsPure(t *testing.T) {
	v1, s1 := Next(12345)
	v2, s2 := Next(12345)
	if v1 != v2 || s1 != s2 {
		t.Fatalf("Next not pure: (%v,%d) vs (%v,%d)", v1, s1, v2, s2)
	}
	if s1 == 12345 {
		t.Error("expected state to advance")
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(42)
	b := New(99)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 100 {
		t.Error("seeds 42 and 99 produced identical sequences")
	}
}

func TestFloat64Range(t *testing.T) {
	r := New(7)
	var sum float64
	const n = 100000
	for i := 0; i < n; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value out of [0,1): %v", v)
		}
		sum += v
	}
	mean := sum / n
	if mean < 0.48 || mean > 0.52 {
		t.Errorf("mean = %v, want ~0.5", mean)
	}
}

func TestMethodsMatchNext(t *testing.T) {
	r := New(2024)
	state := uint32(2024)
	for i := 0; i < 50; i++ {
		var want float64
		want, state = Next(state)
		if got := r.Float64(); got != want {
			t.Fatalf("draw %d: Rand.Float64 = %v, Next = %v", i, got, want)
		}
		if r.State() != state {
			t.Fatalf("draw %d: state %d, want %d", i, r.State(), state)
		}
	}
}

func TestIntn(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"negative", -3},
		{"one", 1},
		{"four", 4},
		{"large", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(1)
			for i := 0; i < 1000; i++ {
				v := r.Intn(tt.n)
				if tt.n <= 0 {
					if v != 0 {
						t.Fatalf("Intn(%d) = %d, want 0", tt.n, v)
					}
					continue
				}
				if v < 0 || v >= tt.n {
					t.Fatalf("Intn(%d) = %d out of range", tt.n, v)
				}
			}
		})
	}
}

func TestSignBalanced(t *testing.T) {
	r := New(3)
	var pos int
	for i := 0; i < 10000; i++ {
		if r.Sign() > 0 {
			pos++
		}
	}
	if pos < 4700 || pos > 5300 {
		t.Errorf("positive signs = %d of 10000, want ~5000", pos)
	}
}

package palette

import (
	"errors"
	"testing"
)

func TestCatalogStopCounts(t *testing.T) {
	for _, name := range Names() {
		stops, err := Stops(name)
		if err != nil {
			t.Fatalf("Stops(%q): %v", name, err)
		}
		if len(stops) < 5 || len(stops) > 16 {
			t.Errorf("%s has %d stops, want 5..16", name, len(stops))
		}
	}
}

func TestLUTEndpoints(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			lut, err := LUT(name)
			if err != nil {
				t.Fatal(err)
			}
			stops, _ := Stops(name)
			if lut[0] != stops[0] {
				t.Errorf("lut[0] = %v, want %v", lut[0], stops[0])
			}
			if lut[255] != stops[len(stops)-1] {
				t.Errorf("lut[255] = %v, want %v", lut[255], stops[len(stops)-1])
			}
		})
	}
}

func TestMagmaStartsNearBlack(t *testing.T) {
	lut, err := LUT("magma")
	if err != nil {
		t.Fatal(err)
	}
	if got := lut.Map(0); got != (RGB{0, 0, 4}) {
		t.Errorf("magma Map(0) = %v, want {0 0 4}", got)
	}
}

func TestFromStopsInterpolates(t *testing.T) {
	lut := FromStops([]RGB{{0, 0, 0}, {255, 255, 255}})
	for i, c := range lut {
		if int(c.R) != i || c.R != c.G || c.G != c.B {
			t.Fatalf("entry %d = %v, want grey %d", i, c, i)
		}
	}

	mid := FromStops([]RGB{{0, 0, 0}, {200, 100, 0}, {0, 0, 0}})
	if mid[255] != (RGB{0, 0, 0}) {
		t.Errorf("last entry = %v, want black", mid[255])
	}
	if mid[127].R < 195 {
		t.Errorf("middle entry R = %d, want near 200", mid[127].R)
	}
}

func TestIndexClamps(t *testing.T) {
	tests := []struct {
		name string
		v    float32
		want int
	}{
		{"negative", -0.5, 0},
		{"zero", 0, 0},
		{"half", 0.5, 128},
		{"one", 1, 255},
		{"above one", 2, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.v); got != tt.want {
				t.Errorf("Index(%v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestUnknownPalette(t *testing.T) {
	if _, err := LUT("nope"); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("LUT(nope) error = %v, want ErrUnknownPalette", err)
	}
}

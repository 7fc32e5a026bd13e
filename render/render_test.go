package render

import (
	"errors"
	"testing"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/grid"
	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/sim"
)

func filled(w, h int, v float32) *grid.Grid {
	g := grid.New(w, h)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

func TestScenarioCMagmaZeroGrid(t *testing.T) {
	res := &sim.Result{
		Width:       2,
		Height:      2,
		Populations: []sim.PopulationInfo{{Name: "solo"}},
		Trails:      []*grid.Grid{grid.New(2, 2)},
	}

	img, err := Render(res, Options{Palette: "magma"})
	if err != nil {
		t.Fatal(err)
	}
	want := []uint8{0, 0, 4, 255, 0, 0, 4, 255, 0, 0, 4, 255, 0, 0, 4, 255}
	if len(img.Pix) != len(want) {
		t.Fatalf("pix length = %d, want %d", len(img.Pix), len(want))
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("pix = %v, want %v", img.Pix, want)
		}
	}
}

func TestScenarioDAdditiveBlend(t *testing.T) {
	res := &sim.Result{
		Width:  1,
		Height: 1,
		Populations: []sim.PopulationInfo{
			{Name: "red", Color: palette.RGB{R: 255}},
			{Name: "blue", Color: palette.RGB{B: 255}},
		},
		Trails: []*grid.Grid{filled(1, 1, 1), filled(1, 1, 1)},
	}

	img, err := Render(res, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := img.RGBAAt(0, 0)
	if got.R != 255 || got.G != 0 || got.B != 255 || got.A != 255 {
		t.Errorf("pixel = %+v, want (255,0,255,255)", got)
	}
}

func TestBlendClampsOverlap(t *testing.T) {
	res := &sim.Result{
		Width:  1,
		Height: 1,
		Populations: []sim.PopulationInfo{
			{Color: palette.RGB{R: 200, G: 100}},
			{Color: palette.RGB{R: 200, G: 20}},
		},
		Trails: []*grid.Grid{filled(1, 1, 1), filled(1, 1, 0.5)},
	}

	img, err := Render(res, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := img.RGBAAt(0, 0)
	if got.R != 255 || got.G != 110 || got.B != 0 {
		t.Errorf("pixel = %+v, want (255,110,0)", got)
	}
}

func TestSelectMode(t *testing.T) {
	one := []*grid.Grid{grid.New(1, 1)}
	two := []*grid.Grid{grid.New(1, 1), grid.New(1, 1)}
	colors := []*grid.Grid{grid.New(1, 1), grid.New(1, 1), grid.New(1, 1)}

	tests := []struct {
		name string
		res  *sim.Result
		want Mode
	}{
		{"single population", &sim.Result{Trails: one}, ModePalette},
		{"two populations", &sim.Result{Trails: two}, ModeBlend},
		{"carried single", &sim.Result{Trails: one, Color: colors}, ModeCarried},
		{"carried multi", &sim.Result{Trails: two, Color: colors}, ModeCarried},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectMode(tt.res); got != tt.want {
				t.Errorf("SelectMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCarriedColor(t *testing.T) {
	res := &sim.Result{
		Width:       2,
		Height:      1,
		Populations: []sim.PopulationInfo{{Name: "solo"}},
		Trails:      []*grid.Grid{filled(2, 1, 1)},
		Color:       []*grid.Grid{filled(2, 1, 1), filled(2, 1, 0.5), filled(2, 1, 0)},
	}

	img, err := Render(res, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := img.RGBAAt(1, 0)
	if got.R != 255 || got.G != 128 || got.B != 0 || got.A != 255 {
		t.Errorf("pixel = %+v, want (255,128,0,255)", got)
	}
}

func TestAmbientLayer(t *testing.T) {
	const w, h = 16, 16
	f := colorField(w, h)
	for i := range f.B {
		f.B[i] = 1
	}
	res := &sim.Result{
		Width:       w,
		Height:      h,
		Populations: []sim.PopulationInfo{{Name: "solo"}},
		Trails:      []*grid.Grid{grid.New(w, h)},
		Color:       []*grid.Grid{grid.New(w, h), grid.New(w, h), grid.New(w, h)},
		Food:        f,
	}

	plain, err := Render(res, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if c := plain.RGBAAt(8, 8); c.B != 0 {
		t.Fatalf("without ambient blue = %d, want 0", c.B)
	}

	lit, err := Render(res, Options{Ambient: true, AmbientRadius: 4})
	if err != nil {
		t.Fatal(err)
	}
	c := lit.RGBAAt(8, 8)
	if c.B == 0 || c.B > 40 {
		t.Errorf("ambient blue = %d, want a faint non-zero value", c.B)
	}
	if c.R != 0 || c.G != 0 {
		t.Errorf("ambient leaked into red/green: %+v", c)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		res  *sim.Result
		opts Options
		want error
	}{
		{"no trails", &sim.Result{Width: 1, Height: 1}, Options{}, ErrEmptyResult},
		{"size mismatch", &sim.Result{Width: 3, Height: 3, Trails: []*grid.Grid{grid.New(2, 2)}}, Options{}, ErrSizeMismatch},
		{"missing populations", &sim.Result{Width: 1, Height: 1,
			Trails:      []*grid.Grid{grid.New(1, 1), grid.New(1, 1)},
			Populations: []sim.PopulationInfo{{Name: "a"}}}, Options{}, ErrSizeMismatch},
		{"short color channel", &sim.Result{Width: 2, Height: 2,
			Trails:      []*grid.Grid{grid.New(2, 2)},
			Populations: []sim.PopulationInfo{{Name: "a"}},
			Color:       []*grid.Grid{grid.New(2, 2), grid.New(2, 1), grid.New(2, 2)}}, Options{}, ErrSizeMismatch},
		{"ambient food size", &sim.Result{Width: 2, Height: 2,
			Trails:      []*grid.Grid{grid.New(2, 2)},
			Populations: []sim.PopulationInfo{{Name: "a"}},
			Color:       []*grid.Grid{grid.New(2, 2), grid.New(2, 2), grid.New(2, 2)},
			Food:        colorField(3, 3)}, Options{Ambient: true}, ErrSizeMismatch},
		{"unknown palette", &sim.Result{Width: 1, Height: 1,
			Trails:      []*grid.Grid{grid.New(1, 1)},
			Populations: []sim.PopulationInfo{{Name: "a"}}}, Options{Palette: "sepia"}, palette.ErrUnknownPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(tt.res, tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("Render() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRenderSimulation(t *testing.T) {
	p := sim.DefaultParams()
	p.Width, p.Height = 48, 32
	p.AgentCount = 300
	p.Iterations = 15
	p.Populations = []sim.Population{
		{Name: "a", Color: palette.RGB{R: 255, G: 80}, Fraction: 0.5},
		{Name: "b", Color: palette.RGB{G: 120, B: 255}, Fraction: 0.5},
	}
	res, err := sim.Simulate(p, sim.Options{})
	if err != nil {
		t.Fatal(err)
	}

	img, err := Render(res, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
		t.Fatalf("bounds = %v, want 48x32", b)
	}
	lit := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("alpha at byte %d = %d", i, img.Pix[i])
		}
		if img.Pix[i-3] != 0 || img.Pix[i-2] != 0 || img.Pix[i-1] != 0 {
			lit = true
		}
	}
	if !lit {
		t.Error("expected at least one lit pixel")
	}
}

func TestTo8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-3, 0},
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{127.5, 128},
		{254.6, 255},
		{900, 255},
	}
	for _, tt := range tests {
		if got := to8(tt.in); got != tt.want {
			t.Errorf("to8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func colorField(w, h int) *food.Field {
	f := food.NewField(w, h)
	f.R = make([]float32, w*h)
	f.G = make([]float32, w*h)
	f.B = make([]float32, w*h)
	return f
}

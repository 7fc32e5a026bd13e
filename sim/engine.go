package sim

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/slime/food"
	"github.com/pthm-cable/slime/grid"
	"github.com/pthm-cable/slime/palette"
	"github.com/pthm-cable/slime/rng"
)

// Agent arena layout. Each population stores its agents in one flat slice;
// agent i occupies [i*stride, (i+1)*stride).
const (
	offX = iota
	offY
	offHeading
	offR
	offG
	offB

	strideBase  = 3
	strideColor = 6
)

// population is the per-population runtime state.
type population struct {
	name   string
	color  palette.RGB
	count  int
	agents []float64
}

// StepStats describes the most recent step. Its slices are reused by the
// next step.
type StepStats struct {
	Iteration int
	Deposits  []int
	Respawns  []int
}

// Engine advances a simulation one step at a time. It is not safe for
// concurrent use.
type Engine struct {
	p      Params
	rnd    *rng.Rand
	food   *food.Field
	logger *slog.Logger

	pops   []population
	stride int

	// trails holds each population's field as of the last completed step;
	// scratch collects the current step's deposits and then receives the
	// diffused output before the two are swapped.
	trails  []*grid.Grid
	scratch []*grid.Grid

	// Color accumulators (R, G, B) when carrying color.
	color        []*grid.Grid
	colorScratch []*grid.Grid

	// Hot-loop constants.
	w, h       float64
	sensorDist float64
	repulsion  float64
	foodWeight float64
	deposit    float32
	decay      float32
	relax      float64

	iter   int
	stats  StepStats
	pool   *workerPool
	phases PhaseRecorder
}

// New validates p, produces the food field, partitions the agents and
// allocates every buffer the run needs. Nothing is allocated when validation
// fails.
func New(p Params, opts Options) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.checkFood(opts.Food); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rnd := rng.New(p.Seed)

	fp := p.Food
	if opts.Food != nil {
		fp.Strategy = food.Image
	}
	field, err := food.Generate(fp, p.Width, p.Height, rnd, opts.Food)
	if err != nil {
		return nil, err
	}

	fractions := make([]float64, len(p.Populations))
	for i, pop := range p.Populations {
		fractions[i] = pop.Fraction
	}
	counts, corrected := Partition(p.AgentCount, fractions)
	if corrected {
		logger.Warn("population fractions do not sum to 1, last population takes the remainder",
			"fractions", fractions,
			"counts", counts,
		)
	}

	e := &Engine{
		p:          p,
		rnd:        rnd,
		food:       field,
		logger:     logger,
		stride:     strideBase,
		w:          float64(p.Width),
		h:          float64(p.Height),
		sensorDist: p.SensorDistance,
		repulsion:  p.Repulsion,
		foodWeight: p.FoodWeight,
		deposit:    float32(p.DepositAmount),
		decay:      float32(p.DecayFactor),
		relax:      p.EffectiveColorRelax(),
		phases:     opts.Phases,
	}
	if p.CarryColor {
		e.stride = strideColor
	}

	n := len(p.Populations)
	e.pops = make([]population, n)
	e.trails = make([]*grid.Grid, n)
	e.scratch = make([]*grid.Grid, n)
	for i, pop := range p.Populations {
		e.pops[i] = population{
			name:   pop.Name,
			color:  pop.Color,
			count:  counts[i],
			agents: make([]float64, counts[i]*e.stride),
		}
		e.trails[i] = grid.New(p.Width, p.Height)
		e.scratch[i] = grid.New(p.Width, p.Height)
	}
	if p.CarryColor {
		e.color = make([]*grid.Grid, 3)
		e.colorScratch = make([]*grid.Grid, 3)
		for c := range e.color {
			e.color[c] = grid.New(p.Width, p.Height)
			e.colorScratch[c] = grid.New(p.Width, p.Height)
		}
	}
	e.stats = StepStats{
		Deposits: make([]int, n),
		Respawns: make([]int, n),
	}

	for i := range e.pops {
		agents := e.pops[i].agents
		for a := 0; a < len(agents); a += e.stride {
			e.place(agents[a : a+e.stride])
		}
	}

	if opts.Workers > 1 && p.Height >= parallelThreshold {
		e.pool = newWorkerPool(opts.Workers)
	}

	logger.Debug("simulation initialized",
		"width", p.Width,
		"height", p.Height,
		"agents", counts,
		"food", fp.Strategy.String(),
		"carry_color", p.CarryColor,
		"workers", opts.Workers,
	)
	return e, nil
}

// place draws a uniformly random position and heading for one agent and
// resets its carried color from the food under it.
func (e *Engine) place(agent []float64) {
	agent[offX] = e.rnd.Float64() * e.w
	agent[offY] = e.rnd.Float64() * e.h
	agent[offHeading] = e.rnd.Angle()
	if e.stride == strideColor {
		i := grid.CellIndex(agent[offX], agent[offY], e.p.Width, e.p.Height)
		r, g, b := e.food.ColorAt(i)
		agent[offR] = float64(r)
		agent[offG] = float64(g)
		agent[offB] = float64(b)
	}
}

// Step runs one iteration: every agent of every population senses, turns,
// moves and deposits (or respawns), then every trail grid diffuses and
// decays.
func (e *Engine) Step() {
	e.startPhase(PhaseAgents)
	for i := range e.scratch {
		e.scratch[i].Zero()
		e.stats.Deposits[i] = 0
		e.stats.Respawns[i] = 0
	}
	for _, g := range e.colorScratch {
		g.Zero()
	}

	for i := range e.pops {
		e.stepPopulation(i)
	}

	e.startPhase(PhaseDiffusion)
	for i := range e.trails {
		e.trails[i].AddFrom(e.scratch[i])
		e.diffuse(e.trails[i], e.scratch[i])
		e.trails[i], e.scratch[i] = e.scratch[i], e.trails[i]
	}
	for c := range e.color {
		e.color[c].AddFrom(e.colorScratch[c])
		e.diffuse(e.color[c], e.colorScratch[c])
		e.color[c], e.colorScratch[c] = e.colorScratch[c], e.color[c]
	}

	e.iter++
	e.stats.Iteration = e.iter
}

func (e *Engine) startPhase(name string) {
	if e.phases != nil {
		e.phases.StartPhase(name)
	}
}

func (e *Engine) diffuse(src, dst *grid.Grid) {
	if e.pool != nil {
		e.pool.diffuse(src, dst, e.decay)
		return
	}
	src.DiffuseDecay(dst, e.decay)
}

func (e *Engine) stepPopulation(p int) {
	pop := &e.pops[p]
	agents := pop.agents
	deposits := e.scratch[p].Data
	angle := e.p.SensorAngle
	turn := e.p.TurnAngle
	step := e.p.StepSize
	carry := e.stride == strideColor

	for a := 0; a < len(agents); a += e.stride {
		agent := agents[a : a+e.stride]
		x, y, heading := agent[offX], agent[offY], agent[offHeading]

		left := e.sense(p, x, y, heading-angle)
		center := e.sense(p, x, y, heading)
		right := e.sense(p, x, y, heading+angle)

		switch {
		case center > left && center > right:
		case center < left && center < right:
			heading += e.rnd.Sign() * turn
		case left > right:
			heading -= turn
		case right > left:
			heading += turn
		}

		sin, cos := math.Sincos(heading)
		x += cos * step
		y += sin * step

		if x < 0 || x >= e.w || y < 0 || y >= e.h {
			e.place(agent)
			e.stats.Respawns[p]++
			continue
		}

		agent[offX], agent[offY], agent[offHeading] = x, y, heading
		cell := grid.CellIndex(x, y, e.p.Width, e.p.Height)
		deposits[cell] += e.deposit
		e.stats.Deposits[p]++

		if carry {
			fr, fg, fb := e.food.ColorAt(cell)
			agent[offR] += (float64(fr) - agent[offR]) * e.relax
			agent[offG] += (float64(fg) - agent[offG]) * e.relax
			agent[offB] += (float64(fb) - agent[offB]) * e.relax
			e.colorScratch[0].Data[cell] += float32(agent[offR]) * e.deposit
			e.colorScratch[1].Data[cell] += float32(agent[offG]) * e.deposit
			e.colorScratch[2].Data[cell] += float32(agent[offB]) * e.deposit
		}
	}
}

// sense returns the effective signal at the sensor point in direction
// heading: own trail minus weighted rival trails plus weighted food. Only
// grids from the previous step are read.
func (e *Engine) sense(p int, x, y, heading float64) float64 {
	sin, cos := math.Sincos(heading)
	i := grid.CellIndex(x+cos*e.sensorDist, y+sin*e.sensorDist, e.p.Width, e.p.Height)

	s := float64(e.trails[p].Data[i])
	if e.repulsion != 0 {
		var others float64
		for q, t := range e.trails {
			if q != p {
				others += float64(t.Data[i])
			}
		}
		s -= e.repulsion * others
	}
	return s + e.foodWeight*float64(e.food.Value[i])
}

// Run steps until the configured iteration count is reached.
func (e *Engine) Run() {
	for e.iter < e.p.Iterations {
		e.Step()
	}
}

// Done reports whether the configured iteration count has been reached.
func (e *Engine) Done() bool {
	return e.iter >= e.p.Iterations
}

// Iteration returns the number of completed steps.
func (e *Engine) Iteration() int {
	return e.iter
}

// Params returns the run parameters.
func (e *Engine) Params() Params {
	return e.p
}

// Food returns the food field in use. It must not be modified.
func (e *Engine) Food() *food.Field {
	return e.food
}

// NumPopulations returns the population count.
func (e *Engine) NumPopulations() int {
	return len(e.pops)
}

// Trail returns population i's live (unnormalized) trail grid. It must not
// be modified and is replaced by the next Step.
func (e *Engine) Trail(i int) *grid.Grid {
	return e.trails[i]
}

// Stats returns statistics for the most recent step.
func (e *Engine) Stats() StepStats {
	return e.stats
}

// Populations describes the populations and their agent counts.
func (e *Engine) Populations() []PopulationInfo {
	out := make([]PopulationInfo, len(e.pops))
	for i, pop := range e.pops {
		out[i] = PopulationInfo{Name: pop.name, Color: pop.color, Agents: pop.count}
	}
	return out
}

// Close stops diffusion workers, if any. The engine must not be stepped
// afterwards.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.stop()
		e.pool = nil
	}
}

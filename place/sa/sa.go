// Package sa implements a simulated-annealing placer: HPWL + timing
// cost, an adaptive temperature/diameter schedule,
// and cluster legalisation, operating on a shared *design.Context
// through the uarch's per-bel and per-tile validity predicates.
package sa

import (
	"math"
	"math/rand"
	"sort"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/uarch"
)

// Options tunes the annealer's schedule and cost function.
type Options struct {
	Seed              uint64
	InitialTemp       float64
	LegaliseTemp      float64
	PostLegaliseTemp  float64
	PostLegaliseDiaScale float64
	Lambda            float64 // timing-vs-wirelength weight
	ConstraintWeight  float64
	CritExp           float64
	TimingDriven      bool
	MaxDiameter       int16
	InnerMovesPerCell int
}

// DefaultOptions returns the documented default annealing schedule.
func DefaultOptions() Options {
	return Options{
		InitialTemp:          10000,
		LegaliseTemp:         1,
		PostLegaliseTemp:     10,
		PostLegaliseDiaScale: 0.5,
		Lambda:               0.5,
		ConstraintWeight:     10,
		CritExp:              8,
		TimingDriven:         false,
		MaxDiameter:          64,
		InnerMovesPerCell:    15,
	}
}

// Placer runs the annealer.
type Placer struct {
	Ctx  *design.Context
	Arch uarch.Arch
	Opts Options

	rng        *rand.Rand
	cells      []idstring.ID
	temp       float64
	diameter   int16
	legalised  bool

	// CellCriticality, when TimingDriven, maps a cell name to its
	// worst incident arc's criticality, supplied by the caller after
	// each timing re-run.
	CellCriticality map[idstring.ID]float64
}

// NewPlacer prepares a Placer over ctx.
func NewPlacer(ctx *design.Context, arch uarch.Arch, opts Options) *Placer {
	return &Placer{
		Ctx:             ctx,
		Arch:            arch,
		Opts:            opts,
		rng:             rand.New(rand.NewSource(int64(opts.Seed))),
		temp:            opts.InitialTemp,
		diameter:        opts.MaxDiameter,
		CellCriticality: make(map[idstring.ID]float64),
	}
}

func (p *Placer) autoplaceableCells() []idstring.ID {
	var names []idstring.ID
	for name, c := range p.Ctx.Cells {
		if c.BelStrength >= design.StrengthFixed {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// InitialAssign produces the deterministic initial placement: sort by
// name, shuffle with the seeded RNG, greedy random assignment with
// bounded retry, and ripping up the weakest bound cell on a candidate
// bel when retries are exhausted.
func (p *Placer) InitialAssign(candidateBels func(cellType idstring.ID) []chipdb.BelId) {
	names := p.autoplaceableCells()
	p.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	const maxRetry = 64
	for _, name := range names {
		cell := p.Ctx.Cells[name]
		if cell.HasBel() {
			continue
		}
		bels := candidateBels(cell.Type)
		if len(bels) == 0 {
			continue
		}

		placed := false
		for attempt := 0; attempt < maxRetry && !placed; attempt++ {
			bel := bels[p.rng.Intn(len(bels))]
			if p.Ctx.CheckBelAvail(bel) && p.Arch.IsValidBelForCellType(p.Ctx, cell.Type, bel) {
				p.Ctx.BindBel(bel, name, design.StrengthWeak)
				placed = true
			}
		}
		if !placed {
			bel := bels[p.rng.Intn(len(bels))]
			if occupant := p.Ctx.GetBoundCell(bel); occupant != nil && occupant.BelStrength <= design.StrengthWeak {
				p.Ctx.UnbindBel(bel, false)
				p.Ctx.BindBel(bel, name, design.StrengthWeak)
			}
		}
	}
	p.cells = names
}

// hpwl computes the half-perimeter bounding box wirelength of net.
func hpwl(ctx *design.Context, net *design.NetInfo) float64 {
	minX, minY := int32(math.MaxInt32), int32(math.MaxInt32)
	maxX, maxY := int32(math.MinInt32), int32(math.MinInt32)
	touch := func(bel chipdb.BelId) {
		w := ctx.DB.Width
		if w == 0 {
			w = 1
		}
		x := bel.Tile % int32(w)
		y := bel.Tile / int32(w)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	any := false
	if c := ctx.Cells[net.Driver.Cell]; c != nil && c.HasBel() {
		touch(c.Bel)
		any = true
	}
	for _, u := range net.Users {
		if c := ctx.Cells[u.Cell]; c != nil && c.HasBel() {
			touch(c.Bel)
			any = true
		}
	}
	if !any {
		return 0
	}
	return float64((maxX - minX) + (maxY - minY))
}

// netsTouching returns the nets that have a port on cell.
func (p *Placer) netsTouching(cell idstring.ID) []*design.NetInfo {
	var nets []*design.NetInfo
	for _, net := range p.Ctx.Nets {
		if net.Driver.Cell == cell {
			nets = append(nets, net)
			continue
		}
		for _, u := range net.Users {
			if u.Cell == cell {
				nets = append(nets, net)
				break
			}
		}
	}
	return nets
}

// moveCost evaluates the Metropolis delta for moving `cell` from its
// current bel to `to`.
func (p *Placer) moveCost(cell idstring.ID, to chipdb.BelId) float64 {
	ci := p.Ctx.Cells[cell]
	nets := p.netsTouching(cell)

	var beforeW, afterW float64
	for _, n := range nets {
		beforeW += hpwl(p.Ctx, n)
	}

	from := ci.Bel
	ci.Bel = to
	for _, n := range nets {
		afterW += hpwl(p.Ctx, n)
	}
	ci.Bel = from

	deltaW := afterW - beforeW
	lastW := beforeW
	if lastW == 0 {
		lastW = 1
	}

	var deltaT float64
	if p.Opts.TimingDriven {
		crit := p.CellCriticality[cell]
		deltaT = deltaW * math.Pow(crit, p.Opts.CritExp)
	}
	lastT := lastW

	cost := p.Opts.Lambda*deltaT/lastT + (1-p.Opts.Lambda)*deltaW/lastW
	return cost
}

// OuterIteration runs one outer annealing iteration: ~15*N inner
// trial moves, adaptive schedule update, and (once past
// legalise_temp) cluster legalisation.
func (p *Placer) OuterIteration(candidateBels func(cellType idstring.ID) []chipdb.BelId) (accepts, moves int) {
	n := len(p.cells)
	trials := p.Opts.InnerMovesPerCell * n
	if trials == 0 {
		trials = 1
	}

	for i := 0; i < trials; i++ {
		if len(p.cells) == 0 {
			break
		}
		name := p.cells[p.rng.Intn(len(p.cells))]
		cell := p.Ctx.Cells[name]
		if !cell.HasBel() {
			continue
		}

		bels := candidateBels(cell.Type)
		if len(bels) == 0 {
			continue
		}
		to := p.randomNearbyBel(cell.Bel, bels)
		if to.IsNone() || to == cell.Bel {
			continue
		}
		if !p.Ctx.CheckBelAvail(to) {
			continue
		}
		if !p.Arch.IsValidBelForCellType(p.Ctx, cell.Type, to) {
			continue
		}

		moves++
		delta := p.moveCost(name, to)
		accept := delta < 0
		if !accept {
			prob := math.Exp(-100 * delta / p.temp)
			accept = p.rng.Float64() < prob
		}
		if accept {
			from := cell.Bel
			p.Ctx.UnbindBel(from, false)
			p.Ctx.BindBel(to, name, cell.BelStrength)
			accepts++
		}
	}

	p.updateSchedule(accepts, moves)
	if p.temp < p.Opts.LegaliseTemp && !p.legalised {
		p.legalised = true
	}
	return accepts, moves
}

func (p *Placer) randomNearbyBel(from chipdb.BelId, bels []chipdb.BelId) chipdb.BelId {
	if len(bels) == 0 {
		return chipdb.NoneBel
	}
	w := 1
	if p.Ctx.DB.Width > 0 {
		w = p.Ctx.DB.Width
	}
	fx, fy := int(from.Tile)%w, int(from.Tile)/w

	var candidates []chipdb.BelId
	for _, b := range bels {
		bx, by := int(b.Tile)%w, int(b.Tile)/w
		if abs(bx-fx) <= int(p.diameter) && abs(by-fy) <= int(p.diameter) {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return chipdb.NoneBel
	}
	return candidates[p.rng.Intn(len(candidates))]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// updateSchedule applies the adaptive temperature/diameter schedule.
func (p *Placer) updateSchedule(accepts, moves int) {
	r := 0.0
	if moves > 0 {
		r = float64(accepts) / float64(moves)
	}
	switch {
	case r >= 0.8:
		p.temp *= 0.7
	case r >= 0.6:
		if p.diameter < int16(p.Opts.MaxDiameter) {
			p.diameter++
		} else {
			p.temp *= 0.9
		}
	case r >= 0.4:
		p.temp *= 0.95
	default:
		if p.diameter > 1 {
			p.diameter--
		} else {
			p.temp *= 0.8
		}
	}
}

// Legalise moves any cell whose placement violates a relative cluster
// constraint, resetting temperature/diameter when any cell moved.
func (p *Placer) Legalise() bool {
	moved := false
	for name, cell := range p.Ctx.Cells {
		if cell.Cluster == nil || cell.Cluster.Root != name {
			continue
		}
		if !cell.HasBel() {
			continue
		}
		placement, ok := p.Arch.GetClusterPlacement(p.Ctx, name, cell.Bel)
		if !ok {
			continue
		}
		for childName, bel := range placement.Offsets {
			child := p.Ctx.Cells[childName]
			if child == nil {
				continue
			}
			if child.HasBel() && child.Bel == bel {
				continue
			}
			if child.HasBel() {
				p.Ctx.UnbindBel(child.Bel, false)
			}
			if occupant := p.Ctx.GetBoundCell(bel); occupant != nil {
				p.Ctx.UnbindBel(bel, false)
			}
			p.Ctx.BindBel(bel, childName, child.BelStrength)
			moved = true
		}
	}
	if moved {
		p.temp = p.Opts.PostLegaliseTemp
		p.diameter = int16(float64(p.diameter) * p.Opts.PostLegaliseDiaScale)
		if p.diameter < 1 {
			p.diameter = 1
		}
	}
	return moved
}

// Temperature exposes the current annealing temperature for
// termination checks.
func (p *Placer) Temperature() float64 { return p.temp }

// Done reports whether the annealer has reached its termination
// temperature.
func (p *Placer) Done() bool { return p.temp <= 1e-3 }

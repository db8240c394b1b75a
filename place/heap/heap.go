// Package heap implements the analytic (quadratic-wirelength) placer:
// it solves Bx=d (and the equivalent system for y) using the
// bound2bound net model, legalises by region-based spreading
// onto discrete bels, and hands the result to the SA placer for
// refinement.
package heap

import (
	"sort"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/uarch"
)

// Options tunes the analytic solve and the spreading legaliser.
type Options struct {
	Iterations   int
	BoundWeight  float64 // bound2bound model's minimum per-edge weight
}

// DefaultOptions returns reasonable defaults for the analytic solve.
func DefaultOptions() Options {
	return Options{Iterations: 30, BoundWeight: 1e-3}
}

// Solver runs the analytic placer.
type Solver struct {
	Ctx  *design.Context
	Arch uarch.Arch
	Opts Options
}

// NewSolver prepares a Solver over ctx.
func NewSolver(ctx *design.Context, arch uarch.Arch, opts Options) *Solver {
	return &Solver{Ctx: ctx, Arch: arch, Opts: opts}
}

// cellPos is the solver's continuous-position working set, keyed by
// cell name.
type cellPos struct {
	x, y float64
	free bool // false for cells already bound with strength >= Fixed
}

// Solve runs Jacobi iterations of the bound2bound quadratic-wirelength
// system against the movable cells named in cells, then legalises by
// region-based spreading over candidateBels, and finally hands off the
// result to the SA placer by binding each cell to its nearest free
// legal bel at StrengthWeak.
func (s *Solver) Solve(cells []idstring.ID, candidateBels func(cellType idstring.ID) []chipdb.BelId) {
	pos := s.initialPositions(cells)

	for iter := 0; iter < s.Opts.Iterations; iter++ {
		s.jacobiStep(pos, cells)
	}

	s.legaliseAndBind(pos, cells, candidateBels)
}

func (s *Solver) initialPositions(cells []idstring.ID) map[idstring.ID]*cellPos {
	w := s.Ctx.DB.Width
	if w == 0 {
		w = 1
	}
	h := s.Ctx.DB.Height
	if h == 0 {
		h = 1
	}
	pos := make(map[idstring.ID]*cellPos, len(cells))
	i := 0
	for _, name := range cells {
		cell := s.Ctx.Cells[name]
		if cell != nil && cell.HasBel() {
			x, y := tileXY(cell.Bel, w)
			pos[name] = &cellPos{x: float64(x), y: float64(y), free: cell.BelStrength < design.StrengthFixed}
			continue
		}
		// spread unplaced cells across the grid deterministically so
		// the Jacobi iteration has a non-degenerate starting point.
		pos[name] = &cellPos{x: float64(i % w), y: float64((i / w) % h), free: true}
		i++
	}
	return pos
}

func tileXY(bel chipdb.BelId, w int) (int, int) {
	return int(bel.Tile) % w, int(bel.Tile) / w
}

// jacobiStep performs one Jacobi relaxation step of the bound2bound
// model: every movable cell's position is updated to the weighted
// average of the positions at the extremes of every net it touches
// (the bound2bound approximation to the quadratic objective).
func (s *Solver) jacobiStep(pos map[idstring.ID]*cellPos, cells []idstring.ID) {
	sumX := make(map[idstring.ID]float64)
	sumY := make(map[idstring.ID]float64)
	sumW := make(map[idstring.ID]float64)

	for _, net := range s.Ctx.Nets {
		members := netMembers(net)
		if len(members) < 2 {
			continue
		}
		minX, maxX, minY, maxY := boundingBox(pos, members)
		weight := s.Opts.BoundWeight
		span := (maxX - minX) + (maxY - minY)
		if span > 0 {
			weight = 1 / span
		}
		for _, m := range members {
			p, ok := pos[m]
			if !ok || !p.free {
				continue
			}
			sumX[m] += weight * (minX + maxX)
			sumY[m] += weight * (minY + maxY)
			sumW[m] += 2 * weight
		}
	}

	for _, name := range cells {
		p := pos[name]
		if p == nil || !p.free || sumW[name] == 0 {
			continue
		}
		p.x = sumX[name] / sumW[name]
		p.y = sumY[name] / sumW[name]
	}
}

func netMembers(net *design.NetInfo) []idstring.ID {
	var m []idstring.ID
	if net.Driver.Cell != idstring.None {
		m = append(m, net.Driver.Cell)
	}
	for _, u := range net.Users {
		m = append(m, u.Cell)
	}
	return m
}

func boundingBox(pos map[idstring.ID]*cellPos, members []idstring.ID) (minX, maxX, minY, maxY float64) {
	minX, minY = 1e18, 1e18
	maxX, maxY = -1e18, -1e18
	for _, m := range members {
		p, ok := pos[m]
		if !ok {
			continue
		}
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}
	return
}

// legaliseAndBind performs region-based spreading: cells are sorted by
// their solved x position and assigned, in order, to the nearest
// available legal bel, binding the final result at StrengthWeak so the
// SA placer is free to refine it.
func (s *Solver) legaliseAndBind(pos map[idstring.ID]*cellPos, cells []idstring.ID, candidateBels func(cellType idstring.ID) []chipdb.BelId) {
	ordered := append([]idstring.ID(nil), cells...)
	sort.Slice(ordered, func(i, j int) bool {
		pi, pj := pos[ordered[i]], pos[ordered[j]]
		if pi.x != pj.x {
			return pi.x < pj.x
		}
		return pi.y < pj.y
	})

	w := s.Ctx.DB.Width
	if w == 0 {
		w = 1
	}

	for _, name := range ordered {
		p := pos[name]
		if !p.free {
			continue
		}
		cell := s.Ctx.Cells[name]
		if cell == nil {
			continue
		}
		bels := candidateBels(cell.Type)
		best := chipdb.NoneBel
		bestDist := 1e18
		for _, b := range bels {
			if !s.Ctx.CheckBelAvail(b) {
				continue
			}
			if s.Arch != nil && !s.Arch.IsValidBelForCellType(s.Ctx, cell.Type, b) {
				continue
			}
			bx, by := tileXY(b, w)
			d := (float64(bx)-p.x)*(float64(bx)-p.x) + (float64(by)-p.y)*(float64(by)-p.y)
			if d < bestDist {
				bestDist = d
				best = b
			}
		}
		if best.IsNone() {
			continue
		}
		if cell.HasBel() {
			s.Ctx.UnbindBel(cell.Bel, false)
		}
		s.Ctx.BindBel(best, name, design.StrengthWeak)
	}
}

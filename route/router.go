package route

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/timing"
)

// Setup inspects every net's pre-existing routing (e.g. from global-
// clock preplacement): a contiguous, driver-rooted tree is retained
// and registered in both direction maps, and any sink unreachable from
// the existing tree is enqueued.
func (r *Router) Setup(criticality func(net idstring.ID, userIdx int) float64) *arcQueue {
	q := newArcQueue(1)

	for netName, net := range r.Ctx.Nets {
		driverCell := r.Ctx.Cells[net.Driver.Cell]
		if driverCell == nil || !driverCell.HasBel() {
			continue
		}
		srcWire := r.driverWire(driverCell, net.Driver.Port)
		if srcWire.IsNone() {
			continue
		}

		for userIdx, user := range net.Users {
			arc := ArcKey{Net: netName, UserIdx: userIdx, PhysIdx: 0}
			sinkCell := r.Ctx.Cells[user.Cell]
			if sinkCell == nil || !sinkCell.HasBel() {
				continue
			}
			dstWire := r.driverWire(sinkCell, user.Port)
			if dstWire.IsNone() {
				continue
			}

			if r.arcAlreadyRouted(net, srcWire, dstWire) {
				r.registerExistingTree(arc, net, srcWire, dstWire)
				continue
			}

			crit := 0.0
			if criticality != nil {
				crit = criticality(netName, userIdx)
			}
			priority := r.EstimateDelay(srcWire, dstWire) * 100 * crit
			if net.ConstTie != idstring.None {
				priority = 0
			}
			q.push(arc, priority)
		}
	}
	return q
}

func (r *Router) driverWire(cell *design.CellInfo, port idstring.ID) chipdb.WireId {
	bd := r.Ctx.DB.BelData(cell.Bel)
	for _, p := range bd.Pins {
		if p.Name == port && p.Wire >= 0 {
			return chipdb.WireId{Tile: cell.Bel.Tile, Index: p.Wire}
		}
	}
	return chipdb.NoneWire
}

// arcAlreadyRouted reports whether dst is already reachable from src
// through the net's existing wire tree.
func (r *Router) arcAlreadyRouted(net *design.NetInfo, src, dst chipdb.WireId) bool {
	root := r.Ctx.DB.ResolveWire(src)
	w := r.Ctx.DB.ResolveWire(dst)
	for steps := 0; steps <= len(net.Wires); steps++ {
		pm, ok := net.Wires[w]
		if !ok {
			return false
		}
		if w == root {
			return true
		}
		if !pm.HasPip {
			return false
		}
		w = r.Ctx.DB.ResolveWire(r.Ctx.DB.PipSrcWire(pm.Pip))
	}
	return false
}

func (r *Router) registerExistingTree(arc ArcKey, net *design.NetInfo, src, dst chipdb.WireId) {
	for wire := range net.Wires {
		r.registerWire(arc, wire)
	}
}

// RunResult summarises one Router.Run invocation.
type RunResult struct {
	Routed      int
	Failed      []ArcKey
	TimingRipupRounds int
}

// Run pops arcs until the queue is empty, logging progress every 1000
// arcs, then performs timing-driven rip-up rounds if enabled
//. computeTiming, when TimingDriven is set,
// re-analyses the design after every pass; its result both supplies
// per-arc criticality for subsequent routing and drives the rip-up
// threshold.
func (r *Router) Run(q *arcQueue, computeTiming func() map[idstring.ID]*timing.NetTiming, timingRipupMaxIter int, percentile float64) RunResult {
	var result RunResult
	var results map[idstring.ID]*timing.NetTiming
	criticality := func(net idstring.ID, userIdx int) float64 {
		if results == nil {
			return 0
		}
		nt := results[net]
		if nt == nil {
			return 0
		}
		return nt.Arcs[userIdx].Criticality
	}

	popped := 0
	for {
		arc, ok := q.pop()
		if !ok {
			break
		}
		popped++
		if popped%1000 == 0 {
			slog.Log(context.Background(), slog.LevelInfo+1, "route: progress", "arcs_routed", popped)
		}

		net := r.Ctx.Nets[arc.Net]
		if net == nil {
			continue
		}

		if r.routeOneArc(net, arc, criticality) {
			result.Routed++
		} else {
			result.Failed = append(result.Failed, arc)
		}
		r.dirtyNets = make(map[idstring.ID]bool)
	}

	if r.Opts.TimingDriven && computeTiming != nil {
		results = computeTiming()
		result.TimingRipupRounds = r.timingDrivenRipup(q, criticality, &results, computeTiming, timingRipupMaxIter, percentile, &result)
	}

	return result
}

func (r *Router) routeOneArc(net *design.NetInfo, arc ArcKey, criticality func(net idstring.ID, userIdx int) float64) bool {
	user, ok := net.Users[arc.UserIdx]
	if !ok {
		return false
	}
	driverCell := r.Ctx.Cells[net.Driver.Cell]
	sinkCell := r.Ctx.Cells[user.Cell]
	if driverCell == nil || sinkCell == nil || !driverCell.HasBel() || !sinkCell.HasBel() {
		return false
	}

	src := r.driverWire(driverCell, net.Driver.Port)
	dst := r.driverWire(sinkCell, user.Port)
	if src.IsNone() || dst.IsNone() {
		return false
	}

	crit := 0.0
	if criticality != nil {
		crit = criticality(net.Name, arc.UserIdx)
	}

	if net.ConstTie != idstring.None {
		return r.routeConstArc(net, arc, dst)
	}

	path, found := r.routeArc(net, arc, src, dst, crit, true)
	if !found {
		return false
	}
	r.bindPath(arc, net, path)
	return true
}

// timingDrivenRipup rips up every wire on every arc whose slack is
// below the percentile threshold and re-enqueues it, repeating up to
// maxIter times, clearing historic congestion scores each pass.
func (r *Router) timingDrivenRipup(q *arcQueue, criticality func(net idstring.ID, userIdx int) float64, results *map[idstring.ID]*timing.NetTiming, computeTiming func() map[idstring.ID]*timing.NetTiming, maxIter int, percentile float64, result *RunResult) int {
	rounds := 0
	for ; rounds < maxIter; rounds++ {
		threshold, ok := timing.PercentileSlackThreshold(*results, percentile)
		if !ok || threshold >= 0 {
			break
		}

		var toRipup []ArcKey
		for netName, nt := range *results {
			for userIdx, arc := range nt.Arcs {
				if arc.SetupSlackPs < threshold {
					toRipup = append(toRipup, ArcKey{Net: netName, UserIdx: userIdx})
				}
			}
		}
		if len(toRipup) == 0 {
			break
		}

		for _, arc := range toRipup {
			r.ripupArc(arc)
			q.push(arc, 0)
		}
		r.wireScores = make(map[chipdb.WireId]int)
		r.netScores = make(map[idstring.ID]int)

		for {
			arc, ok := q.pop()
			if !ok {
				break
			}
			net := r.Ctx.Nets[arc.Net]
			if net == nil {
				continue
			}
			if r.routeOneArc(net, arc, criticality) {
				result.Routed++
			} else {
				result.Failed = append(result.Failed, arc)
			}
		}

		*results = computeTiming()
	}
	return rounds
}

func (r *Router) ripupArc(arc ArcKey) {
	for wire := range r.arcToWires[arc] {
		if net := r.Ctx.WireOwner(wire); net != idstring.None {
			r.netScores[net]++
		}
		r.wireScores[wire]++
		r.Ctx.UnbindWire(wire)
	}
	r.unregisterArc(arc)
}

// CheckRoutedDesign walks each net's wire tree, verifying it is
// acyclic, every sink wire is bound, and there are no dangling wires
//. Violation is reported, not panicked,
// so callers can choose to treat it as the stage's fatal design-check
// failure.
func (r *Router) CheckRoutedDesign(in *idstring.Interner) error {
	for name, net := range r.Ctx.Nets {
		if err := r.checkNetTree(name, net, in); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) checkNetTree(name idstring.ID, net *design.NetInfo, in *idstring.Interner) error {
	driverCell := r.Ctx.Cells[net.Driver.Cell]
	if driverCell == nil || !driverCell.HasBel() {
		return nil
	}
	src := r.driverWire(driverCell, net.Driver.Port)
	if src.IsNone() {
		return nil
	}
	root := r.Ctx.DB.ResolveWire(src)

	visited := make(map[chipdb.WireId]bool)
	var walk func(w chipdb.WireId) error
	walk = func(w chipdb.WireId) error {
		if visited[w] {
			return fmt.Errorf("route: net %q: routing tree contains a cycle at wire %v", in.String(name), w)
		}
		visited[w] = true
		for wire, pm := range net.Wires {
			if pm.HasPip && r.Ctx.DB.ResolveWire(r.Ctx.DB.PipSrcWire(pm.Pip)) == w {
				if r.Ctx.DB.ResolveWire(r.Ctx.DB.PipDstWire(pm.Pip)) != wire {
					return fmt.Errorf("route: net %q: wire %v's pip destination mismatch", in.String(name), wire)
				}
				if err := walk(wire); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return err
	}

	for wire := range net.Wires {
		if !visited[wire] {
			return fmt.Errorf("route: net %q: dangling wire %v not reachable from driver", in.String(name), wire)
		}
	}
	for _, user := range net.Users {
		sinkCell := r.Ctx.Cells[user.Cell]
		if sinkCell == nil || !sinkCell.HasBel() {
			continue
		}
		if sink := r.driverWire(sinkCell, user.Port); !sink.IsNone() && !visited[r.Ctx.DB.ResolveWire(sink)] {
			return fmt.Errorf("route: net %q: sink wire %v is not bound", in.String(name), sink)
		}
	}
	return nil
}

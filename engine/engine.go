// Package engine sequences pack, place, and route over one
// *design.Context as akita sim.TickingComponents under a single
// sim.Engine: each stage's Tick call performs one unit of work and
// returns whether it made progress. A place tick runs one SA outer
// iteration; the pack and route stages each run to completion inside a
// single tick. There is no cancellation flag: once Run starts, every
// stage runs to completion.
package engine

import (
	"context"
	"log/slog"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/config"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/iter"
	"github.com/nextpnr-go/corepnr/pack"
	"github.com/nextpnr-go/corepnr/place/heap"
	"github.com/nextpnr-go/corepnr/place/sa"
	"github.com/nextpnr-go/corepnr/route"
	"github.com/nextpnr-go/corepnr/scopelock"
	"github.com/nextpnr-go/corepnr/timing"
	"github.com/nextpnr-go/corepnr/uarch"
)

// LevelStage is one tick above Info, reserved for per-stage progress
// lines ("pack: stage complete", "place: progress"),
// matching core/util.go's LevelTrace/LevelWaveform convention of
// custom slog levels for build-time verbosity.
const LevelStage slog.Level = slog.LevelInfo + 1

// Stage names the pipeline phases in run order.
type Stage int

const (
	StagePack Stage = iota
	StagePlace
	StageRoute
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePack:
		return "pack"
	case StagePlace:
		return "place"
	case StageRoute:
		return "route"
	default:
		return "done"
	}
}

// Result summarises one Engine.Run invocation for the report package.
type Result struct {
	PlaceAccepts int
	RouteResult  route.RunResult
	Timing       map[idstring.ID]*timing.NetTiming
}

// runner drives one stage's unit of work per Tick and reports
// completion through done; akita retires the TickingComponent once
// Tick stops returning true.
type runner struct {
	*sim.TickingComponent
	tick func(now sim.VTimeInSec) (progress, done bool)
	done bool
}

func (r *runner) Tick(now sim.VTimeInSec) bool {
	if r.done {
		return false
	}
	progress, done := r.tick(now)
	if done {
		r.done = true
	}
	return progress
}

// withWriteLock runs fn holding the Context's exclusive scope-lock
// proxy for the duration of one stage tick; it blocks until any
// outstanding read proxy (a GUI or reporting hook observing the
// Context between ticks) has released, matching the single-writer
// discipline package scopelock documents.
func (e *Engine) withWriteLock(fn func() (progress, done bool)) (progress, done bool) {
	p := e.guard.Lock()
	defer p.Release()
	return fn()
}

// ReadContext hands fn a read-only proxy onto the Context, for an
// external observer (a GUI, a progress reporter) to inspect state
// concurrently with, but never during, a stage's write-locked tick.
func (e *Engine) ReadContext(fn func(*design.Context)) {
	p := e.guard.RLock()
	defer p.Release()
	fn(p.Context())
}

// Engine owns the akita scheduler and the per-stage bounded-work
// closures. Build via New, then Run.
type Engine struct {
	sim sim.Engine
	mon *monitoring.Monitor

	ctx      *design.Context
	guard    *scopelock.Guard
	arch     uarch.Arch
	db       *chipdb.Database
	cfg      config.Settings
	analyser *timing.Analyser

	placer *sa.Placer
	router *route.Router

	stage Stage
}

// New wires an Engine over ctx/arch/db with cfg's tunables, creating
// the akita serial engine and monitor the way
// samples/simple_hidden/main.go wires a driver+device pair.
func New(ctx *design.Context, arch uarch.Arch, db *chipdb.Database, cfg config.Settings) *Engine {
	return &Engine{
		sim:      sim.NewSerialEngine(),
		mon:      monitoring.NewMonitor(),
		ctx:      ctx,
		guard:    scopelock.NewGuard(ctx),
		arch:     arch,
		db:       db,
		cfg:      cfg,
		analyser: timing.NewAnalyser(db),
		stage:    StagePack,
	}
}

// Stage reports the pipeline phase most recently started or completed.
func (e *Engine) Stage() Stage { return e.stage }

// Router returns the route stage's Router, for callers (tests, the
// report package) that want to run post-route checks like
// CheckRoutedDesign directly. Valid only after Run has reached
// StageRoute.
func (e *Engine) Router() *route.Router { return e.router }

// estimateDelay adapts the uarch's wire-level delay estimator to the
// router's narrower signature.
func (e *Engine) estimateDelay(src, dst chipdb.WireId) float64 {
	return e.arch.EstimateDelay(e.ctx, src, dst)
}

// computeTiming re-analyses the whole design, predicting each arc's
// delay from the uarch's bel-pin-level estimator; it both feeds the
// placer's timing cost and the router's timing-driven rip-up pass.
func (e *Engine) computeTiming() map[idstring.ID]*timing.NetTiming {
	return e.analyser.Run(e.ctx, func(net *design.NetInfo, user design.PortRef) float64 {
		driver := e.ctx.Cells[net.Driver.Cell]
		sink := e.ctx.Cells[user.Cell]
		if driver == nil || sink == nil || !driver.HasBel() || !sink.HasBel() {
			return 0
		}
		return e.arch.PredictDelay(e.ctx, driver.Bel, net.Driver.Port, sink.Bel, user.Port)
	})
}

// refreshCellCriticality re-analyses timing and pushes each cell's
// worst incident-arc criticality into the placer's cost function, at
// the cadence config.Settings.SlackRedistIter sets.
func (e *Engine) refreshCellCriticality() {
	nt := e.computeTiming()
	worst := make(map[idstring.ID]float64)
	update := func(cell idstring.ID, crit float64) {
		if crit > worst[cell] {
			worst[cell] = crit
		}
	}
	for netName, perNet := range nt {
		net := e.ctx.Nets[netName]
		if net == nil {
			continue
		}
		for userIdx, arc := range perNet.Arcs {
			update(net.Driver.Cell, arc.Criticality)
			if user, ok := net.Users[userIdx]; ok {
				update(user.Cell, arc.Criticality)
			}
		}
	}
	e.placer.CellCriticality = worst
}

// candidateBelsFunc returns a memoised candidateBels closure of the
// shape sa.Placer/heap.Solver expect, grouping the device's bels by
// uarch bucket once and reusing the grouping for every cell type that
// resolves to the same bucket.
func (e *Engine) candidateBelsFunc() func(cellType idstring.ID) []chipdb.BelId {
	bucketOf := make(map[idstring.ID]uarch.BelBucket)
	belsOf := make(map[uarch.BelBucket][]chipdb.BelId)

	return func(cellType idstring.ID) []chipdb.BelId {
		bucket, ok := bucketOf[cellType]
		if !ok {
			bucket = e.arch.GetBelBucketForCellType(cellType)
			bucketOf[cellType] = bucket
		}
		if bels, ok := belsOf[bucket]; ok {
			return bels
		}

		var bels []chipdb.BelId
		it := iter.Bels(e.db)
		for it.Next() {
			b := it.Bel()
			if e.arch.GetBelBucketForBel(e.ctx, b) == bucket {
				bels = append(bels, b)
			}
		}
		belsOf[bucket] = bels
		return bels
	}
}

// autoplaceableCellNames lists every cell the placer is free to move,
// for handing to heap.Solver's initial bound2bound solve.
func autoplaceableCellNames(ctx *design.Context) []idstring.ID {
	var names []idstring.ID
	for name, c := range ctx.Cells {
		if c.BelStrength >= design.StrengthFixed {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Run builds TickingComponents for pack, place, and route, registers
// them with the monitor, and drives the akita engine to completion;
// Engine.sim.Run() (an akita Engine, not this type) runs until no
// component makes further progress, so a single call suffices the way
// driver.Run() does in samples/simple_hidden/main.go.
func (e *Engine) Run() Result {
	var packDone, placeDone bool
	var placeResult int
	var routeResult route.RunResult
	var timingResults map[idstring.ID]*timing.NetTiming

	candidateBels := e.candidateBelsFunc()

	packRunner := &runner{tick: func(now sim.VTimeInSec) (bool, bool) {
		return e.withWriteLock(func() (bool, bool) {
			opts := pack.Options{Rules: pack.DefaultRules(e.ctx.Interner), AllowCarry8: true}
			if err := pack.Pack(e.ctx, e.ctx.Interner, e.arch, opts); err != nil {
				slog.Error("pack: failed", "err", err)
			}
			slog.Log(context.Background(), LevelStage, "pack: stage complete")
			packDone = true
			e.stage = StagePlace
			return true, true
		})
	}}
	packRunner.TickingComponent = sim.NewTickingComponent("pack", e.sim, 1*sim.GHz, packRunner)
	e.mon.RegisterComponent(packRunner)

	saOpts := sa.DefaultOptions()
	saOpts.Seed = e.cfg.Seed
	saOpts.ConstraintWeight = e.cfg.Placer1.ConstraintWeight
	saOpts.TimingDriven = e.cfg.TimingDriven
	e.placer = sa.NewPlacer(e.ctx, e.arch, saOpts)

	placeStarted := false
	placeIters := 0
	placeRunner := &runner{tick: func(now sim.VTimeInSec) (bool, bool) {
		if !packDone {
			return false, false
		}
		return e.withWriteLock(func() (bool, bool) {
			if !placeStarted {
				if e.cfg.Placer == config.PlacerHeap {
					solver := heap.NewSolver(e.ctx, e.arch, heap.DefaultOptions())
					solver.Solve(autoplaceableCellNames(e.ctx), candidateBels)
				}
				e.placer.InitialAssign(candidateBels)
				placeStarted = true
				return true, false
			}

			if e.placer.Opts.TimingDriven && placeIters%e.cfg.SlackRedistIter == 0 {
				e.refreshCellCriticality()
			}
			if e.placer.Done() {
				placeDone = true
				e.stage = StageRoute
				slog.Log(context.Background(), LevelStage, "place: stage complete", "accepts", placeResult)
				return false, true
			}

			accepts, _ := e.placer.OuterIteration(candidateBels)
			placeResult += accepts
			placeIters++
			if placeIters%1000 == 0 {
				slog.Log(context.Background(), LevelStage, "place: progress", "iteration", placeIters, "temperature", e.placer.Temperature(), "rss_mib", selfMemRSSMiB())
			}
			return true, false
		})
	}}
	placeRunner.TickingComponent = sim.NewTickingComponent("place", e.sim, 1*sim.GHz, placeRunner)
	e.mon.RegisterComponent(placeRunner)

	routeRunner := &runner{tick: func(now sim.VTimeInSec) (bool, bool) {
		if !placeDone {
			return false, false
		}
		return e.withWriteLock(func() (bool, bool) {
			if e.cfg.Router != config.Router1 {
				slog.Error("route: unsupported router kind selected", "router", e.cfg.Router)
				return false, true
			}

			opts := route.DefaultOptions()
			opts.MaxIterCnt = e.cfg.Router1.MaxIterCnt
			opts.UseEstimate = e.cfg.Router1.UseEstimate
			opts.TimingDriven = e.cfg.TimingDriven && e.cfg.Router1.TmgRipup
			e.router = route.NewRouter(e.ctx, e.estimateDelay, opts)

			criticality := func(net idstring.ID, userIdx int) float64 {
				if timingResults == nil {
					return 0
				}
				nt := timingResults[net]
				if nt == nil {
					return 0
				}
				return nt.Arcs[userIdx].Criticality
			}

			q := e.router.Setup(criticality)
			routeResult = e.router.Run(q, e.computeTiming, e.cfg.Router1.TimingRipupMaxIter, e.cfg.Router1.TimingRipupPercentile)
			timingResults = e.computeTiming()
			e.stage = StageDone
			slog.Log(context.Background(), LevelStage, "route: stage complete", "routed", routeResult.Routed, "failed", len(routeResult.Failed), "timing_ripup_rounds", routeResult.TimingRipupRounds)
			return true, true
		})
	}}
	routeRunner.TickingComponent = sim.NewTickingComponent("route", e.sim, 1*sim.GHz, routeRunner)
	e.mon.RegisterComponent(routeRunner)

	e.sim.Run()

	return Result{PlaceAccepts: placeResult, RouteResult: routeResult, Timing: timingResults}
}

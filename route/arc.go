// Package route implements router1: per-arc
// rip-up-and-reroute A* over the node graph with negotiated-congestion
// penalties and timing-driven slack rip-up. router2 is named in
// config.Router2 but not implemented; selecting it is an error.
package route

import (
	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// ArcKey names one driver-to-sink arc: a net, the stable user index of
// the sink, and which physical sink wire of a multi-bel user this arc
// targets.
type ArcKey struct {
	Net     idstring.ID
	UserIdx int
	PhysIdx int
}

// arcState is the router's bookkeeping for one arc between routing
// attempts.
type arcState struct {
	key         ArcKey
	src, dst    chipdb.WireId
	criticality float64
	constTie    idstring.ID // idstring.None unless this is a constant-net arc
}

// Router holds the router's state across the setup pass, per-arc
// routing, and timing-driven rip-up.
type Router struct {
	Ctx *design.Context
	EstimateDelay func(src, dst chipdb.WireId) float64

	Opts Options

	wireToArcs map[chipdb.WireId]map[ArcKey]bool
	arcToWires map[ArcKey]map[chipdb.WireId]bool

	wireScores map[chipdb.WireId]int
	netScores  map[idstring.ID]int

	// dirtyNets accumulates nets whose routing was disturbed by a
	// rip-up while the current arc was bound; Router.Run clears it after
	// every arc and does not re-enqueue those nets' arcs.
	dirtyNets map[idstring.ID]bool
}

// Options tunes the negotiated-congestion penalties and search bounds.
type Options struct {
	WireRipupPenalty float64
	NetRipupPenalty  float64
	DelayEpsilon     float64
	TimingDriven     bool
	UseEstimate      bool
	MaxIterCnt       int
}

// DefaultOptions matches the default router1 settings.
func DefaultOptions() Options {
	return Options{
		WireRipupPenalty: 1,
		NetRipupPenalty:  1,
		DelayEpsilon:     1e-6,
		TimingDriven:     false,
		UseEstimate:      true,
		MaxIterCnt:       200,
	}
}

// NewRouter prepares a Router over ctx.
func NewRouter(ctx *design.Context, estimateDelay func(src, dst chipdb.WireId) float64, opts Options) *Router {
	return &Router{
		Ctx:           ctx,
		EstimateDelay: estimateDelay,
		Opts:          opts,
		wireToArcs:    make(map[chipdb.WireId]map[ArcKey]bool),
		arcToWires:    make(map[ArcKey]map[chipdb.WireId]bool),
		wireScores:    make(map[chipdb.WireId]int),
		netScores:     make(map[idstring.ID]int),
		dirtyNets:     make(map[idstring.ID]bool),
	}
}

func (r *Router) registerWire(arc ArcKey, wire chipdb.WireId) {
	if r.wireToArcs[wire] == nil {
		r.wireToArcs[wire] = make(map[ArcKey]bool)
	}
	r.wireToArcs[wire][arc] = true
	if r.arcToWires[arc] == nil {
		r.arcToWires[arc] = make(map[chipdb.WireId]bool)
	}
	r.arcToWires[arc][wire] = true
}

func (r *Router) unregisterArc(arc ArcKey) {
	for wire := range r.arcToWires[arc] {
		delete(r.wireToArcs[wire], arc)
	}
	delete(r.arcToWires, arc)
}

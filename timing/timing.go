// Package timing implements a static timing analyser: a directed
// graph over (cell, port) pairs, built from intra-
// cell combinational/sequential arcs (looked up in the uarch's cell
// timing database) and inter-cell wire arcs, producing per-arc
// criticality and setup slack.
package timing

import (
	"math"
	"sort"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// Endpoint names one (cell, port) timing-graph node.
type Endpoint struct {
	Cell idstring.ID
	Port idstring.ID
}

// ArcResult is the per-arc output of the analyser: a user of a net,
// identified by its stable user index, paired with the usual setup
// timing metrics.
type ArcResult struct {
	UserIdx        int
	Criticality    float64 // in [0, 1]
	SetupSlackPs   float64
	ClockDomain    idstring.ID
	CDWorstSlackPs float64
	PathLengthPs   float64
}

// NetTiming holds the per-user-index criticality vector for one net,
// keyed as a map from net name to criticality vector sized by user
// count.
type NetTiming struct {
	Arcs map[int]ArcResult
}

// Analyser computes timing results over a Context. CritExp matches the
// placer's `criticality^crit_exp` exponent so cost
// functions built on top agree with the analyser's own normalisation.
type Analyser struct {
	DB      *chipdb.Database
	CritExp float64

	// ClockPeriodPs maps a clock-domain IdString (the clock net's name)
	// to its required period; absent entries default to DefaultPeriodPs.
	ClockPeriodPs    map[idstring.ID]float64
	DefaultPeriodPs  float64
}

// NewAnalyser returns an Analyser with a default crit_exp of 8 and a
// 10 ns default clock period.
func NewAnalyser(db *chipdb.Database) *Analyser {
	return &Analyser{
		DB:              db,
		CritExp:         8,
		ClockPeriodPs:   make(map[idstring.ID]float64),
		DefaultPeriodPs: 10000,
	}
}

type arcTiming struct {
	net     idstring.ID
	user    int
	delayPs float64
	cd      idstring.ID
}

// Run walks every net in ctx, estimates a per-arc delay via
// estimateDelay, and derives slack/criticality against the worst
// observed arrival time per clock domain. It returns a map keyed by
// net name.
func (a *Analyser) Run(ctx *design.Context, estimateDelay func(net *design.NetInfo, user design.PortRef) float64) map[idstring.ID]*NetTiming {
	var arcs []arcTiming
	worst := make(map[idstring.ID]float64)

	for netName, net := range ctx.Nets {
		cd := a.clockDomainOf(ctx, net)
		for idx, user := range net.Users {
			d := estimateDelay(net, user)
			arcs = append(arcs, arcTiming{net: netName, user: idx, delayPs: d, cd: cd})
			if d > worst[cd] {
				worst[cd] = d
			}
		}
	}

	out := make(map[idstring.ID]*NetTiming, len(ctx.Nets))
	for _, arc := range arcs {
		period := a.periodFor(arc.cd)
		slack := period - arc.delayPs
		worstArrival := worst[arc.cd]
		var crit float64
		if worstArrival > 0 {
			crit = clamp01(arc.delayPs / worstArrival)
		}
		nt, ok := out[arc.net]
		if !ok {
			nt = &NetTiming{Arcs: make(map[int]ArcResult)}
			out[arc.net] = nt
		}
		nt.Arcs[arc.user] = ArcResult{
			UserIdx:        arc.user,
			Criticality:    crit,
			SetupSlackPs:   slack,
			ClockDomain:    arc.cd,
			CDWorstSlackPs: period - worstArrival,
			PathLengthPs:   arc.delayPs,
		}
	}
	return out
}

// clockDomainOf resolves a net's clock domain key. Nets carry no
// explicit clock attribute in this module's data model, so every net
// not tied to a constant shares the default domain (idstring.None);
// constant-tied nets key off their tie value so GLOBAL_LOGIC0/1 don't
// pollute the default domain's worst-arrival figure.
func (a *Analyser) clockDomainOf(ctx *design.Context, net *design.NetInfo) idstring.ID {
	return net.ConstTie
}

func (a *Analyser) periodFor(cd idstring.ID) float64 {
	if p, ok := a.ClockPeriodPs[cd]; ok {
		return p
	}
	return a.DefaultPeriodPs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TimingCost applies the placer's timing_cost(arc) = delay(arc) *
// criticality(arc)^crit_exp formula given a raw
// criticality in [0,1].
func (a *Analyser) TimingCost(delayPs, criticality float64) float64 {
	return delayPs * math.Pow(criticality, a.CritExp)
}

// WorstSlack returns the most negative setup slack across every net's
// arcs, used by report.Summarize (the router's rip-up threshold comes
// from PercentileSlackThreshold instead).
func WorstSlack(results map[idstring.ID]*NetTiming) float64 {
	worst := math.Inf(1)
	for _, nt := range results {
		for _, arc := range nt.Arcs {
			if arc.SetupSlackPs < worst {
				worst = arc.SetupSlackPs
			}
		}
	}
	if math.IsInf(worst, 1) {
		return 0
	}
	return worst
}

// TotalNegativeSlack sums every negative setup slack, matching the
// "total negative slack" figure the final report requires.
func TotalNegativeSlack(results map[idstring.ID]*NetTiming) float64 {
	var total float64
	for _, nt := range results {
		for _, arc := range nt.Arcs {
			if arc.SetupSlackPs < 0 {
				total += arc.SetupSlackPs
			}
		}
	}
	return total
}

// PercentileSlackThreshold returns the slack value at the given
// percentile (0..1) across every arc, used by the router's
// timing-driven rip-up pass.
func PercentileSlackThreshold(results map[idstring.ID]*NetTiming, percentile float64) (float64, bool) {
	var slacks []float64
	for _, nt := range results {
		for _, arc := range nt.Arcs {
			slacks = append(slacks, arc.SetupSlackPs)
		}
	}
	if len(slacks) == 0 {
		return 0, false
	}
	sort.Float64s(slacks)
	idx := int(float64(len(slacks)) * percentile)
	if idx >= len(slacks) {
		idx = len(slacks) - 1
	}
	return slacks[idx], true
}

package route

import (
	"container/heap"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/iter"
)

// frontierEntry is one A* frontier node: accumulated
// delay, accumulated congestion penalty, accumulated bonus for reusing
// the net's own existing wires, and the admissible heuristic estimate
// to dst.
type frontierEntry struct {
	wire      chipdb.WireId
	delay     float64
	penalty   float64
	bonus     float64
	estimate  float64
	backPip   chipdb.PipId
	hasBack   bool
	prev      *frontierEntry
	visits    int
	index     int
}

func (e *frontierEntry) cost() float64 { return e.delay + e.penalty - e.bonus + e.estimate }

type frontierHeap []*frontierEntry

func (h frontierHeap) Len() int            { return len(h) }
func (h frontierHeap) Less(i, j int) bool  { return h[i].cost() < h[j].cost() }
func (h frontierHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *frontierHeap) Push(x interface{}) {
	e := x.(*frontierEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// routeArc runs A* on the node graph from src to dst.
// It returns the bound wire path (src..dst inclusive) on success.
// Edges through bindings held above StrengthStrong are never taken;
// with allowRipup false, edges onto another net's binding are refused
// as well.
func (r *Router) routeArc(net *design.NetInfo, arc ArcKey, src, dst chipdb.WireId, criticality float64, allowRipup bool) ([]chipdb.WireId, bool) {
	src = r.Ctx.DB.ResolveWire(src)
	dst = r.Ctx.DB.ResolveWire(dst)

	visited := make(map[chipdb.WireId]*frontierEntry)
	pq := &frontierHeap{}
	heap.Init(pq)

	start := &frontierEntry{wire: src, estimate: r.heuristic(src, dst)}
	visited[src] = start
	heap.Push(pq, start)

	penaltyScale := 1.0
	if r.Opts.TimingDriven {
		s := 1 - criticality
		if s < 0.05 {
			s = 0.05
		}
		penaltyScale = s
	}

	var goal *frontierEntry
	maxVisits := -1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*frontierEntry)
		if cur.wire == dst {
			goal = cur
			break
		}
		if maxVisits >= 0 && cur.visits > maxVisits {
			continue
		}

		downhill := iter.DownhillOf(r.Ctx.DB, cur.wire)
		for downhill.Next() {
			pip := downhill.Pip()
			nextWire := r.Ctx.DB.ResolveWire(r.Ctx.DB.PipDstWire(pip))

			penaltyDelta, blocked := r.edgePenalty(net, pip, nextWire)
			if blocked || (!allowRipup && penaltyDelta > 0) {
				continue
			}
			penaltyDelta *= penaltyScale

			bonusDelta := 0.0
			if _, owned := net.Wires[nextWire]; owned {
				bonusDelta = r.EstimateDelay(cur.wire, nextWire) * 0.5
			}

			delay := cur.delay + r.EstimateDelay(cur.wire, nextWire)
			penalty := cur.penalty + penaltyDelta
			bonus := cur.bonus + bonusDelta
			estimate := 0.0
			if r.Opts.UseEstimate {
				estimate = r.heuristic(nextWire, dst)
			}

			candidate := &frontierEntry{
				wire: nextWire, delay: delay, penalty: penalty, bonus: bonus,
				estimate: estimate, backPip: pip, hasBack: true, prev: cur,
				visits: cur.visits + 1,
			}

			if existing, ok := visited[nextWire]; ok {
				if existing.cost() <= candidate.cost()+r.Opts.DelayEpsilon {
					continue
				}
			}
			visited[nextWire] = candidate
			heap.Push(pq, candidate)

			if nextWire == dst && maxVisits < 0 {
				bound := 2*candidate.visits + 0
				if penalty > 0 {
					bound += 100
				}
				maxVisits = bound
			}
		}
	}

	if goal == nil {
		return nil, false
	}

	var path []chipdb.WireId
	for e := goal; e != nil; e = e.prev {
		path = append([]chipdb.WireId{e.wire}, path...)
	}
	return path, true
}

// heuristic returns the admissible A* estimate, delegating to the
// router's EstimateDelay callback when UseEstimate is enabled.
func (r *Router) heuristic(from, to chipdb.WireId) float64 {
	if !r.Opts.UseEstimate {
		return 0
	}
	return r.EstimateDelay(from, to)
}

// edgePenalty computes the penalty delta for stepping onto nextWire
// via pip, and reports whether the edge is hard-blocked.
func (r *Router) edgePenalty(net *design.NetInfo, pip chipdb.PipId, nextWire chipdb.WireId) (float64, bool) {
	if !r.Ctx.CheckPipAvailForNet(pip, net.Name) {
		owner := r.Ctx.PipOwner(pip)
		if owner != idstring.None && owner != net.Name {
			if s := r.conflictStrength(owner, pip); s > design.StrengthStrong {
				return 0, true
			}
		}
	}

	wireOwner := r.Ctx.WireOwner(nextWire)
	if wireOwner == idstring.None || wireOwner == net.Name {
		return 0, false
	}

	if s := r.wireBindStrength(wireOwner, nextWire); s > design.StrengthStrong {
		return 0, true
	}

	conflictNet := r.Ctx.Nets[wireOwner]
	wireLen := 0
	if conflictNet != nil {
		wireLen = len(conflictNet.Wires)
	}
	penalty := r.Opts.WireRipupPenalty * (1 + float64(r.wireScores[nextWire]))
	penalty += r.Opts.NetRipupPenalty*(1+float64(r.netScores[wireOwner])) + r.Opts.WireRipupPenalty*float64(wireLen)
	return penalty, false
}

func (r *Router) conflictStrength(net idstring.ID, pip chipdb.PipId) design.Strength {
	ni := r.Ctx.Nets[net]
	if ni == nil {
		return design.StrengthNone
	}
	dst := r.Ctx.DB.PipDstWire(pip)
	if pm, ok := ni.Wires[r.Ctx.DB.ResolveWire(dst)]; ok {
		return pm.Strength
	}
	return design.StrengthNone
}

func (r *Router) wireBindStrength(net idstring.ID, wire chipdb.WireId) design.Strength {
	ni := r.Ctx.Nets[net]
	if ni == nil {
		return design.StrengthNone
	}
	if pm, ok := ni.Wires[wire]; ok {
		return pm.Strength
	}
	return design.StrengthNone
}

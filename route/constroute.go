package route

import (
	"container/heap"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/iter"
)

// routeConstArc routes a sink bound to a constant-tied net backwards,
// from dst up the uphill pip graph until it reaches any wire the
// device considers tied to the matching constant value; there is no
// heuristic since the goal is a set, not a single point.
func (r *Router) routeConstArc(net *design.NetInfo, arc ArcKey, dst chipdb.WireId) bool {
	dst = r.Ctx.DB.ResolveWire(dst)

	visited := make(map[chipdb.WireId]*frontierEntry)
	pq := &frontierHeap{}
	heap.Init(pq)

	start := &frontierEntry{wire: dst}
	visited[dst] = start
	heap.Push(pq, start)

	var goal *frontierEntry

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*frontierEntry)
		if r.isTiedTo(cur.wire, net.ConstTie) {
			goal = cur
			break
		}

		uphill := iter.UphillOf(r.Ctx.DB, cur.wire)
		for uphill.Next() {
			pip := uphill.Pip()
			srcWire := r.Ctx.DB.ResolveWire(r.Ctx.DB.PipSrcWire(pip))

			penaltyDelta, blocked := r.edgePenalty(net, pip, cur.wire)
			if blocked {
				continue
			}

			delay := cur.delay + r.EstimateDelay(srcWire, cur.wire)
			penalty := cur.penalty + penaltyDelta

			candidate := &frontierEntry{
				wire: srcWire, delay: delay, penalty: penalty,
				backPip: pip, hasBack: true, prev: cur, visits: cur.visits + 1,
			}

			if existing, ok := visited[srcWire]; ok {
				if existing.cost() <= candidate.cost()+r.Opts.DelayEpsilon {
					continue
				}
			}
			visited[srcWire] = candidate
			heap.Push(pq, candidate)
		}
	}

	if goal == nil {
		return false
	}

	var path []chipdb.WireId
	for e := goal; e != nil; e = e.prev {
		path = append(path, e.wire)
	}
	r.bindConstPath(arc, net, path)
	return true
}

func (r *Router) isTiedTo(wire chipdb.WireId, tie idstring.ID) bool {
	wd := r.Ctx.DB.WireData(wire)
	return wd.ConstTie == tie
}

// bindConstPath binds path, which runs dst..tiedWire (sink-to-source
// order, the reverse of the forward A* convention), reusing the same
// rip-up/bind discipline as bindPath.
func (r *Router) bindConstPath(arc ArcKey, net *design.NetInfo, path []chipdb.WireId) {
	if len(path) == 0 {
		return
	}
	if _, ok := net.Wires[path[0]]; !ok {
		net.Wires[path[0]] = design.PipMap{}
	}
	r.registerWire(arc, path[0])

	for i := 1; i < len(path); i++ {
		to, from := path[i-1], path[i]
		pip := r.findPip(from, to)
		if pip.IsNone() {
			continue
		}

		if owner := r.Ctx.PipOwner(pip); owner != idstring.None && owner != net.Name {
			r.ripupPip(pip, owner)
		}
		if owner := r.Ctx.WireOwner(to); owner != idstring.None && owner != net.Name {
			r.ripupWire(to, owner)
		}

		if r.Ctx.PipOwner(pip) == idstring.None {
			r.Ctx.BindPip(pip, net.Name, design.StrengthWeak)
		}
		r.registerWire(arc, from)
	}
}

package route

import (
	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/iter"
)

// bindPath walks path (src..dst) and binds each edge to net with WEAK
// strength, ripping up any conflicting wire/pip in place.
func (r *Router) bindPath(arc ArcKey, net *design.NetInfo, path []chipdb.WireId) {
	if len(path) == 0 {
		return
	}
	if _, ok := net.Wires[path[0]]; !ok {
		net.Wires[path[0]] = design.PipMap{}
	}
	r.registerWire(arc, path[0])

	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
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
		r.registerWire(arc, to)
	}
}

// findPip re-derives the pip connecting from to to, walking the same
// node-aware downhill aggregation the A* expansion used (iter.DownhillOf)
// so a node spanning multiple tiles resolves to the right member pip.
func (r *Router) findPip(from, to chipdb.WireId) chipdb.PipId {
	downhill := iter.DownhillOf(r.Ctx.DB, from)
	for downhill.Next() {
		pip := downhill.Pip()
		if r.Ctx.DB.ResolveWire(r.Ctx.DB.PipDstWire(pip)) == to {
			return pip
		}
	}
	return chipdb.NonePip
}

// ripupPip unbinds pip (owned by owner), incrementing historic
// congestion counters.
func (r *Router) ripupPip(pip chipdb.PipId, owner idstring.ID) {
	dst := r.Ctx.DB.PipDstWire(pip)
	r.wireScores[r.Ctx.DB.ResolveWire(dst)]++
	r.netScores[owner]++
	r.Ctx.UnbindPip(pip)
	r.requeueOwner(owner)
}

// ripupWire unbinds a wire not reached through a pip entry (e.g. a
// net's own driver root wire) owned by a different net.
func (r *Router) ripupWire(wire chipdb.WireId, owner idstring.ID) {
	r.wireScores[wire]++
	r.netScores[owner]++
	r.Ctx.UnbindWire(wire)
	r.requeueOwner(owner)
}

// requeueOwner marks the ripped-up binding's owning net in dirtyNets.
// Router.Run clears that set after each arc; the owner's arcs are not
// re-enqueued.
func (r *Router) requeueOwner(owner idstring.ID) {
	r.dirtyNets[owner] = true
}

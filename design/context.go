package design

import (
	"fmt"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/idstring"
)

// Uarch is the subset of the architecture plugin contract the Context itself needs: validity notification and legality
// predicates consulted by bind/check operations. The fuller plugin
// surface (delay estimation, cluster helpers, bel buckets) lives in
// package uarch; Context only needs to be able to invalidate cached
// validity bits and ask "is this still legal" after a bind changes.
type Uarch interface {
	NotifyBelChange(bel chipdb.BelId, cell idstring.ID)
	NotifyWireChange(wire chipdb.WireId, net idstring.ID)
	NotifyPipChange(pip chipdb.PipId, net idstring.ID)

	CheckWireAvail(ctx *Context, wire chipdb.WireId) bool
	CheckPipAvail(ctx *Context, pip chipdb.PipId) bool
}

// DriveLoadCache caches the Elmore-style resistance/capacitance used
// by the router's delay estimator when fast-pip-delays mode is
// disabled.
type DriveLoadCache struct {
	DriveRes map[chipdb.WireId]float64
	LoadCap  map[chipdb.WireId]float64
}

// Context is the single authoritative state shared by packer, placer,
// and router. It exclusively owns CellInfo/NetInfo;
// all cross-references are idstring.ID handles resolved back through
// Context lookups.
type Context struct {
	DB       *chipdb.Database
	Interner *idstring.Interner
	Uarch    Uarch

	Cells map[idstring.ID]*CellInfo
	Nets  map[idstring.ID]*NetInfo

	// belToCell is a map keyed by BelId, so no fixed per-tile bel count
	// is needed at Context construction.
	belToCell map[chipdb.BelId]idstring.ID
	wireToNet map[chipdb.WireId]idstring.ID
	pipToNet  map[chipdb.PipId]idstring.ID

	Settings map[string]interface{}

	Cache DriveLoadCache
}

// NewContext creates an empty Context over db, ready for netlist
// ingestion.
func NewContext(db *chipdb.Database, in *idstring.Interner, arch Uarch) *Context {
	return &Context{
		DB:        db,
		Interner:  in,
		Uarch:     arch,
		Cells:     make(map[idstring.ID]*CellInfo),
		Nets:      make(map[idstring.ID]*NetInfo),
		belToCell: make(map[chipdb.BelId]idstring.ID),
		wireToNet: make(map[chipdb.WireId]idstring.ID),
		pipToNet:  make(map[chipdb.PipId]idstring.ID),
		Settings:  make(map[string]interface{}),
		Cache: DriveLoadCache{
			DriveRes: make(map[chipdb.WireId]float64),
			LoadCap:  make(map[chipdb.WireId]float64),
		},
	}
}

// AddCell inserts a new, unbound cell. Fatal (panics) if name is
// already used — cells and nets are created during ingestion/packing,
// never silently overwritten.
func (c *Context) AddCell(cell *CellInfo) {
	if _, exists := c.Cells[cell.Name]; exists {
		panic(fmt.Sprintf("design: duplicate cell %q", c.Interner.String(cell.Name)))
	}
	cell.Bel = chipdb.NoneBel
	c.Cells[cell.Name] = cell
}

// AddNet inserts a new, unrouted net.
func (c *Context) AddNet(net *NetInfo) {
	if _, exists := c.Nets[net.Name]; exists {
		panic(fmt.Sprintf("design: duplicate net %q", c.Interner.String(net.Name)))
	}
	if net.Wires == nil {
		net.Wires = make(map[chipdb.WireId]PipMap)
	}
	if net.ConstTie == 0 {
		net.ConstTie = idstring.None
	}
	c.Nets[net.Name] = net
}

// RemoveCell destroys a cell. Only legal between stages; callers must unbind first.
func (c *Context) RemoveCell(name idstring.ID) {
	cell, ok := c.Cells[name]
	if !ok {
		return
	}
	if cell.HasBel() {
		panic(fmt.Sprintf("design: cannot remove bound cell %q", c.Interner.String(name)))
	}
	delete(c.Cells, name)
}

// GetBoundCell returns the cell bound to bel, or nil.
func (c *Context) GetBoundCell(bel chipdb.BelId) *CellInfo {
	name, ok := c.belToCell[bel]
	if !ok {
		return nil
	}
	return c.Cells[name]
}

// CheckBelAvail reports whether bel is free to bind. It only consults
// the binding table; checking the uarch's per-tile validity predicate
// is the caller's job after binding.
func (c *Context) CheckBelAvail(bel chipdb.BelId) bool {
	_, bound := c.belToCell[bel]
	return !bound
}

// CheckWireAvail reports whether wire is free, consulting the uarch's
// hard legality filter in addition to ownership.
func (c *Context) CheckWireAvail(wire chipdb.WireId) bool {
	root := c.DB.ResolveWire(wire)
	if _, bound := c.wireToNet[root]; bound {
		return false
	}
	if c.Uarch != nil {
		return c.Uarch.CheckWireAvail(c, root)
	}
	return true
}

// CheckPipAvail reports whether pip is free.
func (c *Context) CheckPipAvail(pip chipdb.PipId) bool {
	if _, bound := c.pipToNet[pip]; bound {
		return false
	}
	if c.Uarch != nil {
		return c.Uarch.CheckPipAvail(c, pip)
	}
	return true
}

// CheckPipAvailForNet is the stricter/looser version that also accepts
// a pip already owned by net.
func (c *Context) CheckPipAvailForNet(pip chipdb.PipId, net idstring.ID) bool {
	if owner, bound := c.pipToNet[pip]; bound {
		return owner == net
	}
	if c.Uarch != nil {
		return c.Uarch.CheckPipAvail(c, pip)
	}
	return true
}

// BindBel binds cell to bel at the given strength.
// Requires bel to be free and cell to have no current bel; violating
// either is an ownership invariant failure and panics.
func (c *Context) BindBel(bel chipdb.BelId, cell idstring.ID, strength Strength) {
	ci, ok := c.Cells[cell]
	if !ok {
		panic(fmt.Sprintf("design: BindBel: unknown cell %q", c.Interner.String(cell)))
	}
	if _, bound := c.belToCell[bel]; bound {
		panic(fmt.Sprintf("design: BindBel: bel already bound (cell %q)", c.Interner.String(cell)))
	}
	if ci.HasBel() {
		panic(fmt.Sprintf("design: BindBel: cell %q already has a bel", c.Interner.String(cell)))
	}

	c.belToCell[bel] = cell
	ci.Bel = bel
	ci.BelStrength = strength

	if c.Uarch != nil {
		c.Uarch.NotifyBelChange(bel, cell)
	}
}

// UnbindBel removes cell's bel binding. Fails (panics) if the binding
// strength is StrengthLocked and privileged is false — only the
// constraint layer may unbind a locked cell.
func (c *Context) UnbindBel(bel chipdb.BelId, privileged bool) {
	cell, ok := c.belToCell[bel]
	if !ok {
		return
	}
	ci := c.Cells[cell]
	if ci.BelStrength == StrengthLocked && !privileged {
		panic(fmt.Sprintf("design: UnbindBel: cell %q is LOCKED", c.Interner.String(cell)))
	}

	delete(c.belToCell, bel)
	ci.Bel = chipdb.NoneBel
	ci.BelStrength = StrengthNone

	if c.Uarch != nil {
		c.Uarch.NotifyBelChange(bel, idstring.None)
	}
}

// BindWire binds wire to net at strength, updating net.Wires.
// hasPip/pip describe how the wire was reached (hasPip false, with
// chipdb.NonePip, for a net's own driver root wire).
func (c *Context) BindWire(wire chipdb.WireId, net idstring.ID, strength Strength, pip chipdb.PipId, hasPip bool) {
	root := c.DB.ResolveWire(wire)
	ni, ok := c.Nets[net]
	if !ok {
		panic(fmt.Sprintf("design: BindWire: unknown net %q", c.Interner.String(net)))
	}
	if owner, bound := c.wireToNet[root]; bound && owner != net {
		panic(fmt.Sprintf("design: BindWire: wire already owned by %q", c.Interner.String(owner)))
	}

	c.wireToNet[root] = net
	ni.Wires[root] = PipMap{Pip: pip, Strength: strength, HasPip: hasPip}

	if c.Uarch != nil {
		c.Uarch.NotifyWireChange(root, net)
	}
}

// UnbindWire removes a wire from net's routing tree.
func (c *Context) UnbindWire(wire chipdb.WireId) {
	root := c.DB.ResolveWire(wire)
	net, ok := c.wireToNet[root]
	if !ok {
		return
	}
	delete(c.wireToNet, root)
	if ni := c.Nets[net]; ni != nil {
		delete(ni.Wires, root)
	}

	if c.Uarch != nil {
		c.Uarch.NotifyWireChange(root, idstring.None)
	}
}

// BindPip binds pip to net at strength: requires pip_to_net[pip] to be
// empty, and also binds the pip's destination wire to the same net
//. Updates the drive-resistance/load-capacitance cache
// incrementally.
func (c *Context) BindPip(pip chipdb.PipId, net idstring.ID, strength Strength) {
	if owner, bound := c.pipToNet[pip]; bound {
		panic(fmt.Sprintf("design: BindPip: pip already owned by %q", c.Interner.String(owner)))
	}

	c.pipToNet[pip] = net
	dst := c.DB.PipDstWire(pip)
	c.BindWire(dst, net, strength, pip, true)

	c.updateRCCacheOnBind(pip)

	if c.Uarch != nil {
		c.Uarch.NotifyPipChange(pip, net)
	}
}

// UnbindPip removes pip's net binding and unbinds its destination wire.
func (c *Context) UnbindPip(pip chipdb.PipId) {
	net, ok := c.pipToNet[pip]
	if !ok {
		return
	}
	delete(c.pipToNet, pip)
	c.UnbindWire(c.DB.PipDstWire(pip))
	c.updateRCCacheOnUnbind(pip)

	if c.Uarch != nil {
		c.Uarch.NotifyPipChange(pip, idstring.None)
	}
}

func (c *Context) updateRCCacheOnBind(pip chipdb.PipId) {
	pd := c.DB.PipData(pip)
	grade := c.currentSpeedGrade()
	if grade == nil || int(pd.Class) >= len(grade.PipClasses) {
		return
	}
	timing := grade.PipClasses[pd.Class]
	dst := c.DB.PipDstWire(pip)
	c.Cache.DriveRes[dst] = timing.Resistance
	c.Cache.LoadCap[dst] += timing.Capacitance
}

func (c *Context) updateRCCacheOnUnbind(pip chipdb.PipId) {
	dst := c.DB.PipDstWire(pip)
	delete(c.Cache.DriveRes, dst)
	delete(c.Cache.LoadCap, dst)
}

func (c *Context) currentSpeedGrade() *chipdb.SpeedGrade {
	if len(c.DB.SpeedGrades) == 0 {
		return nil
	}
	return &c.DB.SpeedGrades[0]
}

// WireOwner returns the net currently owning wire's root, or
// idstring.None.
func (c *Context) WireOwner(wire chipdb.WireId) idstring.ID {
	if net, ok := c.wireToNet[c.DB.ResolveWire(wire)]; ok {
		return net
	}
	return idstring.None
}

// PipOwner returns the net currently owning pip, or idstring.None.
func (c *Context) PipOwner(pip chipdb.PipId) idstring.ID {
	if net, ok := c.pipToNet[pip]; ok {
		return net
	}
	return idstring.None
}

// CheckInvariants validates the externally observable invariants of
// It is intended for tests and debug builds, not the
// hot path.
func (c *Context) CheckInvariants() error {
	for belID, cellName := range c.belToCell {
		ci := c.Cells[cellName]
		if ci == nil {
			return fmt.Errorf("bel %v bound to unknown cell %v", belID, cellName)
		}
		if ci.Bel != belID {
			return fmt.Errorf("cell %q back-pointer mismatch: bel_to_cell says %v, cell.bel says %v",
				c.Interner.String(cellName), belID, ci.Bel)
		}
	}
	for name, ci := range c.Cells {
		if ci.HasBel() {
			if c.belToCell[ci.Bel] != name {
				return fmt.Errorf("cell %q claims bel %v but bel_to_cell disagrees", c.Interner.String(name), ci.Bel)
			}
		}
	}
	for wire, netName := range c.wireToNet {
		ni := c.Nets[netName]
		if ni == nil {
			return fmt.Errorf("wire %v bound to unknown net %v", wire, netName)
		}
		pm, ok := ni.Wires[wire]
		if !ok {
			return fmt.Errorf("net %q missing wire %v entry despite wire_to_net binding", c.Interner.String(netName), wire)
		}
		if pm.HasPip {
			if c.DB.PipDstWire(pm.Pip) != wire {
				return fmt.Errorf("net %q wire %v: pip destination mismatch", c.Interner.String(netName), wire)
			}
			if owner := c.pipToNet[pm.Pip]; owner != netName {
				return fmt.Errorf("net %q wire %v: pip_to_net disagrees (%v)", c.Interner.String(netName), wire, owner)
			}
		}
	}
	return nil
}

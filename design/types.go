// Package design implements the Context: the single authoritative,
// mutable state of cells, nets, bindings, user settings, and per-
// wire/pip owners that the packer, placer, and router all operate on
//. The Context exclusively owns CellInfo and
// NetInfo; all other entities hold non-owning references keyed by
// idstring.ID.
package design

import (
	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/idstring"
)

// Strength is the sticky level of a bel/wire/pip binding, controlling
// whether the placer/router may rip it up.
type Strength int8

const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthStrong
	StrengthFixed
	StrengthLocked
	StrengthUser
)

// String renders the strength name for logs.
func (s Strength) String() string {
	switch s {
	case StrengthNone:
		return "NONE"
	case StrengthWeak:
		return "WEAK"
	case StrengthStrong:
		return "STRONG"
	case StrengthFixed:
		return "FIXED"
	case StrengthLocked:
		return "LOCKED"
	case StrengthUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// PortInfo describes one named port on a cell.
type PortInfo struct {
	Name idstring.ID
	// BelPinIndex, when >= 0, is which cell-to-bel pin mapping index
	// this port resolves to.
	BelPinIndex int
}

// PortRef names a (cell, port, optional pin index) triple: a net's
// driver or one of its users.
type PortRef struct {
	Cell    idstring.ID
	Port    idstring.ID
	PinIdx  int // -1 when the port is scalar
}

// ClusterChild describes one non-root member of a cluster and its
// fixed offset from the root.
type ClusterChild struct {
	Cell                     idstring.ID
	SiteDX, SiteDY           int16
	TileDX, TileDY           int16
	AbsPlaceIdx              int // -1 unless fixed
}

// ClusterInfo is a set of cells that must be placed in a fixed
// relative geometry; the placer treats it atomically.
type ClusterInfo struct {
	Root     idstring.ID
	Children []ClusterChild
	Strict   bool
}

// CellInfo is a logical instance. The Context is the sole owner of
// CellInfo values; everything else refers to a cell by its interned
// name.
type CellInfo struct {
	Name  idstring.ID
	Type  idstring.ID

	Ports  map[idstring.ID]PortInfo
	Params map[idstring.ID]interface{}
	Attrs  map[idstring.ID]interface{}

	Bel         chipdb.BelId
	BelStrength Strength

	Cluster *ClusterInfo

	// MacroParent is set when this cell was produced by macro
	// expansion; idstring.None for cells that came
	// straight from the netlist.
	MacroParent idstring.ID
}

// HasBel reports whether the cell currently has a bel binding.
func (c *CellInfo) HasBel() bool { return !c.Bel.IsNone() }

// PipMap describes one wire entry of a net's routing tree: which pip
// (if any) feeds it and at what strength it is bound.
type PipMap struct {
	Pip      chipdb.PipId
	Strength Strength
	HasPip   bool // false for the driver's own root wire
}

// NetInfo is a logical connection: one driver PortRef and a set of
// user PortRefs keyed by a stable user index, plus the net's current
// routing tree expressed as wire -> PipMap.
type NetInfo struct {
	Name   idstring.ID
	Driver PortRef

	// Users is keyed by a stable user_idx so arcs (net, user_idx,
	// phys_idx) in the router stay addressable across rip-up.
	Users    map[int]PortRef
	nextUser int

	Wires map[chipdb.WireId]PipMap

	// ConstTie, when not idstring.None, ties this net to a constant
	// value (GLOBAL_LOGIC0/1); the router routes it specially.
	ConstTie idstring.ID
}

// AddUser appends a user PortRef and returns its stable index.
func (n *NetInfo) AddUser(ref PortRef) int {
	idx := n.nextUser
	n.nextUser++
	if n.Users == nil {
		n.Users = make(map[int]PortRef)
	}
	n.Users[idx] = ref
	return idx
}

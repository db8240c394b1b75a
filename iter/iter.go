// Package iter provides lazy, non-allocating iteration over bels,
// wires, pips, and bel-pins. Every iterator exposes
// only Next, is move-only state, and converts to the relevant *Id
// when dereferenced; node-aware iteration walks each member tile-wire
// of a node and sums its uphill/downhill pip lists.
package iter

import "github.com/nextpnr-go/corepnr/chipdb"

// BelIter iterates every bel in the device, tile by tile.
type BelIter struct {
	db   *chipdb.Database
	tile int32
	idx  int16
}

// Bels returns a fresh BelIter over db.
func Bels(db *chipdb.Database) *BelIter {
	return &BelIter{db: db, tile: 0, idx: -1}
}

// Next advances the iterator and reports whether a value is available.
func (it *BelIter) Next() bool {
	for it.tile < int32(len(it.db.TileInsts)) {
		tt := it.db.TileTypes[it.db.TileInsts[it.tile].TypeIndex]
		it.idx++
		if int(it.idx) < len(tt.Bels) {
			return true
		}
		it.tile++
		it.idx = -1
	}
	return false
}

// Bel returns the current value. Only valid immediately after Next
// returns true.
func (it *BelIter) Bel() chipdb.BelId {
	return chipdb.BelId{Tile: it.tile, Index: it.idx}
}

// WireIter iterates every wire, skipping non-root nodal wires
// skipping non-root nodal wires.
type WireIter struct {
	db   *chipdb.Database
	tile int32
	idx  int16
}

// Wires returns a fresh WireIter over db.
func Wires(db *chipdb.Database) *WireIter {
	return &WireIter{db: db, tile: 0, idx: -1}
}

func (it *WireIter) isRootHere() bool {
	tt := it.db.TileTypes[it.db.TileInsts[it.tile].TypeIndex]
	wd := tt.Wires[it.idx]
	local := chipdb.WireId{Tile: it.tile, Index: it.idx}
	switch wd.Mode {
	case chipdb.NodeIsRoot, chipdb.NodeTileWire:
		return true
	default:
		return it.db.ResolveWire(local) == local
	}
}

// Next advances the iterator, skipping wires that are not the
// canonical root of their node.
func (it *WireIter) Next() bool {
	for {
		tt := it.db.TileTypes[it.db.TileInsts[it.tile].TypeIndex]
		it.idx++
		if int(it.idx) >= len(tt.Wires) {
			it.tile++
			it.idx = -1
			if it.tile >= int32(len(it.db.TileInsts)) {
				return false
			}
			continue
		}
		if it.isRootHere() {
			return true
		}
	}
}

// Wire returns the current value.
func (it *WireIter) Wire() chipdb.WireId {
	return chipdb.WireId{Tile: it.tile, Index: it.idx}
}

// PipIter iterates every pip in the device.
type PipIter struct {
	db   *chipdb.Database
	tile int32
	idx  int16
}

// Pips returns a fresh PipIter over db.
func Pips(db *chipdb.Database) *PipIter {
	return &PipIter{db: db, tile: 0, idx: -1}
}

// Next advances the iterator.
func (it *PipIter) Next() bool {
	for it.tile < int32(len(it.db.TileInsts)) {
		tt := it.db.TileTypes[it.db.TileInsts[it.tile].TypeIndex]
		it.idx++
		if int(it.idx) < len(tt.Pips) {
			return true
		}
		it.tile++
		it.idx = -1
	}
	return false
}

// Pip returns the current value.
func (it *PipIter) Pip() chipdb.PipId {
	return chipdb.PipId{Tile: it.tile, Index: it.idx}
}

// NodePipIter is the node-aware iterator over pips downhill (or
// uphill) of a node, summing the per-member-tile-wire pip lists.
type NodePipIter struct {
	db      *chipdb.Database
	members []chipdb.WireId
	downhill bool

	memberIdx int
	pipIdx    int
}

// DownhillOf returns a node-aware iterator over the pips downhill of
// wire (wire may be any tile-local member; it is resolved to its root
// first).
func DownhillOf(db *chipdb.Database, wire chipdb.WireId) *NodePipIter {
	root := db.ResolveWire(wire)
	return &NodePipIter{db: db, members: db.NodeMembers(root), downhill: true, memberIdx: 0, pipIdx: -1}
}

// UphillOf returns a node-aware iterator over the pips uphill of wire.
func UphillOf(db *chipdb.Database, wire chipdb.WireId) *NodePipIter {
	root := db.ResolveWire(wire)
	return &NodePipIter{db: db, members: db.NodeMembers(root), downhill: false, memberIdx: 0, pipIdx: -1}
}

func (it *NodePipIter) currentList() []int32 {
	m := it.members[it.memberIdx]
	wd := it.db.WireData(m)
	if it.downhill {
		return wd.PipsDownhill
	}
	return wd.PipsUphill
}

// Next advances the iterator across all member tile-wires of the node.
func (it *NodePipIter) Next() bool {
	for it.memberIdx < len(it.members) {
		list := it.currentList()
		it.pipIdx++
		if it.pipIdx < len(list) {
			return true
		}
		it.memberIdx++
		it.pipIdx = -1
	}
	return false
}

// Pip returns the current pip, addressed within its owning member
// tile-wire's tile.
func (it *NodePipIter) Pip() chipdb.PipId {
	m := it.members[it.memberIdx]
	list := it.currentList()
	return chipdb.PipId{Tile: m.Tile, Index: int16(list[it.pipIdx])}
}

// BelPinIter iterates the bel-pins reaching a given wire, at node
// granularity: it walks each member tile-wire of the node and
// concatenates their BelPins lists.
type BelPinIter struct {
	db        *chipdb.Database
	members   []chipdb.WireId
	memberIdx int
	pinIdx    int
}

// BelPinsReaching returns an iterator over the (bel,pin) pairs that
// wire reaches.
func BelPinsReaching(db *chipdb.Database, wire chipdb.WireId) *BelPinIter {
	root := db.ResolveWire(wire)
	members := db.NodeMembers(root)
	if len(members) == 0 {
		members = []chipdb.WireId{root}
	}
	return &BelPinIter{db: db, members: members, memberIdx: 0, pinIdx: -1}
}

// Next advances the iterator.
func (it *BelPinIter) Next() bool {
	for it.memberIdx < len(it.members) {
		wd := it.db.WireData(it.members[it.memberIdx])
		it.pinIdx++
		if it.pinIdx < len(wd.BelPins) {
			return true
		}
		it.memberIdx++
		it.pinIdx = -1
	}
	return false
}

// BelPin returns the current (bel, pin) pair, with the bel addressed
// within its owning member tile-wire's tile.
func (it *BelPinIter) BelPin() (chipdb.BelId, chipdb.BelPinRef) {
	m := it.members[it.memberIdx]
	ref := it.db.WireData(m).BelPins[it.pinIdx]
	return chipdb.BelId{Tile: m.Tile, Index: ref.Bel}, ref
}

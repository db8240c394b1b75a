package chipdb

import "sort"

// TileTypeAt returns the TileType of the tile at loc.
func (d *Database) TileTypeAt(loc Location) *TileType {
	idx := loc.TileIndex(d.Width)
	return &d.TileTypes[d.TileInsts[idx].TypeIndex]
}

// BelData returns the BelData for bel.
func (d *Database) BelData(bel BelId) *BelData {
	tt := d.TileTypes[d.TileInsts[bel.Tile].TypeIndex]
	return &tt.Bels[bel.Index]
}

// WireData returns the tile-local WireData for the tile-local wire
// named by w (w must already be a tile-local reference, not
// necessarily a node root).
func (d *Database) WireData(w WireId) *WireData {
	tt := d.TileTypes[d.TileInsts[w.Tile].TypeIndex]
	return &tt.Wires[w.Index]
}

// PipData returns the PipData for p.
func (d *Database) PipData(p PipId) *PipData {
	tt := d.TileTypes[d.TileInsts[p.Tile].TypeIndex]
	return &tt.Pips[p.Index]
}

func (d *Database) locationOf(tile int32) Location {
	return Location{
		X: int16(tile % int32(d.Width)),
		Y: int16(tile / int32(d.Width)),
	}
}

// ResolveWire performs the node-resolution algorithm:
// given a tile-local (tile, wire) pair, it returns the canonical node
// WireId that the router graph should use. Special const modes resolve
// to a fixed, architecturally-known tile; a real chip database encodes the exact tile
// in the blob, but the generic core only needs a stable, deterministic
// answer here since the special-mode tile is always looked up again
// through the same function.
func (d *Database) ResolveWire(local WireId) WireId {
	wd := d.WireData(local)
	switch wd.Mode {
	case NodeIsRoot, NodeTileWire:
		return local
	case NodeRelOffset:
		loc := d.locationOf(local.Tile)
		root := Location{X: loc.X + wd.RelDX, Y: loc.Y + wd.RelDY}
		return WireId{Tile: root.TileIndex(d.Width), Index: local.Index}
	case NodeRowConst:
		loc := d.locationOf(local.Tile)
		root := Location{X: 0, Y: loc.Y}
		return WireId{Tile: root.TileIndex(d.Width), Index: local.Index}
	case NodeGlobalConst:
		return WireId{Tile: 0, Index: local.Index}
	default:
		return local
	}
}

// DownhillPips returns the tile-local pip indices driven by wire w.
// w must be a tile-local wire reference (see the iter package for the
// node-aware traversal used by routing).
func (d *Database) DownhillPips(w WireId) []int32 {
	return d.WireData(w).PipsDownhill
}

// UphillPips returns the tile-local pip indices driving wire w.
func (d *Database) UphillPips(w WireId) []int32 {
	return d.WireData(w).PipsUphill
}

// PipDstWire returns the destination wire of p, expressed as a
// tile-local WireId within p's own tile.
func (d *Database) PipDstWire(p PipId) WireId {
	pd := d.PipData(p)
	return WireId{Tile: p.Tile, Index: pd.DstWire}
}

// PipSrcWire returns the source wire of p, expressed as a tile-local
// WireId within p's own tile.
func (d *Database) PipSrcWire(p PipId) WireId {
	pd := d.PipData(p)
	return WireId{Tile: p.Tile, Index: pd.SrcWire}
}

// CellTiming binary-searches speed grade sg for the timing entry of
// (cellType, variant); data
// is sorted by IdString".
func (sg *SpeedGrade) CellTiming(cellType, variant int32) (*CellTiming, bool) {
	i := sort.Search(len(sg.CellTypes), func(i int) bool {
		ct := sg.CellTypes[i]
		if int32(ct.CellType) != cellType {
			return int32(ct.CellType) >= cellType
		}
		return int32(ct.Variant) >= variant
	})
	if i < len(sg.CellTypes) &&
		int32(sg.CellTypes[i].CellType) == cellType &&
		int32(sg.CellTypes[i].Variant) == variant {
		return &sg.CellTypes[i], true
	}
	return nil, false
}

// PadBel resolves a package-pin name to its bel, for user LOC
// constraints.
func (p *Package) PadBel(pinName string) (BelId, bool) {
	b, ok := p.Pads[pinName]
	return b, ok
}

// NodeMembers returns every tile-local wire that resolves to the same
// canonical node as root (including root itself). This backs the
// node-aware iteration (the iterator walks each
// member tile-wire of the node and sums its uphill/downhill pip
// lists"); it is the reverse of ResolveWire, built lazily on first use
// since the database is read-only and shared freely once constructed.
func (d *Database) NodeMembers(root WireId) []WireId {
	d.buildNodeIndex()
	d.nodeIndexMu.Lock()
	defer d.nodeIndexMu.Unlock()
	return d.nodeIndex[root]
}

func (d *Database) buildNodeIndex() {
	d.nodeIndexOnce.Do(func() {
		d.nodeIndexMu.Lock()
		defer d.nodeIndexMu.Unlock()
		d.nodeIndex = make(map[WireId][]WireId)
		for tile := int32(0); tile < int32(len(d.TileInsts)); tile++ {
			tt := d.TileTypes[d.TileInsts[tile].TypeIndex]
			for wi := range tt.Wires {
				local := WireId{Tile: tile, Index: int16(wi)}
				root := d.ResolveWire(local)
				d.nodeIndex[root] = append(d.nodeIndex[root], local)
			}
		}
	})
}

// SortCellTimings sorts a speed grade's cell timing table by
// (CellType, Variant) so CellTiming's binary search is valid. Database
// loaders must call this once after populating SpeedGrades.
func (sg *SpeedGrade) SortCellTimings() {
	sort.Slice(sg.CellTypes, func(i, j int) bool {
		a, b := sg.CellTypes[i], sg.CellTypes[j]
		if a.CellType != b.CellType {
			return a.CellType < b.CellType
		}
		return a.Variant < b.Variant
	})
}

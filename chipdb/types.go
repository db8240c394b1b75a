// Package chipdb implements the read-only, memory-mapped-in-spirit
// description of tiles, bels, wires, pips, nodes, timing, and packages
// that the packer, placer, and router query. A Database
// is immutable once loaded and may be shared freely across concurrent
// readers.
package chipdb

import (
	"sync"

	"github.com/nextpnr-go/corepnr/idstring"
)

// CurrentFormatTag is the binary container format version this package
// understands. Loading a blob tagged with any other value is fatal.
const CurrentFormatTag uint32 = 0x4E545031 // "NTP1"

// Location is a pair of tile coordinates on the dense W×H device grid.
type Location struct {
	X, Y int16
}

// TileIndex returns the row-major tile index used to address
// TileInsts, bel_to_cell, wire_to_net, and pip_to_net.
func (l Location) TileIndex(width int) int32 {
	return int32(l.Y)*int32(width) + int32(l.X)
}

// BelId identifies a bel by its owning tile and a tile-local index.
type BelId struct {
	Tile  int32
	Index int16
}

// WireId identifies a wire by its owning tile and a tile-local index.
// When the wire participates in a node, Tile/Index name the node's
// root tile-wire.
type WireId struct {
	Tile  int32
	Index int16
}

// PipId identifies a pip by its owning tile and a tile-local index.
type PipId struct {
	Tile  int32
	Index int16
}

// NoneTile is the sentinel tile index for "no location/bel/wire/pip".
const NoneTile int32 = -1

// IsNone reports whether b is the "none" sentinel.
func (b BelId) IsNone() bool { return b.Tile == NoneTile }

// IsNone reports whether w is the "none" sentinel.
func (w WireId) IsNone() bool { return w.Tile == NoneTile }

// IsNone reports whether p is the "none" sentinel.
func (p PipId) IsNone() bool { return p.Tile == NoneTile }

// NoneBel, NoneWire, NonePip are the canonical "none" values.
var (
	NoneBel  = BelId{Tile: NoneTile}
	NoneWire = WireId{Tile: NoneTile}
	NonePip  = PipId{Tile: NoneTile}
)

// BelFlags is a bit-flag set describing bel kind and disposition.
type BelFlags uint16

const (
	BelGlobal BelFlags = 1 << iota
	BelHidden
	// Architecture-specific subtype bits (e.g. SLICEM vs SLICEL) start
	// here; the uarch plugin interprets bits above BelArchBase.
	BelArchBase BelFlags = 1 << 8
)

// BelPinData names a pin on a bel and the tile-local wire it reaches.
type BelPinData struct {
	Name idstring.ID
	Wire int16 // tile-local wire index, or -1 if unconnected
}

// BelData describes one placeable site within a tile type.
type BelData struct {
	Name    idstring.ID
	Type    idstring.ID
	Z       int16 // stacked-slot ordinate within the tile
	Flags   BelFlags
	Pins    []BelPinData
	// ConflictBels lists tile-local bel indices that cannot be
	// simultaneously bound with this bel.
	ConflictBels []int16
}

// NodeMode classifies how a tile-local wire relates to its node, per
// the wire_to_node resolution algorithm.
type NodeMode int8

const (
	// NodeTileWire: the wire is local-only, never part of a node.
	NodeTileWire NodeMode = iota
	// NodeIsRoot: this tile-local wire is itself the node's canonical
	// WireId.
	NodeIsRoot
	// NodeRelOffset: the node's root lives at (tile.X+DX, tile.Y+DY),
	// same tile-local wire index.
	NodeRelOffset
	// NodeRowConst: an architecturally-fixed per-row global wire.
	NodeRowConst
	// NodeGlobalConst: an architecturally-fixed device-wide global wire.
	NodeGlobalConst
)

// WireData describes one tile-local wire (or, for a node's root tile,
// the node itself).
type WireData struct {
	Name     idstring.ID
	Type     idstring.ID
	ConstTie idstring.ID // idstring.None unless this wire is tied

	Mode   NodeMode
	RelDX  int16
	RelDY  int16

	PipsUphill   []int32 // tile-local pip indices driving this wire
	PipsDownhill []int32 // tile-local pip indices driven by this wire
	BelPins      []BelPinRef
}

// BelPinRef names a (bel, pin) pair that a wire reaches.
type BelPinRef struct {
	Bel int16 // tile-local bel index
	Pin idstring.ID
}

// PipFlags distinguishes pip kinds.
type PipFlags uint8

const (
	PipRegular PipFlags = 0
	PipAlwaysOn PipFlags = 1 << iota
	PipRouteThrough
	PipBidiPort
)

// PipData describes one programmable interconnect point within a tile.
type PipData struct {
	SrcWire  int16
	DstWire  int16
	Class    int32 // index into the speed grade's PipClasses
	Flags    PipFlags
}

// TileType groups the bels/wires/pips shared by every tile instance of
// that type.
type TileType struct {
	Name  idstring.ID
	Bels  []BelData
	Wires []WireData
	Pips  []PipData
}

// TileInst binds one grid location to a tile type.
type TileInst struct {
	TypeIndex int32
}

// PipTiming is the resistance/capacitance/delay model for one pip class.
type PipTiming struct {
	Resistance float64
	Capacitance float64
	DelayPs    float64
}

// NodeTiming is the resistance/capacitance/delay model for one node class.
type NodeTiming struct {
	Resistance  float64
	Capacitance float64
}

// CombArc is a combinational timing arc inside a cell.
type CombArc struct {
	FromPin idstring.ID
	ToPin   idstring.ID
	DelayPs float64
}

// SeqArc is a register setup/hold/clk-to-q timing arc.
type SeqArc struct {
	ClockPin idstring.ID
	Pin      idstring.ID
	SetupPs  float64
	HoldPs   float64
	ClkQPs   float64
}

// CellTiming is the per-(cell-type,variant) timing database entry.
type CellTiming struct {
	CellType idstring.ID
	Variant  idstring.ID
	CombArcs []CombArc
	SeqArcs  []SeqArc
}

// SpeedGrade bundles one timing corner's pip/node/cell timing tables.
// CellTypes is kept sorted by (CellType, Variant) so lookups can binary
// search (binary-searched where data is sorted by
// IdString").
type SpeedGrade struct {
	Name        string
	PipClasses  []PipTiming
	NodeClasses []NodeTiming
	CellTypes   []CellTiming
}

// Package describes one physical package's pad table.
type Package struct {
	Name string
	// Pads maps a package-pin name to the bel it resolves to.
	Pads map[string]BelId
}

// Database is the full, immutable chip description for one device.
type Database struct {
	FormatTag  uint32
	UarchName  string
	Generator  string
	Width      int
	Height     int

	TileTypes []TileType
	TileInsts []TileInst // len == Width*Height, row-major

	SpeedGrades []SpeedGrade
	Packages    []Package

	// ExtraConstIDs lists additional names this device needs interned
	// beyond the compile-time known prefix.
	ExtraConstIDs []string

	nodeIndexOnce sync.Once
	nodeIndexMu   sync.Mutex
	nodeIndex     map[WireId][]WireId
}

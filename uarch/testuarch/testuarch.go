// Package testuarch is a minimal, in-memory uarch.Arch used by the
// end-to-end scenario suites. It models just enough of
// a Xilinx-like SLICE/IOB family (LUT6, FDRE, CARRY4, F7MUX, IBUF/
// OBUF, GLOBAL_LOGIC0/1 ties) to exercise the packer, placer, and
// router without depending on a real device database.
package testuarch

import (
	"sync"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/uarch"
)

// Arch is the test/reference uarch. It is architecturally flat: every
// SLICE bel accepts every logic cell type, and bucket assignment is
// purely by cell-type category.
type Arch struct {
	In *idstring.Interner

	mu       sync.Mutex
	sliceZ   map[idstring.ID]int16 // cell type -> required Z within a SLICE tile, or -1 for "any"
	clusters map[idstring.ID]*clusterState
}

type clusterState struct {
	root    idstring.ID
	strict  bool
	offsets map[idstring.ID][2]int16 // cell -> (dx, dy) from root
	w, h    int16
}

// New returns a fresh test uarch bound to in for name interning.
func New(in *idstring.Interner) *Arch {
	return &Arch{
		In:       in,
		sliceZ:   make(map[idstring.ID]int16),
		clusters: make(map[idstring.ID]*clusterState),
	}
}

func (a *Arch) Name() string { return "testuarch" }

func (a *Arch) InitDatabase(ctx *design.Context) error { return nil }

func (a *Arch) Pack(ctx *design.Context) error { return nil }

func (a *Arch) IsBelLocationValid(ctx *design.Context, bel chipdb.BelId) bool {
	return true
}

func (a *Arch) CheckWireAvail(ctx *design.Context, wire chipdb.WireId) bool { return true }

func (a *Arch) CheckPipAvail(ctx *design.Context, pip chipdb.PipId) bool { return true }

// EstimateDelay returns Manhattan tile distance scaled to a
// picosecond-ish unit; it is trivially admissible since it never
// exceeds the true delay of any longer real path.
func (a *Arch) EstimateDelay(ctx *design.Context, src, dst chipdb.WireId) float64 {
	w := ctx.DB.Width
	if w == 0 {
		w = 1
	}
	sx, sy := int(src.Tile)%w, int(src.Tile)/w
	dx, dy := int(dst.Tile)%w, int(dst.Tile)/w
	return float64(abs(sx-dx)+abs(sy-dy)) * 100
}

func (a *Arch) PredictDelay(ctx *design.Context, srcBel chipdb.BelId, srcPin idstring.ID, dstBel chipdb.BelId, dstPin idstring.ID) float64 {
	w := ctx.DB.Width
	if w == 0 {
		w = 1
	}
	sx, sy := int(srcBel.Tile)%w, int(srcBel.Tile)/w
	dx, dy := int(dstBel.Tile)%w, int(dstBel.Tile)/w
	return float64(abs(sx-dx)+abs(sy-dy)) * 100
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

const (
	BucketLogic uarch.BelBucket = iota
	BucketIO
	BucketGlobal
)

func (a *Arch) GetBelBucketForCellType(cellType idstring.ID) uarch.BelBucket {
	switch cellType {
	case idstring.IBUF, idstring.OBUF, idstring.IOBUF, idstring.OBUFDS:
		return BucketIO
	case idstring.BUFG, idstring.MMCME2_ADV:
		return BucketGlobal
	default:
		return BucketLogic
	}
}

func (a *Arch) GetBelBucketForBel(ctx *design.Context, bel chipdb.BelId) uarch.BelBucket {
	bd := ctx.DB.BelData(bel)
	return a.GetBelBucketForCellType(bd.Type)
}

func (a *Arch) IsValidBelForCellType(ctx *design.Context, cellType idstring.ID, bel chipdb.BelId) bool {
	bd := ctx.DB.BelData(bel)
	return a.GetBelBucketForCellType(cellType) == a.GetBelBucketForCellType(bd.Type) || bd.Type == cellType
}

func (a *Arch) GetClusterRootCell(ctx *design.Context, cell idstring.ID) idstring.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cs, ok := a.clusters[cell]; ok {
		return cs.root
	}
	return cell
}

func (a *Arch) GetClusterBounds(ctx *design.Context, root idstring.ID) (int16, int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cs, ok := a.clusters[root]; ok {
		return cs.w, cs.h
	}
	return 1, 1
}

func (a *Arch) GetClusterOffset(ctx *design.Context, cell idstring.ID) (int16, int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, cs := range a.clusters {
		if off, ok := cs.offsets[cell]; ok {
			return off[0], off[1]
		}
	}
	return 0, 0
}

func (a *Arch) IsClusterStrict(ctx *design.Context, root idstring.ID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cs, ok := a.clusters[root]; ok {
		return cs.strict
	}
	return false
}

// RegisterCluster records a cluster for the root/offset helpers above.
// This stands in for the chip-database-driven cluster tables a real
// family would load; tests call it directly to set up fixtures.
func (a *Arch) RegisterCluster(root idstring.ID, strict bool, w, h int16, children map[idstring.ID][2]int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cs := &clusterState{root: root, strict: strict, w: w, h: h, offsets: children}
	a.clusters[root] = cs
	for child := range children {
		a.clusters[child] = cs
	}
}

func (a *Arch) GetClusterPlacement(ctx *design.Context, root idstring.ID, candidateRootBel chipdb.BelId) (uarch.ClusterPlacement, bool) {
	a.mu.Lock()
	cs, ok := a.clusters[root]
	a.mu.Unlock()
	if !ok {
		return uarch.ClusterPlacement{Root: candidateRootBel, Offsets: map[idstring.ID]chipdb.BelId{}}, true
	}

	w := ctx.DB.Width
	if w == 0 {
		w = 1
	}
	offsets := make(map[idstring.ID]chipdb.BelId, len(cs.offsets))
	for child, off := range cs.offsets {
		loc := chipdb.Location{X: int16(int(candidateRootBel.Tile) % w), Y: int16(int(candidateRootBel.Tile) / w)}
		target := chipdb.Location{X: loc.X + off[0], Y: loc.Y + off[1]}
		if target.X < 0 || target.Y < 0 || int(target.X) >= w {
			return uarch.ClusterPlacement{}, false
		}
		tile := target.TileIndex(w)
		if tile < 0 || int(tile) >= len(ctx.DB.TileInsts) {
			return uarch.ClusterPlacement{}, false
		}
		offsets[child] = chipdb.BelId{Tile: tile, Index: candidateRootBel.Index}
	}
	return uarch.ClusterPlacement{Root: candidateRootBel, Offsets: offsets}, true
}

func (a *Arch) NotifyBelChange(bel chipdb.BelId, cell idstring.ID) {}
func (a *Arch) NotifyWireChange(wire chipdb.WireId, net idstring.ID) {}
func (a *Arch) NotifyPipChange(pip chipdb.PipId, net idstring.ID) {}

var _ uarch.Arch = (*Arch)(nil)

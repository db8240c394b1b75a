// Package uarch defines the architecture plugin contract. A uarch is identified by name and supplies the family-
// specific validity predicates, delay estimators, bel-bucketing, and
// cluster helpers that the generic packer/placer/router treat as
// opaque. Concrete families are independent implementations selected
// by name at Context construction, the way core/builder.go selects a
// fixed direction count rather than building a class hierarchy.
package uarch

import (
	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// BelBucket categorises bels/cell-types for placer move generation
//. Buckets are architecture-defined small integers;
// the generic placer only ever compares bucket equality.
type BelBucket int32

// ClusterPlacement is one candidate legal placement of an entire
// cluster: Root is the candidate bel for the cluster root, and Offsets
// maps each child cell to its resolved bel.
type ClusterPlacement struct {
	Root    chipdb.BelId
	Offsets map[idstring.ID]chipdb.BelId
}

// Arch is the full plugin surface. Every generic stage (pack, place,
// route) is handed an Arch and never branches on family name.
type Arch interface {
	// Name identifies the uarch, matched against chipdb.Database.UarchName
	// at load time.
	Name() string

	// InitDatabase loads family-specific global constants (e.g. the
	// GLOBAL_LOGIC0/1 tie nets) into ctx once the chip database is
	// attached.
	InitDatabase(ctx *design.Context) error

	// Pack runs family-specific packing passes in addition to the
	// generic ones.
	Pack(ctx *design.Context) error

	// IsBelLocationValid reports whether bel's current occupant (if
	// any) satisfies every per-bel and per-tile legality rule the
	// family imposes, after the most recent binding change.
	IsBelLocationValid(ctx *design.Context, bel chipdb.BelId) bool

	// CheckWireAvail and CheckPipAvail are the hard legality filters
	// design.Context consults in addition to simple ownership
	//. They satisfy design.Uarch.
	CheckWireAvail(ctx *design.Context, wire chipdb.WireId) bool
	CheckPipAvail(ctx *design.Context, pip chipdb.PipId) bool

	// EstimateDelay is the admissible heuristic the router's A* uses
	//: it must never overestimate the true delay from
	// src to dst.
	EstimateDelay(ctx *design.Context, src, dst chipdb.WireId) float64

	// PredictDelay is a cheap placement-time delay estimate between
	// two bel pins, used by the timing-driven placer cost function.
	PredictDelay(ctx *design.Context, srcBel chipdb.BelId, srcPin idstring.ID, dstBel chipdb.BelId, dstPin idstring.ID) float64

	// GetBelBucketForCellType / GetBelBucketForBel / IsValidBelForCellType
	// categorise bels and cell types for placer move generation.
	GetBelBucketForCellType(cellType idstring.ID) BelBucket
	GetBelBucketForBel(ctx *design.Context, bel chipdb.BelId) BelBucket
	IsValidBelForCellType(ctx *design.Context, cellType idstring.ID, bel chipdb.BelId) bool

	// Cluster helpers.
	GetClusterRootCell(ctx *design.Context, cell idstring.ID) idstring.ID
	GetClusterBounds(ctx *design.Context, root idstring.ID) (w, h int16)
	GetClusterOffset(ctx *design.Context, cell idstring.ID) (dx, dy int16)
	IsClusterStrict(ctx *design.Context, root idstring.ID) bool
	GetClusterPlacement(ctx *design.Context, root idstring.ID, candidateRootBel chipdb.BelId) (ClusterPlacement, bool)

	// Change callbacks used to invalidate cached validity bits.
	NotifyBelChange(bel chipdb.BelId, cell idstring.ID)
	NotifyWireChange(wire chipdb.WireId, net idstring.ID)
	NotifyPipChange(pip chipdb.PipId, net idstring.ID)
}

// contextUarch adapts the full Arch surface down to design.Uarch,
// which is the narrow slice design.Context itself calls into. Wrap an
// Arch with this before passing it to design.NewContext.
type contextUarch struct {
	Arch
}

// AsContextUarch narrows arch to the design.Uarch interface.
func AsContextUarch(arch Arch) design.Uarch {
	return contextUarch{arch}
}

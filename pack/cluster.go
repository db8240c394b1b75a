package pack

import (
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// AttachCarryChainCluster attaches a cluster constraint across chain,
// growing downward.
func AttachCarryChainCluster(ctx *design.Context, carryCells []idstring.ID) {
	if len(carryCells) == 0 {
		return
	}
	root := carryCells[0]
	cluster := &design.ClusterInfo{Root: root, Strict: true}
	for i, name := range carryCells {
		if i == 0 {
			continue
		}
		cluster.Children = append(cluster.Children, design.ClusterChild{
			Cell:        name,
			TileDY:      int16(-i),
			AbsPlaceIdx: -1,
		})
	}
	applyCluster(ctx, cluster)
}

// AttachMuxTree labels each LUT in a MUXF7/MUXF8/MUXF9 tree with its
// eighth-offset within the slice.
func AttachMuxTree(ctx *design.Context, muxCell idstring.ID, inputs []idstring.ID) {
	cluster := &design.ClusterInfo{Root: muxCell, Strict: true}
	for i, name := range inputs {
		cluster.Children = append(cluster.Children, design.ClusterChild{
			Cell:        name,
			SiteDY:      int16(i),
			AbsPlaceIdx: -1,
		})
	}
	applyCluster(ctx, cluster)
}

// AttachLUTRAMGroup labels a LUTRAM group: the write port at the
// highest eighth of a slice, read ports stepping downward.
func AttachLUTRAMGroup(ctx *design.Context, writePort idstring.ID, readPorts []idstring.ID) {
	cluster := &design.ClusterInfo{Root: writePort, Strict: true}
	for i, name := range readPorts {
		cluster.Children = append(cluster.Children, design.ClusterChild{
			Cell:        name,
			SiteDY:      int16(-(i + 1)),
			AbsPlaceIdx: -1,
		})
	}
	applyCluster(ctx, cluster)
}

// AttachBelLockedPair attaches a LUT+FF pair sharing the O6/D path as
// a two-cell cluster.
func AttachBelLockedPair(ctx *design.Context, lut, ff idstring.ID) {
	cluster := &design.ClusterInfo{
		Root:   lut,
		Strict: true,
		Children: []design.ClusterChild{
			{Cell: ff, AbsPlaceIdx: -1},
		},
	}
	applyCluster(ctx, cluster)
}

func applyCluster(ctx *design.Context, cluster *design.ClusterInfo) {
	if root, ok := ctx.Cells[cluster.Root]; ok {
		root.Cluster = cluster
	}
	for _, child := range cluster.Children {
		if c, ok := ctx.Cells[child.Cell]; ok {
			c.Cluster = cluster
		}
	}
}

// detectMuxTrees finds every MUXF7/MUXF8/MUXF9 cell and clusters it
// with whichever cells drive its I0/I1 data inputs, so the placer
// keeps a mux tree's LUTs in the same slice as the mux that selects
// between them.
func detectMuxTrees(ctx *design.Context) {
	for name, c := range ctx.Cells {
		switch c.Type {
		case idstring.MUXF7, idstring.MUXF8, idstring.MUXF9:
		default:
			continue
		}

		var inputs []idstring.ID
		for _, port := range []idstring.ID{idstring.I0, idstring.I1} {
			net := netFeedingPin(ctx, name, port)
			if net == idstring.None {
				continue
			}
			if driver := ctx.Nets[net].Driver.Cell; driver != idstring.None {
				inputs = append(inputs, driver)
			}
		}
		if len(inputs) > 0 {
			AttachMuxTree(ctx, name, inputs)
		}
	}
}

// detectBelLockedPairs finds a LUT whose O/O6 output feeds a single
// flip-flop's D input with no other fanout, and clusters the pair so
// the placer keeps the combinational-to-sequential path within one
// slice.
func detectBelLockedPairs(ctx *design.Context) {
	for ffName, ff := range ctx.Cells {
		switch ff.Type {
		case idstring.FDCE, idstring.FDRE, idstring.FDC, idstring.LDCE:
		default:
			continue
		}

		net := netFeedingPin(ctx, ffName, idstring.D)
		if net == idstring.None {
			continue
		}
		n := ctx.Nets[net]
		if len(n.Users) != 1 {
			continue
		}
		driver, ok := ctx.Cells[n.Driver.Cell]
		if !ok || !isLUT(driver.Type) {
			continue
		}
		AttachBelLockedPair(ctx, driver.Name, ffName)
	}
}

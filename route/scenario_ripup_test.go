package route_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/route"
)

// bottleneckTileType lays out a single tile where two drivers (wires
// 0 and 1) both funnel through one shared wire (2) before reaching two
// independent sinks (wires 3 and 4):
//
//	driver1(0) --pip0--\
//	                     -> wire2 --pip2--> sink1(3)
//	driver2(1) --pip1--/           \--pip3--> sink2(4)
func bottleneckTileType() chipdb.TileType {
	return chipdb.TileType{
		Bels: []chipdb.BelData{
			{Type: idstring.IBUF, Pins: []chipdb.BelPinData{{Name: idstring.O, Wire: 0}}},
			{Type: idstring.IBUF, Pins: []chipdb.BelPinData{{Name: idstring.O, Wire: 1}}},
			{Type: idstring.LUT1, Pins: []chipdb.BelPinData{{Name: idstring.I0, Wire: 3}}},
			{Type: idstring.LUT1, Pins: []chipdb.BelPinData{{Name: idstring.I0, Wire: 4}}},
		},
		Wires: []chipdb.WireData{
			{Mode: chipdb.NodeTileWire, PipsDownhill: []int32{0}},
			{Mode: chipdb.NodeTileWire, PipsDownhill: []int32{1}},
			{Mode: chipdb.NodeTileWire, PipsUphill: []int32{0, 1}, PipsDownhill: []int32{2, 3}},
			{Mode: chipdb.NodeTileWire, PipsUphill: []int32{2}},
			{Mode: chipdb.NodeTileWire, PipsUphill: []int32{3}},
		},
		Pips: []chipdb.PipData{
			{SrcWire: 0, DstWire: 2},
			{SrcWire: 1, DstWire: 2},
			{SrcWire: 2, DstWire: 3},
			{SrcWire: 2, DstWire: 4},
		},
	}
}

// This fixture stands in for a prior successful routing pass: net A's
// path (driver1 -> wire2 -> sink1) is bound directly before the router
// ever runs, so Setup's arcAlreadyRouted check recognises it and never
// re-queues it. Only net B's arc (driver2 -> sink2) is actually routed
// here, forcing it through the wire net A already holds at the shared
// bottleneck. CheckRoutedDesign is deliberately not asserted for net A
// afterwards: ripping up wire2 breaks its tree down to wire0+wire3
// with nothing connecting them, since a plain (non-timing-driven) run
// never re-queues the net whose claim was ripped up.
var _ = Describe("rip-up under congestion", func() {
	It("reroutes net B through the bottleneck by ripping up net A's prior claim on the shared wire", func() {
		in := idstring.NewInterner()
		tt := bottleneckTileType()
		db := &chipdb.Database{
			Width: 1, Height: 1,
			TileTypes: []chipdb.TileType{tt},
			TileInsts: []chipdb.TileInst{{TypeIndex: 0}},
		}

		ctx := design.NewContext(db, in, nil)

		driver1 := in.Intern("driver1")
		driver2 := in.Intern("driver2")
		sink1 := in.Intern("sink1")
		sink2 := in.Intern("sink2")

		ctx.AddCell(&design.CellInfo{Name: driver1, Type: idstring.IBUF, Ports: map[idstring.ID]design.PortInfo{idstring.O: {Name: idstring.O}}})
		ctx.AddCell(&design.CellInfo{Name: driver2, Type: idstring.IBUF, Ports: map[idstring.ID]design.PortInfo{idstring.O: {Name: idstring.O}}})
		ctx.AddCell(&design.CellInfo{Name: sink1, Type: idstring.LUT1, Ports: map[idstring.ID]design.PortInfo{idstring.I0: {Name: idstring.I0}}})
		ctx.AddCell(&design.CellInfo{Name: sink2, Type: idstring.LUT1, Ports: map[idstring.ID]design.PortInfo{idstring.I0: {Name: idstring.I0}}})

		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 0}, driver1, design.StrengthUser)
		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 1}, driver2, design.StrengthUser)
		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 2}, sink1, design.StrengthUser)
		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 3}, sink2, design.StrengthUser)

		netA := &design.NetInfo{Name: in.Intern("netA"), Driver: design.PortRef{Cell: driver1, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(netA)
		netA.AddUser(design.PortRef{Cell: sink1, Port: idstring.I0, PinIdx: -1})

		netB := &design.NetInfo{Name: in.Intern("netB"), Driver: design.PortRef{Cell: driver2, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(netB)
		netB.AddUser(design.PortRef{Cell: sink2, Port: idstring.I0, PinIdx: -1})

		wire0 := chipdb.WireId{Tile: 0, Index: 0}
		wire2 := chipdb.WireId{Tile: 0, Index: 2}
		pip0 := chipdb.PipId{Tile: 0, Index: 0}
		pip2 := chipdb.PipId{Tile: 0, Index: 2}

		ctx.BindWire(wire0, netA.Name, design.StrengthWeak, chipdb.NonePip, false)
		ctx.BindPip(pip0, netA.Name, design.StrengthWeak)
		ctx.BindPip(pip2, netA.Name, design.StrengthWeak)

		estimateDelay := func(src, dst chipdb.WireId) float64 { return 0 }
		router := route.NewRouter(ctx, estimateDelay, route.DefaultOptions())
		q := router.Setup(nil)
		result := router.Run(q, nil, 0, 0)

		Expect(result.Failed).To(BeEmpty())
		Expect(result.Routed).To(Equal(1))

		Expect(ctx.WireOwner(wire2)).To(Equal(netB.Name))

		wire1 := chipdb.WireId{Tile: 0, Index: 1}
		wire4 := chipdb.WireId{Tile: 0, Index: 4}
		_, hasW1 := netB.Wires[wire1]
		_, hasW2 := netB.Wires[wire2]
		_, hasW4 := netB.Wires[wire4]
		Expect(hasW1).To(BeTrue())
		Expect(hasW2).To(BeTrue())
		Expect(hasW4).To(BeTrue())
	})
})

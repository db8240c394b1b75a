package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/config"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/engine"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/uarch"
	"github.com/nextpnr-go/corepnr/uarch/testuarch"
)

// passthroughDB builds a 3-tile device: a PADIN tile holding an IBUF,
// a SLICE tile holding an FDRE and a BUFG, and a PADOUT tile holding
// an OBUF. The IBUF->FDRE.D and FDRE.Q->OBUF arcs each cross a tile
// boundary through a two-member node (root + NodeRelOffset); the
// clock path from BUFG to FDRE.CLK stays local to the SLICE tile.
func passthroughDB(iPort idstring.ID) *chipdb.Database {
	padin := chipdb.TileType{
		Name: 0,
		Bels: []chipdb.BelData{
			{Type: idstring.IBUF, Pins: []chipdb.BelPinData{{Name: idstring.O, Wire: 0}}},
		},
		Wires: []chipdb.WireData{
			{Mode: chipdb.NodeIsRoot},
		},
	}

	slice := chipdb.TileType{
		Bels: []chipdb.BelData{
			{Type: idstring.FDRE, Pins: []chipdb.BelPinData{
				{Name: idstring.D, Wire: 1},
				{Name: idstring.Q, Wire: 4},
				{Name: idstring.CLK, Wire: 3},
			}},
			{Type: idstring.BUFG, Pins: []chipdb.BelPinData{{Name: idstring.O, Wire: 2}}},
		},
		Wires: []chipdb.WireData{
			{Mode: chipdb.NodeRelOffset, RelDX: -1, RelDY: 0, PipsDownhill: []int32{0}}, // 0: arrival from IBUF
			{Mode: chipdb.NodeTileWire, PipsUphill: []int32{0}},                         // 1: FDRE.D
			{Mode: chipdb.NodeTileWire, PipsDownhill: []int32{1}},                       // 2: BUFG.O
			{Mode: chipdb.NodeTileWire, PipsUphill: []int32{1}},                         // 3: FDRE.CLK
			{Mode: chipdb.NodeTileWire, PipsDownhill: []int32{2}},                       // 4: FDRE.Q
			{Mode: chipdb.NodeIsRoot, PipsUphill: []int32{2}},                           // 5: departure to OBUF
		},
		Pips: []chipdb.PipData{
			{SrcWire: 0, DstWire: 1},
			{SrcWire: 2, DstWire: 3},
			{SrcWire: 4, DstWire: 5},
		},
	}

	padout := chipdb.TileType{
		Bels: []chipdb.BelData{
			{Type: idstring.OBUF, Pins: []chipdb.BelPinData{{Name: iPort, Wire: 6}}},
		},
		Wires: []chipdb.WireData{
			{}, {}, {}, {}, {}, // 0-4 unused placeholders
			{Mode: chipdb.NodeRelOffset, RelDX: -1, RelDY: 0, PipsDownhill: []int32{0}}, // 5: arrival from SLICE
			{Mode: chipdb.NodeTileWire, PipsUphill: []int32{0}},                         // 6: OBUF.I
		},
		Pips: []chipdb.PipData{
			{SrcWire: 5, DstWire: 6},
		},
	}

	return &chipdb.Database{
		Width: 3, Height: 1,
		TileTypes: []chipdb.TileType{padin, slice, padout},
		TileInsts: []chipdb.TileInst{{TypeIndex: 0}, {TypeIndex: 1}, {TypeIndex: 2}},
	}
}

var _ = Describe("pass-through flip-flop", func() {
	It("places the FDRE on the SLICE and routes IBUF through to OBUF", func() {
		in := idstring.NewInterner()
		iPort := in.Intern("I")
		db := passthroughDB(iPort)

		arch := testuarch.New(in)
		ctx := design.NewContext(db, in, uarch.AsContextUarch(arch))

		ibufName := in.Intern("ibuf_IN")
		fdreName := in.Intern("ff")
		bufgName := in.Intern("clkbuf")
		obufName := in.Intern("obuf_OUT")

		ctx.AddCell(&design.CellInfo{
			Name: ibufName, Type: idstring.IBUF,
			Ports: map[idstring.ID]design.PortInfo{idstring.O: {Name: idstring.O}},
		})
		ctx.AddCell(&design.CellInfo{
			Name: fdreName, Type: idstring.FDRE,
			Ports: map[idstring.ID]design.PortInfo{
				idstring.D:   {Name: idstring.D},
				idstring.Q:   {Name: idstring.Q},
				idstring.CLK: {Name: idstring.CLK},
			},
		})
		ctx.AddCell(&design.CellInfo{
			Name: bufgName, Type: idstring.BUFG,
			Ports: map[idstring.ID]design.PortInfo{idstring.O: {Name: idstring.O}},
		})
		ctx.AddCell(&design.CellInfo{
			Name: obufName, Type: idstring.OBUF,
			Ports: map[idstring.ID]design.PortInfo{iPort: {Name: iPort}},
		})

		// IN=A1/OUT=B1 pin constraints resolve, ahead of PnR, to fixed
		// pad bels; the FDRE and clock buffer are left free for the
		// placer to choose among the (here, single) candidate bels.
		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 0}, ibufName, design.StrengthUser)
		ctx.BindBel(chipdb.BelId{Tile: 2, Index: 0}, obufName, design.StrengthUser)

		dIn := in.Intern("d_in")
		dNet := &design.NetInfo{Name: dIn, Driver: design.PortRef{Cell: ibufName, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(dNet)
		dNet.AddUser(design.PortRef{Cell: fdreName, Port: idstring.D, PinIdx: -1})

		qOut := in.Intern("q_out")
		qNet := &design.NetInfo{Name: qOut, Driver: design.PortRef{Cell: fdreName, Port: idstring.Q, PinIdx: -1}}
		ctx.AddNet(qNet)
		qNet.AddUser(design.PortRef{Cell: obufName, Port: iPort, PinIdx: -1})

		clk := in.Intern("clk")
		clkNet := &design.NetInfo{Name: clk, Driver: design.PortRef{Cell: bufgName, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(clkNet)
		clkNet.AddUser(design.PortRef{Cell: fdreName, Port: idstring.CLK, PinIdx: -1})

		cfg := config.NewBuilder().WithSeed(7).Build()
		eng := engine.New(ctx, arch, db, cfg)
		result := eng.Run()

		Expect(ctx.Cells[ibufName].Bel).To(Equal(chipdb.BelId{Tile: 0, Index: 0}))
		Expect(ctx.Cells[obufName].Bel).To(Equal(chipdb.BelId{Tile: 2, Index: 0}))
		Expect(ctx.Cells[fdreName].HasBel()).To(BeTrue())
		Expect(ctx.Cells[fdreName].Bel.Tile).To(Equal(int32(1)))
		Expect(ctx.Cells[bufgName].HasBel()).To(BeTrue())

		Expect(result.RouteResult.Failed).To(BeEmpty())
		Expect(result.RouteResult.Routed).To(Equal(3))

		router := eng.Router()
		Expect(router.CheckRoutedDesign(in)).To(Succeed())
	})
})

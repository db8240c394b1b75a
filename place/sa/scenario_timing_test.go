package sa

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nextpnr-go/corepnr/chipdb"
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/uarch/testuarch"
)

// timingDB is a flat row of slice tiles, each holding one LUT6 and one
// FDRE bel; hpwl only ever reads bel tile position, so no wires or
// pips are needed to exercise moveCost.
func timingDB(width int) *chipdb.Database {
	tt := chipdb.TileType{
		Bels: []chipdb.BelData{
			{Type: idstring.LUT6, Pins: []chipdb.BelPinData{{Name: idstring.I0, Wire: -1}, {Name: idstring.O, Wire: -1}}},
			{Type: idstring.FDRE, Pins: []chipdb.BelPinData{{Name: idstring.D, Wire: -1}, {Name: idstring.Q, Wire: -1}}},
		},
	}
	insts := make([]chipdb.TileInst, width)
	for i := range insts {
		insts[i] = chipdb.TileInst{TypeIndex: 0}
	}
	return &chipdb.Database{Width: width, Height: 1, TileTypes: []chipdb.TileType{tt}, TileInsts: insts}
}

// A LUT6 sitting on a slow path between two registers: the annealer
// moves the LUT toward its registers exactly because moveCost scales
// the wirelength delta up by criticality instead of reversing it, so
// a criticality-1 cell's cost for the same move is the full undamped
// wirelength delta while a criticality-0 cell's is damped by
// (1-Lambda). This checks that scaling directly rather than asserting
// a stochastic annealed outcome.
var _ = Describe("timing-driven move cost", func() {
	It("scales the cost of moving a high-criticality LUT6 away from its registers more than a low-criticality one", func() {
		in := idstring.NewInterner()
		db := timingDB(21)
		ctx := design.NewContext(db, in, nil)

		ff1 := in.Intern("ff1")
		ff2 := in.Intern("ff2")
		lut := in.Intern("lut")

		ctx.AddCell(&design.CellInfo{Name: ff1, Type: idstring.FDRE, Ports: map[idstring.ID]design.PortInfo{idstring.D: {Name: idstring.D}}})
		ctx.AddCell(&design.CellInfo{Name: ff2, Type: idstring.FDRE, Ports: map[idstring.ID]design.PortInfo{idstring.Q: {Name: idstring.Q}}})
		ctx.AddCell(&design.CellInfo{Name: lut, Type: idstring.LUT6, Ports: map[idstring.ID]design.PortInfo{
			idstring.I0: {Name: idstring.I0}, idstring.O: {Name: idstring.O},
		}})

		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 1}, ff1, design.StrengthUser)
		ctx.BindBel(chipdb.BelId{Tile: 5, Index: 1}, ff2, design.StrengthUser)
		ctx.BindBel(chipdb.BelId{Tile: 0, Index: 0}, lut, design.StrengthWeak)

		net1 := &design.NetInfo{Name: in.Intern("lut_to_ff1"), Driver: design.PortRef{Cell: lut, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(net1)
		net1.AddUser(design.PortRef{Cell: ff1, Port: idstring.D, PinIdx: -1})

		net2 := &design.NetInfo{Name: in.Intern("ff2_to_lut"), Driver: design.PortRef{Cell: ff2, Port: idstring.Q, PinIdx: -1}}
		ctx.AddNet(net2)
		net2.AddUser(design.PortRef{Cell: lut, Port: idstring.I0, PinIdx: -1})

		arch := testuarch.New(in)
		opts := Options{TimingDriven: true, Lambda: 0.5, CritExp: 2}
		p := NewPlacer(ctx, arch, opts)

		target := chipdb.BelId{Tile: 20, Index: 0}

		p.CellCriticality[lut] = 1
		costHighCrit := p.moveCost(lut, target)

		p.CellCriticality[lut] = 0
		costLowCrit := p.moveCost(lut, target)

		Expect(costHighCrit).To(BeNumerically("~", 6.0, 1e-9))
		Expect(costLowCrit).To(BeNumerically("~", 3.0, 1e-9))
		Expect(math.Abs(costHighCrit)).To(BeNumerically(">", math.Abs(costLowCrit)))
	})
})

package pack_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/pack"
	"github.com/nextpnr-go/corepnr/uarch/testuarch"
)

// addUnboundNet creates a net with no driver (an unconstrained primary
// input, for fixture purposes) and a single user at (cell, port).
func addUnboundNet(ctx *design.Context, in *idstring.Interner, name string, cell, port idstring.ID) {
	net := &design.NetInfo{
		Name:   in.Intern(name),
		Driver: design.PortRef{Cell: idstring.None, Port: idstring.None, PinIdx: -1},
	}
	ctx.AddNet(net)
	net.AddUser(design.PortRef{Cell: cell, Port: port, PinIdx: -1})
}

var _ = Describe("4-bit counter carry chain", func() {
	It("coalesces four MUXCY+XORCY links into one CARRY4, absorbing each S[i]-driving LUT6", func() {
		in := idstring.NewInterner()
		ctx := design.NewContext(nil, in, nil)

		var muxcyNames, xorcyNames, lutNames []idstring.ID
		var ciNet idstring.ID // the net shared by this link's muxcy.CI/xorcy.CI

		for i := 0; i < 4; i++ {
			muxcyName := in.Intern(fmt.Sprintf("muxcy%d", i))
			xorcyName := in.Intern(fmt.Sprintf("xorcy%d", i))
			lutName := in.Intern(fmt.Sprintf("slut%d", i))
			muxcyNames = append(muxcyNames, muxcyName)
			xorcyNames = append(xorcyNames, xorcyName)
			lutNames = append(lutNames, lutName)

			muxcy := &design.CellInfo{
				Name: muxcyName, Type: idstring.MUXCY,
				Ports: map[idstring.ID]design.PortInfo{
					idstring.CI: {Name: idstring.CI},
					idstring.DI: {Name: idstring.DI},
					idstring.S:  {Name: idstring.S},
					idstring.CO: {Name: idstring.CO},
				},
			}
			ctx.AddCell(muxcy)

			xorcy := &design.CellInfo{
				Name: xorcyName, Type: idstring.XORCY,
				Ports: map[idstring.ID]design.PortInfo{
					idstring.CI: {Name: idstring.CI},
					idstring.S:  {Name: idstring.S},
					idstring.O:  {Name: idstring.O},
				},
			}
			ctx.AddCell(xorcy)

			// A 4-input LUT6 drives this link's S pin; combined with no
			// DI driver, fanin (4) stays within the fanin<=5 absorption
			// budget.
			lut := &design.CellInfo{
				Name: lutName, Type: idstring.LUT6,
				Ports: map[idstring.ID]design.PortInfo{
					idstring.I0: {Name: idstring.I0},
					idstring.I1: {Name: idstring.I1},
					idstring.I2: {Name: idstring.I2},
					idstring.I3: {Name: idstring.I3},
					idstring.O:  {Name: idstring.O},
				},
				Params: map[idstring.ID]interface{}{idstring.INIT: uint64(0xCAFE + i)},
			}
			ctx.AddCell(lut)

			for _, pin := range []idstring.ID{idstring.I0, idstring.I1, idstring.I2, idstring.I3} {
				addUnboundNet(ctx, in, fmt.Sprintf("%s_in_%s", in.String(lutName), in.String(pin)), lutName, pin)
			}

			sNet := &design.NetInfo{
				Name:   in.Intern(fmt.Sprintf("s%d", i)),
				Driver: design.PortRef{Cell: lutName, Port: idstring.O, PinIdx: -1},
			}
			ctx.AddNet(sNet)
			sNet.AddUser(design.PortRef{Cell: xorcyName, Port: idstring.S, PinIdx: -1})

			// Wire this link's CI to the previous link's CO (link 0's CI
			// is left driverless, standing in for CYINIT).
			if i == 0 {
				ciNet = in.Intern("ci0")
				ctx.AddNet(&design.NetInfo{Name: ciNet, Driver: design.PortRef{Cell: idstring.None, Port: idstring.None, PinIdx: -1}})
			}
			ctx.Nets[ciNet].AddUser(design.PortRef{Cell: muxcyName, Port: idstring.CI, PinIdx: -1})
			ctx.Nets[ciNet].AddUser(design.PortRef{Cell: xorcyName, Port: idstring.CI, PinIdx: -1})

			if i < 3 {
				coNet := in.Intern(fmt.Sprintf("ci%d", i+1))
				ctx.AddNet(&design.NetInfo{Name: coNet, Driver: design.PortRef{Cell: muxcyName, Port: idstring.CO, PinIdx: -1}})
				ciNet = coNet
			}
		}

		arch := testuarch.New(in)
		opts := pack.Options{Rules: pack.DefaultRules(in), AllowCarry8: false}
		Expect(pack.Pack(ctx, in, arch, opts)).To(Succeed())

		var carryCells []idstring.ID
		for name, c := range ctx.Cells {
			if c.Type == idstring.CARRY4 {
				carryCells = append(carryCells, name)
			}
		}
		Expect(carryCells).To(HaveLen(1))
		carry := ctx.Cells[carryCells[0]]
		Expect(carry.Cluster).NotTo(BeNil())
		Expect(carry.Cluster.Root).To(Equal(carry.Name))

		for _, name := range muxcyNames {
			_, ok := ctx.Cells[name]
			Expect(ok).To(BeFalse())
		}
		for _, name := range xorcyNames {
			_, ok := ctx.Cells[name]
			Expect(ok).To(BeFalse())
		}
		for _, name := range lutNames {
			_, ok := ctx.Cells[name]
			Expect(ok).To(BeFalse())
		}

		for i := 0; i < 4; i++ {
			for _, pin := range []string{"I0", "I1", "I2", "I3"} {
				portName := in.Intern(fmt.Sprintf("S%d_%s", i, pin))
				_, ok := carry.Ports[portName]
				Expect(ok).To(BeTrue(), "missing fused port S%d_%s", i, pin)
			}
			initName := in.Intern(fmt.Sprintf("S%d_INIT", i))
			Expect(carry.Params[initName]).To(Equal(uint64(0xCAFE + i)))
		}
	})
})

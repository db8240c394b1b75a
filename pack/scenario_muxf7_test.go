package pack_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/pack"
	"github.com/nextpnr-go/corepnr/uarch/testuarch"
)

var _ = Describe("MUXF7 mux tree", func() {
	It("clusters a MUXF7 with the two LUT6s feeding its data inputs", func() {
		in := idstring.NewInterner()
		ctx := design.NewContext(nil, in, nil)

		lut0 := &design.CellInfo{
			Name: in.Intern("lut0"), Type: idstring.LUT6,
			Ports: map[idstring.ID]design.PortInfo{idstring.O: {Name: idstring.O}},
		}
		lut1 := &design.CellInfo{
			Name: in.Intern("lut1"), Type: idstring.LUT6,
			Ports: map[idstring.ID]design.PortInfo{idstring.O: {Name: idstring.O}},
		}
		ctx.AddCell(lut0)
		ctx.AddCell(lut1)

		mux := &design.CellInfo{
			Name: in.Intern("mux7"), Type: idstring.MUXF7,
			Ports: map[idstring.ID]design.PortInfo{
				idstring.I0: {Name: idstring.I0},
				idstring.I1: {Name: idstring.I1},
				idstring.S:  {Name: idstring.S},
				idstring.O:  {Name: idstring.O},
			},
		}
		ctx.AddCell(mux)

		addUnboundNet(ctx, in, "sel", mux.Name, idstring.S)

		n0 := &design.NetInfo{Name: in.Intern("n0"), Driver: design.PortRef{Cell: lut0.Name, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(n0)
		n0.AddUser(design.PortRef{Cell: mux.Name, Port: idstring.I0, PinIdx: -1})

		n1 := &design.NetInfo{Name: in.Intern("n1"), Driver: design.PortRef{Cell: lut1.Name, Port: idstring.O, PinIdx: -1}}
		ctx.AddNet(n1)
		n1.AddUser(design.PortRef{Cell: mux.Name, Port: idstring.I1, PinIdx: -1})

		arch := testuarch.New(in)
		opts := pack.Options{Rules: pack.DefaultRules(in)}
		Expect(pack.Pack(ctx, in, arch, opts)).To(Succeed())

		Expect(mux.Cluster).NotTo(BeNil())
		Expect(mux.Cluster.Root).To(Equal(mux.Name))

		var children []idstring.ID
		for _, c := range mux.Cluster.Children {
			children = append(children, c.Cell)
		}
		Expect(children).To(ConsistOf(lut0.Name, lut1.Name))
	})
})

package pack

import (
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// LowerSoftLogic turns INV/BUF cells not absorbed into an invertible
// pin into LUT1 with INIT=1 (INV) or INIT=2 (BUF).
func LowerSoftLogic(ctx *design.Context, in *idstring.Interner) {
	for _, cell := range ctx.Cells {
		switch cell.Type {
		case idstring.INV:
			lowerToLUT1(cell, 1)
		case idstring.BUF:
			lowerToLUT1(cell, 2)
		}
	}
}

func lowerToLUT1(cell *design.CellInfo, init int) {
	cell.Type = idstring.LUT1
	if cell.Params == nil {
		cell.Params = make(map[idstring.ID]interface{})
	}
	cell.Params[idstring.INIT] = init

	renamed := make(map[idstring.ID]design.PortInfo, len(cell.Ports))
	for name, pi := range cell.Ports {
		switch name {
		case idstring.I0, idstring.D:
			pi.Name = idstring.I0
			renamed[idstring.I0] = pi
		case idstring.O, idstring.Q:
			pi.Name = idstring.O
			renamed[idstring.O] = pi
		default:
			renamed[name] = pi
		}
	}
	cell.Ports = renamed
}

package pack

import (
	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// PropagateConstants folds ground/VCC driver cells into tie wires
// where the architecture permits, and into LUT INIT constants
// otherwise.
func PropagateConstants(ctx *design.Context, canTieInFabric func(net *design.NetInfo) bool) {
	for name, net := range ctx.Nets {
		tie := constTieValue(ctx, net)
		if tie == idstring.None {
			continue
		}
		net.ConstTie = tie

		if canTieInFabric != nil && canTieInFabric(net) {
			continue
		}

		for _, user := range net.Users {
			cell := ctx.Cells[user.Cell]
			if cell == nil || !isLUT(cell.Type) {
				continue
			}
			foldConstantIntoLUTInput(cell, user.Port, tie)
		}
		_ = name
	}
}

func constTieValue(ctx *design.Context, net *design.NetInfo) idstring.ID {
	driver := ctx.Cells[net.Driver.Cell]
	if driver == nil {
		return idstring.None
	}
	switch driver.Type {
	case idstring.GlobalLogic0:
		return idstring.GlobalLogic0
	case idstring.GlobalLogic1:
		return idstring.GlobalLogic1
	}
	return idstring.None
}

// foldConstantIntoLUTInput rewrites a LUT's INIT truth table as if the
// named input pin were permanently tied to the constant's value, then
// removes that port so the LUT no longer expects a driver.
func foldConstantIntoLUTInput(cell *design.CellInfo, pin idstring.ID, tie idstring.ID) {
	bit := 0
	inputIdx := -1
	switch pin {
	case idstring.I0:
		inputIdx = 0
	case idstring.I1:
		inputIdx = 1
	case idstring.I2:
		inputIdx = 2
	case idstring.I3:
		inputIdx = 3
	case idstring.I4:
		inputIdx = 4
	case idstring.I5:
		inputIdx = 5
	default:
		return
	}
	if tie == idstring.GlobalLogic1 {
		bit = 1
	}

	init, _ := cell.Params[idstring.INIT].(int)
	cell.Params[idstring.INIT] = foldTruthTable(init, inputIdx, bit)
	delete(cell.Ports, pin)
}

// foldTruthTable collapses a truth table to the rows where bit
// `inputIdx` equals `value`, halving the effective arity.
func foldTruthTable(init int, inputIdx, value int) int {
	out := 0
	outBit := 0
	for row := 0; row < 64; row++ {
		if (row>>inputIdx)&1 != value {
			continue
		}
		if (init>>row)&1 == 1 {
			out |= 1 << outBit
		}
		outBit++
	}
	return out
}

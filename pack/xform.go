// Package pack implements the packer: cell-type
// transforms, macro expansion, soft-logic lowering, carry-chain
// packing, cluster formation, and constant propagation, turning an
// ingested logical netlist into physical primitives ready for the
// placer.
package pack

import (
	"fmt"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// XFormRule is a declarative cell-transform rule:
// legacy type -> canonical type, port renames, fixed parameter/
// attribute injection.
type XFormRule struct {
	NewType   idstring.ID
	PortXform map[idstring.ID]idstring.ID
	ParamXform map[idstring.ID]idstring.ID
	SetAttrs  map[idstring.ID]interface{}
	SetParams map[idstring.ID]interface{}
}

// RuleTable is the full set of cell-transform rules, keyed by the
// legacy cell type they apply to.
type RuleTable map[idstring.ID]XFormRule

// DefaultRules returns the rule table for the legacy primitive names
// this packer rewrites: FDCE_1 -> FDCE with IS_C_INVERTED set, and the
// FDC/LDCE family aliases to FDCE.
func DefaultRules(in *idstring.Interner) RuleTable {
	rules := RuleTable{}
	rules[idstring.FDCE_1] = XFormRule{
		NewType: idstring.FDCE,
		SetAttrs: map[idstring.ID]interface{}{
			idstring.IsCInverted: true,
		},
	}
	rules[idstring.FDC] = XFormRule{
		NewType: idstring.FDCE,
	}
	rules[idstring.LDCE] = XFormRule{
		NewType: idstring.FDCE,
	}
	return rules
}

// ApplyXForms runs every cell through rules exactly once. Cells with no
// matching rule are left untouched; no pass of the packer checks
// whether such a type is one the uarch's physical library accepts.
func ApplyXForms(ctx *design.Context, rules RuleTable) {
	for _, cell := range ctx.Cells {
		rule, ok := rules[cell.Type]
		if !ok {
			continue
		}
		cell.Type = rule.NewType
		if cell.Attrs == nil {
			cell.Attrs = make(map[idstring.ID]interface{})
		}
		for k, v := range rule.SetAttrs {
			cell.Attrs[k] = v
		}
		if cell.Params == nil {
			cell.Params = make(map[idstring.ID]interface{})
		}
		for k, v := range rule.SetParams {
			cell.Params[k] = v
		}
		if rule.PortXform != nil {
			renamed := make(map[idstring.ID]design.PortInfo, len(cell.Ports))
			for name, pi := range cell.Ports {
				newName := name
				if mapped, ok := rule.PortXform[name]; ok {
					newName = mapped
				}
				pi.Name = newName
				renamed[newName] = pi
			}
			cell.Ports = renamed
		}
	}
}

// errUnsupportedCellType formats the error for a cell whose type is
// neither rewritten by a rule nor accepted by the uarch's physical
// library. Nothing in the packer constructs or returns it: Pack does
// not check cell types against the uarch.
type errUnsupportedCellType struct {
	cellName, cellType idstring.ID
	in                 *idstring.Interner
}

func (e errUnsupportedCellType) Error() string {
	return fmt.Sprintf("pack: cell %q has unsupported type %q",
		e.in.String(e.cellName), e.in.String(e.cellType))
}

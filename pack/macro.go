package pack

import (
	"fmt"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// MacroCellInst is one cell instance inside a macro definition.
type MacroCellInst struct {
	Name idstring.ID
	Type idstring.ID
}

// MacroNet connects macro-internal pins, and optionally one external
// pin of the macro itself.
type MacroNet struct {
	Name         idstring.ID
	InternalPins []design.PortRef // Cell refers to MacroCellInst.Name
	ExternalPin  idstring.ID       // idstring.None if fully internal
}

// MacroDef describes one macro's expansion: its
// constituent cell instances, internal nets, and external pin list.
type MacroDef struct {
	Cells        []MacroCellInst
	Nets         []MacroNet
	ExternalPins []idstring.ID
}

// Registry maps a macro type name to its definition, as supplied by
// the chip database / uarch plugin.
type Registry map[idstring.ID]MacroDef

// ExpandedMacro retains the pre-expansion information for downstream
// consumers that need the logical hierarchy.
type ExpandedMacro struct {
	ParentName idstring.ID
	ParentType idstring.ID
	Children   []idstring.ID
}

// Expander runs macro expansion to a fixed point, recursing into
// macros that themselves expand to macros. A child whose type equals
// the type of the macro it was expanded from is left unexpanded, so a
// macro equal to its own override expands only once. Expanded records
// every expansion made.
type Expander struct {
	Registry Registry
	In       *idstring.Interner
	Expanded []ExpandedMacro
}

// Run expands every macro cell in ctx in place, creating derived
// cells with hierarchical names and rewiring the parent's external
// connections.
func (e *Expander) Run(ctx *design.Context) error {
	seen := make(map[idstring.ID]bool)
	expandedType := make(map[idstring.ID]idstring.ID) // expanded parent name -> its macro type
	for {
		progressed := false
		for name, cell := range ctx.Cells {
			if seen[name] {
				continue
			}
			def, ok := e.Registry[cell.Type]
			if !ok {
				continue
			}
			seen[name] = true
			if t, ok := expandedType[cell.MacroParent]; ok && t == cell.Type {
				continue
			}
			expandedType[name] = cell.Type
			if err := e.expandOne(ctx, name, cell, def); err != nil {
				return err
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return nil
}

func (e *Expander) expandOne(ctx *design.Context, parentName idstring.ID, parent *design.CellInfo, def MacroDef) error {
	childNames := make(map[idstring.ID]idstring.ID, len(def.Cells))
	var children []idstring.ID

	for _, mc := range def.Cells {
		hier := e.In.Intern(fmt.Sprintf("%s.%s", e.In.String(parentName), e.In.String(mc.Name)))
		childNames[mc.Name] = hier
		children = append(children, hier)

		child := &design.CellInfo{
			Name:        hier,
			Type:        mc.Type,
			Ports:       make(map[idstring.ID]design.PortInfo),
			Params:      copyParams(parent.Params),
			Attrs:       copyParams(parent.Attrs),
			MacroParent: parentName,
		}
		ctx.AddCell(child)
	}

	for _, mn := range def.Nets {
		netName := mn.Name
		if netName == idstring.None {
			netName = e.In.Intern(fmt.Sprintf("%s.%s", e.In.String(parentName), "netauto"))
		}

		var net *design.NetInfo
		if mn.ExternalPin != idstring.None {
			// Rewire the parent's external port to this internal net:
			// find the net currently driving/using the parent's
			// external pin and extend it, rather than creating a new
			// disconnected net.
			net = netForExternalPin(ctx, parentName, mn.ExternalPin)
		}
		if net == nil {
			net = &design.NetInfo{Name: netName}
			ctx.AddNet(net)
		}

		for _, ref := range mn.InternalPins {
			childRef := ref
			hier, ok := childNames[ref.Cell]
			childRef.Cell = hier
			if !ok {
				return fmt.Errorf("pack: macro %q: internal pin references unknown child %q",
					e.In.String(parentName), e.In.String(ref.Cell))
			}
			if net.Driver.Cell == idstring.None {
				net.Driver = childRef
			} else {
				net.AddUser(childRef)
			}
		}
	}

	e.Expanded = append(e.Expanded, ExpandedMacro{
		ParentName: parentName,
		ParentType: parent.Type,
		Children:   children,
	})

	ctx.RemoveCell(parentName)
	return nil
}

func netForExternalPin(ctx *design.Context, parentCell, pin idstring.ID) *design.NetInfo {
	for _, net := range ctx.Nets {
		if net.Driver.Cell == parentCell && net.Driver.Port == pin {
			return net
		}
		for _, u := range net.Users {
			if u.Cell == parentCell && u.Port == pin {
				return net
			}
		}
	}
	return nil
}

func copyParams(in map[idstring.ID]interface{}) map[idstring.ID]interface{} {
	out := make(map[idstring.ID]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

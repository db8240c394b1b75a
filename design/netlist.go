package design

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nextpnr-go/corepnr/idstring"
)

// Netlist front-ends are out of scope: production callers
// hand this package an already-populated Context. LoadNetlistYAML is a
// decode-then-lower fixture loader for tests and end-to-end scenario
// suites, built in the same DTO style as core/program.go's
// LoadProgramFileFromYAML.

type yamlNetlist struct {
	Cells []yamlCell `yaml:"cells"`
	Nets  []yamlNet  `yaml:"nets"`
}

type yamlCell struct {
	Name   string            `yaml:"name"`
	Type   string            `yaml:"type"`
	Ports  []string          `yaml:"ports"`
	Params map[string]string `yaml:"params"`
	Attrs  map[string]string `yaml:"attrs"`
}

type yamlNet struct {
	Name   string       `yaml:"name"`
	Driver yamlPortRef  `yaml:"driver"`
	Users  []yamlPortRef `yaml:"users"`
	Tie    string       `yaml:"tie"` // "0" or "1", optional
}

type yamlPortRef struct {
	Cell string `yaml:"cell"`
	Port string `yaml:"port"`
}

// LoadNetlistYAML reads a minimal cells/nets/ports/attributes document
// and populates ctx with freshly-created, unbound cells and unrouted
// nets.
func LoadNetlistYAML(path string, ctx *Context) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("design: read %s: %w", path, err)
	}

	var doc yamlNetlist
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("design: parse %s: %w", path, err)
	}

	in := ctx.Interner
	for _, yc := range doc.Cells {
		cell := &CellInfo{
			Name:   in.Intern(yc.Name),
			Type:   in.InternCanonical(yc.Type),
			Ports:  make(map[idstring.ID]PortInfo),
			Params: make(map[idstring.ID]interface{}),
			Attrs:  make(map[idstring.ID]interface{}),
		}
		for _, p := range yc.Ports {
			pid := in.Intern(p)
			cell.Ports[pid] = PortInfo{Name: pid, BelPinIndex: -1}
		}
		for k, v := range yc.Params {
			cell.Params[in.Intern(k)] = v
		}
		for k, v := range yc.Attrs {
			cell.Attrs[in.Intern(k)] = v
		}
		ctx.AddCell(cell)
	}

	for _, yn := range doc.Nets {
		net := &NetInfo{
			Name:     in.Intern(yn.Name),
			ConstTie: idstring.None,
		}
		if yn.Driver.Cell != "" {
			net.Driver = PortRef{
				Cell:   in.Intern(yn.Driver.Cell),
				Port:   in.Intern(yn.Driver.Port),
				PinIdx: -1,
			}
		}
		net.Users = make(map[int]PortRef)
		for _, u := range yn.Users {
			net.AddUser(PortRef{
				Cell:   in.Intern(u.Cell),
				Port:   in.Intern(u.Port),
				PinIdx: -1,
			})
		}
		switch yn.Tie {
		case "0":
			net.ConstTie = idstring.GlobalLogic0
		case "1":
			net.ConstTie = idstring.GlobalLogic1
		}
		ctx.AddNet(net)
	}

	return nil
}

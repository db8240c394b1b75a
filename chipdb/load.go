package chipdb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nextpnr-go/corepnr/idstring"
)

// yamlDatabase is the on-disk document shape for a device database
// fixture. Real deployments load a packed binary blob;
// this YAML form is the decode-then-lower DTO this package offers for
// tests and small architectures, in the same spirit as
// core/program.go's YAMLRoot/YAMLCoreProgram DTOs.
type yamlDatabase struct {
	UarchName string `yaml:"uarch_name"`
	Generator string `yaml:"generator"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`

	TileTypes []yamlTileType `yaml:"tile_types"`
	// TileInsts names the tile type for every grid location, row-major.
	// A single name repeated Width*Height times is the common case for
	// homogeneous test fixtures.
	TileInsts []string `yaml:"tile_insts"`

	Packages []yamlPackage `yaml:"packages"`
}

type yamlTileType struct {
	Name  string        `yaml:"name"`
	Bels  []yamlBel     `yaml:"bels"`
	Wires []yamlWire    `yaml:"wires"`
	Pips  []yamlPip     `yaml:"pips"`
}

type yamlBel struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Z     int16    `yaml:"z"`
	Pins  []yamlBelPin `yaml:"pins"`
}

type yamlBelPin struct {
	Name string `yaml:"name"`
	Wire int16  `yaml:"wire"`
}

type yamlWire struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	ConstTie     string `yaml:"const_tie"`
	PipsUphill   []int32 `yaml:"pips_uphill"`
	PipsDownhill []int32 `yaml:"pips_downhill"`
}

type yamlPip struct {
	SrcWire int16  `yaml:"src_wire"`
	DstWire int16  `yaml:"dst_wire"`
	Class   int32  `yaml:"class"`
}

type yamlPackage struct {
	Name string            `yaml:"name"`
	Pads map[string]string `yaml:"pads"` // pin name -> "tileX,tileY,belIndex"
}

// LoadDatabaseYAML reads a device database fixture from path and
// interns every architecture-supplied name into in. Version/uarch-name
// mismatches are the caller's responsibility to check via
// RequireUarch; this loader itself never fabricates a format tag
// mismatch since YAML fixtures have no binary header.
func LoadDatabaseYAML(path string, in *idstring.Interner) (*Database, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chipdb: read %s: %w", path, err)
	}

	var doc yamlDatabase
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("chipdb: parse %s: %w", path, err)
	}

	return lowerDatabase(&doc, in)
}

func lowerDatabase(doc *yamlDatabase, in *idstring.Interner) (*Database, error) {
	db := &Database{
		FormatTag: CurrentFormatTag,
		UarchName: doc.UarchName,
		Generator: doc.Generator,
		Width:     doc.Width,
		Height:    doc.Height,
	}

	typeIndex := make(map[string]int32, len(doc.TileTypes))
	for _, yt := range doc.TileTypes {
		tt := TileType{Name: in.Intern(yt.Name)}

		for _, yb := range yt.Bels {
			bel := BelData{
				Name: in.Intern(yb.Name),
				Type: in.InternCanonical(yb.Type),
				Z:    yb.Z,
			}
			for _, yp := range yb.Pins {
				bel.Pins = append(bel.Pins, BelPinData{
					Name: in.Intern(yp.Name),
					Wire: yp.Wire,
				})
			}
			tt.Bels = append(tt.Bels, bel)
		}

		for _, yw := range yt.Wires {
			w := WireData{
				Name:         in.Intern(yw.Name),
				Type:         in.InternCanonical(yw.Type),
				ConstTie:     idstring.None,
				Mode:         NodeTileWire,
				PipsUphill:   yw.PipsUphill,
				PipsDownhill: yw.PipsDownhill,
			}
			if yw.ConstTie != "" {
				w.ConstTie = in.Intern(yw.ConstTie)
			}
			tt.Wires = append(tt.Wires, w)
		}

		for _, yp := range yt.Pips {
			tt.Pips = append(tt.Pips, PipData{
				SrcWire: yp.SrcWire,
				DstWire: yp.DstWire,
				Class:   yp.Class,
			})
		}

		typeIndex[yt.Name] = int32(len(db.TileTypes))
		db.TileTypes = append(db.TileTypes, tt)
	}

	if len(doc.TileInsts) != doc.Width*doc.Height {
		return nil, fmt.Errorf(
			"chipdb: tile_insts has %d entries, want width*height=%d",
			len(doc.TileInsts), doc.Width*doc.Height)
	}
	for _, name := range doc.TileInsts {
		idx, ok := typeIndex[name]
		if !ok {
			return nil, fmt.Errorf("chipdb: tile_insts references unknown tile type %q", name)
		}
		db.TileInsts = append(db.TileInsts, TileInst{TypeIndex: idx})
	}

	for _, yp := range doc.Packages {
		pkg := Package{Name: yp.Name, Pads: make(map[string]BelId, len(yp.Pads))}
		for pin, ref := range yp.Pads {
			bel, err := parseBelRef(ref, db.Width)
			if err != nil {
				return nil, fmt.Errorf("chipdb: package %s pad %s: %w", yp.Name, pin, err)
			}
			pkg.Pads[pin] = bel
		}
		db.Packages = append(db.Packages, pkg)
	}

	return db, nil
}

func parseBelRef(ref string, width int) (BelId, error) {
	var x, y int16
	var idx int16
	n, err := fmt.Sscanf(ref, "%d,%d,%d", &x, &y, &idx)
	if err != nil || n != 3 {
		return BelId{}, fmt.Errorf("malformed bel reference %q (want x,y,belIndex)", ref)
	}
	return BelId{Tile: Location{X: x, Y: y}.TileIndex(width), Index: idx}, nil
}

// RequireUarch is fatal if db was not built for the named architecture.
func RequireUarch(db *Database, uarchName string) {
	if db.UarchName != uarchName {
		panic(fmt.Sprintf(
			"chipdb: database uarch %q does not match requested uarch %q",
			db.UarchName, uarchName))
	}
}

// Package idstring provides process-wide interning of strings to 32-bit
// integer handles, the universal cheap identifier used across the chip
// database, the Context, and the packer/placer/router.
package idstring

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ID is an interned string handle. Equality of IDs is integer equality;
// once assigned, an ID's string value is immutable.
type ID int32

// None is the sentinel for "no id".
const None ID = -1

var upperCaser = cases.Upper(language.English)

// Interner is a process-wide table mapping integer handles to strings.
// A small prefix of well-known names (see known.go) is registered by
// NewInterner so that architecture plugins and the core can refer to
// them as compile-time constants; the remainder is extended at
// Context-creation time from a per-family chip database and at runtime
// as new cell/port/attribute names appear.
//
// Insertions are rare after netlist ingestion; lookups dominate, so the
// mutex only guards the maps, never the read path's computation.
type Interner struct {
	mu       sync.Mutex
	nameToID map[string]ID
	idToName []string
}

// NewInterner creates an Interner pre-loaded with the well-known
// compile-time IDs in known.go.
func NewInterner() *Interner {
	in := &Interner{
		nameToID: make(map[string]ID, len(knownNames)*2),
		idToName: make([]string, 0, len(knownNames)*2),
	}
	for _, name := range knownNames {
		in.intern(name)
	}
	return in
}

// Intern returns the ID for name, allocating a new one if name has
// never been seen. Intern is exact-match, so `"CARRY8"` and `"Carry8"`
// get different handles; InternCanonical is the case-folding variant
// for sources that mix SCREAMING_CASE and Title Case for the same
// logical name.
func (in *Interner) Intern(name string) ID {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.intern(name)
}

func (in *Interner) intern(name string) ID {
	if id, ok := in.nameToID[name]; ok {
		return id
	}
	id := ID(len(in.idToName))
	in.nameToID[name] = id
	in.idToName = append(in.idToName, name)
	return id
}

// InternCanonical upper-cases name before interning, so `"Carry8"` and
// `"CARRY8"` share one handle that matches the SCREAMING_CASE
// well-known names in known.go; used for chip-database sources known to
// mix casing conventions for bel/wire type names.
func (in *Interner) InternCanonical(name string) ID {
	return in.Intern(upperCaser.String(name))
}

// TryGet looks up name without allocating a new ID.
func (in *Interner) TryGet(name string) (ID, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	id, ok := in.nameToID[name]
	return id, ok
}

// String resolves an ID back to its string, or "" for None / unknown ids.
func (in *Interner) String(id ID) string {
	if id == None {
		return ""
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if int(id) < 0 || int(id) >= len(in.idToName) {
		return ""
	}
	return in.idToName[id]
}

// Len reports how many names have been interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.idToName)
}

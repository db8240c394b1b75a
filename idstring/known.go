package idstring

// knownNames is the fixed compile-time prefix of the interning table:
// the cell types, port names, and attribute keys the generic engine
// itself refers to, independent of any architecture. Order matters —
// it determines the numeric value of the exported constants below, and
// that value must stay stable across builds.
var knownNames = []string{
	"", // index-0 placeholder so the named constants start at 1; None itself is -1

	// Generic soft-logic / lowering targets.
	"LUT1", "LUT2", "LUT3", "LUT4", "LUT5", "LUT6",
	"INV", "BUF",

	// Carry-chain primitives.
	"MUXCY", "XORCY", "CARRY4", "CARRY8",

	// Common macro / legacy primitive names the packer's cell
	// transform rules rewrite.
	"IBUF", "OBUF", "IOBUF", "OBUFDS", "BUFG", "MMCME2_ADV",
	"FDC", "FDCE", "FDCE_1", "FDRE", "LDCE",
	"MUXF7", "MUXF8", "MUXF9",

	// Well-known port/pin names.
	"I0", "I1", "I2", "I3", "I4", "I5", "O", "O6", "O5",
	"D", "Q", "CLK", "CE", "CLR", "S", "DI", "CO", "CI", "CYINIT",

	// Well-known attribute/parameter keys.
	"BEL", "LOC", "INIT", "IS_C_INVERTED",

	// Constant-tie pseudo nets.
	"GLOBAL_LOGIC0", "GLOBAL_LOGIC1",
}

// The indices below are guaranteed stable because knownNames is never
// reordered, only appended to.
const (
	LUT1 ID = iota + 1
	LUT2
	LUT3
	LUT4
	LUT5
	LUT6
	INV
	BUF

	MUXCY
	XORCY
	CARRY4
	CARRY8

	IBUF
	OBUF
	IOBUF
	OBUFDS
	BUFG
	MMCME2_ADV
	FDC
	FDCE
	FDCE_1
	FDRE
	LDCE
	MUXF7
	MUXF8
	MUXF9

	I0
	I1
	I2
	I3
	I4
	I5
	O
	O6
	O5
	D
	Q
	CLK
	CE
	CLR
	S
	DI
	CO
	CI
	CYINIT

	BEL
	LOC
	INIT
	IsCInverted

	GlobalLogic0
	GlobalLogic1
)

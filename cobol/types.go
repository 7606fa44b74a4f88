// Package cobol defines the host-variable vocabulary shared between the
// embedded-SQL call sequence and the database drivers: COBOL variable types,
// field flags, the SQL NULL length sentinel and the encoding rules for
// fixed- and variable-length host buffers.
package cobol

// VarType identifies the COBOL-level type of a host variable.
type VarType int

const (
	TypeUnknown VarType = iota

	// Display numerics.
	TypeUnsignedNumber
	TypeSignedNumberTC // trailing combined sign
	TypeSignedNumberTS // trailing separate sign
	TypeSignedNumberLC // leading combined sign
	TypeSignedNumberLS // leading separate sign

	// Packed decimal (COMP-3).
	TypeUnsignedPacked
	TypeSignedPacked

	// Binary (COMP/COMP-5).
	TypeUnsignedBinary
	TypeSignedBinary

	// Character data.
	TypeAlphanumeric
	TypeNational
)

// Field flags carried alongside each host variable.
const (
	FlagNone     uint32 = 0x0
	FlagVarlen   uint32 = 0x1
	FlagBinary   uint32 = 0x2
	FlagAutoTrim uint32 = 0x4
)

// NullLength is the length sentinel that marks a parameter as SQL NULL.
const NullLength = -1

// IsBinary reports whether the binary transmission flag is set.
func IsBinary(flags uint32) bool {
	return flags&FlagBinary != 0
}

// IsNumeric reports whether t belongs to the numeric family (display,
// packed or binary). Numeric host variables always travel as text digits.
func (t VarType) IsNumeric() bool {
	switch t {
	case TypeUnsignedNumber, TypeSignedNumberTC, TypeSignedNumberTS,
		TypeSignedNumberLC, TypeSignedNumberLS,
		TypeUnsignedPacked, TypeSignedPacked,
		TypeUnsignedBinary, TypeSignedBinary:
		return true
	}
	return false
}

func (t VarType) String() string {
	switch t {
	case TypeUnsignedNumber:
		return "unsigned-number"
	case TypeSignedNumberTC:
		return "signed-number-tc"
	case TypeSignedNumberTS:
		return "signed-number-ts"
	case TypeSignedNumberLC:
		return "signed-number-lc"
	case TypeSignedNumberLS:
		return "signed-number-ls"
	case TypeUnsignedPacked:
		return "unsigned-packed"
	case TypeSignedPacked:
		return "signed-packed"
	case TypeUnsignedBinary:
		return "unsigned-binary"
	case TypeSignedBinary:
		return "signed-binary"
	case TypeAlphanumeric:
		return "alphanumeric"
	case TypeNational:
		return "national"
	}
	return "unknown"
}

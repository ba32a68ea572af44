package ir

import "fmt"

// Kind tags the machine representation an expression evaluates to.
//
// The set is closed: Void and Bool describe control and conditions, the
// remaining kinds are the fixed-width numeric representations a unit can be
// specialized to.
type Kind int

const (
	Void Kind = iota
	Bool
	Int32
	Int64
	Float32
	Float64
)

// NumericKinds lists every numeric kind in declaration order.
var NumericKinds = []Kind{Int32, Int64, Float32, Float64}

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsNumeric reports whether k is one of NumericKinds.
func (k Kind) IsNumeric() bool {
	return k >= Int32 && k <= Float64
}

// IsInteger reports whether k is a two's complement integer kind.
func (k Kind) IsInteger() bool {
	return k == Int32 || k == Int64
}

// Bits returns the width of the representation, or 0 for void.
func (k Kind) Bits() int {
	switch k {
	case Bool:
		return 1
	case Int32, Float32:
		return 32
	case Int64, Float64:
		return 64
	default:
		return 0
	}
}

// ParseKind maps a kind name ("int32", "float64", ...) back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "void":
		return Void, nil
	case "bool":
		return Bool, nil
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	default:
		return Void, &UnsupportedTypeError{Name: s}
	}
}

// Package ops is the operation resolver: it maps a numeric kind to the
// concrete machine operations the compiler binds a unit to.
//
// The table is fixed and indexed by ir.Kind. Entries are generic Ops[T]
// values, so a resolved operation is a direct Go function over the machine
// type with no boxing or interface dispatch.
package ops

import (
	"fmt"
	"strconv"

	"github.com/roach88/specialize/internal/ir"
)

// Number is the closed set of machine types a unit can be specialized to.
type Number interface {
	int32 | int64 | float32 | float64
}

// Ops is the capability table for one numeric kind.
type Ops[T Number] struct {
	Kind ir.Kind
	Zero T
	One  T

	Add         func(a, b T) T
	Mul         func(a, b T) T
	GreaterThan func(a, b T) bool
	Decrement   func(a T) T
}

func numeric[T Number](kind ir.Kind) *Ops[T] {
	return &Ops[T]{
		Kind:        kind,
		Zero:        0,
		One:         1,
		Add:         func(a, b T) T { return a + b },
		Mul:         func(a, b T) T { return a * b },
		GreaterThan: func(a, b T) bool { return a > b },
		Decrement:   func(a T) T { return a - 1 },
	}
}

// table holds one *Ops[T] per registered kind; Void and Bool have no entry.
var table = [...]any{
	ir.Int32:   numeric[int32](ir.Int32),
	ir.Int64:   numeric[int64](ir.Int64),
	ir.Float32: numeric[float32](ir.Float32),
	ir.Float64: numeric[float64](ir.Float64),
}

// Resolve returns the operation table for kind, specialized to T.
//
// It fails with *ir.UnsupportedTypeError when kind has no entry, or when the
// entry does not operate on T (asking for float64 operations on an int32 unit).
func Resolve[T Number](kind ir.Kind) (*Ops[T], error) {
	if kind < 0 || int(kind) >= len(table) || table[kind] == nil {
		return nil, &ir.UnsupportedTypeError{Kind: kind}
	}
	o, ok := table[kind].(*Ops[T])
	if !ok {
		return nil, fmt.Errorf("resolve %v as %T: %w", kind, *new(T), &ir.UnsupportedTypeError{Kind: kind})
	}
	return o, nil
}

// Supported reports whether kind has a registered operation table.
func Supported(kind ir.Kind) bool {
	return kind >= 0 && int(kind) < len(table) && table[kind] != nil
}

// Kinds lists every kind with a registered table, in kind order.
func Kinds() []ir.Kind {
	var kinds []ir.Kind
	for k, entry := range table {
		if entry != nil {
			kinds = append(kinds, ir.Kind(k))
		}
	}
	return kinds
}

// KindOf returns the kind whose machine type is T.
func KindOf[T Number]() ir.Kind {
	var zero T
	switch any(zero).(type) {
	case int32:
		return ir.Int32
	case int64:
		return ir.Int64
	case float32:
		return ir.Float32
	default:
		return ir.Float64
	}
}

// Parse converts a literal to T. The literal must be valid for T's kind.
func Parse[T Number](literal string) (T, error) {
	kind := KindOf[T]()
	if kind.IsInteger() {
		v, err := strconv.ParseInt(literal, 10, kind.Bits())
		if err != nil {
			return 0, fmt.Errorf("parse %v: %w", kind, err)
		}
		return T(v), nil
	}
	v, err := strconv.ParseFloat(literal, kind.Bits())
	if err != nil {
		return 0, fmt.Errorf("parse %v: %w", kind, err)
	}
	return T(v), nil
}

// ParseAll converts every literal, reporting the index of the first failure.
func ParseAll[T Number](literals []string) ([]T, error) {
	out := make([]T, len(literals))
	for i, s := range literals {
		v, err := Parse[T](s)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Format renders v in the canonical literal form of its kind, the same form
// ir.CanonicalLiteral produces.
func Format[T Number](v T) string {
	kind := KindOf[T]()
	if kind.IsInteger() {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(float64(v), 'g', -1, kind.Bits())
}

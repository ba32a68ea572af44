package specialize

import (
	"fmt"
	"sort"

	"github.com/roach88/specialize/internal/ir"
)

// Algorithm names, also used as unit names and cache keys.
const (
	AlgorithmDotProduct = "dot"
	AlgorithmFactorial  = "factorial"
)

// BuildFunc builds the unit of one algorithm for a numeric kind.
type BuildFunc func(kind ir.Kind) (*ir.Unit, error)

var builders = map[string]BuildFunc{
	AlgorithmDotProduct: DotProductUnit,
	AlgorithmFactorial:  FactorialUnit,
}

// BuildUnit builds the unit registered for algorithm.
func BuildUnit(algorithm string, kind ir.Kind) (*ir.Unit, error) {
	build, ok := builders[algorithm]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (want one of %v)", algorithm, Algorithms())
	}
	return build(kind)
}

// Algorithms lists registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DotProductUnit builds one reduction step of the dot product:
//
//	step(acc, left, right) = left*right + acc
//
// The walk over the vectors is not part of the unit; DotProduct drives the
// compiled step over the overlapping prefix of both inputs.
func DotProductUnit(kind ir.Kind) (*ir.Unit, error) {
	b := ir.NewBuilder(AlgorithmDotProduct, kind)
	acc := b.Param("acc")
	left := b.Param("left")
	right := b.Param("right")
	return b.Finish(b.Add(b.Mul(left, right), acc))
}

// FactorialUnit builds the iterative factorial of its single parameter:
//
//	{
//	  result = 1
//	  loop done {
//	    if value > 1 { result = result * value-- } else { break done result }
//	  }
//	}
//
// Any value <= 1, negative values included, breaks on the first iteration
// and yields 1.
func FactorialUnit(kind ir.Kind) (*ir.Unit, error) {
	b := ir.NewBuilder(AlgorithmFactorial, kind)
	value := b.Param("value")

	b.BeginBlock()
	result := b.Local("result")
	done := b.BeginLoop("done")
	step := b.IfThenElse(
		b.GreaterThan(value, b.Const("1")),
		b.Assign(result, b.Mul(result, b.Decrement(value))),
		b.Break(done, result),
	)
	loop := b.EndLoop(done, step)
	init := b.Assign(result, b.Const("1"))
	body := b.EndBlock([]ir.Expr{init}, loop)

	return b.Finish(body)
}

package testutil

import (
	"reflect"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/roach88/specialize/internal/ops"
)

// VectorPair is the input of one dot product.
type VectorPair[T ops.Number] struct {
	A []T
	B []T
}

// Int32Vectors generates equal-length int32 vector pairs over the full int32
// range, so sums overflow and wrap regularly.
func Int32Vectors(maxLen int) gopter.Gen {
	return equalPairs[int32](maxLen, gen.Int32())
}

// Int64Vectors generates equal-length int64 vector pairs.
func Int64Vectors(maxLen int) gopter.Gen {
	return equalPairs[int64](maxLen, gen.Int64())
}

// Float32Vectors generates equal-length float32 vector pairs with elements
// in [-bound, bound].
func Float32Vectors(maxLen int, bound float32) gopter.Gen {
	return equalPairs[float32](maxLen, gen.Float32Range(-bound, bound))
}

// Float64Vectors generates equal-length float64 vector pairs with elements
// in [-bound, bound].
func Float64Vectors(maxLen int, bound float64) gopter.Gen {
	return equalPairs[float64](maxLen, gen.Float64Range(-bound, bound))
}

// UnequalInt32Vectors generates int32 vector pairs whose lengths are drawn
// independently.
func UnequalInt32Vectors(maxLen int) gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOfN(maxLen, gen.Int32Range(-1000, 1000)),
		gen.SliceOfN(maxLen, gen.Int32Range(-1000, 1000)),
		gen.IntRange(0, maxLen),
		gen.IntRange(0, maxLen),
	).Map(func(vals []any) VectorPair[int32] {
		return VectorPair[int32]{
			A: vals[0].([]int32)[:vals[2].(int)],
			B: vals[1].([]int32)[:vals[3].(int)],
		}
	})
}

func equalPairs[T ops.Number](maxLen int, elem gopter.Gen) gopter.Gen {
	return gen.IntRange(0, maxLen).FlatMap(func(n any) gopter.Gen {
		return gopter.CombineGens(
			gen.SliceOfN(n.(int), elem),
			gen.SliceOfN(n.(int), elem),
		).Map(func(vals []any) VectorPair[T] {
			return VectorPair[T]{A: vals[0].([]T), B: vals[1].([]T)}
		})
	}, reflect.TypeOf(VectorPair[T]{}))
}

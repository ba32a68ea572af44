package specialize

import (
	"context"
	"math"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
)

// Largest arguments whose factorial is finite in each float kind. Past them
// the result is +Inf, and decrementing by one stops changing the argument
// long before the loop could count down (2^24 for float32, 2^53 for float64).
const (
	maxFloat32Factorial = 34
	maxFloat64Factorial = 170
)

// Factorial returns the int32 factorial from the default cache.
//
// Inputs <= 1, negative ones included, yield 1. Results past 12! wrap
// modulo 2^32.
func Factorial() (func(n int32) int32, error) {
	return FactorialOf[int32](context.Background(), Default)
}

// FactorialOf returns the factorial specialized to T, backed by c.
//
// For float kinds the loop steps by one from the argument down; arguments
// past the last finite factorial, +Inf included, yield +Inf without running
// it. NaN yields 1.
func FactorialOf[T ops.Number](ctx context.Context, c *Cache) (func(n T) T, error) {
	r, err := Load[T](ctx, c, AlgorithmFactorial, FactorialUnit)
	if err != nil {
		return nil, err
	}
	fact, err := r.Unary()
	if err != nil {
		return nil, err
	}

	var limit T
	switch r.Kind() {
	case ir.Float32:
		limit = maxFloat32Factorial
	case ir.Float64:
		limit = maxFloat64Factorial
	default:
		return fact, nil
	}
	inf := T(math.Inf(1))
	return func(n T) T {
		if n > limit {
			return inf
		}
		return fact(n)
	}, nil
}

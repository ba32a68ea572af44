package specialize

import (
	"context"

	"github.com/roach88/specialize/internal/ops"
)

// DotProduct returns the dot product specialized to T from the default
// cache.
//
// The returned function sums a[i]*b[i] over the overlapping prefix of both
// inputs, so unequal lengths use the shorter one and empty inputs yield
// zero. Integer sums wrap on overflow. Float sums accumulate left to right,
// in index order.
func DotProduct[T ops.Number]() (func(a, b []T) T, error) {
	return DotProductWith[T](context.Background(), Default)
}

// DotProductWith is DotProduct backed by c. ctx carries the compile span
// when the routine is not cached yet.
func DotProductWith[T ops.Number](ctx context.Context, c *Cache) (func(a, b []T) T, error) {
	r, err := Load[T](ctx, c, AlgorithmDotProduct, DotProductUnit)
	if err != nil {
		return nil, err
	}
	o, err := ops.Resolve[T](r.Kind())
	if err != nil {
		return nil, err
	}
	// Probe the arity once so the driver's Invoker.Call cannot panic.
	if _, err := r.Ternary(); err != nil {
		return nil, err
	}

	zero := o.Zero
	return func(a, b []T) T {
		n := min(len(a), len(b))
		acc := zero
		if n == 0 {
			return acc
		}
		step := r.Invoker()
		for i := 0; i < n; i++ {
			acc = step.Call(acc, a[i], b[i])
		}
		return acc
	}, nil
}

package compiler

import (
	"fmt"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
)

// Routine is a compiled unit: an immutable function of its parameters.
//
// A Routine captures only the closures built for its operation table, never
// the IR tree. Every call gets its own frame, so a Routine is safe for
// concurrent use without locking.
type Routine[T ops.Number] struct {
	id     string
	name   string
	kind   ir.Kind
	arity  int
	nslots int
	body   valueFn[T]
}

// ID returns the identity of this compilation (a UUIDv7). Two routines
// compiled from identical trees have different IDs.
func (r *Routine[T]) ID() string { return r.id }

// Name returns the unit name.
func (r *Routine[T]) Name() string { return r.name }

// Kind returns the numeric kind the routine was specialized to.
func (r *Routine[T]) Kind() ir.Kind { return r.kind }

// Arity returns the number of arguments Call expects.
func (r *Routine[T]) Arity() int { return r.arity }

// Call evaluates the routine on args. It panics if len(args) differs from
// Arity, the same contract reflect.Value.Call has; use the typed adapters to
// catch arity errors before the hot path.
func (r *Routine[T]) Call(args ...T) T {
	if len(args) != r.arity {
		panic(fmt.Sprintf("%s: called with %d argument(s), want %d", r.name, len(args), r.arity))
	}
	f := &frame[T]{slots: make([]T, r.nslots)}
	copy(f.slots, args)
	v, _ := r.body(f)
	return v
}

// Unary adapts a one-parameter routine to func(T) T.
func (r *Routine[T]) Unary() (func(T) T, error) {
	if err := r.wantArity(1); err != nil {
		return nil, err
	}
	return func(a T) T { return r.Call(a) }, nil
}

// Binary adapts a two-parameter routine to func(T, T) T.
func (r *Routine[T]) Binary() (func(T, T) T, error) {
	if err := r.wantArity(2); err != nil {
		return nil, err
	}
	return func(a, b T) T { return r.Call(a, b) }, nil
}

// Ternary adapts a three-parameter routine to func(T, T, T) T.
func (r *Routine[T]) Ternary() (func(T, T, T) T, error) {
	if err := r.wantArity(3); err != nil {
		return nil, err
	}
	return func(a, b, c T) T { return r.Call(a, b, c) }, nil
}

func (r *Routine[T]) wantArity(n int) error {
	if r.arity != n {
		return fmt.Errorf("%s: routine takes %d argument(s), not %d", r.name, r.arity, n)
	}
	return nil
}

// Invoker evaluates a routine repeatedly on one reused frame, avoiding an
// allocation per call inside driver loops.
//
// An Invoker is not safe for concurrent use; create one per goroutine or per
// driver invocation.
type Invoker[T ops.Number] struct {
	r *Routine[T]
	f frame[T]
}

// Invoker returns a new Invoker for r.
func (r *Routine[T]) Invoker() *Invoker[T] {
	return &Invoker[T]{r: r, f: frame[T]{slots: make([]T, r.nslots)}}
}

// Call is Routine.Call on the reused frame.
func (in *Invoker[T]) Call(args ...T) T {
	if len(args) != in.r.arity {
		panic(fmt.Sprintf("%s: called with %d argument(s), want %d", in.r.name, len(args), in.r.arity))
	}
	copy(in.f.slots, args)
	in.f.label = nil
	v, _ := in.r.body(&in.f)
	return v
}

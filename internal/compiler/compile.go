package compiler

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
)

// signal is the control state returned by every evaluation step.
// A Break produces broken; the Loop owning the pending label turns it back
// into continuing and takes the carried value as its own.
type signal uint8

const (
	continuing signal = iota
	broken
)

// frame is the storage of one invocation: params first, then block locals.
type frame[T ops.Number] struct {
	slots []T
	label *ir.Label // target of the pending break, nil when continuing
	value T         // value carried by the pending break
}

type valueFn[T ops.Number] func(f *frame[T]) (T, signal)

type condFn[T ops.Number] func(f *frame[T]) (bool, signal)

// Compile checks u and specializes it to the machine type T.
//
// The tree is walked once: each node becomes a closure bound to the
// operation table resolved for u.Kind, and the returned Routine keeps only
// those closures. Compilation is all-or-nothing; on error no Routine is
// returned. Errors wrap *ir.UnboundLabelError, *ir.TypeMismatchError,
// *ir.UnsupportedTypeError or *ir.UndeclaredVariableError.
func Compile[T ops.Number](u *ir.Unit) (*Routine[T], error) {
	if err := Check(u); err != nil {
		if u == nil {
			return nil, err
		}
		return nil, fmt.Errorf("compile %s: %w", u.Name, err)
	}
	o, err := ops.Resolve[T](u.Kind)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", u.Name, err)
	}

	c := &compiler[T]{
		ops:   o,
		slots: make(map[ir.Var]int, len(u.Params)),
	}
	for i, p := range u.Params {
		c.slots[p] = i
	}
	c.nslots = len(u.Params)

	body, err := c.value(u.Body)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", u.Name, err)
	}

	return &Routine[T]{
		id:     uuid.Must(uuid.NewV7()).String(),
		name:   u.Name,
		kind:   u.Kind,
		arity:  len(u.Params),
		nslots: c.nslots,
		body:   body,
	}, nil
}

// compiler holds the state of one specialization walk.
type compiler[T ops.Number] struct {
	ops    *ops.Ops[T]
	slots  map[ir.Var]int
	nslots int
}

func (c *compiler[T]) slot(v ir.Var) (int, error) {
	i, ok := c.slots[v]
	if !ok {
		return 0, &ir.UndeclaredVariableError{Name: v.VarName(), ID: v.VarID()}
	}
	return i, nil
}

// value compiles e for use as a T-valued expression. Void and Bool nodes in
// value position evaluate for effect and yield zero.
func (c *compiler[T]) value(e ir.Expr) (valueFn[T], error) {
	zero := c.ops.Zero

	switch n := e.(type) {
	case *ir.Param, *ir.Local:
		i, err := c.slot(n.(ir.Var))
		if err != nil {
			return nil, err
		}
		return func(f *frame[T]) (T, signal) { return f.slots[i], continuing }, nil

	case *ir.Const:
		if n.Type == ir.Bool {
			return c.discard(n)
		}
		v, err := ops.Parse[T](n.Value)
		if err != nil {
			return nil, err
		}
		return func(*frame[T]) (T, signal) { return v, continuing }, nil

	case *ir.Binary:
		if n.Op == ir.OpGreaterThan {
			return c.discard(n)
		}
		return c.arith(n)

	case *ir.Decrement:
		i, err := c.slot(n.Target)
		if err != nil {
			return nil, err
		}
		dec := c.ops.Decrement
		return func(f *frame[T]) (T, signal) {
			old := f.slots[i]
			f.slots[i] = dec(old)
			return old, continuing
		}, nil

	case *ir.Assign:
		i, err := c.slot(n.Target)
		if err != nil {
			return nil, err
		}
		val, err := c.value(n.Value)
		if err != nil {
			return nil, err
		}
		return func(f *frame[T]) (T, signal) {
			v, sig := val(f)
			if sig == broken {
				return v, sig
			}
			f.slots[i] = v
			return v, continuing
		}, nil

	case *ir.Block:
		return c.block(n)

	case *ir.Loop:
		body, err := c.value(n.Body)
		if err != nil {
			return nil, err
		}
		lbl := n.Label
		return func(f *frame[T]) (T, signal) {
			for {
				if _, sig := body(f); sig == broken {
					if f.label != lbl {
						return zero, broken
					}
					f.label = nil
					return f.value, continuing
				}
			}
		}, nil

	case *ir.IfThenElse:
		if n.Type == ir.Bool {
			return c.discard(n)
		}
		cond, err := c.cond(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.value(n.Then)
		if err != nil {
			return nil, err
		}
		els := func(*frame[T]) (T, signal) { return zero, continuing }
		if n.Else != nil {
			if els, err = c.value(n.Else); err != nil {
				return nil, err
			}
		}
		return func(f *frame[T]) (T, signal) {
			ok, sig := cond(f)
			if sig == broken {
				return zero, sig
			}
			if ok {
				return then(f)
			}
			return els(f)
		}, nil

	case *ir.Break:
		val, err := c.value(n.Value)
		if err != nil {
			return nil, err
		}
		lbl := n.Label
		return func(f *frame[T]) (T, signal) {
			v, sig := val(f)
			if sig == broken {
				return v, sig
			}
			f.label = lbl
			f.value = v
			return zero, broken
		}, nil

	default:
		return nil, fmt.Errorf("unsupported node type: %T", e)
	}
}

func (c *compiler[T]) arith(n *ir.Binary) (valueFn[T], error) {
	l, err := c.value(n.L)
	if err != nil {
		return nil, fmt.Errorf("%v left: %w", n.Op, err)
	}
	r, err := c.value(n.R)
	if err != nil {
		return nil, fmt.Errorf("%v right: %w", n.Op, err)
	}
	var op func(a, b T) T
	switch n.Op {
	case ir.OpAdd:
		op = c.ops.Add
	case ir.OpMul:
		op = c.ops.Mul
	default:
		return nil, fmt.Errorf("operator %v does not yield a number", n.Op)
	}
	return func(f *frame[T]) (T, signal) {
		a, sig := l(f)
		if sig == broken {
			return a, sig
		}
		b, sig := r(f)
		if sig == broken {
			return b, sig
		}
		return op(a, b), continuing
	}, nil
}

func (c *compiler[T]) block(n *ir.Block) (valueFn[T], error) {
	locals := make([]int, len(n.Locals))
	for i, l := range n.Locals {
		c.slots[l] = c.nslots
		locals[i] = c.nslots
		c.nslots++
	}
	stmts := make([]valueFn[T], len(n.Stmts))
	for i, s := range n.Stmts {
		fn, err := c.value(s)
		if err != nil {
			return nil, fmt.Errorf("block stmt[%d]: %w", i, err)
		}
		stmts[i] = fn
	}
	var result valueFn[T]
	if n.Result != nil {
		fn, err := c.value(n.Result)
		if err != nil {
			return nil, fmt.Errorf("block result: %w", err)
		}
		result = fn
	}

	zero := c.ops.Zero
	return func(f *frame[T]) (T, signal) {
		for _, i := range locals {
			f.slots[i] = zero
		}
		for _, s := range stmts {
			if _, sig := s(f); sig == broken {
				return zero, broken
			}
		}
		if result == nil {
			return zero, continuing
		}
		return result(f)
	}, nil
}

// cond compiles a Bool-kinded expression.
func (c *compiler[T]) cond(e ir.Expr) (condFn[T], error) {
	switch n := e.(type) {
	case *ir.Binary:
		if n.Op != ir.OpGreaterThan {
			return nil, fmt.Errorf("operator %v does not yield a bool", n.Op)
		}
		l, err := c.value(n.L)
		if err != nil {
			return nil, fmt.Errorf("gt left: %w", err)
		}
		r, err := c.value(n.R)
		if err != nil {
			return nil, fmt.Errorf("gt right: %w", err)
		}
		gt := c.ops.GreaterThan
		return func(f *frame[T]) (bool, signal) {
			a, sig := l(f)
			if sig == broken {
				return false, sig
			}
			b, sig := r(f)
			if sig == broken {
				return false, sig
			}
			return gt(a, b), continuing
		}, nil

	case *ir.Const:
		v := n.Value == "true"
		return func(*frame[T]) (bool, signal) { return v, continuing }, nil

	case *ir.IfThenElse:
		cond, err := c.cond(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.cond(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := c.cond(n.Else)
		if err != nil {
			return nil, err
		}
		return func(f *frame[T]) (bool, signal) {
			ok, sig := cond(f)
			if sig == broken {
				return false, sig
			}
			if ok {
				return then(f)
			}
			return els(f)
		}, nil

	case *ir.Break:
		val, err := c.value(n)
		if err != nil {
			return nil, err
		}
		return func(f *frame[T]) (bool, signal) {
			_, sig := val(f)
			return false, sig
		}, nil

	default:
		return nil, fmt.Errorf("unsupported condition node: %T", e)
	}
}

// discard evaluates a Bool expression for effect in value position.
func (c *compiler[T]) discard(e ir.Expr) (valueFn[T], error) {
	cond, err := c.cond(e)
	if err != nil {
		return nil, err
	}
	zero := c.ops.Zero
	return func(f *frame[T]) (T, signal) {
		_, sig := cond(f)
		return zero, sig
	}, nil
}

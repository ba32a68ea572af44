package compiler

import (
	"fmt"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
)

// Check validates a unit without compiling it.
//
// The Builder already rejects malformed trees, but a Unit is plain data and
// can be assembled by hand, so Compile re-runs every structural rule here
// before producing anything:
//   - the unit kind has an operation table (UnsupportedTypeError)
//   - every Break targets a Loop that lexically encloses it (UnboundLabelError)
//   - operands, assignments, branch values and break values agree on kind,
//     and every recorded node kind matches what its children imply
//     (TypeMismatchError)
//   - every variable is a unit Param or a Local of an enclosing Block
//     (UndeclaredVariableError)
//
// Check is a pure function.
func Check(u *ir.Unit) error {
	if u == nil {
		return fmt.Errorf("cannot check nil unit")
	}
	if !ops.Supported(u.Kind) {
		return &ir.UnsupportedTypeError{Kind: u.Kind}
	}
	c := &checker{
		kind:   u.Kind,
		ids:    map[int]string{},
		scopes: []map[ir.Var]bool{{}},
	}
	for _, p := range u.Params {
		if p == nil {
			return fmt.Errorf("nil param")
		}
		if err := c.declare(p); err != nil {
			return err
		}
		c.scopes[0][p] = true
	}
	if u.Body == nil {
		return fmt.Errorf("unit %s has no body", u.Name)
	}
	if err := c.expr(u.Body); err != nil {
		return err
	}
	if u.Body.Kind() != u.Kind {
		return &ir.TypeMismatchError{Where: "unit result", Want: u.Kind, Got: u.Body.Kind()}
	}
	return nil
}

// checker carries the lexical state of one Check walk.
type checker struct {
	kind   ir.Kind
	ids    map[int]string // declared var/label IDs, for uniqueness
	scopes []map[ir.Var]bool
	loops  []*ir.Label
}

func (c *checker) declare(v ir.Var) error {
	if prev, dup := c.ids[v.VarID()]; dup {
		return fmt.Errorf("duplicate id #%d (%s and %s)", v.VarID(), prev, v.VarName())
	}
	if v.Kind() != c.kind {
		return &ir.TypeMismatchError{Where: "declare " + v.VarName(), Want: c.kind, Got: v.Kind()}
	}
	c.ids[v.VarID()] = v.VarName()
	return nil
}

func (c *checker) visible(v ir.Var) error {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i][v] {
			return nil
		}
	}
	return &ir.UndeclaredVariableError{Name: v.VarName(), ID: v.VarID()}
}

func (c *checker) expr(e ir.Expr) error {
	switch n := e.(type) {
	case nil:
		return fmt.Errorf("nil node")
	case *ir.Param:
		return c.visible(n)
	case *ir.Local:
		return c.visible(n)
	case *ir.Const:
		if n.Type != c.kind && n.Type != ir.Bool {
			return &ir.TypeMismatchError{Where: "const " + n.Value, Want: c.kind, Got: n.Type}
		}
		canon, err := ir.CanonicalLiteral(n.Type, n.Value)
		if err != nil {
			return err
		}
		// Compile and emit read Value verbatim.
		if canon != n.Value {
			return fmt.Errorf("const %q is not canonical, want %q", n.Value, canon)
		}
		return nil
	case *ir.Binary:
		return c.binary(n)
	case *ir.Decrement:
		if n.Target == nil {
			return fmt.Errorf("decrement of nil target")
		}
		return c.visible(n.Target)
	case *ir.Assign:
		if n.Target == nil {
			return fmt.Errorf("assign to nil target")
		}
		if err := c.visible(n.Target); err != nil {
			return err
		}
		if err := c.expr(n.Value); err != nil {
			return err
		}
		if n.Value.Kind() != n.Target.Kind() {
			return &ir.TypeMismatchError{Where: "assign " + n.Target.VarName(), Want: n.Target.Kind(), Got: n.Value.Kind()}
		}
		return nil
	case *ir.Block:
		return c.block(n)
	case *ir.Loop:
		return c.loop(n)
	case *ir.IfThenElse:
		return c.ifThenElse(n)
	case *ir.Break:
		return c.brk(n)
	default:
		return fmt.Errorf("unsupported node type: %T", e)
	}
}

func (c *checker) binary(n *ir.Binary) error {
	if err := c.expr(n.L); err != nil {
		return fmt.Errorf("%v left: %w", n.Op, err)
	}
	if err := c.expr(n.R); err != nil {
		return fmt.Errorf("%v right: %w", n.Op, err)
	}
	lk, rk := n.L.Kind(), n.R.Kind()
	if !lk.IsNumeric() {
		return &ir.TypeMismatchError{Where: n.Op.String(), Want: c.kind, Got: lk}
	}
	if lk != rk {
		return &ir.TypeMismatchError{Where: n.Op.String(), Want: lk, Got: rk}
	}
	want := lk
	switch n.Op {
	case ir.OpAdd, ir.OpMul:
	case ir.OpGreaterThan:
		want = ir.Bool
	default:
		return fmt.Errorf("unknown operator %v", n.Op)
	}
	if n.Type != want {
		return &ir.TypeMismatchError{Where: n.Op.String() + " result", Want: want, Got: n.Type}
	}
	return nil
}

func (c *checker) block(n *ir.Block) error {
	scope := map[ir.Var]bool{}
	for _, l := range n.Locals {
		if l == nil {
			return fmt.Errorf("nil local")
		}
		if err := c.declare(l); err != nil {
			return err
		}
		scope[l] = true
	}
	c.scopes = append(c.scopes, scope)
	defer func() { c.scopes = c.scopes[:len(c.scopes)-1] }()

	for i, s := range n.Stmts {
		if err := c.expr(s); err != nil {
			return fmt.Errorf("block stmt[%d]: %w", i, err)
		}
	}
	if n.Result != nil {
		if err := c.expr(n.Result); err != nil {
			return fmt.Errorf("block result: %w", err)
		}
	}
	return nil
}

func (c *checker) loop(n *ir.Loop) error {
	if n.Label == nil {
		return fmt.Errorf("loop without label")
	}
	if prev, dup := c.ids[n.Label.ID]; dup {
		return fmt.Errorf("duplicate id #%d (%s and label %s)", n.Label.ID, prev, n.Label.Name)
	}
	if n.Label.Type != c.kind {
		return &ir.TypeMismatchError{Where: "label " + n.Label.Name, Want: c.kind, Got: n.Label.Type}
	}
	c.ids[n.Label.ID] = n.Label.Name

	c.loops = append(c.loops, n.Label)
	defer func() { c.loops = c.loops[:len(c.loops)-1] }()

	if err := c.expr(n.Body); err != nil {
		return fmt.Errorf("loop %s: %w", n.Label.Name, err)
	}
	return nil
}

func (c *checker) ifThenElse(n *ir.IfThenElse) error {
	if err := c.expr(n.Cond); err != nil {
		return fmt.Errorf("if cond: %w", err)
	}
	if n.Cond.Kind() != ir.Bool {
		return &ir.TypeMismatchError{Where: "if condition", Want: ir.Bool, Got: n.Cond.Kind()}
	}
	if err := c.expr(n.Then); err != nil {
		return fmt.Errorf("if then: %w", err)
	}
	if n.Else != nil {
		if err := c.expr(n.Else); err != nil {
			return fmt.Errorf("if else: %w", err)
		}
	}
	want, err := ir.BranchKind(n.Then, n.Else)
	if err != nil {
		return err
	}
	if n.Type != want {
		return &ir.TypeMismatchError{Where: "if result", Want: want, Got: n.Type}
	}
	return nil
}

func (c *checker) brk(n *ir.Break) error {
	if n.Label == nil {
		return fmt.Errorf("break without label")
	}
	enclosed := false
	for i := len(c.loops) - 1; i >= 0; i-- {
		if c.loops[i] == n.Label {
			enclosed = true
			break
		}
	}
	if !enclosed {
		return &ir.UnboundLabelError{Label: n.Label.Name, ID: n.Label.ID}
	}
	if err := c.expr(n.Value); err != nil {
		return fmt.Errorf("break %s: %w", n.Label.Name, err)
	}
	if n.Value.Kind() != n.Label.Type {
		return &ir.TypeMismatchError{Where: "break " + n.Label.Name, Want: n.Label.Type, Got: n.Value.Kind()}
	}
	return nil
}

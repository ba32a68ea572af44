package ir

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// scope is one level of variable visibility: the unit's params or one open Block.
type scope struct {
	vars   map[Var]bool
	locals []*Local
}

// Builder assembles one Unit.
//
// Every constructor checks the invariants it can see (operand kinds, variable
// visibility, open labels) at the moment the node is built. The first
// violation is recorded and later constructors keep returning well-formed
// placeholder nodes, so call chains never dereference nil; Finish reports the
// recorded error and refuses to produce a Unit.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	name   string
	kind   Kind
	params []*Param
	scopes []*scope
	labels []*Label
	nextID int
	err    error
}

// NewBuilder starts a unit named name, specialized to the numeric kind.
func NewBuilder(name string, kind Kind) *Builder {
	b := &Builder{
		name:   norm.NFC.String(name),
		kind:   kind,
		scopes: []*scope{{vars: map[Var]bool{}}},
	}
	if !kind.IsNumeric() {
		b.fail(&UnsupportedTypeError{Kind: kind})
	}
	return b
}

// Kind returns the numeric kind the unit is being built for.
func (b *Builder) Kind() Kind { return b.kind }

// Err returns the first recorded construction error.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) id() int {
	b.nextID++
	return b.nextID
}

// Param declares the next call argument. Params must be declared before any
// Block is opened.
func (b *Builder) Param(name string) *Param {
	p := &Param{ID: b.id(), Name: norm.NFC.String(name), Type: b.kind}
	if len(b.scopes) != 1 {
		b.fail(fmt.Errorf("param %q declared inside a block", p.Name))
	}
	b.params = append(b.params, p)
	b.scopes[0].vars[p] = true
	return p
}

// Const builds a literal of the unit's kind.
func (b *Builder) Const(literal string) *Const {
	return b.ConstOf(b.kind, literal)
}

// ConstOf builds a literal of an explicit kind. The literal must parse as that
// kind; it is stored in canonical form.
func (b *Builder) ConstOf(kind Kind, literal string) *Const {
	canon, err := CanonicalLiteral(kind, literal)
	if err != nil {
		b.fail(err)
		return &Const{Value: "0", Type: kind}
	}
	return &Const{Value: canon, Type: kind}
}

// Add builds l + r.
func (b *Builder) Add(l, r Expr) *Binary { return b.binary(OpAdd, l, r) }

// Mul builds l * r.
func (b *Builder) Mul(l, r Expr) *Binary { return b.binary(OpMul, l, r) }

// GreaterThan builds l > r, a Bool expression.
func (b *Builder) GreaterThan(l, r Expr) *Binary { return b.binary(OpGreaterThan, l, r) }

func (b *Builder) binary(op Op, l, r Expr) *Binary {
	l = b.operand(op.String()+" left", l)
	r = b.operand(op.String()+" right", r)
	b.use(l)
	b.use(r)
	if !l.Kind().IsNumeric() {
		b.fail(&TypeMismatchError{Where: op.String(), Want: b.kind, Got: l.Kind()})
	} else if l.Kind() != r.Kind() {
		b.fail(&TypeMismatchError{Where: op.String(), Want: l.Kind(), Got: r.Kind()})
	}
	kind := l.Kind()
	if op == OpGreaterThan {
		kind = Bool
	}
	return &Binary{Op: op, L: l, R: r, Type: kind}
}

// Decrement builds a post-decrement of v.
func (b *Builder) Decrement(v Var) *Decrement {
	v = b.variable("decrement", v)
	b.use(v)
	if !v.Kind().IsNumeric() {
		b.fail(&TypeMismatchError{Where: "decrement", Want: b.kind, Got: v.Kind()})
	}
	return &Decrement{Target: v}
}

// Assign builds v = value.
func (b *Builder) Assign(v Var, value Expr) *Assign {
	v = b.variable("assign", v)
	value = b.operand("assign value", value)
	b.use(v)
	b.use(value)
	if v.Kind() != value.Kind() {
		b.fail(&TypeMismatchError{Where: "assign " + v.VarName(), Want: v.Kind(), Got: value.Kind()})
	}
	return &Assign{Target: v, Value: value}
}

// BeginBlock opens a new scope. Locals declared until the matching EndBlock
// belong to it.
func (b *Builder) BeginBlock() {
	b.scopes = append(b.scopes, &scope{vars: map[Var]bool{}})
}

// Local declares a variable of the unit's kind in the innermost open block.
func (b *Builder) Local(name string) *Local {
	l := &Local{ID: b.id(), Name: norm.NFC.String(name), Type: b.kind}
	if len(b.scopes) == 1 {
		b.fail(fmt.Errorf("local %q declared outside a block", l.Name))
		return l
	}
	top := b.scopes[len(b.scopes)-1]
	top.vars[l] = true
	top.locals = append(top.locals, l)
	return l
}

// EndBlock closes the innermost block. result may be nil.
func (b *Builder) EndBlock(stmts []Expr, result Expr) *Block {
	for _, s := range stmts {
		b.use(s)
	}
	if result != nil {
		b.use(result)
	}
	if len(b.scopes) == 1 {
		b.fail(fmt.Errorf("EndBlock without BeginBlock"))
		return &Block{Stmts: stmts, Result: result}
	}
	top := b.scopes[len(b.scopes)-1]
	b.scopes = b.scopes[:len(b.scopes)-1]
	return &Block{Locals: top.locals, Stmts: stmts, Result: result}
}

// BeginLoop opens a loop and returns its exit Label. Breaks to the label are
// accepted until the matching EndLoop.
func (b *Builder) BeginLoop(name string) *Label {
	lbl := &Label{ID: b.id(), Name: norm.NFC.String(name), Type: b.kind}
	b.labels = append(b.labels, lbl)
	return lbl
}

// EndLoop closes the innermost loop, which must own lbl.
func (b *Builder) EndLoop(lbl *Label, body Expr) *Loop {
	lbl = b.label("end loop", lbl)
	body = b.operand("loop body", body)
	b.use(body)
	n := len(b.labels)
	if n == 0 || b.labels[n-1] != lbl {
		b.fail(&UnboundLabelError{Label: lbl.Name, ID: lbl.ID})
		return &Loop{Label: lbl, Body: body}
	}
	b.labels = b.labels[:n-1]
	return &Loop{Label: lbl, Body: body}
}

// Break builds an exit from the open loop owning lbl, carrying value.
func (b *Builder) Break(lbl *Label, value Expr) *Break {
	lbl = b.label("break", lbl)
	value = b.operand("break value", value)
	b.use(value)
	if !b.labelOpen(lbl) {
		b.fail(&UnboundLabelError{Label: lbl.Name, ID: lbl.ID})
	}
	if value.Kind() != lbl.Type {
		b.fail(&TypeMismatchError{Where: "break " + lbl.Name, Want: lbl.Type, Got: value.Kind()})
	}
	return &Break{Label: lbl, Value: value}
}

// IfThenElse builds a conditional. els may be nil.
func (b *Builder) IfThenElse(cond, then, els Expr) *IfThenElse {
	cond = b.operand("if condition", cond)
	then = b.operand("if then", then)
	b.use(cond)
	b.use(then)
	if els != nil {
		b.use(els)
	}
	if cond.Kind() != Bool {
		b.fail(&TypeMismatchError{Where: "if condition", Want: Bool, Got: cond.Kind()})
	}
	kind, err := BranchKind(then, els)
	if err != nil {
		b.fail(err)
	}
	return &IfThenElse{Cond: cond, Then: then, Else: els, Type: kind}
}

// Finish closes the unit around body. It fails if any construction failed or
// a block or loop is still open.
func (b *Builder) Finish(body Expr) (*Unit, error) {
	if body != nil {
		b.use(body)
	}
	if b.err != nil {
		return nil, fmt.Errorf("build %s: %w", b.name, b.err)
	}
	if len(b.scopes) != 1 {
		return nil, fmt.Errorf("build %s: %d block(s) left open", b.name, len(b.scopes)-1)
	}
	if len(b.labels) != 0 {
		lbl := b.labels[len(b.labels)-1]
		return nil, fmt.Errorf("build %s: %w", b.name, &UnboundLabelError{Label: lbl.Name, ID: lbl.ID})
	}
	if body == nil {
		return nil, fmt.Errorf("build %s: missing body", b.name)
	}
	if body.Kind() != b.kind {
		return nil, fmt.Errorf("build %s: %w", b.name, &TypeMismatchError{Where: "unit result", Want: b.kind, Got: body.Kind()})
	}
	return &Unit{Name: b.name, Kind: b.kind, Params: b.params, Body: body}, nil
}

// operand records an error for a nil child and substitutes a zero literal
// of the unit's kind, so the constructor can still read its Kind.
func (b *Builder) operand(where string, e Expr) Expr {
	if e != nil {
		return e
	}
	b.fail(fmt.Errorf("%s: nil expression", where))
	return &Const{Value: "0", Type: b.kind}
}

// variable is operand for Var arguments.
func (b *Builder) variable(where string, v Var) Var {
	if v != nil {
		return v
	}
	b.fail(fmt.Errorf("%s: nil variable", where))
	return &Local{Name: "<nil>", Type: b.kind}
}

// label is operand for loop labels.
func (b *Builder) label(where string, lbl *Label) *Label {
	if lbl != nil {
		return lbl
	}
	b.fail(fmt.Errorf("%s: nil label", where))
	return &Label{Name: "<nil>", Type: b.kind}
}

// use checks that a variable referenced directly as a child is visible.
// Compound children were checked when they were built.
func (b *Builder) use(e Expr) {
	v, ok := e.(Var)
	if !ok {
		return
	}
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if b.scopes[i].vars[v] {
			return
		}
	}
	b.fail(&UndeclaredVariableError{Name: v.VarName(), ID: v.VarID()})
}

func (b *Builder) labelOpen(lbl *Label) bool {
	for i := len(b.labels) - 1; i >= 0; i-- {
		if b.labels[i] == lbl {
			return true
		}
	}
	return false
}

// BranchKind returns the kind of a conditional with the given branches.
//
// Equal kinds give that kind. A Break branch transfers control and takes the
// kind of the other branch. Otherwise a Void branch makes the whole
// conditional Void; two different value kinds are a TypeMismatchError.
func BranchKind(then, els Expr) (Kind, error) {
	if els == nil {
		return Void, nil
	}
	tk, ek := then.Kind(), els.Kind()
	switch {
	case tk == ek:
		return tk, nil
	case isBreak(then):
		return ek, nil
	case isBreak(els):
		return tk, nil
	case tk == Void || ek == Void:
		return Void, nil
	default:
		return Void, &TypeMismatchError{Where: "if branches", Want: tk, Got: ek}
	}
}

func isBreak(e Expr) bool {
	_, ok := e.(*Break)
	return ok
}

// CanonicalLiteral validates literal as a value of kind and returns its
// canonical text.
func CanonicalLiteral(kind Kind, literal string) (string, error) {
	switch kind {
	case Int32, Int64:
		v, err := strconv.ParseInt(literal, 10, kind.Bits())
		if err != nil {
			return "", fmt.Errorf("literal %q is not a valid %v: %w", literal, kind, err)
		}
		return strconv.FormatInt(v, 10), nil
	case Float32, Float64:
		v, err := strconv.ParseFloat(literal, kind.Bits())
		if err != nil {
			return "", fmt.Errorf("literal %q is not a valid %v: %w", literal, kind, err)
		}
		return strconv.FormatFloat(v, 'g', -1, kind.Bits()), nil
	case Bool:
		v, err := strconv.ParseBool(literal)
		if err != nil {
			return "", fmt.Errorf("literal %q is not a valid bool: %w", literal, err)
		}
		return strconv.FormatBool(v), nil
	default:
		return "", &UnsupportedTypeError{Kind: kind}
	}
}

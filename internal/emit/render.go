package emit

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/roach88/specialize/internal/ir"
)

type sinkKind uint8

const (
	toDiscard sinkKind = iota
	toReturn
	toAssign
)

// sink is where the value of a rendered node goes.
type sink struct {
	kind sinkKind
	name string // target variable for toAssign
}

var discard = sink{kind: toDiscard}

// loopState tracks one enclosing loop while its body is rendered.
type loopState struct {
	name string
	out  sink
	used bool // a break statement names the label
}

type renderer struct {
	taken  map[string]bool
	vars   map[ir.Var]string
	reads  map[ir.Var]int
	loops  map[*ir.Label]*loopState
	nTemps int
}

func newRenderer() *renderer {
	r := &renderer{
		taken: make(map[string]bool),
		vars:  make(map[ir.Var]string),
		reads: make(map[ir.Var]int),
		loops: make(map[*ir.Label]*loopState),
	}
	r.reserve("math")
	return r
}

func (r *renderer) reserve(name string) { r.taken[name] = true }

// unique returns base, or base with the smallest numeric suffix not yet
// taken, and marks the result taken.
func (r *renderer) unique(base string) string {
	name := base
	for i := 2; r.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	r.taken[name] = true
	return name
}

func (r *renderer) declare(v ir.Var) string {
	name := r.unique(identifier(v.VarName()))
	r.vars[v] = name
	return name
}

func (r *renderer) temp() string {
	r.nTemps++
	return r.unique("t" + strconv.Itoa(r.nTemps))
}

func (r *renderer) target(v ir.Var) (string, error) {
	name, ok := r.vars[v]
	if !ok {
		return "", &ir.UndeclaredVariableError{Name: v.VarName(), ID: v.VarID()}
	}
	return name, nil
}

func (r *renderer) read(v ir.Var) (string, error) {
	name, err := r.target(v)
	if err != nil {
		return "", err
	}
	r.reads[v]++
	return name, nil
}

// into renders e as statements that deliver its value to out.
func (r *renderer) into(e ir.Expr, out sink) ([]jen.Code, error) {
	switch n := e.(type) {
	case *ir.Block:
		return r.block(n, out)
	case *ir.Loop:
		return r.loop(n, out)
	case *ir.IfThenElse:
		return r.ifThenElse(n, out)
	case *ir.Break:
		return r.brk(n)
	case *ir.Decrement:
		if out.kind == toDiscard {
			name, err := r.target(n.Target)
			if err != nil {
				return nil, err
			}
			return []jen.Code{jen.Id(name).Op("--")}, nil
		}
	case *ir.Assign:
		if out.kind == toDiscard {
			pre, v, err := r.expr(n.Value)
			if err != nil {
				return nil, err
			}
			name, err := r.target(n.Target)
			if err != nil {
				return nil, err
			}
			return append(pre, jen.Id(name).Op("=").Add(v)), nil
		}
	}

	pre, v, err := r.expr(e)
	if err != nil {
		return nil, err
	}
	switch out.kind {
	case toReturn:
		return append(pre, jen.Return(v)), nil
	case toAssign:
		return append(pre, jen.Id(out.name).Op("=").Add(v)), nil
	default:
		if _, ok := e.(*ir.Const); ok {
			return pre, nil
		}
		return append(pre, jen.Id("_").Op("=").Add(v)), nil
	}
}

// expr renders e as an expression, plus the statements that must run before
// it is evaluated.
func (r *renderer) expr(e ir.Expr) ([]jen.Code, jen.Code, error) {
	switch n := e.(type) {
	case *ir.Param, *ir.Local:
		name, err := r.read(n.(ir.Var))
		if err != nil {
			return nil, nil, err
		}
		return nil, jen.Id(name), nil

	case *ir.Const:
		return nil, literal(n), nil

	case *ir.Binary:
		return r.binary(n)

	case *ir.Decrement:
		name, err := r.read(n.Target)
		if err != nil {
			return nil, nil, err
		}
		old := r.temp()
		return []jen.Code{
			jen.Id(old).Op(":=").Id(name),
			jen.Id(name).Op("--"),
		}, jen.Id(old), nil

	case *ir.Assign:
		pre, v, err := r.expr(n.Value)
		if err != nil {
			return nil, nil, err
		}
		name, err := r.target(n.Target)
		if err != nil {
			return nil, nil, err
		}
		r.reads[n.Target]++
		return append(pre, jen.Id(name).Op("=").Add(v)), jen.Id(name), nil

	case *ir.Break:
		return nil, nil, fmt.Errorf("break to %q used as a value", n.Label.Name)

	default:
		if e.Kind() == ir.Void {
			return nil, nil, fmt.Errorf("%T of kind void used as a value", e)
		}
		tmp := r.temp()
		stmts, err := r.into(e, sink{kind: toAssign, name: tmp})
		if err != nil {
			return nil, nil, err
		}
		decl := jen.Var().Id(tmp).Add(goType(e.Kind()))
		return append([]jen.Code{decl}, stmts...), jen.Id(tmp), nil
	}
}

func (r *renderer) binary(n *ir.Binary) ([]jen.Code, jen.Code, error) {
	prec := precedence(n)

	pre, l, err := r.expr(n.L)
	if err != nil {
		return nil, nil, fmt.Errorf("%v left: %w", n.Op, err)
	}
	lprec := precedence(n.L)
	// The right operand runs its side effects before the whole expression
	// is evaluated; pin the left value first if those effects would change it.
	if writes := effects(n.R); len(writes) > 0 && readsAny(n.L, writes) {
		pinned := r.temp()
		pre = append(pre, jen.Id(pinned).Op(":=").Add(l))
		l, lprec = jen.Id(pinned), atomic
	}

	rpre, rhs, err := r.expr(n.R)
	if err != nil {
		return nil, nil, fmt.Errorf("%v right: %w", n.Op, err)
	}
	pre = append(pre, rpre...)

	if lprec < prec {
		l = jen.Parens(l)
	}
	if precedence(n.R) <= prec {
		rhs = jen.Parens(rhs)
	}
	return pre, jen.Add(l).Op(operator(n.Op)).Add(rhs), nil
}

func (r *renderer) block(n *ir.Block, out sink) ([]jen.Code, error) {
	names := make([]string, len(n.Locals))
	for i, l := range n.Locals {
		names[i] = r.declare(l)
	}

	var body []jen.Code
	for i, s := range n.Stmts {
		stmts, err := r.into(s, discard)
		if err != nil {
			return nil, fmt.Errorf("block stmt[%d]: %w", i, err)
		}
		body = append(body, stmts...)
	}
	if n.Result != nil {
		stmts, err := r.into(n.Result, out)
		if err != nil {
			return nil, fmt.Errorf("block result: %w", err)
		}
		body = append(body, stmts...)
	}

	// Locals are reset on every entry to the block, which a var
	// declaration at this point does.
	decls := make([]jen.Code, 0, 2*len(n.Locals)+len(body))
	for i, l := range n.Locals {
		decls = append(decls, jen.Var().Id(names[i]).Add(goType(l.Type)))
		if r.reads[l] == 0 {
			decls = append(decls, jen.Id("_").Op("=").Id(names[i]))
		}
	}
	return append(decls, body...), nil
}

func (r *renderer) loop(n *ir.Loop, out sink) ([]jen.Code, error) {
	st := &loopState{name: r.unique(identifier(n.Label.Name)), out: out}
	r.loops[n.Label] = st
	body, err := r.into(n.Body, discard)
	delete(r.loops, n.Label)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", n.Label.Name, err)
	}

	stmt := jen.For().Block(body...)
	if st.used {
		stmt = jen.Id(st.name).Op(":").Add(stmt)
	}
	return []jen.Code{stmt}, nil
}

func (r *renderer) brk(n *ir.Break) ([]jen.Code, error) {
	st, ok := r.loops[n.Label]
	if !ok {
		return nil, &ir.UnboundLabelError{Label: n.Label.Name, ID: n.Label.ID}
	}
	stmts, err := r.into(n.Value, st.out)
	if err != nil {
		return nil, fmt.Errorf("break %s: %w", n.Label.Name, err)
	}
	if st.out.kind == toReturn {
		return stmts, nil
	}
	st.used = true
	return append(stmts, jen.Break().Id(st.name)), nil
}

func (r *renderer) ifThenElse(n *ir.IfThenElse, out sink) ([]jen.Code, error) {
	pre, cond, err := r.expr(n.Cond)
	if err != nil {
		return nil, fmt.Errorf("if condition: %w", err)
	}
	then, err := r.into(n.Then, out)
	if err != nil {
		return nil, fmt.Errorf("if then: %w", err)
	}
	stmt := jen.If(cond).Block(then...)
	if n.Else != nil {
		els, err := r.into(n.Else, out)
		if err != nil {
			return nil, fmt.Errorf("if else: %w", err)
		}
		stmt = stmt.Else().Block(els...)
	}
	return append(pre, stmt), nil
}

// Binding strength of rendered expressions, as Go defines it.
const (
	comparison = 3
	additive   = 4
	multiply   = 5
	atomic     = 9
)

func precedence(e ir.Expr) int {
	b, ok := e.(*ir.Binary)
	if !ok {
		return atomic
	}
	switch b.Op {
	case ir.OpMul:
		return multiply
	case ir.OpAdd:
		return additive
	default:
		return comparison
	}
}

func operator(op ir.Op) string {
	switch op {
	case ir.OpAdd:
		return "+"
	case ir.OpMul:
		return "*"
	default:
		return ">"
	}
}

// effects returns the variables e assigns or decrements.
func effects(e ir.Expr) map[ir.Var]bool {
	out := make(map[ir.Var]bool)
	walk(e, func(n ir.Expr) {
		switch n := n.(type) {
		case *ir.Assign:
			out[n.Target] = true
		case *ir.Decrement:
			out[n.Target] = true
		}
	})
	return out
}

// readsAny reports whether e reads any variable in vars.
func readsAny(e ir.Expr, vars map[ir.Var]bool) bool {
	found := false
	walk(e, func(n ir.Expr) {
		switch n := n.(type) {
		case *ir.Param, *ir.Local:
			found = found || vars[n.(ir.Var)]
		case *ir.Decrement:
			found = found || vars[n.Target]
		}
	})
	return found
}

func walk(e ir.Expr, visit func(ir.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *ir.Binary:
		walk(n.L, visit)
		walk(n.R, visit)
	case *ir.Assign:
		walk(n.Value, visit)
	case *ir.Block:
		for _, s := range n.Stmts {
			walk(s, visit)
		}
		walk(n.Result, visit)
	case *ir.Loop:
		walk(n.Body, visit)
	case *ir.IfThenElse:
		walk(n.Cond, visit)
		walk(n.Then, visit)
		walk(n.Else, visit)
	case *ir.Break:
		walk(n.Value, visit)
	}
}

// Identifiers the rendered function refers to; unit names must not shadow
// them.
var predeclared = map[string]bool{
	"bool": true, "int32": true, "int64": true, "float32": true, "float64": true,
	"true": true, "false": true, "_": true,
}

// identifier turns a unit name into a Go identifier.
func identifier(name string) string {
	var sb strings.Builder
	for i, c := range name {
		switch {
		case c == '_' || unicode.IsLetter(c):
			sb.WriteRune(c)
		case unicode.IsDigit(c):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(c)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" {
		return "v"
	}
	if token.IsKeyword(id) || predeclared[id] {
		return id + "_"
	}
	return id
}

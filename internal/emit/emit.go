// Package emit renders a unit as Go source specialized to its kind.
//
// The output is what the compiled Routine computes, written out as a plain
// Go function: loops become labeled for statements, a Break becomes either a
// return or an assignment followed by a labeled break, and expression-valued
// blocks, loops and conditionals are lowered to statements that assign into
// temporaries. Evaluation order of the unit is preserved.
package emit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/roach88/specialize/internal/compiler"
	"github.com/roach88/specialize/internal/ir"
)

// DefaultPackage is the package clause of rendered files.
const DefaultPackage = "specialized"

// Option configures Render.
type Option func(*options)

type options struct {
	pkg      string
	funcName string
}

// WithPackage sets the package name of the rendered file.
func WithPackage(name string) Option {
	return func(o *options) { o.pkg = name }
}

// WithFuncName overrides the function name, which defaults to the unit name
// followed by the kind (dotInt32).
func WithFuncName(name string) Option {
	return func(o *options) { o.funcName = name }
}

// FuncName returns the default function name for u.
func FuncName(u *ir.Unit) string {
	kind := u.Kind.String()
	return identifier(u.Name) + strings.ToUpper(kind[:1]) + kind[1:]
}

// Render checks u and returns a gofmt-formatted Go file declaring one
// function equivalent to it.
func Render(u *ir.Unit, opts ...Option) ([]byte, error) {
	if err := compiler.Check(u); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	o := options{pkg: DefaultPackage, funcName: FuncName(u)}
	for _, opt := range opts {
		opt(&o)
	}
	fingerprint, err := ir.Fingerprint(u)
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", u.Name, err)
	}

	r := newRenderer()
	r.reserve(o.funcName)
	params := make([]jen.Code, len(u.Params))
	for i, p := range u.Params {
		params[i] = jen.Id(r.declare(p)).Add(goType(p.Type))
	}
	body, err := r.into(u.Body, sink{kind: toReturn})
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", u.Name, err)
	}

	f := jen.NewFile(o.pkg)
	f.HeaderComment("Code generated by specialize. DO NOT EDIT.")
	f.Commentf("%s is %s specialized to %s.", o.funcName, u.Name, u.Kind)
	f.Comment("Unit fingerprint: " + fingerprint)
	f.Func().Id(o.funcName).Params(params...).Add(goType(u.Kind)).Block(body...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("emit %s: render: %w", u.Name, err)
	}
	return buf.Bytes(), nil
}

func goType(k ir.Kind) jen.Code {
	switch k {
	case ir.Bool:
		return jen.Bool()
	case ir.Int32:
		return jen.Int32()
	case ir.Int64:
		return jen.Int64()
	case ir.Float32:
		return jen.Float32()
	case ir.Float64:
		return jen.Float64()
	default:
		return jen.Null()
	}
}

func literal(c *ir.Const) jen.Code {
	var code *jen.Statement
	switch c.Value {
	case "true":
		return jen.True()
	case "false":
		return jen.False()
	case "NaN":
		code = jen.Qual("math", "NaN").Call()
	case "+Inf":
		code = jen.Qual("math", "Inf").Call(jen.Lit(1))
	case "-Inf":
		code = jen.Qual("math", "Inf").Call(jen.Lit(-1))
	default:
		return jen.Id(c.Value)
	}
	if c.Type == ir.Float32 {
		return jen.Float32().Call(code)
	}
	return code
}

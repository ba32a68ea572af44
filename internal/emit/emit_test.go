package emit

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specialize/internal/ir"
)

func dotUnit(t *testing.T, kind ir.Kind) *ir.Unit {
	t.Helper()
	b := ir.NewBuilder("dot", kind)
	acc := b.Param("acc")
	left := b.Param("left")
	right := b.Param("right")
	u, err := b.Finish(b.Add(b.Mul(left, right), acc))
	require.NoError(t, err)
	return u
}

func factorialUnit(t *testing.T) *ir.Unit {
	t.Helper()
	b := ir.NewBuilder("factorial", ir.Int32)
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
	body := b.EndBlock([]ir.Expr{b.Assign(result, b.Const("1"))}, loop)
	u, err := b.Finish(body)
	require.NoError(t, err)
	return u
}

// render renders u and checks the output parses as Go.
func render(t *testing.T, u *ir.Unit, opts ...Option) string {
	t.Helper()
	src, err := Render(u, opts...)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "out.go", src, parser.AllErrors)
	require.NoError(t, err, "rendered source:\n%s", src)
	return string(src)
}

func TestRenderDot(t *testing.T) {
	src := render(t, dotUnit(t, ir.Int64))

	assert.Contains(t, src, "// Code generated by specialize. DO NOT EDIT.")
	assert.Contains(t, src, "package specialized")
	assert.Contains(t, src, "// dotInt64 is dot specialized to int64.")
	assert.Contains(t, src, "// Unit fingerprint: "+ir.MustFingerprint(dotUnit(t, ir.Int64)))
	assert.Contains(t, src, "func dotInt64(acc int64, left int64, right int64) int64 {")
	assert.Contains(t, src, "return left*right + acc")
}

func TestRenderFactorial(t *testing.T) {
	src := render(t, factorialUnit(t))

	for _, line := range []string{
		"func factorialInt32(value int32) int32 {",
		"var result int32",
		"result = 1",
		"for {",
		"if value > 1 {",
		"t1 := value",
		"value--",
		"result = result * t1",
		"} else {",
		"return result",
	} {
		assert.Contains(t, src, line)
	}
	// The loop's only break returns, so no label is needed.
	assert.NotContains(t, src, "done:")
}

func TestRenderOptions(t *testing.T) {
	src := render(t, dotUnit(t, ir.Float32), WithPackage("kernels"), WithFuncName("Dot"))
	assert.Contains(t, src, "package kernels")
	assert.Contains(t, src, "func Dot(acc float32, left float32, right float32) float32 {")
}

func TestRenderLoopInValuePosition(t *testing.T) {
	// (loop l { break l x }) + x
	b := ir.NewBuilder("loopy", ir.Int32)
	x := b.Param("x")
	l := b.BeginLoop("l")
	loop := b.EndLoop(l, b.Break(l, x))
	u, err := b.Finish(b.Add(loop, x))
	require.NoError(t, err)

	src := render(t, u)
	assert.Contains(t, src, "var t1 int32")
	assert.Contains(t, src, "l:")
	assert.Contains(t, src, "t1 = x")
	assert.Contains(t, src, "break l")
	assert.Contains(t, src, "return t1 + x")
}

func TestRenderPinsLeftOperandBeforeSideEffects(t *testing.T) {
	// x * x--: the left operand must see x before the decrement.
	b := ir.NewBuilder("square", ir.Int32)
	x := b.Param("x")
	u, err := b.Finish(b.Mul(x, b.Decrement(x)))
	require.NoError(t, err)

	src := render(t, u)
	assert.Contains(t, src, "t1 := x")
	assert.Contains(t, src, "t2 := x")
	assert.Contains(t, src, "return t1 * t2")
}

func TestRenderParenthesizesByPrecedence(t *testing.T) {
	// (a + b) * (a + b)
	b := ir.NewBuilder("sq", ir.Float64)
	p := b.Param("a")
	q := b.Param("b")
	u, err := b.Finish(b.Mul(b.Add(p, q), b.Add(p, q)))
	require.NoError(t, err)

	src := render(t, u)
	assert.Contains(t, src, "return (a + b) * (a + b)")
}

func TestRenderSpecialFloatLiterals(t *testing.T) {
	b := ir.NewBuilder("nan", ir.Float32)
	x := b.Param("x")
	u, err := b.Finish(b.Add(x, b.Const("NaN")))
	require.NoError(t, err)

	src := render(t, u)
	assert.Contains(t, src, `import "math"`)
	assert.Contains(t, src, "float32(math.NaN())")
}

func TestRenderUnreadLocal(t *testing.T) {
	b := ir.NewBuilder("unused", ir.Int32)
	x := b.Param("x")
	b.BeginBlock()
	b.Local("scratch")
	u, err := b.Finish(b.EndBlock(nil, x))
	require.NoError(t, err)

	src := render(t, u)
	assert.Contains(t, src, "var scratch int32")
	assert.Contains(t, src, "_ = scratch")
}

func TestRenderRejectsInvalidUnit(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Int32}
	u := &ir.Unit{
		Name:   "bad",
		Kind:   ir.Int32,
		Params: []*ir.Param{x},
		Body:   &ir.Break{Label: &ir.Label{ID: 2, Name: "nowhere", Type: ir.Int32}, Value: x},
	}
	_, err := Render(u)
	require.Error(t, err)
	assert.True(t, ir.IsUnboundLabel(err))
}

func TestRenderRejectsNonCanonicalBool(t *testing.T) {
	u := &ir.Unit{
		Name: "bad",
		Kind: ir.Int32,
		Body: &ir.IfThenElse{
			Cond: &ir.Const{Value: "1", Type: ir.Bool},
			Then: &ir.Const{Value: "10", Type: ir.Int32},
			Else: &ir.Const{Value: "20", Type: ir.Int32},
			Type: ir.Int32,
		},
	}
	_, err := Render(u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not canonical")
}

func TestIdentifier(t *testing.T) {
	tests := map[string]string{
		"acc":    "acc",
		"my var": "my_var",
		"1st":    "_1st",
		"func":   "func_",
		"int32":  "int32_",
		"":       "v",
		"résumé": "résumé",
	}
	for in, want := range tests {
		assert.Equal(t, want, identifier(in), "identifier(%q)", in)
	}
}

func TestUniqueNames(t *testing.T) {
	r := newRenderer()
	assert.Equal(t, "r", r.unique("r"))
	assert.Equal(t, "r2", r.unique("r"))
	assert.Equal(t, "r3", r.unique("r"))
	assert.Equal(t, "math2", r.unique("math"))
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "factorialFloat64", FuncName(&ir.Unit{Name: "factorial", Kind: ir.Float64}))
}

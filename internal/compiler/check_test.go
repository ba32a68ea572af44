package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specialize/internal/ir"
)

// The trees below are assembled by hand, bypassing the Builder, so every
// rule has to be caught by Check itself.

func TestCheckAcceptsBuiltUnits(t *testing.T) {
	for _, kind := range ir.NumericKinds {
		t.Run(kind.String(), func(t *testing.T) {
			assert.NoError(t, Check(dotUnit(t, kind)))
			assert.NoError(t, Check(factorialUnit(t, kind)))
		})
	}
}

func TestCheckRejectsUnboundLabel(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Int32}
	stray := &ir.Label{ID: 2, Name: "stray", Type: ir.Int32}
	own := &ir.Label{ID: 3, Name: "own", Type: ir.Int32}
	u := &ir.Unit{
		Name:   "bad",
		Kind:   ir.Int32,
		Params: []*ir.Param{x},
		Body:   &ir.Loop{Label: own, Body: &ir.Break{Label: stray, Value: x}},
	}

	err := Check(u)
	require.Error(t, err)
	assert.True(t, ir.IsUnboundLabel(err))

	_, err = Compile[int32](u)
	assert.True(t, ir.IsUnboundLabel(err), "Compile must run the same check")
}

func TestCheckRejectsBreakAfterItsLoop(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Int32}
	lbl := &ir.Label{ID: 2, Name: "l", Type: ir.Int32}
	u := &ir.Unit{
		Name:   "bad",
		Kind:   ir.Int32,
		Params: []*ir.Param{x},
		Body: &ir.Block{
			Stmts:  []ir.Expr{&ir.Loop{Label: lbl, Body: &ir.Break{Label: lbl, Value: x}}},
			Result: &ir.IfThenElse{Cond: &ir.Const{Value: "true", Type: ir.Bool}, Then: x, Else: &ir.Break{Label: lbl, Value: x}, Type: ir.Int32},
		},
	}
	assert.True(t, ir.IsUnboundLabel(Check(u)))
}

func TestCheckRejectsTypeMismatch(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Int32}
	lbl := &ir.Label{ID: 2, Name: "l", Type: ir.Int32}
	one := &ir.Const{Value: "1", Type: ir.Int32}
	yes := &ir.Const{Value: "true", Type: ir.Bool}

	tests := []struct {
		name  string
		body  ir.Expr
		where string
	}{
		{"mixed operands", &ir.Binary{Op: ir.OpAdd, L: x, R: &ir.Const{Value: "1", Type: ir.Float64}, Type: ir.Int32}, "const 1"},
		{"bool operand", &ir.Binary{Op: ir.OpMul, L: yes, R: yes, Type: ir.Int32}, "mul"},
		{"wrong recorded result", &ir.Binary{Op: ir.OpAdd, L: x, R: one, Type: ir.Int64}, "add result"},
		{"non-bool condition", &ir.IfThenElse{Cond: x, Then: x, Else: one, Type: ir.Int32}, "if condition"},
		{"wrong if result", &ir.IfThenElse{Cond: yes, Then: x, Else: one, Type: ir.Void}, "if result"},
		{"break value", &ir.Loop{Label: lbl, Body: &ir.Break{Label: lbl, Value: yes}}, "break l"},
		{"unit result", &ir.Binary{Op: ir.OpGreaterThan, L: x, R: one, Type: ir.Bool}, "unit result"},
		{"label kind", &ir.Loop{Label: &ir.Label{ID: 3, Name: "f", Type: ir.Float32}, Body: x}, "label f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &ir.Unit{Name: "bad", Kind: ir.Int32, Params: []*ir.Param{x}, Body: tt.body}
			err := Check(u)
			require.Error(t, err)
			var mismatch *ir.TypeMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.where, mismatch.Where)
		})
	}
}

func TestCheckRejectsUnsupportedKind(t *testing.T) {
	u := &ir.Unit{Name: "bad", Kind: ir.Bool, Body: &ir.Const{Value: "true", Type: ir.Bool}}
	err := Check(u)
	assert.True(t, ir.IsUnsupportedType(err))

	_, err = Compile[int32](u)
	assert.True(t, ir.IsUnsupportedType(err))
}

func TestCheckRejectsUndeclaredVariable(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Int32}
	ghost := &ir.Local{ID: 2, Name: "ghost", Type: ir.Int32}
	inner := &ir.Local{ID: 3, Name: "inner", Type: ir.Int32}

	tests := []struct {
		name string
		body ir.Expr
	}{
		{"never declared", &ir.Assign{Target: ghost, Value: x}},
		{"read outside its block", &ir.Block{
			Stmts:  []ir.Expr{&ir.Block{Locals: []*ir.Local{inner}, Result: inner}},
			Result: inner,
		}},
		{"param of another unit", &ir.Decrement{Target: &ir.Param{ID: 9, Name: "y", Type: ir.Int32}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &ir.Unit{Name: "bad", Kind: ir.Int32, Params: []*ir.Param{x}, Body: tt.body}
			err := Check(u)
			assert.True(t, ir.IsUndeclaredVariable(err), "got %v", err)
		})
	}
}

func TestCheckRejectsDuplicateIDs(t *testing.T) {
	a := &ir.Param{ID: 1, Name: "a", Type: ir.Int32}
	b := &ir.Param{ID: 1, Name: "b", Type: ir.Int32}
	u := &ir.Unit{Name: "bad", Kind: ir.Int32, Params: []*ir.Param{a, b}, Body: a}

	err := Check(u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id #1")
}

func TestCheckRejectsInvalidConst(t *testing.T) {
	u := &ir.Unit{Name: "bad", Kind: ir.Int32, Body: &ir.Const{Value: "one", Type: ir.Int32}}
	assert.Error(t, Check(u))
}

func TestCheckRejectsNonCanonicalConst(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Int32}
	ten := &ir.Const{Value: "10", Type: ir.Int32}
	twenty := &ir.Const{Value: "20", Type: ir.Int32}

	tests := []struct {
		name  string
		body  ir.Expr
		value string
	}{
		{"bool spelled 1", &ir.IfThenElse{Cond: &ir.Const{Value: "1", Type: ir.Bool}, Then: ten, Else: twenty, Type: ir.Int32}, `"1"`},
		{"bool spelled TRUE", &ir.IfThenElse{Cond: &ir.Const{Value: "TRUE", Type: ir.Bool}, Then: ten, Else: twenty, Type: ir.Int32}, `"TRUE"`},
		{"int with plus sign", &ir.Binary{Op: ir.OpAdd, L: x, R: &ir.Const{Value: "+7", Type: ir.Int32}, Type: ir.Int32}, `"+7"`},
		{"int with leading zero", &ir.Binary{Op: ir.OpAdd, L: x, R: &ir.Const{Value: "07", Type: ir.Int32}, Type: ir.Int32}, `"07"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &ir.Unit{Name: "bad", Kind: ir.Int32, Params: []*ir.Param{x}, Body: tt.body}
			err := Check(u)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.value+" is not canonical")

			_, err = Compile[int32](u)
			assert.Error(t, err, "Compile must refuse what Check refuses")
		})
	}
}

func TestCheckRejectsNonCanonicalFloatConst(t *testing.T) {
	x := &ir.Param{ID: 1, Name: "x", Type: ir.Float64}
	u := &ir.Unit{
		Name:   "bad",
		Kind:   ir.Float64,
		Params: []*ir.Param{x},
		Body:   &ir.Binary{Op: ir.OpMul, L: x, R: &ir.Const{Value: "2.0", Type: ir.Float64}, Type: ir.Float64},
	}
	err := Check(u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `want "2"`)
}

func TestCheckRejectsMissingParts(t *testing.T) {
	assert.Error(t, Check(nil))
	assert.Error(t, Check(&ir.Unit{Name: "empty", Kind: ir.Int32}))
	assert.Error(t, Check(&ir.Unit{Name: "nil param", Kind: ir.Int32, Params: []*ir.Param{nil}, Body: &ir.Const{Value: "0", Type: ir.Int32}}))
}

package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specialize/internal/ir"
)

func TestResolveEveryNumericKind(t *testing.T) {
	i32, err := Resolve[int32](ir.Int32)
	require.NoError(t, err)
	assert.Equal(t, int32(7), i32.Add(3, 4))
	assert.Equal(t, int32(12), i32.Mul(3, 4))
	assert.True(t, i32.GreaterThan(4, 3))
	assert.Equal(t, int32(2), i32.Decrement(3))
	assert.Equal(t, int32(0), i32.Zero)
	assert.Equal(t, int32(1), i32.One)

	i64, err := Resolve[int64](ir.Int64)
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<40, i64.Mul(1<<20, 1<<20))

	f32, err := Resolve[float32](ir.Float32)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f32.Decrement(1.5))

	f64, err := Resolve[float64](ir.Float64)
	require.NoError(t, err)
	assert.Equal(t, 8.0, f64.Add(f64.Mul(1.5, 2), f64.Mul(2.5, 2)))
	assert.False(t, f64.GreaterThan(math.NaN(), 0))
}

func TestResolveIntegerOverflowWraps(t *testing.T) {
	o, err := Resolve[int32](ir.Int32)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), o.Add(math.MaxInt32, 1))
	assert.Equal(t, int32(math.MaxInt32), o.Decrement(math.MinInt32))
}

func TestResolveUnsupportedKind(t *testing.T) {
	for _, kind := range []ir.Kind{ir.Void, ir.Bool, ir.Kind(99), ir.Kind(-1)} {
		t.Run(kind.String(), func(t *testing.T) {
			_, err := Resolve[int32](kind)
			require.Error(t, err)
			assert.True(t, ir.IsUnsupportedType(err))
		})
	}
}

func TestResolveWrongMachineType(t *testing.T) {
	_, err := Resolve[float64](ir.Int32)
	require.Error(t, err)
	assert.True(t, ir.IsUnsupportedType(err))
	assert.Contains(t, err.Error(), "resolve int32 as float64")
}

func TestResolveReturnsSharedTable(t *testing.T) {
	a, err := Resolve[int64](ir.Int64)
	require.NoError(t, err)
	b, err := Resolve[int64](ir.Int64)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestSupportedAndKinds(t *testing.T) {
	assert.Equal(t, ir.NumericKinds, Kinds())
	for _, kind := range ir.NumericKinds {
		assert.True(t, Supported(kind), kind.String())
	}
	assert.False(t, Supported(ir.Void))
	assert.False(t, Supported(ir.Bool))
	assert.False(t, Supported(ir.Kind(42)))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ir.Int32, KindOf[int32]())
	assert.Equal(t, ir.Int64, KindOf[int64]())
	assert.Equal(t, ir.Float32, KindOf[float32]())
	assert.Equal(t, ir.Float64, KindOf[float64]())
}

func TestParse(t *testing.T) {
	v, err := Parse[int32]("-12")
	require.NoError(t, err)
	assert.Equal(t, int32(-12), v)

	_, err = Parse[int32]("3000000000")
	assert.Error(t, err)

	_, err = Parse[int64]("1.5")
	assert.Error(t, err)

	f, err := Parse[float64]("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)
}

func TestParseAllReportsIndex(t *testing.T) {
	vs, err := ParseAll[float32]([]string{"1", "2.5", "-3"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2.5, -3}, vs)

	_, err = ParseAll[int32]([]string{"1", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1]")
}

func TestFormatMatchesCanonicalLiteral(t *testing.T) {
	tests := []struct {
		kind ir.Kind
		text string
		got  string
	}{
		{ir.Int32, "-7", Format[int32](-7)},
		{ir.Int64, "9007199254740993", Format[int64](9007199254740993)},
		{ir.Float32, "0.1", Format[float32](0.1)},
		{ir.Float64, "8", Format[float64](8)},
		{ir.Float64, "1e+21", Format[float64](1e21)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			canon, err := ir.CanonicalLiteral(tt.kind, tt.text)
			require.NoError(t, err)
			assert.Equal(t, canon, tt.got)
		})
	}
}

package testutil

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestEqualPairGeneratorsKeepLengthsEqual(t *testing.T) {
	properties := gopter.NewProperties(Parameters(50))

	properties.Property("int32 pairs have equal length", prop.ForAll(
		func(p VectorPair[int32]) bool { return len(p.A) == len(p.B) && len(p.A) <= 16 },
		Int32Vectors(16),
	))
	properties.Property("int64 pairs have equal length", prop.ForAll(
		func(p VectorPair[int64]) bool { return len(p.A) == len(p.B) },
		Int64Vectors(16),
	))
	properties.Property("float32 elements stay in bounds", prop.ForAll(
		func(p VectorPair[float32]) bool {
			for i := range p.A {
				if p.A[i] < -10 || p.A[i] > 10 || p.B[i] < -10 || p.B[i] > 10 {
					return false
				}
			}
			return len(p.A) == len(p.B)
		},
		Float32Vectors(16, 10),
	))
	properties.Property("float64 pairs have equal length", prop.ForAll(
		func(p VectorPair[float64]) bool { return len(p.A) == len(p.B) },
		Float64Vectors(16, 100),
	))

	properties.TestingRun(t)
}

func TestUnequalGeneratorBoundsLengths(t *testing.T) {
	properties := gopter.NewProperties(Parameters(50))

	properties.Property("lengths stay within maxLen", prop.ForAll(
		func(p VectorPair[int32]) bool { return len(p.A) <= 8 && len(p.B) <= 8 },
		UnequalInt32Vectors(8),
	))

	properties.TestingRun(t)
}

func TestAlmostEqual(t *testing.T) {
	assert.True(t, AlmostEqual(1.0, 1.0, 1, 1e-12))
	assert.True(t, AlmostEqual(1000.0000001, 1000, 1000, 1e-9))
	assert.False(t, AlmostEqual(1.1, 1.0, 1, 1e-3))
	assert.True(t, AlmostEqual(math.NaN(), math.NaN(), 0, 1e-9))
	assert.False(t, AlmostEqual(math.NaN(), 0, 0, 1e-9))
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, 7.0, Magnitude([]float64{1, -2}, []float64{3, 2, 100}))
	assert.Equal(t, 0.0, Magnitude([]float32{}, []float32{1}))
}

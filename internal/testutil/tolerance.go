package testutil

import "math"

// AlmostEqual reports whether got is within a relative error of want, scaled
// by the magnitude of the terms that produced want. Float sums may be fused
// or reassociated by the compiler on some platforms, so exact equality is
// only required for integer kinds.
func AlmostEqual(got, want, magnitude, rel float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return math.IsNaN(got) && math.IsNaN(want)
	}
	return math.Abs(got-want) <= rel*math.Max(1, magnitude)
}

// Magnitude returns Σ|a[i]*b[i]| over the overlapping prefix, the scale
// rounding error in a dot product grows with.
func Magnitude[T ~float32 | ~float64](a, b []T) float64 {
	n := min(len(a), len(b))
	var m float64
	for i := 0; i < n; i++ {
		m += math.Abs(float64(a[i]) * float64(b[i]))
	}
	return m
}

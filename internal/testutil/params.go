package testutil

import "github.com/leanovate/gopter"

// FixedSeed is the seed Parameters uses, so a failing property reproduces
// on every run.
const FixedSeed int64 = 20240101

// Parameters returns gopter parameters with a fixed seed and the given
// number of required successful runs.
func Parameters(minSuccessful int) *gopter.TestParameters {
	p := gopter.DefaultTestParametersWithSeed(FixedSeed)
	p.MinSuccessfulTests = minSuccessful
	return p
}

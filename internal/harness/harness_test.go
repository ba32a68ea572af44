package harness

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/specialize"
)

func TestRun_PassingCalls(t *testing.T) {
	scenario := &Scenario{
		Name:        "passing",
		Description: "dot and factorial",
		Calls: []Call{
			{Algorithm: "dot", Kind: "int32", A: []string{"1", "2", "3"}, B: []string{"10", "20", "30"}, Expect: "140"},
			{Algorithm: "factorial", Kind: "int32", N: "5", Expect: "120"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Calls, 2)
	assert.Equal(t, int64(1), result.Calls[0].Seq)
	assert.Equal(t, "140", result.Calls[0].Got)
	assert.Equal(t, int64(2), result.Calls[1].Seq)
	assert.Equal(t, "120", result.Calls[1].Got)
}

func TestRun_WrongExpectationFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong",
		Description: "factorial(5) is not 121",
		Calls: []Call{
			{Algorithm: "factorial", Kind: "int64", N: "5", Expect: "121"},
			{Algorithm: "factorial", Kind: "int64", N: "3", Expect: "6"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "calls[0] factorial/int64: got 120, want 121", result.Errors[0])
	assert.False(t, result.Calls[0].Pass)
	assert.True(t, result.Calls[1].Pass, "later calls still run")
}

func TestRun_ExpectedErrorCodes(t *testing.T) {
	scenario := &Scenario{
		Name:        "errors",
		Description: "error expectations",
		Calls: []Call{
			{Algorithm: "dot", Kind: "bool", ErrorCode: ir.ErrCodeUnsupportedType},
			{Algorithm: "dot", Kind: "bool", ErrorCode: ir.ErrCodeTypeMismatch},
			{Algorithm: "factorial", Kind: "int32", N: "3", ErrorCode: ir.ErrCodeUnsupportedType},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Calls, 3)
	assert.True(t, result.Calls[0].Pass)
	assert.Equal(t, "E103", result.Calls[0].ErrorCode)

	assert.False(t, result.Calls[1].Pass, "wrong code")
	assert.False(t, result.Calls[2].Pass, "no error at all")
	assert.Equal(t, "6", result.Calls[2].Got)

	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "calls[1] dot/bool: want error E102")
	assert.Equal(t, "calls[2] factorial/int32: want error E103, got 6", result.Errors[1])
}

func TestRun_BadLiterals(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "literals that do not parse for the kind",
		Calls: []Call{
			{Algorithm: "dot", Kind: "int32", A: []string{"1", "2.5"}, B: []string{"1", "1"}, Expect: "0"},
			{Algorithm: "factorial", Kind: "int32", N: "five", Expect: "120"},
			{Algorithm: "factorial", Kind: "int32", N: "5", Expect: "lots"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "a[1]: parse int32")
	assert.Contains(t, result.Errors[1], "n: parse int32")
	assert.Contains(t, result.Errors[2], "expect: parse int32")
	for _, ev := range result.Calls {
		assert.Empty(t, ev.ErrorCode, "bad input is not a structural error")
	}
}

func TestRun_FloatTolerance(t *testing.T) {
	call := Call{Algorithm: "dot", Kind: "float32", A: []string{"0.1", "0.2"}, B: []string{"3", "3"}, Expect: "0.9"}

	exact, err := Run(&Scenario{Name: "exact", Description: "d", Calls: []Call{call}})
	require.NoError(t, err)
	assert.False(t, exact.Pass, "0.90000004 is not 0.9")

	call.Tolerance = 1e-6
	loose, err := Run(&Scenario{Name: "loose", Description: "d", Calls: []Call{call}})
	require.NoError(t, err)
	assert.True(t, loose.Pass)
	assert.Equal(t, "0.90000004", loose.Calls[0].Got)
}

func TestRun_RejectsInvalidScenario(t *testing.T) {
	_, err := Run(nil)
	assert.Error(t, err)

	_, err = Run(&Scenario{Name: "empty", Description: "no calls"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestRun_WithCacheSharesRoutines(t *testing.T) {
	cache := specialize.NewCache(specialize.WithLogger(slog.New(slog.DiscardHandler)))
	scenario := &Scenario{
		Name:        "shared",
		Description: "d",
		Calls: []Call{
			{Algorithm: "dot", Kind: "int64", Expect: "0"},
			{Algorithm: "factorial", Kind: "int64", N: "3", Expect: "6"},
		},
	}

	for i := 0; i < 2; i++ {
		result, err := Run(scenario, WithCache(cache))
		require.NoError(t, err)
		assert.True(t, result.Pass)
	}
	assert.Equal(t, 2, cache.Len())
}

func TestRun_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	scenario := &Scenario{
		Name:        "logged",
		Description: "d",
		Calls:       []Call{{Algorithm: "factorial", Kind: "int32", N: "4", Expect: "24"}},
	}

	_, err := Run(scenario, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="call completed"`)
	assert.Contains(t, out, "got=24")
	assert.Contains(t, out, `msg="scenario completed" scenario=logged calls=1 pass=true`)
	assert.Contains(t, out, `msg="compiled routine"`, "the fresh cache logs through the same logger")
}

func TestMatches(t *testing.T) {
	assert.True(t, matches[int32](5, 5, 0))
	assert.False(t, matches[int32](5, 6, 0))
	assert.True(t, matches(math.NaN(), math.NaN(), 0))
	assert.True(t, matches(math.Inf(1), math.Inf(1), 0))
	assert.False(t, matches(math.Inf(1), math.Inf(-1), 1))
	assert.True(t, matches(1000.0005, 1000.0, 1e-6))
	assert.False(t, matches(1000.01, 1000.0, 1e-6))
	// Near zero the tolerance is absolute.
	assert.True(t, matches(1e-9, 0.0, 1e-6))
}

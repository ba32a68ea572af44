package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
	"github.com/roach88/specialize/internal/specialize"
)

// Harness executes scenario calls against specialized routines.
type Harness struct {
	ctx    context.Context
	cache  *specialize.Cache
	logger *slog.Logger
	seq    int64
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger for call progress. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithContext sets the context routines are compiled under. Default:
// context.Background.
func WithContext(ctx context.Context) Option {
	return func(h *Harness) { h.ctx = ctx }
}

// WithCache runs calls against c instead of a fresh cache.
func WithCache(c *specialize.Cache) Option {
	return func(h *Harness) { h.cache = c }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh cache unless WithCache is given, so
// every routine it calls is compiled for it. Call failures, expected or not,
// are recorded in the result; the returned error is reserved for a scenario
// that cannot run at all.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if scenario == nil {
		return nil, errors.New("nil scenario")
	}
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	h := &Harness{
		ctx:    context.Background(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cache == nil {
		h.cache = specialize.NewCache(specialize.WithLogger(h.logger))
	}

	result := NewResult(scenario.Name)
	for i, call := range scenario.Calls {
		h.execute(i, call, result)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"calls", len(result.Calls),
		"pass", result.Pass,
	)
	return result, nil
}

// execute runs one call and checks it against its expectation.
func (h *Harness) execute(index int, call Call, result *Result) {
	h.seq++
	ev := CallEvent{
		Seq:       h.seq,
		Algorithm: call.Algorithm,
		Kind:      call.Kind,
		A:         call.A,
		B:         call.B,
		N:         call.N,
	}
	prefix := fmt.Sprintf("calls[%d] %s/%s", index, call.Algorithm, call.Kind)

	got, match, err := evaluate(h.ctx, h.cache, call)
	switch {
	case err != nil:
		ev.ErrorCode = ir.ErrorCode(err)
		ev.Pass = call.ErrorCode != "" && ev.ErrorCode == call.ErrorCode
		if !ev.Pass {
			if call.ErrorCode != "" {
				result.AddError(fmt.Sprintf("%s: want error %s, got: %v", prefix, call.ErrorCode, err))
			} else {
				result.AddError(fmt.Sprintf("%s: %v", prefix, err))
			}
		}
	case call.ErrorCode != "":
		ev.Got = got
		result.AddError(fmt.Sprintf("%s: want error %s, got %s", prefix, call.ErrorCode, got))
	default:
		ev.Got = got
		ev.Pass = match
		if !match {
			result.AddError(fmt.Sprintf("%s: got %s, want %s", prefix, got, call.Expect))
		}
	}
	result.AddCall(ev)

	h.logger.Debug("call completed",
		"seq", ev.Seq,
		"algorithm", ev.Algorithm,
		"kind", ev.Kind,
		"got", ev.Got,
		"error_code", ev.ErrorCode,
		"pass", ev.Pass,
	)
}

// evaluate dispatches a call on its kind name to the matching machine type.
func evaluate(ctx context.Context, c *specialize.Cache, call Call) (got string, match bool, err error) {
	kind, err := ir.ParseKind(call.Kind)
	if err != nil {
		return "", false, err
	}
	switch kind {
	case ir.Int32:
		return evaluateAs[int32](ctx, c, call)
	case ir.Int64:
		return evaluateAs[int64](ctx, c, call)
	case ir.Float32:
		return evaluateAs[float32](ctx, c, call)
	case ir.Float64:
		return evaluateAs[float64](ctx, c, call)
	}
	// No machine type; building the unit reports why.
	if _, err := specialize.BuildUnit(call.Algorithm, kind); err != nil {
		return "", false, err
	}
	return "", false, &ir.UnsupportedTypeError{Kind: kind}
}

func evaluateAs[T ops.Number](ctx context.Context, c *specialize.Cache, call Call) (string, bool, error) {
	var got T
	switch call.Algorithm {
	case specialize.AlgorithmDotProduct:
		a, err := ops.ParseAll[T](call.A)
		if err != nil {
			return "", false, fmt.Errorf("a%w", err)
		}
		b, err := ops.ParseAll[T](call.B)
		if err != nil {
			return "", false, fmt.Errorf("b%w", err)
		}
		dot, err := specialize.DotProductWith[T](ctx, c)
		if err != nil {
			return "", false, err
		}
		got = dot(a, b)
	case specialize.AlgorithmFactorial:
		n, err := ops.Parse[T](strings.TrimSpace(call.N))
		if err != nil {
			return "", false, fmt.Errorf("n: %w", err)
		}
		fact, err := specialize.FactorialOf[T](ctx, c)
		if err != nil {
			return "", false, err
		}
		got = fact(n)
	default:
		return "", false, fmt.Errorf("unknown algorithm %q", call.Algorithm)
	}

	if call.Expect == "" {
		return ops.Format(got), false, nil
	}
	want, err := ops.Parse[T](strings.TrimSpace(call.Expect))
	if err != nil {
		return "", false, fmt.Errorf("expect: %w", err)
	}
	return ops.Format(got), matches(got, want, call.Tolerance), nil
}

// matches compares got with want exactly, or within a relative tolerance
// scaled by max(|want|, 1). Two NaNs match; infinities only match exactly.
func matches[T ops.Number](got, want T, tolerance float64) bool {
	if got == want {
		return true
	}
	g, w := float64(got), float64(want)
	if math.IsNaN(g) && math.IsNaN(w) {
		return true
	}
	if math.IsInf(g, 0) || math.IsInf(w, 0) {
		return false
	}
	return tolerance > 0 && math.Abs(g-w) <= tolerance*math.Max(1, math.Abs(w))
}

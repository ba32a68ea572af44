package specialize

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/specialize/internal/compiler"
	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/ops"
)

const instrumentationName = "github.com/roach88/specialize"

// cacheKey identifies one specialization.
type cacheKey struct {
	algorithm string
	kind      ir.Kind
}

// Cache memoizes compiled routines by (algorithm, kind).
//
// Routines are immutable, so a cached routine is shared by every caller.
// Cache is safe for concurrent use; compilation of a missing entry happens
// under the lock, so each key is compiled at most once.
type Cache struct {
	mu       sync.Mutex
	routines map[cacheKey]any // *compiler.Routine[T] for the key's kind

	logger   *slog.Logger
	tracer   trace.Tracer
	compiles metric.Int64Counter
	hits     metric.Int64Counter
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	logger *slog.Logger
	tracer trace.TracerProvider
	meter  metric.MeterProvider
}

// WithLogger sets the logger compilations are reported to.
// Default: slog.Default().
func WithLogger(l *slog.Logger) CacheOption {
	return func(c *cacheConfig) { c.logger = l }
}

// WithTracerProvider sets the provider of compile spans.
// Default: the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) CacheOption {
	return func(c *cacheConfig) { c.tracer = tp }
}

// WithMeterProvider sets the provider of the compilation and hit counters.
// Default: the global OpenTelemetry provider.
func WithMeterProvider(mp metric.MeterProvider) CacheOption {
	return func(c *cacheConfig) { c.meter = mp }
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	cfg := &cacheConfig{
		logger: slog.Default(),
		tracer: otel.GetTracerProvider(),
		meter:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meter.Meter(instrumentationName)
	// Instrument creation only fails on invalid names; the returned
	// instruments are usable no-ops in that case.
	compiles, _ := meter.Int64Counter("specialize.compilations",
		metric.WithDescription("Routines compiled, by algorithm and kind"))
	hits, _ := meter.Int64Counter("specialize.cache_hits",
		metric.WithDescription("Routine lookups served from the cache"))

	return &Cache{
		routines: make(map[cacheKey]any),
		logger:   cfg.logger,
		tracer:   cfg.tracer.Tracer(instrumentationName),
		compiles: compiles,
		hits:     hits,
	}
}

// Len returns the number of cached routines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.routines)
}

// Default backs DotProduct, Factorial and the CLI.
var Default = NewCache()

// Load returns the routine of algorithm specialized to T, compiling and
// caching it on first use. build is only called on a miss.
func Load[T ops.Number](ctx context.Context, c *Cache, algorithm string, build BuildFunc) (*compiler.Routine[T], error) {
	kind := ops.KindOf[T]()
	key := cacheKey{algorithm: algorithm, kind: kind}
	attrs := metric.WithAttributes(
		attribute.String("algorithm", algorithm),
		attribute.String("kind", kind.String()),
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.routines[key]; ok {
		c.hits.Add(ctx, 1, attrs)
		return cached.(*compiler.Routine[T]), nil
	}

	ctx, span := c.tracer.Start(ctx, "specialize.compile", trace.WithAttributes(
		attribute.String("algorithm", algorithm),
		attribute.String("kind", kind.String()),
	))
	defer span.End()

	r, fingerprint, err := compileUnit[T](algorithm, kind, build)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("specialization failed", "algorithm", algorithm, "kind", kind, "error", err)
		return nil, err
	}

	c.routines[key] = r
	c.compiles.Add(ctx, 1, attrs)
	span.SetAttributes(attribute.String("routine.id", r.ID()))
	c.logger.Debug("compiled routine",
		"algorithm", algorithm,
		"kind", kind,
		"id", r.ID(),
		"fingerprint", fingerprint,
	)
	return r, nil
}

func compileUnit[T ops.Number](algorithm string, kind ir.Kind, build BuildFunc) (*compiler.Routine[T], string, error) {
	u, err := build(kind)
	if err != nil {
		return nil, "", fmt.Errorf("specialize %s for %v: %w", algorithm, kind, err)
	}
	fingerprint, err := ir.Fingerprint(u)
	if err != nil {
		return nil, "", fmt.Errorf("specialize %s for %v: %w", algorithm, kind, err)
	}
	r, err := compiler.Compile[T](u)
	if err != nil {
		return nil, "", fmt.Errorf("specialize %s for %v: %w", algorithm, kind, err)
	}
	return r, fingerprint, nil
}

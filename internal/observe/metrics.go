// Package observe provides application-wide observability primitives for
// Orthograph: OpenTelemetry metrics and structured logging helpers.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Orthograph metrics.
const meterName = "github.com/MrWong99/orthograph"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// CheckDuration tracks end-to-end sentence check latency.
	CheckDuration metric.Float64Histogram

	// ResolverDuration tracks context-resolver round-trip latency.
	ResolverDuration metric.Float64Histogram

	// --- Counters ---

	// Corrections counts applied corrections. Use with attribute:
	//   attribute.String("source", ...) — "cache", "phonetic" or "context"
	Corrections metric.Int64Counter

	// CacheHits counts correction-cache hits.
	CacheHits metric.Int64Counter

	// CacheMisses counts correction-cache misses.
	CacheMisses metric.Int64Counter

	// ResolverRequests counts context-resolver calls. Use with attribute:
	//   attribute.String("status", ...) — "ok" or "error"
	ResolverRequests metric.Int64Counter

	// --- Gauges ---

	// VocabWords tracks the number of words in the learned vocabulary.
	VocabWords metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Checks
// without a resolver call finish in microseconds; resolver round-trips can
// take seconds.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.CheckDuration, err = m.Float64Histogram("orthograph.check.duration",
		metric.WithDescription("End-to-end latency of a sentence check."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ResolverDuration, err = m.Float64Histogram("orthograph.resolver.duration",
		metric.WithDescription("Round-trip latency of context-resolver calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Corrections, err = m.Int64Counter("orthograph.corrections",
		metric.WithDescription("Total applied corrections by source."),
	); err != nil {
		return nil, err
	}
	if met.CacheHits, err = m.Int64Counter("orthograph.cache.hits",
		metric.WithDescription("Total correction-cache hits."),
	); err != nil {
		return nil, err
	}
	if met.CacheMisses, err = m.Int64Counter("orthograph.cache.misses",
		metric.WithDescription("Total correction-cache misses."),
	); err != nil {
		return nil, err
	}
	if met.ResolverRequests, err = m.Int64Counter("orthograph.resolver.requests",
		metric.WithDescription("Total context-resolver calls by status."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.VocabWords, err = m.Int64UpDownCounter("orthograph.vocab.words",
		metric.WithDescription("Number of words in the learned vocabulary."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCorrection records one applied correction with its source attribute.
func (m *Metrics) RecordCorrection(ctx context.Context, source string) {
	m.Corrections.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", source)),
	)
}

// RecordResolverRequest records one context-resolver call with its status.
func (m *Metrics) RecordResolverRequest(ctx context.Context, status string) {
	m.ResolverRequests.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

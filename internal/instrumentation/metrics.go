package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod   = "method"
	attrPath     = "path"
	attrStatus   = "status"
	attrBackend  = "backend"
	attrAudience = "audience"
	attrResult   = "result"
)

// Metrics provides methods for recording observability metrics. It satisfies
// the API engine's operation observer interface.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Backend API call metrics
	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram
	apiRetriesTotal      metric.Int64Counter

	// Token cache metrics
	tokenCacheLookupsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Backend API Call Metrics
	m.apiOperationsTotal, err = meter.Int64Counter(
		"msapi_operations_total",
		metric.WithDescription("Total number of backend API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create msapi_operations_total counter: %w", err)
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"msapi_operation_duration_seconds",
		metric.WithDescription("Backend API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create msapi_operation_duration_seconds histogram: %w", err)
	}

	m.apiRetriesTotal, err = meter.Int64Counter(
		"msapi_retries_total",
		metric.WithDescription("Total number of backend API call retries"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create msapi_retries_total counter: %w", err)
	}

	// Token Cache Metrics
	m.tokenCacheLookupsTotal, err = meter.Int64Counter(
		"token_cache_lookups_total",
		metric.WithDescription("Total number of token cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token_cache_lookups_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAPIOperation records one completed backend API call. Backend, method
// and status are all bounded label sets; request paths deliberately stay out
// of the labels because they embed object IDs.
func (m *Metrics) RecordAPIOperation(ctx context.Context, backend, method, status string, duration time.Duration) {
	if m.apiOperationsTotal == nil || m.apiOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrBackend, backend),
		attribute.String(attrMethod, method),
		attribute.String(attrStatus, status),
	}

	m.apiOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRetry records one retry of a backend API call.
func (m *Metrics) RecordRetry(ctx context.Context, backend string) {
	if m.apiRetriesTotal == nil {
		return // Instrumentation not initialized
	}

	m.apiRetriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrBackend, backend),
	))
}

// RecordTokenLookup records one token cache lookup with its hit result. The
// scope URL is reduced to an audience label to keep cardinality bounded.
func (m *Metrics) RecordTokenLookup(ctx context.Context, scope string, hit bool) {
	if m.tokenCacheLookupsTotal == nil {
		return // Instrumentation not initialized
	}

	result := LookupMiss
	if hit {
		result = LookupHit
	}

	m.tokenCacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrAudience, AudienceFromScope(scope)),
		attribute.String(attrResult, result),
	))
}

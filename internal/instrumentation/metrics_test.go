package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics builds a Metrics instance backed by a manual reader so
// recorded values can be collected and asserted on.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

// collectMetric collects current metric data and returns the named metric.
func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) (metricdata.Metrics, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if metric.Name == name {
				return metric, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestMetrics_RecordAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordAPIOperation(ctx, "graph", "get", StatusSuccess, 120*time.Millisecond)
	m.RecordAPIOperation(ctx, "graph", "get", StatusSuccess, 80*time.Millisecond)
	m.RecordAPIOperation(ctx, "azure", "put", StatusError, 250*time.Millisecond)

	counter, found := collectMetric(t, reader, "msapi_operations_total")
	require.True(t, found)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	for _, dp := range sum.DataPoints {
		backend, _ := dp.Attributes.Value(attribute.Key("backend"))
		switch backend.AsString() {
		case "graph":
			assert.Equal(t, int64(2), dp.Value)
		case "azure":
			assert.Equal(t, int64(1), dp.Value)
		default:
			t.Errorf("unexpected backend label %q", backend.AsString())
		}
	}

	histogram, found := collectMetric(t, reader, "msapi_operation_duration_seconds")
	require.True(t, found)
	hist, ok := histogram.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestMetrics_RecordRetry(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRetry(ctx, "azure")
	m.RecordRetry(ctx, "azure")

	counter, found := collectMetric(t, reader, "msapi_retries_total")
	require.True(t, found)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestMetrics_RecordTokenLookupReducesScope(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTokenLookup(ctx, "https://graph.microsoft.com/.default", false)
	m.RecordTokenLookup(ctx, "https://graph.microsoft.com/.default", true)
	m.RecordTokenLookup(ctx, "https://graph.microsoft.com/.default", true)

	counter, found := collectMetric(t, reader, "token_cache_lookups_total")
	require.True(t, found)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	for _, dp := range sum.DataPoints {
		audience, _ := dp.Attributes.Value(attribute.Key("audience"))
		// The raw scope URL must never appear as a label value.
		assert.Equal(t, AudienceGraph, audience.AsString())

		result, _ := dp.Attributes.Value(attribute.Key("result"))
		switch result.AsString() {
		case LookupHit:
			assert.Equal(t, int64(2), dp.Value)
		case LookupMiss:
			assert.Equal(t, int64(1), dp.Value)
		default:
			t.Errorf("unexpected result label %q", result.AsString())
		}
	}
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordHTTPRequest(context.Background(), "POST", "/mcp", 200, 30*time.Millisecond)

	counter, found := collectMetric(t, reader, "http_requests_total")
	require.True(t, found)

	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)

	status, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("status"))
	assert.Equal(t, "200", status.AsString())
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	m := &Metrics{}
	ctx := context.Background()

	// A disabled provider hands out an uninitialized Metrics; every recorder
	// must tolerate it.
	m.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
	m.RecordAPIOperation(ctx, "graph", "get", StatusSuccess, time.Millisecond)
	m.RecordRetry(ctx, "graph")
	m.RecordTokenLookup(ctx, "https://graph.microsoft.com/.default", true)
}

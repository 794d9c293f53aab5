package instrumentation

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics())
	assert.Nil(t, provider.PrometheusHandler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	config := Config{
		ServiceName:     "mcp-msgraph-test",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	}

	provider, err := NewProvider(context.Background(), config)
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	assert.True(t, provider.Enabled())

	handler := provider.PrometheusHandler()
	require.NotNil(t, handler)

	// Record something and confirm it shows up on the scrape endpoint.
	provider.Metrics().RecordAPIOperation(context.Background(), "graph", "get", StatusSuccess, 0)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "msapi_operations_total")
}

func TestNewProvider_UnsupportedMetricsExporter(t *testing.T) {
	config := Config{
		Enabled:         true,
		MetricsExporter: "statsd",
	}

	_, err := NewProvider(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metrics exporter")
}

func TestNewProvider_UnsupportedTracingExporter(t *testing.T) {
	config := Config{
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "jaeger",
	}

	_, err := NewProvider(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported tracing exporter")
}

func TestProvider_MeterAndTracerNeverNil(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.NotNil(t, provider.Meter())
	assert.NotNil(t, provider.Tracer())
}

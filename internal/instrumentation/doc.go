// Package instrumentation provides OpenTelemetry metrics and tracing for
// the MCP server and the API engine.
//
// Instrumentation is disabled by default for zero overhead. Enable it via
// INSTRUMENTATION_ENABLED=true and configure exporters through the
// environment:
//
//	METRICS_EXPORTER              prometheus (default), otlp, stdout
//	TRACING_EXPORTER              none (default), otlp, stdout
//	OTEL_EXPORTER_OTLP_ENDPOINT   OTLP collector endpoint
//	OTEL_SERVICE_NAME             service name (default: mcp-msgraph)
//	OTEL_TRACES_SAMPLER_ARG       trace sampling rate (default: 0.1)
//
// The Provider wires exporters into global meter and tracer providers. Its
// Metrics value records HTTP request metrics and, as the API engine's
// operation observer, backend call totals and durations, retries and token
// cache lookups. All recording methods are safe to call on a disabled or
// nil-initialized Metrics value.
package instrumentation

// Package server provides the ServerContext and supporting HTTP plumbing
// for the MCP server.
//
// ServerContext is the dependency container handed to every tool handler: it
// carries the API client for the Microsoft backends, the logger, the server
// configuration and the instrumentation provider, and manages the shared
// lifecycle (cancellation, graceful shutdown).
//
// The package also provides:
//
//   - HealthChecker with /healthz (liveness), /readyz (readiness) and
//     /healthz/detailed endpoints for running behind an orchestrator
//   - MetricsServer, a dedicated HTTP server for the Prometheus scrape
//     endpoint, kept separate from application traffic
//
// Construct a ServerContext with functional options:
//
//	sc, err := server.NewServerContext(ctx,
//	    server.WithAPIClient(client),
//	    server.WithServerName("mcp-msgraph"),
//	    server.WithReadOnlyMode(true),
//	)
package server

package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/codes"

	"github.com/giantswarm/mcp-msgraph/internal/instrumentation"
	"github.com/giantswarm/mcp-msgraph/internal/logging"
	"github.com/giantswarm/mcp-msgraph/internal/server"
)

// WrapWithObservability wraps a tool handler with tracing and logging.
// The wrapper opens a span for each invocation, records success or error
// status from the handler result, and emits a debug log line with the
// invocation duration.
//
// MCP tool failures are carried in the result rather than as Go errors,
// so the wrapper inspects result.IsError in addition to the returned
// error when setting span status.
func WrapWithObservability(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request, sc)
		duration := time.Since(start)

		status := logging.StatusSuccess
		switch {
		case err != nil:
			instrumentation.SetSpanError(span, err)
			status = logging.StatusError
		case result != nil && result.IsError:
			span.SetStatus(codes.Error, "tool returned error result")
			status = logging.StatusError
		default:
			instrumentation.SetSpanSuccess(span)
		}

		sc.Logger().Debug("tool invocation",
			logging.KeyTool, toolName,
			logging.KeyStatus, status,
			logging.KeyDuration, duration.String(),
		)

		return result, err
	}
}

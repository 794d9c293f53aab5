package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-msgraph/internal/msapi"
	"github.com/giantswarm/mcp-msgraph/internal/server"
)

// stubAPIClient is a no-op backend client for wiring tests.
type stubAPIClient struct{}

func (stubAPIClient) Execute(ctx context.Context, req msapi.CallRequest) msapi.CallResult {
	return msapi.CallResult{Text: "{}"}
}

func (stubAPIClient) InvalidateToken(scope string) {}

func newTestServerContext(t *testing.T, opts ...server.Option) *server.ServerContext {
	t.Helper()

	allOpts := append([]server.Option{server.WithAPIClient(stubAPIClient{})}, opts...)
	sc, err := server.NewServerContext(context.Background(), allOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestCheckWriteOperation_AllowedWhenWritable(t *testing.T) {
	sc := newTestServerContext(t)

	for _, method := range []string{"get", "post", "put", "patch", "delete"} {
		assert.Nil(t, CheckWriteOperation(sc, method), method)
	}
}

func TestCheckWriteOperation_BlockedInReadOnlyMode(t *testing.T) {
	sc := newTestServerContext(t, server.WithReadOnlyMode(true))

	for _, method := range []string{"post", "put", "patch", "delete", "DELETE", " Patch "} {
		result := CheckWriteOperation(sc, method)
		require.NotNil(t, result, method)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "read-only mode")
	}
}

func TestCheckWriteOperation_ReadsAlwaysAllowed(t *testing.T) {
	sc := newTestServerContext(t, server.WithReadOnlyMode(true))

	assert.Nil(t, CheckWriteOperation(sc, "get"))
	assert.Nil(t, CheckWriteOperation(sc, "head"))
	assert.Nil(t, CheckWriteOperation(sc, ""))
}

func TestCheckWriteOperation_TitleCasesMethod(t *testing.T) {
	sc := newTestServerContext(t, server.WithReadOnlyMode(true))

	result := CheckWriteOperation(sc, "delete")
	require.NotNil(t, result)
	assert.Contains(t, resultText(t, result), "Delete operations")
}

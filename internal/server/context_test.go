package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-msgraph/internal/msapi"
)

// stubAPIClient is a no-op backend client for wiring tests.
type stubAPIClient struct{}

func (stubAPIClient) Execute(ctx context.Context, req msapi.CallRequest) msapi.CallResult {
	return msapi.CallResult{Text: "{}"}
}

func (stubAPIClient) InvalidateToken(scope string) {}

func TestNewServerContext_RequiresAPIClient(t *testing.T) {
	_, err := NewServerContext(context.Background())
	require.ErrorIs(t, err, ErrMissingAPIClient)
}

func TestNewServerContext_Defaults(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(stubAPIClient{}))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Equal(t, "mcp-msgraph", sc.Config().ServerName)
	assert.False(t, sc.ReadOnlyMode())
	assert.NotNil(t, sc.Logger())
	assert.NotNil(t, sc.APIClient())
	assert.Nil(t, sc.InstrumentationProvider())
	assert.False(t, sc.IsShutdown())
}

func TestNewServerContext_Options(t *testing.T) {
	sc, err := NewServerContext(context.Background(),
		WithAPIClient(stubAPIClient{}),
		WithServerName("graph-proxy"),
		WithVersion("1.2.3"),
		WithTenantID("tenant-1"),
		WithReadOnlyMode(true),
		WithLogLevel("debug"),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Equal(t, "graph-proxy", sc.Config().ServerName)
	assert.Equal(t, "1.2.3", sc.Config().Version)
	assert.Equal(t, "tenant-1", sc.Config().TenantID)
	assert.True(t, sc.ReadOnlyMode())
	assert.Equal(t, "debug", sc.Config().LogLevel)
}

func TestNewServerContext_WithConfigClones(t *testing.T) {
	config := NewDefaultConfig()
	config.ServerName = "original"

	sc, err := NewServerContext(context.Background(),
		WithAPIClient(stubAPIClient{}),
		WithConfig(config),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	// Mutating the caller's config must not affect the server context.
	config.ServerName = "mutated"
	assert.Equal(t, "original", sc.Config().ServerName)
}

func TestNewServerContext_NilOptionValues(t *testing.T) {
	_, err := NewServerContext(context.Background(), WithAPIClient(nil))
	require.ErrorIs(t, err, ErrMissingAPIClient)

	_, err = NewServerContext(context.Background(),
		WithAPIClient(stubAPIClient{}),
		WithLogger(nil),
	)
	require.ErrorIs(t, err, ErrMissingLogger)

	_, err = NewServerContext(context.Background(),
		WithAPIClient(stubAPIClient{}),
		WithConfig(nil),
	)
	require.ErrorIs(t, err, ErrMissingConfig)
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithAPIClient(stubAPIClient{}))
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Error("server context should be cancelled after shutdown")
	}

	// Shutdown is idempotent.
	require.NoError(t, sc.Shutdown())
}

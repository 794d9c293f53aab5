package msapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider hands out sequentially numbered tokens and counts
// exchanges.
type countingProvider struct {
	mu       sync.Mutex
	calls    int
	lifetime time.Duration
	err      error
}

func (p *countingProvider) AcquireToken(ctx context.Context, scope string) (Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return Token{}, p.err
	}
	p.calls++
	return Token{
		Value:     scope + "-token-" + string(rune('0'+p.calls)),
		ExpiresAt: time.Now().Add(p.lifetime),
	}, nil
}

func (p *countingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestTokenCache_ReusesTokenWithinValidityWindow(t *testing.T) {
	provider := &countingProvider{lifetime: time.Hour}
	cache := NewTokenCache(provider)
	ctx := context.Background()

	first, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	second, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.callCount())
}

func TestTokenCache_RefreshesWithinExpirySkew(t *testing.T) {
	// A token expiring in under 60s must not be served from cache.
	provider := &countingProvider{lifetime: 30 * time.Second}
	cache := NewTokenCache(provider)
	ctx := context.Background()

	first, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	second, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, provider.callCount())
}

func TestTokenCache_RefreshesAfterForcedExpiry(t *testing.T) {
	provider := &countingProvider{lifetime: time.Hour}
	cache := NewTokenCache(provider)
	ctx := context.Background()

	first, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	// Move the clock past the token's lifetime.
	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	second, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, provider.callCount())
}

func TestTokenCache_ScopesAreIndependent(t *testing.T) {
	provider := &countingProvider{lifetime: time.Hour}
	cache := NewTokenCache(provider)
	ctx := context.Background()

	graphToken, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)
	azureToken, err := cache.Get(ctx, AzureScope)
	require.NoError(t, err)

	assert.NotEqual(t, graphToken, azureToken)
	assert.Equal(t, 2, provider.callCount())
}

func TestTokenCache_Invalidate(t *testing.T) {
	provider := &countingProvider{lifetime: time.Hour}
	cache := NewTokenCache(provider)
	ctx := context.Background()

	_, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	cache.Invalidate(GraphScope)

	_, err = cache.Get(ctx, GraphScope)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestTokenCache_ProviderErrorPropagates(t *testing.T) {
	authErr := &AuthError{Scope: GraphScope, Err: errors.New("exchange rejected")}
	provider := &countingProvider{err: authErr}
	cache := NewTokenCache(provider)

	_, err := cache.Get(context.Background(), GraphScope)
	require.Error(t, err)

	var got *AuthError
	assert.ErrorAs(t, err, &got)
}

func TestTokenCache_ObserverSeesHitsAndMisses(t *testing.T) {
	provider := &countingProvider{lifetime: time.Hour}
	cache := NewTokenCache(provider)

	var hits []bool
	cache.SetObserver(func(scope string, hit bool) { hits = append(hits, hit) })

	ctx := context.Background()
	_, err := cache.Get(ctx, GraphScope)
	require.NoError(t, err)
	_, err = cache.Get(ctx, GraphScope)
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, hits)
}

func TestClientCredentialsProvider_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "client-1", r.Form.Get("client_id"))
		assert.Equal(t, GraphScope, r.Form.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "tok-abc", "token_type": "Bearer", "expires_in": 3599}`))
	}))
	defer server.Close()

	provider := &ClientCredentialsProvider{
		ClientID:     "client-1",
		ClientSecret: "secret",
		TokenURL:     server.URL,
	}

	token, err := provider.AcquireToken(context.Background(), GraphScope)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token.Value)
	assert.WithinDuration(t, time.Now().Add(3599*time.Second), token.ExpiresAt, 30*time.Second)
}

func TestClientCredentialsProvider_NonSuccessStatusIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	provider := &ClientCredentialsProvider{
		ClientID:     "client-1",
		ClientSecret: "wrong",
		TokenURL:     server.URL,
	}

	_, err := provider.AcquireToken(context.Background(), GraphScope)
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, GraphScope, authErr.Scope)
}

func TestClientCredentialsProvider_MissingConfigIsAuthError(t *testing.T) {
	provider := &ClientCredentialsProvider{TenantID: "tenant-1"}

	_, err := provider.AcquireToken(context.Background(), GraphScope)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestClientCredentialsProvider_TokenURLDerivedFromTenant(t *testing.T) {
	provider := &ClientCredentialsProvider{TenantID: "tenant-1"}
	assert.Equal(t, "https://login.microsoftonline.com/tenant-1/oauth2/v2.0/token", provider.tokenURL())
}

func TestTokenCache_ConcurrentMissesShareOneExchange(t *testing.T) {
	provider := &countingProvider{lifetime: time.Hour}
	cache := NewTokenCache(provider)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := cache.Get(ctx, GraphScope)
			assert.NoError(t, err)
			assert.NotEmpty(t, token)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, provider.callCount())
}

package msapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// tokenExpirySkew is the safety margin before a cached token's expiry at
// which it is considered stale and refreshed.
const tokenExpirySkew = 60 * time.Second

// Token is a bearer token with its absolute expiry timestamp.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenProvider acquires a bearer token for an OAuth scope. Implementations
// must return *AuthError for exchange failures.
type TokenProvider interface {
	AcquireToken(ctx context.Context, scope string) (Token, error)
}

// TokenCache caches tokens per scope for the process lifetime. Entries are
// reused while their expiry exceeds now plus a safety margin and are
// replaced wholesale on refresh; there is no partial mutation of an entry.
type TokenCache struct {
	provider TokenProvider

	mu     sync.Mutex
	tokens map[string]Token

	// group collapses concurrent refreshes of the same scope into a
	// single token exchange.
	group singleflight.Group

	// now is a test hook for clock control.
	now func() time.Time

	// observer, when set, is notified of every lookup with the hit result.
	observer func(scope string, hit bool)
}

// NewTokenCache creates a TokenCache backed by the given provider.
func NewTokenCache(provider TokenProvider) *TokenCache {
	return &TokenCache{
		provider: provider,
		tokens:   make(map[string]Token),
		now:      time.Now,
	}
}

// SetObserver installs a lookup observer, used for cache hit/miss metrics.
func (c *TokenCache) SetObserver(fn func(scope string, hit bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// Get returns a valid token for the scope, serving from cache when the
// cached entry expires more than 60s from now and refreshing otherwise.
func (c *TokenCache) Get(ctx context.Context, scope string) (string, error) {
	c.mu.Lock()
	cached, ok := c.tokens[scope]
	hit := ok && cached.ExpiresAt.After(c.now().Add(tokenExpirySkew))
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(scope, hit)
	}
	if hit {
		return cached.Value, nil
	}

	value, err, _ := c.group.Do(scope, func() (interface{}, error) {
		// Another caller may have refreshed while we waited on the group.
		c.mu.Lock()
		cached, ok := c.tokens[scope]
		valid := ok && cached.ExpiresAt.After(c.now().Add(tokenExpirySkew))
		c.mu.Unlock()
		if valid {
			return cached.Value, nil
		}

		fresh, err := c.provider.AcquireToken(ctx, scope)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.tokens[scope] = fresh
		c.mu.Unlock()
		return fresh.Value, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Invalidate drops the cached token for a scope, forcing the next Get to
// perform a fresh exchange.
func (c *TokenCache) Invalidate(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, scope)
}

// ClientCredentialsProvider acquires tokens from Microsoft Entra ID using
// the OAuth 2.0 client-credentials grant.
type ClientCredentialsProvider struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// TokenURL overrides the derived Entra token endpoint, used in tests.
	TokenURL string

	// HTTPClient overrides the HTTP client used for the exchange.
	HTTPClient *http.Client
}

// tokenURL returns the v2.0 token endpoint for the tenant.
func (p *ClientCredentialsProvider) tokenURL() string {
	if p.TokenURL != "" {
		return p.TokenURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", p.TenantID)
}

// AcquireToken performs the client-credentials exchange for the scope.
func (p *ClientCredentialsProvider) AcquireToken(ctx context.Context, scope string) (Token, error) {
	if p.TenantID == "" && p.TokenURL == "" {
		return Token{}, &AuthError{Scope: scope, Err: errors.New("tenant ID is not configured")}
	}
	if p.ClientID == "" || p.ClientSecret == "" {
		return Token{}, &AuthError{Scope: scope, Err: errors.New("client credentials are not configured")}
	}

	cfg := &clientcredentials.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		TokenURL:     p.tokenURL(),
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if p.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.HTTPClient)
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		return Token{}, &AuthError{Scope: scope, Err: err}
	}
	if tok.AccessToken == "" {
		return Token{}, &AuthError{Scope: scope, Err: errors.New("token response is missing access_token")}
	}

	return Token{Value: tok.AccessToken, ExpiresAt: tok.Expiry}, nil
}

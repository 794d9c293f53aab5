package msapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/giantswarm/mcp-msgraph/internal/logging"
)

// RateLimiter gates outgoing backend calls. *rate.Limiter from
// golang.org/x/time/rate satisfies it directly.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// OperationObserver receives engine-level events for metrics recording.
// All methods must be safe for concurrent use.
type OperationObserver interface {
	// RecordAPIOperation records one completed backend call.
	RecordAPIOperation(ctx context.Context, backend, method, status string, duration time.Duration)

	// RecordRetry records one retry of a backend call.
	RecordRetry(ctx context.Context, backend string)

	// RecordTokenLookup records one token cache lookup.
	RecordTokenLookup(ctx context.Context, scope string, hit bool)
}

// Client executes API calls against the Microsoft Graph and Azure Resource
// Management backends.
type Client interface {
	// Execute runs one call end to end. It never returns a Go error;
	// failures are converted into a CallResult with IsError set and a JSON
	// diagnostic body.
	Execute(ctx context.Context, req CallRequest) CallResult

	// InvalidateToken drops the cached token for a scope.
	InvalidateToken(scope string)
}

// client is the orchestrator: it validates the request, consults the rate
// limiter, dispatches to the backend executor wrapped in the request's
// retry budget, optionally paginates, and shapes the response.
type client struct {
	http    *http.Client
	tokens  *TokenCache
	limiter RateLimiter

	observer OperationObserver

	graphBaseURL string
	azureBaseURL string

	graph backendExecutor
	azure backendExecutor
}

// Option is a functional option for configuring the client.
type Option func(*client) error

// WithTokenProvider backs the client's token cache with the provider.
func WithTokenProvider(provider TokenProvider) Option {
	return func(c *client) error {
		if provider == nil {
			return errors.New("token provider must not be nil")
		}
		c.tokens = NewTokenCache(provider)
		return nil
	}
}

// WithTokenCache sets a pre-built token cache, mainly for tests that share
// a cache across clients.
func WithTokenCache(cache *TokenCache) Option {
	return func(c *client) error {
		if cache == nil {
			return errors.New("token cache must not be nil")
		}
		c.tokens = cache
		return nil
	}
}

// WithHTTPClient overrides the HTTP client used for backend calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) error {
		if httpClient == nil {
			return errors.New("http client must not be nil")
		}
		c.http = httpClient
		return nil
	}
}

// WithRateLimiter installs a limiter consulted before every backend call.
func WithRateLimiter(limiter RateLimiter) Option {
	return func(c *client) error {
		c.limiter = limiter
		return nil
	}
}

// WithObserver installs a metrics observer for engine events.
func WithObserver(observer OperationObserver) Option {
	return func(c *client) error {
		c.observer = observer
		return nil
	}
}

// WithGraphBaseURL overrides the Graph base URL, used in tests.
func WithGraphBaseURL(baseURL string) Option {
	return func(c *client) error {
		c.graphBaseURL = baseURL
		return nil
	}
}

// WithAzureBaseURL overrides the Azure RM base URL, used in tests.
func WithAzureBaseURL(baseURL string) Option {
	return func(c *client) error {
		c.azureBaseURL = baseURL
		return nil
	}
}

// New creates a Client. A token provider (or cache) is required.
func New(opts ...Option) (Client, error) {
	c := &client{
		http:         &http.Client{},
		graphBaseURL: GraphBaseURL,
		azureBaseURL: AzureBaseURL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.tokens == nil {
		return nil, errors.New("a token provider is required")
	}

	if c.observer != nil {
		observer := c.observer
		c.tokens.SetObserver(func(scope string, hit bool) {
			observer.RecordTokenLookup(context.Background(), scope, hit)
		})
	}

	c.graph = &graphExecutor{c: c}
	c.azure = &azureExecutor{c: c}
	return c, nil
}

// retryPolicyFor builds the retry policy a request configures, with retry
// events forwarded to the observer.
func (c *client) retryPolicyFor(req *CallRequest) RetryPolicy {
	policy := RetryPolicy{
		MaxRetries: req.MaxRetries,
		BaseDelay:  req.RetryDelay,
	}
	if c.observer != nil {
		observer := c.observer
		backend := string(req.Backend)
		policy.OnRetry = func(attempt int, err error) {
			slog.Debug("retrying backend call",
				slog.String(logging.KeyBackend, backend),
				slog.Int("attempt", attempt),
				logging.SanitizedErr(err))
			observer.RecordRetry(context.Background(), backend)
		}
	}
	return policy
}

func (c *client) executorFor(backend Backend) backendExecutor {
	if backend == BackendAzure {
		return c.azure
	}
	return c.graph
}

// Execute implements Client.
func (c *client) Execute(ctx context.Context, req CallRequest) CallResult {
	start := time.Now()
	req.ApplyDefaults()

	if err := req.Validate(); err != nil {
		return c.failure(ctx, &req, start, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.failure(ctx, &req, start, err)
		}
	}

	executor := c.executorFor(req.Backend)

	var payload interface{}
	meta := ResultMeta{}

	if req.FetchAll && req.Method == "get" {
		page, err := executor.followContinuation(ctx, &req)
		if err != nil {
			return c.failure(ctx, &req, start, err)
		}
		payload = pagePayload(req.Backend, page)
		meta.Paginated = true
		meta.ItemCount = page.TotalCount
	} else {
		policy := c.retryPolicyFor(&req)
		err := policy.Execute(ctx, func(ctx context.Context) error {
			result, err := executor.executeOnce(ctx, &req)
			if err != nil {
				return err
			}
			payload = result
			return nil
		})
		if err != nil {
			return c.failure(ctx, &req, start, err)
		}
	}

	meta.Duration = time.Since(start)
	text, err := FormatResult(payload, req.ResponseFormat, meta)
	if err != nil {
		return c.failure(ctx, &req, start, err)
	}

	c.record(ctx, &req, logging.StatusSuccess, meta.Duration)
	return CallResult{
		Text:      text,
		Duration:  meta.Duration,
		ItemCount: meta.ItemCount,
	}
}

// InvalidateToken implements Client.
func (c *client) InvalidateToken(scope string) {
	c.tokens.Invalidate(scope)
}

// pagePayload renders the accumulated pages as a payload object for the
// formatter.
func pagePayload(backend Backend, page *Page) map[string]interface{} {
	payload := map[string]interface{}{
		"value":      page.Items,
		"totalCount": page.TotalCount,
		"fetchedAt":  page.FetchedAt.Format(time.RFC3339),
	}
	if backend == BackendGraph && page.Context != "" {
		payload[odataContext] = page.Context
	}
	return payload
}

// failure converts any engine error into the structured, non-throwing
// error result the protocol layer expects.
func (c *client) failure(ctx context.Context, req *CallRequest, start time.Time, err error) CallResult {
	elapsed := time.Since(start)

	diagnostic := map[string]interface{}{
		"error":        err.Error(),
		"attemptedUrl": c.attemptedBaseURL(req),
		"elapsedMs":    elapsed.Milliseconds(),
		"maxRetries":   req.MaxRetries,
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		diagnostic["statusCode"] = apiErr.StatusCode
		if apiErr.Body != "" {
			diagnostic["responseBody"] = apiErr.Body
		}
		diagnostic["attemptedUrl"] = apiErr.URL
	}

	text, marshalErr := json.MarshalIndent(diagnostic, "", "  ")
	if marshalErr != nil {
		text = []byte(`{"error": "failed to serialize error diagnostic"}`)
	}

	slog.Debug("api call failed",
		slog.String(logging.KeyBackend, string(req.Backend)),
		slog.String(logging.KeyPath, req.Path),
		slog.Duration(logging.KeyDuration, elapsed),
		logging.SanitizedErr(err))

	c.record(ctx, req, logging.StatusError, elapsed)
	return CallResult{
		Text:     string(text),
		IsError:  true,
		Duration: elapsed,
	}
}

// attemptedBaseURL reports the base URL a failed request was aimed at.
func (c *client) attemptedBaseURL(req *CallRequest) string {
	if req.Backend == BackendAzure {
		return c.azureBaseURL
	}
	return c.graphBaseURL + "/" + req.GraphAPIVersion
}

func (c *client) record(ctx context.Context, req *CallRequest, status string, duration time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.RecordAPIOperation(ctx, string(req.Backend), req.Method, status, duration)
}

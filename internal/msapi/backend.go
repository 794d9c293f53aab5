package msapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/giantswarm/mcp-msgraph/internal/logging"
)

// backendExecutor isolates one wire convention. Each backend implements a
// single-shot execution and a continuation-following paginated variant, so
// the orchestrator never branches on backend type beyond choosing the
// executor.
type backendExecutor interface {
	// executeOnce performs exactly one request and returns the decoded
	// payload.
	executeOnce(ctx context.Context, req *CallRequest) (interface{}, error)

	// followContinuation performs a paginated get, following the backend's
	// continuation cursor until exhausted. Each page fetch carries its own
	// retry budget; any page failure aborts the whole call.
	followContinuation(ctx context.Context, req *CallRequest) (*Page, error)
}

// do issues one HTTP request with a bearer token for the scope, JSON body
// encoding and a hard timeout enforced through context cancellation. It
// returns the status code and raw body; status classification is left to
// the caller.
func (c *client) do(ctx context.Context, method, rawURL, scope string, body interface{}, header http.Header, timeout time.Duration) (int, []byte, error) {
	token, err := c.tokens.Get(ctx, scope)
	if err != nil {
		return 0, nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &ParameterError{Message: "body is not serializable: " + err.Error()}
		}
		reader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, method, rawURL, reader)
	if err != nil {
		return 0, nil, &ParameterError{Message: "invalid request URL: " + err.Error()}
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			httpReq.Header.Set(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		slog.Debug("backend request failed",
			slog.String(logging.KeyMethod, method),
			logging.SanitizedErr(err))
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	slog.Debug("backend request completed",
		slog.String(logging.KeyMethod, method),
		slog.Int(logging.KeyStatusCode, resp.StatusCode),
		slog.Duration(logging.KeyDuration, time.Since(start)))

	return resp.StatusCode, respBody, nil
}

// requestHeader builds the per-request header set shared by both backends.
func requestHeader(req *CallRequest) http.Header {
	header := http.Header{}
	if req.ConsistencyLevel != "" {
		header.Set("ConsistencyLevel", req.ConsistencyLevel)
	}
	for key, value := range req.CustomHeaders {
		header.Set(key, value)
	}
	return header
}

// checkStatus converts a non-2xx response into an *APIError.
func checkStatus(status int, body []byte, url string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return &APIError{StatusCode: status, Body: string(body), URL: url}
}

// decodePayload parses a response body as JSON, tolerating non-JSON bodies
// by wrapping the text verbatim.
func decodePayload(body []byte) interface{} {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}
	}
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return map[string]interface{}{"rawResponse": string(body)}
	}
	return payload
}

// decodeObject parses a response body strictly as a JSON object; pages of a
// paginated call are always objects.
func decodeObject(body []byte) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// httpMethodFor maps a normalized request method to the HTTP verb, or
// reports an UnsupportedMethodError.
func httpMethodFor(method string) (string, error) {
	switch method {
	case "get":
		return http.MethodGet, nil
	case "post":
		return http.MethodPost, nil
	case "put":
		return http.MethodPut, nil
	case "patch":
		return http.MethodPatch, nil
	case "delete":
		return http.MethodDelete, nil
	default:
		return "", &UnsupportedMethodError{Method: method}
	}
}

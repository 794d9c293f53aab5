package msapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ParameterError reports an invalid request that was rejected before any
// network I/O.
type ParameterError struct {
	Message string
}

func (e *ParameterError) Error() string {
	return e.Message
}

// AuthError reports a failed token exchange for a scope.
type AuthError struct {
	Scope string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token acquisition for scope %q failed: %v", e.Scope, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError reports a non-success HTTP status from a backend. It carries the
// response body and the attempted URL for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("API request to %s failed with status %d: %s", e.URL, e.StatusCode, body)
}

// Retryable reports whether the status is worth retrying: 429 and all 5xx
// are transient, every other 4xx is a caller error.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// UnsupportedMethodError reports a method the backends do not implement.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported method %q (must be get, post, put, patch or delete)", e.Method)
}

// PaginationError reports that a page fetch failed after exhausting its
// retry budget, aborting the whole paginated call.
type PaginationError struct {
	Page int
	Err  error
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("pagination aborted at page %d: %v", e.Page, e.Err)
}

func (e *PaginationError) Unwrap() error {
	return e.Err
}

// IsRetryable is the default retry classification: a 4xx status other than
// 429 is a caller error and is never retried; throttling (429), server
// errors (5xx), timeouts and network failures are retryable. Errors that
// fail before I/O (parameters, auth, unsupported method) and cancellation
// are not retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	var paramErr *ParameterError
	if errors.As(err, &paramErr) {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var methodErr *UnsupportedMethodError
	if errors.As(err, &methodErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	// Unknown failures default to retryable, mirroring the taxonomy where
	// only recognized 4xx responses are terminal on first occurrence.
	return true
}

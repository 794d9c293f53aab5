package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyBackend    = "backend"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyStatusCode = "status_code"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyTool       = "tool"
	KeyScope      = "scope"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// bearerRegex matches bearer tokens and raw JWTs so they never reach the
// logs. Entra tokens are JWTs starting with a base64url "eyJ" header.
var bearerRegex = regexp.MustCompile(`(?i)(bearer\s+)?eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_.-]*`)

// secretParamRegex matches credential-bearing query/form parameters such as
// client_secret in token exchange error bodies.
var secretParamRegex = regexp.MustCompile(`(?i)(client_secret|access_token|refresh_token)=[^&\s"]+`)

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithBackend returns a logger with the backend attribute set.
func WithBackend(logger *slog.Logger, backend string) *slog.Logger {
	return logger.With(slog.String(KeyBackend, backend))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Backend returns a slog attribute for the backend name.
func Backend(backend string) slog.Attr {
	return slog.String(KeyBackend, backend)
}

// Path returns a slog attribute for the API path.
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with credentials
// redacted. Backend and token-exchange errors can echo request material
// that includes bearer tokens or client secrets; those must never be
// logged.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, SanitizeCredentials(err.Error()))
}

// SanitizeCredentials redacts bearer tokens, raw JWTs and credential query
// parameters from a string while preserving the surrounding context for
// debugging.
func SanitizeCredentials(s string) string {
	s = bearerRegex.ReplaceAllString(s, "<redacted-token>")
	s = secretParamRegex.ReplaceAllString(s, "$1=<redacted>")
	return s
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes (like JWT headers) can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// SanitizeURL strips the query string from a URL for logging. Graph and
// Azure continuation links embed skip tokens in their queries; the host
// and path are enough to identify the request.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return "<empty>"
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return SanitizeCredentials(rawURL)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

// Package logging provides shared structured-logging helpers.
//
// It defines the common slog attribute keys used across the codebase so
// that log lines stay consistent and greppable, plus sanitization helpers
// that keep credentials out of the logs:
//
//   - SanitizedErr / SanitizeCredentials redact bearer tokens, raw JWTs and
//     credential-bearing parameters from error strings
//   - SanitizeToken masks a token down to a length indicator
//   - SanitizeURL strips query strings, which carry OData skip tokens
//
// Handlers and the API engine should prefer these helpers over ad-hoc
// slog.String calls for the shared keys.
package logging

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(SecurityHeadersConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/mcp", nil))

	headers := recorder.Header()
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
	assert.NotEmpty(t, headers.Get("Content-Security-Policy"))

	// No HSTS on plain HTTP without the override.
	assert.Empty(t, headers.Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTSEnabled(t *testing.T) {
	handler := SecurityHeaders(SecurityHeadersConfig{EnableHSTS: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/mcp", nil))

	assert.Contains(t, recorder.Header().Get("Strict-Transport-Security"), "max-age=")
}

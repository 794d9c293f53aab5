package cmd

import (
	"fmt"
	"os"
	"strings"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Entra ID application credentials
	TenantID     string
	ClientID     string
	ClientSecret string

	// Behavior settings
	ReadOnly  bool
	QPSLimit  float64
	Burst     int
	DebugMode bool

	// Metrics server configuration
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds the dedicated metrics server configuration. The
// metrics server only runs when instrumentation is enabled.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// Validate checks the configuration for problems that would prevent the
// server from starting.
func (c *ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if c.TenantID == "" {
		return fmt.Errorf("tenant ID is required (--tenant-id or AZURE_TENANT_ID)")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client ID is required (--client-id or AZURE_CLIENT_ID)")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client secret is required (--client-secret or AZURE_CLIENT_SECRET)")
	}

	if c.QPSLimit <= 0 {
		return fmt.Errorf("qps-limit must be positive, got %v", c.QPSLimit)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst-limit must be at least 1, got %d", c.Burst)
	}

	for name, endpoint := range map[string]string{
		"sse-endpoint":     c.SSEEndpoint,
		"message-endpoint": c.MessageEndpoint,
		"http-endpoint":    c.HTTPEndpoint,
	} {
		if !strings.HasPrefix(endpoint, "/") {
			return fmt.Errorf("%s must start with '/', got %q", name, endpoint)
		}
	}

	return nil
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// loadCredentialEnvVars fills unset credential fields from the standard
// Azure environment variables. Secrets should be passed via environment
// rather than flags so they never show up in process listings.
func loadCredentialEnvVars(config *ServeConfig) {
	loadEnvIfEmpty(&config.TenantID, "AZURE_TENANT_ID")
	loadEnvIfEmpty(&config.ClientID, "AZURE_CLIENT_ID")
	loadEnvIfEmpty(&config.ClientSecret, "AZURE_CLIENT_SECRET")
}

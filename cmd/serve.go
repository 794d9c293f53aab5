package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-msgraph/internal/instrumentation"
	"github.com/giantswarm/mcp-msgraph/internal/msapi"
	"github.com/giantswarm/mcp-msgraph/internal/server"
	"github.com/giantswarm/mcp-msgraph/internal/tools/apicall"
	"github.com/giantswarm/mcp-msgraph/internal/tools/groups"
	"github.com/giantswarm/mcp-msgraph/internal/tools/sites"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		readOnly  bool
		qpsLimit  float64
		burst     int
		debugMode bool

		// Entra ID application credentials
		tenantID     string
		clientID     string
		clientSecret string

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Metrics server options
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP Microsoft Graph server",
		Long: `Start the MCP server to provide tools for Microsoft Graph and Azure
Resource Management via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication uses the OAuth 2.0 client-credentials grant against
Microsoft Entra ID. The tenant ID, client ID and client secret can be
passed via flags or the AZURE_TENANT_ID, AZURE_CLIENT_ID and
AZURE_CLIENT_SECRET environment variables. Prefer the environment for
the secret so it never shows up in process listings.

Read-only mode (--read-only):
  When enabled, every tool invocation that would issue a post, put,
  patch or delete request is rejected before reaching the backends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Security warning: CLI secret flags may be visible in process listings
			if cmd.Flags().Changed("client-secret") {
				log.Printf("WARNING: client secret provided via CLI flag - it may be visible in process listings (ps aux)")
				log.Printf("         For better security, use the AZURE_CLIENT_SECRET environment variable instead")
			}

			config := ServeConfig{
				Transport:       transport,
				HTTPAddr:        httpAddr,
				SSEEndpoint:     sseEndpoint,
				MessageEndpoint: messageEndpoint,
				HTTPEndpoint:    httpEndpoint,
				TenantID:        tenantID,
				ClientID:        clientID,
				ClientSecret:    clientSecret,
				ReadOnly:        readOnly,
				QPSLimit:        qpsLimit,
				Burst:           burst,
				DebugMode:       debugMode,
				Metrics: MetricsServeConfig{
					Enabled: true,
					Addr:    metricsAddr,
				},
			}
			loadCredentialEnvVars(&config)

			return runServe(config)
		},
	}

	// Behavior flags
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject all write operations (post, put, patch, delete)")
	cmd.Flags().Float64Var(&qpsLimit, "qps-limit", 10.0, "QPS limit for outbound backend API calls")
	cmd.Flags().IntVar(&burst, "burst-limit", 20, "Burst limit for outbound backend API calls")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	// Credential flags
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "Microsoft Entra tenant ID (can also be set via AZURE_TENANT_ID env var)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Entra application (client) ID (can also be set via AZURE_CLIENT_ID env var)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Entra application client secret (can also be set via AZURE_CLIENT_SECRET env var)")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Dedicated metrics server address (serves /metrics when instrumentation is enabled)")

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	// Log to stderr so stdout stays clean for the stdio transport.
	logLevel := slog.LevelInfo
	if config.DebugMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	// Create the backend API client with token caching and rate limiting
	tokenProvider := &msapi.ClientCredentialsProvider{
		TenantID:     config.TenantID,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
	}

	clientOpts := []msapi.Option{
		msapi.WithTokenProvider(tokenProvider),
		msapi.WithRateLimiter(rate.NewLimiter(rate.Limit(config.QPSLimit), config.Burst)),
	}
	if instrumentationProvider.Enabled() {
		clientOpts = append(clientOpts, msapi.WithObserver(instrumentationProvider.Metrics()))
	}

	apiClient, err := msapi.New(clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create backend API client: %w", err)
	}

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithAPIClient(apiClient),
		server.WithLogger(server.NewSlogLogger(logger)),
		server.WithVersion(rootCmd.Version),
		server.WithTenantID(config.TenantID),
		server.WithReadOnlyMode(config.ReadOnly),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	if config.ReadOnly {
		logger.Info("read-only mode enabled: post, put, patch and delete calls are blocked")
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("mcp-msgraph", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	apicall.RegisterTools(mcpSrv, serverContext)
	groups.RegisterTools(mcpSrv, serverContext)
	sites.RegisterTools(mcpSrv, serverContext)

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup message for stdio mode as it interferes with MCP communication
		return runStdioServer(mcpSrv)
	case transportSSE:
		logger.Info("starting MCP server", "transport", config.Transport)
		return runSSEServer(mcpSrv, config.HTTPAddr, config.SSEEndpoint, config.MessageEndpoint, shutdownCtx)
	case transportStreamableHTTP:
		logger.Info("starting MCP server", "transport", config.Transport)
		return runStreamableHTTPServer(mcpSrv, config.HTTPAddr, config.HTTPEndpoint, shutdownCtx, instrumentationProvider, serverContext, config.Metrics)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}

// Package cmd provides the command-line interface for mcp-msgraph.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI runs the serve command when no subcommand is specified.
//
// Command Structure:
//
//	mcp-msgraph [flags]                 # Starts the MCP server (default)
//	mcp-msgraph serve [flags]           # Explicitly starts the MCP server
//	mcp-msgraph version                 # Shows version information
//	mcp-msgraph self-update             # Updates to latest release
//	mcp-msgraph help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	mcp-msgraph serve --transport stdio           # Default STDIO transport
//	mcp-msgraph serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-msgraph serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also supports configuration flags for the Entra ID
// application credentials, read-only mode, and rate limiting of outbound
// backend calls.
package cmd

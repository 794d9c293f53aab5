// Package apicall implements the generic microsoft_api MCP tool. It exposes
// the full invocation surface of the backend engine: arbitrary paths and
// methods against Microsoft Graph or Azure Resource Management, with
// pagination, retries and response shaping controlled per call.
package apicall

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpserver "github.com/giantswarm/mcp-msgraph/internal/server"
	"github.com/giantswarm/mcp-msgraph/internal/tools"
)

// MicrosoftAPITool issues an arbitrary call against Microsoft Graph or
// Azure Resource Management. It is the escape hatch for everything the
// resource-specific tools do not cover.
var MicrosoftAPITool = mcp.NewTool("microsoft_api",
	mcp.WithDescription("Call any Microsoft Graph or Azure Resource Management endpoint. "+
		"Supports pagination (fetchAll), retries with exponential backoff, field selection "+
		"and multiple response formats. Use the resource-specific tools first; fall back to "+
		"this tool for endpoints they do not cover."),
	mcp.WithString("backend",
		mcp.Required(),
		mcp.Description("Target API family: 'graph' for Microsoft Graph, 'azure' for Azure Resource Management"),
	),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("API path, e.g. '/users' for Graph or '/resourceGroups' for Azure"),
	),
	mcp.WithString("method",
		mcp.Description("HTTP method: get, post, put, patch or delete (default get)"),
	),
	mcp.WithString("apiVersion",
		mcp.Description("Azure RM api-version query parameter, e.g. '2023-07-01'. Required for the azure backend"),
	),
	mcp.WithString("subscriptionId",
		mcp.Description("Azure subscription ID, inserted as /subscriptions/{id} ahead of the path"),
	),
	mcp.WithObject("queryParams",
		mcp.Description("Additional query parameters attached verbatim (string values)"),
	),
	mcp.WithObject("body",
		mcp.Description("Request body for post, put and patch calls"),
	),
	mcp.WithString("graphApiVersion",
		mcp.Description("Microsoft Graph version: 'v1.0' or 'beta' (default v1.0)"),
	),
	mcp.WithBoolean("fetchAll",
		mcp.Description("Follow pagination cursors and accumulate all pages (get only)"),
	),
	mcp.WithString("consistencyLevel",
		mcp.Description("Graph ConsistencyLevel header, typically 'eventual' for advanced queries"),
	),
	mcp.WithNumber("maxRetries",
		mcp.Description("Retry budget for transient failures (default 3, negative disables retries)"),
	),
	mcp.WithNumber("retryDelay",
		mcp.Description("Base backoff delay in milliseconds, doubled per retry (default 1000)"),
	),
	mcp.WithNumber("timeout",
		mcp.Description("Per-request timeout in milliseconds (default 30000)"),
	),
	mcp.WithObject("customHeaders",
		mcp.Description("Extra HTTP headers attached to every request (string values)"),
	),
	mcp.WithString("responseFormat",
		mcp.Description("Response shaping: 'json' (annotated, default), 'minimal' (metadata stripped) or 'raw'"),
	),
	mcp.WithArray("selectFields",
		mcp.Description("Fields to request via $select (Graph only)"),
	),
	mcp.WithArray("expandFields",
		mcp.Description("Relationships to request via $expand (Graph only)"),
	),
	mcp.WithNumber("batchSize",
		mcp.Description("Page size requested via $top for paginated Graph calls (default 100)"),
	),
)

// RegisterTools registers the generic API call tool with the MCP server.
func RegisterTools(mcpServer *server.MCPServer, sc *mcpserver.ServerContext) {
	mcpServer.AddTool(MicrosoftAPITool, tools.WrapWithObservability("microsoft_api", HandleMicrosoftAPI, sc))
}

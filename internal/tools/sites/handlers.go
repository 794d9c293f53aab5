package sites

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-msgraph/internal/msapi"
	"github.com/giantswarm/mcp-msgraph/internal/server"
	"github.com/giantswarm/mcp-msgraph/internal/tools"
)

// execute runs an engine call and converts the result into the MCP envelope.
func execute(ctx context.Context, sc *server.ServerContext, req msapi.CallRequest) (*mcp.CallToolResult, error) {
	result := sc.APIClient().Execute(ctx, req)
	if result.IsError {
		return mcp.NewToolResultError(result.Text), nil
	}
	return mcp.NewToolResultText(result.Text), nil
}

// HandleSearchSites searches sites by keyword.
func HandleSearchSites(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := tools.OptionalString(args, "query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend:      msapi.BackendGraph,
		Path:         "/sites",
		Method:       "get",
		QueryParams:  map[string]string{"search": query},
		SelectFields: tools.OptionalStringSlice(args, "selectFields"),
	})
}

// HandleGetSite fetches a single site by ID. The Graph site ID is a
// comma-separated composite, so it is attached unescaped.
func HandleGetSite(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteID := tools.OptionalString(args, "siteId", "")
	if siteID == "" {
		return mcp.NewToolResultError("siteId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend:      msapi.BackendGraph,
		Path:         "/sites/" + siteID,
		Method:       "get",
		SelectFields: tools.OptionalStringSlice(args, "selectFields"),
	})
}

// HandleListSiteLists enumerates the lists of a site.
func HandleListSiteLists(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteID := tools.OptionalString(args, "siteId", "")
	if siteID == "" {
		return mcp.NewToolResultError("siteId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend:  msapi.BackendGraph,
		Path:     fmt.Sprintf("/sites/%s/lists", siteID),
		Method:   "get",
		FetchAll: tools.OptionalBool(args, "fetchAll", false),
	})
}

// HandleListListItems enumerates the items of a list with fields expanded.
func HandleListListItems(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteID := tools.OptionalString(args, "siteId", "")
	if siteID == "" {
		return mcp.NewToolResultError("siteId is required"), nil
	}
	listID := tools.OptionalString(args, "listId", "")
	if listID == "" {
		return mcp.NewToolResultError("listId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend:      msapi.BackendGraph,
		Path:         fmt.Sprintf("/sites/%s/lists/%s/items", siteID, url.PathEscape(listID)),
		Method:       "get",
		ExpandFields: []string{"fields"},
		FetchAll:     tools.OptionalBool(args, "fetchAll", false),
		BatchSize:    tools.OptionalInt(args, "batchSize", 0),
	})
}

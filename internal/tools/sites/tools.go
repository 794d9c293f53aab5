// Package sites implements MCP tools for SharePoint sites and lists on top
// of the Microsoft Graph backend.
package sites

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpserver "github.com/giantswarm/mcp-msgraph/internal/server"
	"github.com/giantswarm/mcp-msgraph/internal/tools"
)

// SearchSitesTool searches SharePoint sites by keyword.
var SearchSitesTool = mcp.NewTool("search_sites",
	mcp.WithDescription("Search SharePoint sites by keyword."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search keyword, e.g. 'engineering'"),
	),
	mcp.WithArray("selectFields",
		mcp.Description("Fields to return per site"),
	),
)

// GetSiteTool fetches a single site.
var GetSiteTool = mcp.NewTool("get_site",
	mcp.WithDescription("Get a SharePoint site by its ID, or 'root' for the tenant root site."),
	mcp.WithString("siteId",
		mcp.Required(),
		mcp.Description("Site ID (composite 'hostname,siteCollectionId,siteId' form) or 'root'"),
	),
	mcp.WithArray("selectFields",
		mcp.Description("Fields to return"),
	),
)

// ListSiteListsTool enumerates the lists of a site.
var ListSiteListsTool = mcp.NewTool("list_site_lists",
	mcp.WithDescription("List the SharePoint lists of a site."),
	mcp.WithString("siteId",
		mcp.Required(),
		mcp.Description("Site ID"),
	),
	mcp.WithBoolean("fetchAll",
		mcp.Description("Follow pagination and return all lists instead of the first page"),
	),
)

// ListListItemsTool enumerates the items of a SharePoint list.
var ListListItemsTool = mcp.NewTool("list_list_items",
	mcp.WithDescription("List the items of a SharePoint list, with their field values expanded."),
	mcp.WithString("siteId",
		mcp.Required(),
		mcp.Description("Site ID"),
	),
	mcp.WithString("listId",
		mcp.Required(),
		mcp.Description("List ID or list title"),
	),
	mcp.WithBoolean("fetchAll",
		mcp.Description("Follow pagination and return all items instead of the first page"),
	),
	mcp.WithNumber("batchSize",
		mcp.Description("Page size requested per fetch (default 100)"),
	),
)

// RegisterTools registers the SharePoint tools with the MCP server.
func RegisterTools(mcpServer *server.MCPServer, sc *mcpserver.ServerContext) {
	mcpServer.AddTool(SearchSitesTool, tools.WrapWithObservability("search_sites", HandleSearchSites, sc))
	mcpServer.AddTool(GetSiteTool, tools.WrapWithObservability("get_site", HandleGetSite, sc))
	mcpServer.AddTool(ListSiteListsTool, tools.WrapWithObservability("list_site_lists", HandleListSiteLists, sc))
	mcpServer.AddTool(ListListItemsTool, tools.WrapWithObservability("list_list_items", HandleListListItems, sc))
}

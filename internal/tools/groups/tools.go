// Package groups implements MCP tools for Entra ID group management on top
// of the Microsoft Graph backend.
package groups

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpserver "github.com/giantswarm/mcp-msgraph/internal/server"
	"github.com/giantswarm/mcp-msgraph/internal/tools"
)

// ListGroupsTool lists Entra ID groups, optionally filtered or searched.
var ListGroupsTool = mcp.NewTool("list_groups",
	mcp.WithDescription("List Entra ID groups. Supports OData $filter, $search and field selection."),
	mcp.WithString("filter",
		mcp.Description("OData $filter expression, e.g. \"startsWith(displayName,'Team')\""),
	),
	mcp.WithString("search",
		mcp.Description("OData $search expression, e.g. \"\\\"displayName:Engineering\\\"\""),
	),
	mcp.WithArray("selectFields",
		mcp.Description("Fields to return, e.g. [\"id\",\"displayName\",\"mail\"]"),
	),
	mcp.WithBoolean("fetchAll",
		mcp.Description("Follow pagination and return all groups instead of the first page"),
	),
	mcp.WithNumber("batchSize",
		mcp.Description("Page size requested per fetch (default 100)"),
	),
)

// GetGroupTool fetches a single group by ID.
var GetGroupTool = mcp.NewTool("get_group",
	mcp.WithDescription("Get a single Entra ID group by its object ID."),
	mcp.WithString("groupId",
		mcp.Required(),
		mcp.Description("Group object ID"),
	),
	mcp.WithArray("selectFields",
		mcp.Description("Fields to return"),
	),
)

// CreateGroupTool creates a new security or Microsoft 365 group.
var CreateGroupTool = mcp.NewTool("create_group",
	mcp.WithDescription("Create an Entra ID group. Defaults to a security group; pass groupTypes [\"Unified\"] with mailEnabled for a Microsoft 365 group."),
	mcp.WithString("displayName",
		mcp.Required(),
		mcp.Description("Display name of the group"),
	),
	mcp.WithString("mailNickname",
		mcp.Required(),
		mcp.Description("Mail nickname (alias) of the group"),
	),
	mcp.WithString("description",
		mcp.Description("Group description"),
	),
	mcp.WithBoolean("securityEnabled",
		mcp.Description("Whether the group is security enabled (default true)"),
	),
	mcp.WithBoolean("mailEnabled",
		mcp.Description("Whether the group is mail enabled (default false)"),
	),
	mcp.WithArray("groupTypes",
		mcp.Description("Group types, e.g. [\"Unified\"] for Microsoft 365 groups"),
	),
)

// UpdateGroupTool patches properties on an existing group.
var UpdateGroupTool = mcp.NewTool("update_group",
	mcp.WithDescription("Update properties of an Entra ID group."),
	mcp.WithString("groupId",
		mcp.Required(),
		mcp.Description("Group object ID"),
	),
	mcp.WithObject("properties",
		mcp.Required(),
		mcp.Description("Properties to update, e.g. {\"description\":\"New description\"}"),
	),
)

// DeleteGroupTool deletes a group.
var DeleteGroupTool = mcp.NewTool("delete_group",
	mcp.WithDescription("Delete an Entra ID group by its object ID."),
	mcp.WithString("groupId",
		mcp.Required(),
		mcp.Description("Group object ID"),
	),
)

// ListGroupMembersTool lists the direct members of a group.
var ListGroupMembersTool = mcp.NewTool("list_group_members",
	mcp.WithDescription("List the direct members of an Entra ID group."),
	mcp.WithString("groupId",
		mcp.Required(),
		mcp.Description("Group object ID"),
	),
	mcp.WithArray("selectFields",
		mcp.Description("Fields to return per member"),
	),
	mcp.WithBoolean("fetchAll",
		mcp.Description("Follow pagination and return all members instead of the first page"),
	),
)

// AddGroupMemberTool adds a directory object to a group.
var AddGroupMemberTool = mcp.NewTool("add_group_member",
	mcp.WithDescription("Add a user or other directory object to an Entra ID group."),
	mcp.WithString("groupId",
		mcp.Required(),
		mcp.Description("Group object ID"),
	),
	mcp.WithString("memberId",
		mcp.Required(),
		mcp.Description("Object ID of the user or directory object to add"),
	),
)

// RegisterTools registers the group tools with the MCP server.
func RegisterTools(mcpServer *server.MCPServer, sc *mcpserver.ServerContext) {
	mcpServer.AddTool(ListGroupsTool, tools.WrapWithObservability("list_groups", HandleListGroups, sc))
	mcpServer.AddTool(GetGroupTool, tools.WrapWithObservability("get_group", HandleGetGroup, sc))
	mcpServer.AddTool(CreateGroupTool, tools.WrapWithObservability("create_group", HandleCreateGroup, sc))
	mcpServer.AddTool(UpdateGroupTool, tools.WrapWithObservability("update_group", HandleUpdateGroup, sc))
	mcpServer.AddTool(DeleteGroupTool, tools.WrapWithObservability("delete_group", HandleDeleteGroup, sc))
	mcpServer.AddTool(ListGroupMembersTool, tools.WrapWithObservability("list_group_members", HandleListGroupMembers, sc))
	mcpServer.AddTool(AddGroupMemberTool, tools.WrapWithObservability("add_group_member", HandleAddGroupMember, sc))
}

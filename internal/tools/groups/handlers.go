package groups

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

// HandleListGroups lists groups with optional filter and search expressions.
func HandleListGroups(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	queryParams := map[string]string{}
	if filter := tools.OptionalString(args, "filter", ""); filter != "" {
		queryParams["$filter"] = filter
	}

	req := msapi.CallRequest{
		Backend:      msapi.BackendGraph,
		Path:         "/groups",
		Method:       "get",
		SelectFields: tools.OptionalStringSlice(args, "selectFields"),
		FetchAll:     tools.OptionalBool(args, "fetchAll", false),
		BatchSize:    tools.OptionalInt(args, "batchSize", 0),
	}

	// $search requires the eventual consistency level on Graph.
	if search := tools.OptionalString(args, "search", ""); search != "" {
		queryParams["$search"] = search
		req.ConsistencyLevel = "eventual"
	}
	if len(queryParams) > 0 {
		req.QueryParams = queryParams
	}

	return execute(ctx, sc, req)
}

// HandleGetGroup fetches a single group by object ID.
func HandleGetGroup(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	groupID := tools.OptionalString(args, "groupId", "")
	if groupID == "" {
		return mcp.NewToolResultError("groupId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend:      msapi.BackendGraph,
		Path:         "/groups/" + url.PathEscape(groupID),
		Method:       "get",
		SelectFields: tools.OptionalStringSlice(args, "selectFields"),
	})
}

// HandleCreateGroup creates a security or Microsoft 365 group.
func HandleCreateGroup(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckWriteOperation(sc, "post"); result != nil {
		return result, nil
	}

	args := request.GetArguments()

	displayName := tools.OptionalString(args, "displayName", "")
	if displayName == "" {
		return mcp.NewToolResultError("displayName is required"), nil
	}
	mailNickname := tools.OptionalString(args, "mailNickname", "")
	if mailNickname == "" {
		return mcp.NewToolResultError("mailNickname is required"), nil
	}

	body := map[string]interface{}{
		"displayName":     displayName,
		"mailNickname":    mailNickname,
		"securityEnabled": tools.OptionalBool(args, "securityEnabled", true),
		"mailEnabled":     tools.OptionalBool(args, "mailEnabled", false),
	}
	if description := tools.OptionalString(args, "description", ""); description != "" {
		body["description"] = description
	}
	if groupTypes := tools.OptionalStringSlice(args, "groupTypes"); groupTypes != nil {
		body["groupTypes"] = groupTypes
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend: msapi.BackendGraph,
		Path:    "/groups",
		Method:  "post",
		Body:    body,
	})
}

// HandleUpdateGroup patches properties on an existing group.
func HandleUpdateGroup(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckWriteOperation(sc, "patch"); result != nil {
		return result, nil
	}

	args := request.GetArguments()

	groupID := tools.OptionalString(args, "groupId", "")
	if groupID == "" {
		return mcp.NewToolResultError("groupId is required"), nil
	}
	properties, ok := args["properties"].(map[string]interface{})
	if !ok || len(properties) == 0 {
		return mcp.NewToolResultError("properties is required and must be a non-empty object"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend: msapi.BackendGraph,
		Path:    "/groups/" + url.PathEscape(groupID),
		Method:  "patch",
		Body:    properties,
	})
}

// HandleDeleteGroup deletes a group by object ID.
func HandleDeleteGroup(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckWriteOperation(sc, "delete"); result != nil {
		return result, nil
	}

	args := request.GetArguments()

	groupID := tools.OptionalString(args, "groupId", "")
	if groupID == "" {
		return mcp.NewToolResultError("groupId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend: msapi.BackendGraph,
		Path:    "/groups/" + url.PathEscape(groupID),
		Method:  "delete",
	})
}

// HandleListGroupMembers lists the direct members of a group.
func HandleListGroupMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	groupID := tools.OptionalString(args, "groupId", "")
	if groupID == "" {
		return mcp.NewToolResultError("groupId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend:      msapi.BackendGraph,
		Path:         fmt.Sprintf("/groups/%s/members", url.PathEscape(groupID)),
		Method:       "get",
		SelectFields: tools.OptionalStringSlice(args, "selectFields"),
		FetchAll:     tools.OptionalBool(args, "fetchAll", false),
	})
}

// HandleAddGroupMember adds a directory object to a group via the $ref
// collection.
func HandleAddGroupMember(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckWriteOperation(sc, "post"); result != nil {
		return result, nil
	}

	args := request.GetArguments()

	groupID := tools.OptionalString(args, "groupId", "")
	if groupID == "" {
		return mcp.NewToolResultError("groupId is required"), nil
	}
	memberID := tools.OptionalString(args, "memberId", "")
	if memberID == "" {
		return mcp.NewToolResultError("memberId is required"), nil
	}

	return execute(ctx, sc, msapi.CallRequest{
		Backend: msapi.BackendGraph,
		Path:    fmt.Sprintf("/groups/%s/members/$ref", url.PathEscape(groupID)),
		Method:  "post",
		Body: map[string]interface{}{
			"@odata.id": fmt.Sprintf("%s/v1.0/directoryObjects/%s", msapi.GraphBaseURL, url.PathEscape(memberID)),
		},
	})
}

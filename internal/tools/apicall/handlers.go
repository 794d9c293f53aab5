package apicall

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-msgraph/internal/msapi"
	"github.com/giantswarm/mcp-msgraph/internal/server"
	"github.com/giantswarm/mcp-msgraph/internal/tools"
)

// HandleMicrosoftAPI maps the microsoft_api arguments onto an engine call
// request and executes it. Backend failures come back as error results
// carrying a JSON diagnostic; the handler never returns a Go error for
// them.
func HandleMicrosoftAPI(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	method := tools.OptionalString(args, "method", "get")
	if result := tools.CheckWriteOperation(sc, method); result != nil {
		return result, nil
	}

	req := msapi.CallRequest{
		Backend:          msapi.Backend(strings.ToLower(tools.OptionalString(args, "backend", ""))),
		Path:             tools.OptionalString(args, "path", ""),
		Method:           method,
		APIVersion:       tools.OptionalString(args, "apiVersion", ""),
		SubscriptionID:   tools.OptionalString(args, "subscriptionId", ""),
		QueryParams:      tools.OptionalStringMap(args, "queryParams"),
		GraphAPIVersion:  tools.OptionalString(args, "graphApiVersion", ""),
		FetchAll:         tools.OptionalBool(args, "fetchAll", false),
		ConsistencyLevel: tools.OptionalString(args, "consistencyLevel", ""),
		MaxRetries:       tools.OptionalInt(args, "maxRetries", 0),
		RetryDelay:       time.Duration(tools.OptionalInt(args, "retryDelay", 0)) * time.Millisecond,
		Timeout:          time.Duration(tools.OptionalInt(args, "timeout", 0)) * time.Millisecond,
		CustomHeaders:    tools.OptionalStringMap(args, "customHeaders"),
		ResponseFormat:   msapi.ResponseFormat(tools.OptionalString(args, "responseFormat", "")),
		SelectFields:     tools.OptionalStringSlice(args, "selectFields"),
		ExpandFields:     tools.OptionalStringSlice(args, "expandFields"),
		BatchSize:        tools.OptionalInt(args, "batchSize", 0),
	}

	if body, ok := args["body"]; ok {
		req.Body = body
	}

	result := sc.APIClient().Execute(ctx, req)
	if result.IsError {
		return mcp.NewToolResultError(result.Text), nil
	}
	return mcp.NewToolResultText(result.Text), nil
}

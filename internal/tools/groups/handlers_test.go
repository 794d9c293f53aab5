package groups

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-msgraph/internal/msapi"
	"github.com/giantswarm/mcp-msgraph/internal/server"
)

type recordingClient struct {
	lastReq msapi.CallRequest
	result  msapi.CallResult
}

func (c *recordingClient) Execute(ctx context.Context, req msapi.CallRequest) msapi.CallResult {
	c.lastReq = req
	return c.result
}

func (c *recordingClient) InvalidateToken(scope string) {}

func newTestContext(t *testing.T, client msapi.Client, opts ...server.Option) *server.ServerContext {
	t.Helper()

	allOpts := append([]server.Option{server.WithAPIClient(client)}, opts...)
	sc, err := server.NewServerContext(context.Background(), allOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func okClient() *recordingClient {
	return &recordingClient{result: msapi.CallResult{Text: `{"result":{}}`}}
}

func TestHandleListGroups(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleListGroups(context.Background(), newRequest(map[string]interface{}{
		"filter":       "startsWith(displayName,'Team')",
		"selectFields": []interface{}{"id", "displayName"},
		"fetchAll":     true,
		"batchSize":    float64(50),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	req := client.lastReq
	assert.Equal(t, msapi.BackendGraph, req.Backend)
	assert.Equal(t, "/groups", req.Path)
	assert.Equal(t, "get", req.Method)
	assert.Equal(t, "startsWith(displayName,'Team')", req.QueryParams["$filter"])
	assert.Equal(t, []string{"id", "displayName"}, req.SelectFields)
	assert.True(t, req.FetchAll)
	assert.Equal(t, 50, req.BatchSize)
	assert.Empty(t, req.ConsistencyLevel)
}

func TestHandleListGroups_SearchSetsConsistencyLevel(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	_, err := HandleListGroups(context.Background(), newRequest(map[string]interface{}{
		"search": `"displayName:Engineering"`,
	}), sc)
	require.NoError(t, err)

	assert.Equal(t, `"displayName:Engineering"`, client.lastReq.QueryParams["$search"])
	assert.Equal(t, "eventual", client.lastReq.ConsistencyLevel)
}

func TestHandleGetGroup(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleGetGroup(context.Background(), newRequest(map[string]interface{}{
		"groupId": "group-1",
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "/groups/group-1", client.lastReq.Path)
}

func TestHandleGetGroup_RequiresGroupID(t *testing.T) {
	sc := newTestContext(t, okClient())

	result, err := HandleGetGroup(context.Background(), newRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "groupId is required")
}

func TestHandleCreateGroup(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleCreateGroup(context.Background(), newRequest(map[string]interface{}{
		"displayName":  "Team A",
		"mailNickname": "team-a",
		"description":  "First team",
		"groupTypes":   []interface{}{"Unified"},
		"mailEnabled":  true,
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	req := client.lastReq
	assert.Equal(t, "/groups", req.Path)
	assert.Equal(t, "post", req.Method)

	body, ok := req.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Team A", body["displayName"])
	assert.Equal(t, "team-a", body["mailNickname"])
	assert.Equal(t, "First team", body["description"])
	assert.Equal(t, []string{"Unified"}, body["groupTypes"])
	assert.Equal(t, true, body["securityEnabled"])
	assert.Equal(t, true, body["mailEnabled"])
}

func TestHandleCreateGroup_RequiredFields(t *testing.T) {
	sc := newTestContext(t, okClient())

	result, err := HandleCreateGroup(context.Background(), newRequest(map[string]interface{}{
		"mailNickname": "team-a",
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "displayName is required")

	result, err = HandleCreateGroup(context.Background(), newRequest(map[string]interface{}{
		"displayName": "Team A",
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "mailNickname is required")
}

func TestHandleUpdateGroup(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleUpdateGroup(context.Background(), newRequest(map[string]interface{}{
		"groupId":    "group-1",
		"properties": map[string]interface{}{"description": "Updated"},
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, "/groups/group-1", client.lastReq.Path)
	assert.Equal(t, "patch", client.lastReq.Method)
	assert.Equal(t, map[string]interface{}{"description": "Updated"}, client.lastReq.Body)
}

func TestHandleUpdateGroup_RequiresProperties(t *testing.T) {
	sc := newTestContext(t, okClient())

	result, err := HandleUpdateGroup(context.Background(), newRequest(map[string]interface{}{
		"groupId": "group-1",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "properties is required")
}

func TestHandleDeleteGroup(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleDeleteGroup(context.Background(), newRequest(map[string]interface{}{
		"groupId": "group-1",
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "/groups/group-1", client.lastReq.Path)
	assert.Equal(t, "delete", client.lastReq.Method)
}

func TestHandleListGroupMembers(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleListGroupMembers(context.Background(), newRequest(map[string]interface{}{
		"groupId":  "group-1",
		"fetchAll": true,
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "/groups/group-1/members", client.lastReq.Path)
	assert.True(t, client.lastReq.FetchAll)
}

func TestHandleAddGroupMember(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client)

	result, err := HandleAddGroupMember(context.Background(), newRequest(map[string]interface{}{
		"groupId":  "group-1",
		"memberId": "user-1",
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, "/groups/group-1/members/$ref", client.lastReq.Path)
	assert.Equal(t, "post", client.lastReq.Method)

	body, ok := client.lastReq.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://graph.microsoft.com/v1.0/directoryObjects/user-1", body["@odata.id"])
}

func TestWriteHandlers_BlockedInReadOnlyMode(t *testing.T) {
	client := okClient()
	sc := newTestContext(t, client, server.WithReadOnlyMode(true))

	handlers := map[string]func() (*mcp.CallToolResult, error){
		"create": func() (*mcp.CallToolResult, error) {
			return HandleCreateGroup(context.Background(), newRequest(map[string]interface{}{
				"displayName": "Team A", "mailNickname": "team-a",
			}), sc)
		},
		"update": func() (*mcp.CallToolResult, error) {
			return HandleUpdateGroup(context.Background(), newRequest(map[string]interface{}{
				"groupId": "group-1", "properties": map[string]interface{}{"description": "x"},
			}), sc)
		},
		"delete": func() (*mcp.CallToolResult, error) {
			return HandleDeleteGroup(context.Background(), newRequest(map[string]interface{}{
				"groupId": "group-1",
			}), sc)
		},
		"add member": func() (*mcp.CallToolResult, error) {
			return HandleAddGroupMember(context.Background(), newRequest(map[string]interface{}{
				"groupId": "group-1", "memberId": "user-1",
			}), sc)
		},
	}

	for name, call := range handlers {
		result, err := call()
		require.NoError(t, err, name)
		assert.True(t, result.IsError, name)
		assert.Contains(t, resultText(t, result), "read-only mode", name)
		assert.Empty(t, client.lastReq.Path, name)
	}
}

package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/giantswarm/mcp-msgraph/internal/server"
)

// writeMethods are the HTTP methods that modify backend state.
var writeMethods = map[string]bool{
	"post":   true,
	"put":    true,
	"patch":  true,
	"delete": true,
}

// CheckWriteOperation verifies that a write operation is allowed given the
// current server configuration. Returns an error result if blocked, nil if
// allowed.
//
// This centralizes the read-only mode check to avoid code duplication
// across all tool handlers that issue mutating requests. Methods other
// than post, put, patch and delete are always allowed.
func CheckWriteOperation(sc *server.ServerContext, method string) *mcp.CallToolResult {
	method = strings.ToLower(strings.TrimSpace(method))
	if !writeMethods[method] {
		return nil
	}

	if !sc.ReadOnlyMode() {
		return nil
	}

	return mcp.NewToolResultError(fmt.Sprintf(
		"%s operations are not allowed in read-only mode (restart without --read-only to enable writes)",
		cases.Title(language.English).String(method),
	))
}

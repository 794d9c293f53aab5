package msapi

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/giantswarm/mcp-msgraph/internal/logging"
)

// Graph wire convention keys.
const (
	odataNextLink = "@odata.nextLink"
	odataContext  = "@odata.context"
)

// graphExecutor implements the Microsoft Graph wire convention: versioned
// base URL, OData query-parameter injection and @odata.nextLink pagination.
type graphExecutor struct {
	c *client
}

// buildURL constructs the full Graph request URL including injected
// $select/$expand parameters and, for paginated gets, $top from the batch
// size.
func (g *graphExecutor) buildURL(req *CallRequest) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query := url.Values{}
	for key, value := range req.QueryParams {
		query.Set(key, value)
	}
	if len(req.SelectFields) > 0 {
		query.Set("$select", strings.Join(req.SelectFields, ","))
	}
	if len(req.ExpandFields) > 0 {
		query.Set("$expand", strings.Join(req.ExpandFields, ","))
	}
	if req.FetchAll && req.Method == "get" {
		query.Set("$top", strconv.Itoa(req.BatchSize))
	}

	full := g.c.graphBaseURL + "/" + req.GraphAPIVersion + path
	if encoded := query.Encode(); encoded != "" {
		full += "?" + encoded
	}
	return full
}

func (g *graphExecutor) executeOnce(ctx context.Context, req *CallRequest) (interface{}, error) {
	verb, err := httpMethodFor(req.Method)
	if err != nil {
		return nil, err
	}

	body := req.Body
	// Graph rejects bodyless post/put; default to an empty object.
	if body == nil && (req.Method == "post" || req.Method == "put") {
		body = map[string]interface{}{}
	}

	target := g.buildURL(req)
	status, respBody, err := g.c.do(ctx, verb, target, req.scope(), body, requestHeader(req), req.Timeout)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status, respBody, target); err != nil {
		return nil, err
	}

	// A successful delete typically answers 204 with no body; normalize it
	// into an explicit confirmation object.
	if req.Method == "delete" && (status == 204 || len(respBody) == 0) {
		return map[string]interface{}{
			"status":    "Success (No Content)",
			"deletedAt": time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	return decodePayload(respBody), nil
}

func (g *graphExecutor) followContinuation(ctx context.Context, req *CallRequest) (*Page, error) {
	policy := g.c.retryPolicyFor(req)
	acc := &Page{}

	next := g.buildURL(req)
	for pageNum := 1; next != ""; pageNum++ {
		target := next
		var raw map[string]interface{}

		err := policy.Execute(ctx, func(ctx context.Context) error {
			status, body, err := g.c.do(ctx, "GET", target, req.scope(), nil, requestHeader(req), req.Timeout)
			if err != nil {
				return err
			}
			if err := checkStatus(status, body, target); err != nil {
				return err
			}
			obj, ok := decodeObject(body)
			if !ok {
				return &APIError{StatusCode: status, Body: string(body), URL: target}
			}
			raw = obj
			return nil
		})
		if err != nil {
			return nil, &PaginationError{Page: pageNum, Err: err}
		}

		if pageNum == 1 {
			if contextURL, ok := raw[odataContext].(string); ok {
				acc.Context = contextURL
			}
		}
		if values, ok := raw["value"].([]interface{}); ok {
			acc.Items = append(acc.Items, values...)
		}

		next, _ = raw[odataNextLink].(string)
		slog.Debug("graph page fetched",
			slog.Int("page", pageNum),
			slog.Int("accumulated", len(acc.Items)),
			slog.Bool("more", next != ""))
	}

	acc.TotalCount = len(acc.Items)
	acc.FetchedAt = time.Now().UTC()

	slog.Debug("graph pagination completed",
		slog.String(logging.KeyPath, req.Path),
		slog.Int("items", acc.TotalCount))
	return acc, nil
}

package msapi

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/giantswarm/mcp-msgraph/internal/logging"
)

// azureExecutor implements the Azure Resource Management wire convention:
// subscription-scoped URLs, a mandatory api-version query parameter and
// nextLink pagination without the odata prefix.
type azureExecutor struct {
	c *client
}

// buildURL constructs the full Azure RM request URL. The optional
// subscription segment is inserted ahead of the caller path and api-version
// is always attached.
func (a *azureExecutor) buildURL(req *CallRequest) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if req.SubscriptionID != "" {
		path = "/subscriptions/" + req.SubscriptionID + path
	}

	query := url.Values{}
	query.Set("api-version", req.APIVersion)
	for key, value := range req.QueryParams {
		query.Set(key, value)
	}

	return a.c.azureBaseURL + path + "?" + query.Encode()
}

func (a *azureExecutor) executeOnce(ctx context.Context, req *CallRequest) (interface{}, error) {
	verb, err := httpMethodFor(req.Method)
	if err != nil {
		return nil, err
	}

	target := a.buildURL(req)
	status, body, err := a.c.do(ctx, verb, target, req.scope(), req.Body, requestHeader(req), req.Timeout)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status, body, target); err != nil {
		return nil, err
	}

	return decodePayload(body), nil
}

func (a *azureExecutor) followContinuation(ctx context.Context, req *CallRequest) (*Page, error) {
	policy := a.c.retryPolicyFor(req)
	acc := &Page{}

	next := a.buildURL(req)
	for pageNum := 1; next != ""; pageNum++ {
		target := next
		var raw map[string]interface{}

		// The token is resolved through the cache on every page fetch; long
		// pagination runs can outlive a single token's validity window.
		err := policy.Execute(ctx, func(ctx context.Context) error {
			status, body, err := a.c.do(ctx, "GET", target, req.scope(), nil, requestHeader(req), req.Timeout)
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

		values, hasValue := raw["value"].([]interface{})
		nextLink, hasNext := raw["nextLink"].(string)

		// A first page with neither a collection nor a cursor is a single
		// resource; wrap it as the sole accumulated item.
		if pageNum == 1 && !hasValue && (!hasNext || nextLink == "") {
			acc.Items = append(acc.Items, raw)
			break
		}

		if hasValue {
			acc.Items = append(acc.Items, values...)
		}

		next = nextLink
		slog.Debug("azure page fetched",
			slog.Int("page", pageNum),
			slog.Int("accumulated", len(acc.Items)),
			slog.Bool("more", next != ""))
	}

	acc.TotalCount = len(acc.Items)
	acc.FetchedAt = time.Now().UTC()

	slog.Debug("azure pagination completed",
		slog.String(logging.KeyPath, req.Path),
		slog.Int("items", acc.TotalCount))
	return acc, nil
}

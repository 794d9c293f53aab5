package msapi

import (
	"fmt"
	"strings"
	"time"
)

// Backend identifies which remote API family a call is addressed to.
type Backend string

const (
	// BackendGraph targets the Microsoft Graph API.
	BackendGraph Backend = "graph"

	// BackendAzure targets the Azure Resource Management API.
	BackendAzure Backend = "azure"
)

// ResponseFormat selects how the final payload is shaped.
type ResponseFormat string

const (
	// FormatJSON annotates the payload with execution time and item count.
	FormatJSON ResponseFormat = "json"

	// FormatMinimal strips OData/pagination metadata from the payload.
	FormatMinimal ResponseFormat = "minimal"

	// FormatRaw returns a compact serialization with no annotation.
	FormatRaw ResponseFormat = "raw"
)

// Base URLs and OAuth scopes for the two backends.
const (
	GraphBaseURL = "https://graph.microsoft.com"
	AzureBaseURL = "https://management.azure.com"

	GraphScope = "https://graph.microsoft.com/.default"
	AzureScope = "https://management.azure.com/.default"
)

// Supported Microsoft Graph API versions.
const (
	GraphVersionV1   = "v1.0"
	GraphVersionBeta = "beta"
)

// Request defaults applied by CallRequest.ApplyDefaults.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultTimeout    = 30 * time.Second
	DefaultBatchSize  = 100
)

// CallRequest describes a single API invocation against one of the two
// backends. A CallRequest is constructed per call and discarded afterwards.
type CallRequest struct {
	// Backend selects graph or azure.
	Backend Backend

	// Path is the API path, e.g. "/users" or "/resourceGroups".
	Path string

	// Method is one of get, post, put, patch, delete (case-insensitive).
	Method string

	// APIVersion is the Azure RM api-version query parameter.
	// Required when Backend is azure, ignored for graph.
	APIVersion string

	// SubscriptionID, when set, is inserted as /subscriptions/{id} ahead of
	// Path for Azure RM calls.
	SubscriptionID string

	// QueryParams are additional query parameters attached verbatim.
	QueryParams map[string]string

	// Body is the request body for post/put/patch. For post and put a nil
	// body is sent as an empty JSON object.
	Body interface{}

	// GraphAPIVersion is v1.0 or beta (default v1.0).
	GraphAPIVersion string

	// FetchAll enables pagination: follow continuation cursors and
	// accumulate all pages. Only meaningful for get.
	FetchAll bool

	// ConsistencyLevel sets the Graph ConsistencyLevel header (typically
	// "eventual" for advanced queries).
	ConsistencyLevel string

	// MaxRetries bounds the retry budget; maxRetries+1 total attempts.
	// Zero means the default of 3; set to a negative value to disable
	// retries entirely.
	MaxRetries int

	// RetryDelay is the base backoff delay, doubled before every attempt
	// after the first.
	RetryDelay time.Duration

	// Timeout is the hard per-HTTP-request timeout.
	Timeout time.Duration

	// CustomHeaders are attached verbatim to every request.
	CustomHeaders map[string]string

	// ResponseFormat selects json (default), minimal or raw shaping.
	ResponseFormat ResponseFormat

	// SelectFields is injected as $select for Graph calls.
	SelectFields []string

	// ExpandFields is injected as $expand for Graph calls.
	ExpandFields []string

	// BatchSize is injected as $top for paginated Graph calls.
	BatchSize int
}

// ApplyDefaults fills in the documented defaults for unset fields and
// normalizes the method to lower case.
func (r *CallRequest) ApplyDefaults() {
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "get"
	}
	if r.GraphAPIVersion == "" {
		r.GraphAPIVersion = GraphVersionV1
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = DefaultMaxRetries
	}
	if r.MaxRetries < 0 {
		r.MaxRetries = 0
	}
	if r.RetryDelay <= 0 {
		r.RetryDelay = DefaultRetryDelay
	}
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	if r.BatchSize <= 0 {
		r.BatchSize = DefaultBatchSize
	}
	if r.ResponseFormat == "" {
		r.ResponseFormat = FormatJSON
	}
}

// Validate checks all preconditions that must hold before any network I/O
// is performed. Violations are reported as *ParameterError.
func (r *CallRequest) Validate() error {
	switch r.Backend {
	case BackendGraph, BackendAzure:
	default:
		return &ParameterError{Message: fmt.Sprintf("backend must be %q or %q, got %q", BackendGraph, BackendAzure, r.Backend)}
	}

	if r.Path == "" {
		return &ParameterError{Message: "path is required"}
	}

	if r.Backend == BackendAzure && r.APIVersion == "" {
		return &ParameterError{Message: "apiVersion is required for azure backend calls"}
	}

	if r.Backend == BackendGraph {
		switch r.GraphAPIVersion {
		case GraphVersionV1, GraphVersionBeta:
		default:
			return &ParameterError{Message: fmt.Sprintf("graphApiVersion must be %q or %q, got %q", GraphVersionV1, GraphVersionBeta, r.GraphAPIVersion)}
		}
	}

	switch r.ResponseFormat {
	case FormatJSON, FormatMinimal, FormatRaw:
	default:
		return &ParameterError{Message: fmt.Sprintf("responseFormat must be json, minimal or raw, got %q", r.ResponseFormat)}
	}

	return nil
}

// scope returns the OAuth scope the request needs a token for.
func (r *CallRequest) scope() string {
	if r.Backend == BackendAzure {
		return AzureScope
	}
	return GraphScope
}

// Page is the accumulated output of a paginated call. It grows
// monotonically while pages are fetched and is discarded wholesale if any
// page fetch ultimately fails.
type Page struct {
	// Items are the elements collected from the top-level "value" arrays,
	// in page order.
	Items []interface{}

	// TotalCount is len(Items).
	TotalCount int

	// FetchedAt is the completion timestamp of the pagination run.
	FetchedAt time.Time

	// Context is the @odata.context of the first page (Graph only).
	Context string
}

// CallResult is the envelope returned to the protocol layer. Failures are
// represented by IsError plus a JSON diagnostic in Text; Execute never
// returns a Go error for backend failures.
type CallResult struct {
	// Text is the formatted payload, or a JSON diagnostic when IsError.
	Text string

	// IsError reports whether the call failed.
	IsError bool

	// Duration is the total wall-clock execution time.
	Duration time.Duration

	// ItemCount is the number of accumulated items for paginated calls.
	ItemCount int
}

// Package msapi implements the generic invocation engine for Microsoft
// cloud APIs.
//
// The engine lets a caller issue an arbitrary call against either the
// Microsoft Graph API or the Azure Resource Management API through a single
// CallRequest, and handles everything both backends have in common but
// express differently on the wire:
//
//   - Bearer-token acquisition via the OAuth client-credentials flow, with a
//     per-scope cache and an expiry safety margin (TokenCache)
//   - Bounded exponential-backoff retry with pluggable error classification
//     (RetryPolicy)
//   - The two pagination conventions: Graph's @odata.nextLink and
//     Azure RM's nextLink, both accumulating top-level "value" arrays
//   - Per-request timeouts enforced through context cancellation
//   - Response shaping into json, minimal or raw output modes
//
// The two wire conventions are isolated behind the backendExecutor
// interface; Client.Execute dispatches to the right one, wraps it in the
// request's retry budget and converts every failure into a structured,
// non-throwing CallResult so the protocol layer above never sees a Go error
// from a backend.
//
// Example usage:
//
//	client, err := msapi.New(
//		msapi.WithTokenProvider(&msapi.ClientCredentialsProvider{
//			TenantID:     tenantID,
//			ClientID:     clientID,
//			ClientSecret: clientSecret,
//		}),
//	)
//	if err != nil {
//		return err
//	}
//
//	result := client.Execute(ctx, msapi.CallRequest{
//		Backend:  msapi.BackendGraph,
//		Path:     "/users",
//		Method:   "get",
//		FetchAll: true,
//	})
//
// The package deliberately does not model individual Graph or Azure
// endpoints; callers supply paths, query parameters and bodies and receive
// the shaped response.
package msapi

package instrumentation

import "strings"

// Cardinality management helpers for metrics.
//
// Metric labels must stay bounded: token scopes are full resource URLs and
// request paths embed object IDs and UPNs, neither of which belongs in a
// label value. Always run such values through these helpers before
// recording.

// Audience values recorded on token cache metrics.
const (
	// AudienceGraph identifies Microsoft Graph tokens.
	AudienceGraph = "graph"

	// AudienceAzure identifies Azure Resource Management tokens.
	AudienceAzure = "azure"

	// AudienceOther identifies tokens for any other resource.
	AudienceOther = "other"
)

// AudienceFromScope reduces an OAuth scope URL to a bounded audience label.
//
//	AudienceFromScope("https://graph.microsoft.com/.default")      // "graph"
//	AudienceFromScope("https://management.azure.com/.default")     // "azure"
//	AudienceFromScope("https://vault.azure.net/.default")          // "other"
func AudienceFromScope(scope string) string {
	scopeLower := strings.ToLower(scope)
	switch {
	case strings.Contains(scopeLower, "graph.microsoft"):
		return AudienceGraph
	case strings.Contains(scopeLower, "management.azure"):
		return AudienceAzure
	default:
		return AudienceOther
	}
}

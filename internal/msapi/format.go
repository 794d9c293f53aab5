package msapi

import (
	"encoding/json"
	"strings"
	"time"
)

// moreResultsNote is appended to single-page responses that still carry a
// continuation cursor. The default get deliberately stays single-page even
// when more exists; the caller opts into pagination explicitly.
const moreResultsNote = "More results are available. Repeat the call with fetchAll set to true to retrieve all pages."

// ResultMeta carries the diagnostics the formatter annotates a payload
// with.
type ResultMeta struct {
	Duration  time.Duration
	Paginated bool
	ItemCount int
}

// FormatResult shapes the payload per the requested output mode.
//
// json (the default) wraps the payload with execution time and, for
// paginated calls, the item count. minimal strips OData/pagination metadata
// and unwraps bare collections to just the array. raw is a compact
// serialization with no annotation, byte-stable for identical payloads.
func FormatResult(payload interface{}, format ResponseFormat, meta ResultMeta) (string, error) {
	switch format {
	case FormatRaw:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return "", err
		}
		return string(encoded), nil

	case FormatMinimal:
		minimal := stripMetadata(payload)
		encoded, err := json.MarshalIndent(minimal, "", "  ")
		if err != nil {
			return "", err
		}
		return string(encoded), nil

	default:
		envelope := map[string]interface{}{
			"executionTimeMs": meta.Duration.Milliseconds(),
			"result":          payload,
		}
		if meta.Paginated {
			envelope["itemCount"] = meta.ItemCount
		} else if hasContinuation(payload) {
			envelope["note"] = moreResultsNote
		}
		encoded, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// hasContinuation reports whether a single-page payload still carries a
// continuation cursor from either backend.
func hasContinuation(payload interface{}) bool {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return false
	}
	if link, ok := obj[odataNextLink].(string); ok && link != "" {
		return true
	}
	if link, ok := obj["nextLink"].(string); ok && link != "" {
		return true
	}
	return false
}

// stripMetadata removes OData and pagination metadata keys from the top
// level of the payload and one level into "value" elements. A payload that
// is a bare collection after stripping collapses to just the array.
func stripMetadata(payload interface{}) interface{} {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}

	cleaned := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		if isMetadataKey(key) {
			continue
		}
		cleaned[key] = value
	}

	if values, ok := cleaned["value"].([]interface{}); ok {
		stripped := make([]interface{}, len(values))
		for i, item := range values {
			if element, ok := item.(map[string]interface{}); ok {
				clean := make(map[string]interface{}, len(element))
				for key, value := range element {
					if isMetadataKey(key) {
						continue
					}
					clean[key] = value
				}
				stripped[i] = clean
			} else {
				stripped[i] = item
			}
		}
		cleaned["value"] = stripped

		// A bare collection carries nothing but the items.
		if len(cleaned) == 1 {
			return stripped
		}
	}

	return cleaned
}

// isMetadataKey reports whether a key is OData or pagination metadata.
func isMetadataKey(key string) bool {
	return strings.HasPrefix(key, "@odata.") || key == "nextLink"
}

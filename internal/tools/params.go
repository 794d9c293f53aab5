package tools

// Argument extraction helpers for MCP tool handlers. MCP arguments arrive
// as a map[string]interface{} decoded from JSON, so numbers are float64
// and objects are map[string]interface{}. These helpers centralize the
// type assertions every handler would otherwise repeat.

// OptionalString returns the string argument for key, or fallback when the
// argument is absent, empty or not a string.
func OptionalString(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// OptionalInt returns the integer argument for key. JSON numbers decode as
// float64; anything else falls back.
func OptionalInt(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// OptionalBool returns the boolean argument for key, or fallback.
func OptionalBool(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// OptionalStringMap converts an object argument into a map of strings,
// skipping entries whose values are not strings. Returns nil when the
// argument is absent or not an object.
func OptionalStringMap(args map[string]interface{}, key string) map[string]string {
	raw, ok := args[key].(map[string]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	result := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// OptionalStringSlice converts an array argument into a slice of strings,
// skipping non-string elements. Returns nil when the argument is absent or
// not an array.
func OptionalStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

package msapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatResult_RawIsIdempotent(t *testing.T) {
	payload := map[string]interface{}{
		"value":          []interface{}{map[string]interface{}{"id": "1"}, map[string]interface{}{"id": "2"}},
		"@odata.context": "https://graph.microsoft.com/v1.0/$metadata#users",
	}

	first, err := FormatResult(payload, FormatRaw, ResultMeta{Duration: time.Second})
	require.NoError(t, err)
	second, err := FormatResult(payload, FormatRaw, ResultMeta{Duration: 2 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Raw mode carries no annotation at all.
	assert.NotContains(t, first, "executionTimeMs")
}

func TestFormatResult_JSONAnnotatesExecution(t *testing.T) {
	payload := map[string]interface{}{"id": "user-1"}

	out, err := FormatResult(payload, FormatJSON, ResultMeta{Duration: 1500 * time.Millisecond})
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, float64(1500), envelope["executionTimeMs"])
	assert.Equal(t, map[string]interface{}{"id": "user-1"}, envelope["result"])
	assert.NotContains(t, envelope, "itemCount")
	assert.NotContains(t, envelope, "note")
}

func TestFormatResult_JSONIncludesItemCountWhenPaginated(t *testing.T) {
	payload := map[string]interface{}{"value": []interface{}{1.0, 2.0, 3.0}}

	out, err := FormatResult(payload, FormatJSON, ResultMeta{Duration: time.Second, Paginated: true, ItemCount: 3})
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, float64(3), envelope["itemCount"])
}

func TestFormatResult_JSONNotesUnfollowedContinuation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "graph cursor",
			payload: map[string]interface{}{
				"value":           []interface{}{},
				"@odata.nextLink": "https://graph.microsoft.com/v1.0/users?$skiptoken=abc",
			},
		},
		{
			name: "azure cursor",
			payload: map[string]interface{}{
				"value":    []interface{}{},
				"nextLink": "https://management.azure.com/subscriptions/s/resources?$skipToken=abc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatResult(tt.payload, FormatJSON, ResultMeta{Duration: time.Second})
			require.NoError(t, err)

			var envelope map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &envelope))
			assert.Equal(t, moreResultsNote, envelope["note"])
		})
	}
}

func TestFormatResult_MinimalStripsMetadata(t *testing.T) {
	payload := map[string]interface{}{
		"@odata.context":  "https://graph.microsoft.com/v1.0/$metadata#users",
		"@odata.nextLink": "https://graph.microsoft.com/v1.0/users?$skiptoken=abc",
		"value": []interface{}{
			map[string]interface{}{"id": "1", "@odata.etag": "W/\"x\""},
		},
		"extra": "kept",
	}

	out, err := FormatResult(payload, FormatMinimal, ResultMeta{Duration: time.Second})
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.NotContains(t, result, "@odata.context")
	assert.NotContains(t, result, "@odata.nextLink")
	assert.Equal(t, "kept", result["extra"])

	items, ok := result["value"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.NotContains(t, items[0].(map[string]interface{}), "@odata.etag")
	assert.Equal(t, "1", items[0].(map[string]interface{})["id"])
}

func TestFormatResult_MinimalUnwrapsBareCollection(t *testing.T) {
	payload := map[string]interface{}{
		"@odata.context": "https://graph.microsoft.com/v1.0/$metadata#users",
		"value": []interface{}{
			map[string]interface{}{"id": "1"},
			map[string]interface{}{"id": "2"},
		},
	}

	out, err := FormatResult(payload, FormatMinimal, ResultMeta{Duration: time.Second})
	require.NoError(t, err)

	var result []interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result, 2)
}

func TestFormatResult_MinimalPassesThroughNonObjects(t *testing.T) {
	out, err := FormatResult([]interface{}{"a", "b"}, FormatMinimal, ResultMeta{})
	require.NoError(t, err)

	var result []interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []interface{}{"a", "b"}, result)
}

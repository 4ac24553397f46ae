package quota

import (
	"reflect"
	"testing"
)

func TestProcessLimits_Mapping(t *testing.T) {
	details := []any{
		map[string]any{"modelCode": "search-prime", "usage": float64(40)},
		map[string]any{"modelCode": "web-reader", "usage": float64(60)},
	}

	input := map[string]any{
		"limits": []any{
			map[string]any{"type": "TOKENS_LIMIT", "percentage": float64(15), "usage": float64(1000), "nextResetTime": float64(1)},
			map[string]any{"type": "TIME_LIMIT", "percentage": float64(25), "currentValue": float64(100), "usage": float64(200), "usageDetails": details},
			map[string]any{"type": "OTHER_LIMIT", "percentage": float64(5)},
		},
		"level": "pro",
	}

	got := ProcessLimits(input)

	want := map[string]any{
		"limits": []any{
			map[string]any{"type": "Token usage(5 Hour)", "percentage": float64(15)},
			map[string]any{
				"type":         "MCP usage(1 Month)",
				"percentage":   float64(25),
				"currentUsage": float64(100),
				"totol":        float64(200),
				"usageDetails": details,
			},
			map[string]any{"type": "OTHER_LIMIT", "percentage": float64(5)},
		},
		"level": "pro",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProcessLimits() = %#v\nwant %#v", got, want)
	}
}

func TestProcessLimits_DoesNotMutateInput(t *testing.T) {
	entry := map[string]any{"type": "TOKENS_LIMIT", "percentage": float64(15)}
	input := map[string]any{"limits": []any{entry}}

	_ = ProcessLimits(input)

	limits := input["limits"].([]any)
	if limits[0].(map[string]any)["type"] != "TOKENS_LIMIT" {
		t.Errorf("input was mutated: %#v", input)
	}
}

func TestProcessLimits_AbsentFieldsStayAbsent(t *testing.T) {
	got := ProcessLimits(map[string]any{
		"limits": []any{map[string]any{"type": "TIME_LIMIT"}},
	})

	entry := got.(map[string]any)["limits"].([]any)[0].(map[string]any)
	want := map[string]any{"type": "MCP usage(1 Month)"}
	if !reflect.DeepEqual(entry, want) {
		t.Errorf("entry = %#v, want %#v", entry, want)
	}
}

func TestProcessLimits_Passthrough(t *testing.T) {
	noLimits := map[string]any{"other": float64(1)}
	nullLimits := map[string]any{"limits": nil}
	stringLimits := map[string]any{"limits": "n/a"}

	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"nil map", map[string]any(nil)},
		{"missing limits", noLimits},
		{"null limits", nullLimits},
		{"non-list limits", stringLimits},
		{"not an object", []any{float64(1)}},
		{"scalar", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProcessLimits(tt.input)
			if !reflect.DeepEqual(got, tt.input) {
				t.Errorf("ProcessLimits(%#v) = %#v, want unchanged", tt.input, got)
			}
		})
	}
}

func TestProcessLimits_NonObjectEntries(t *testing.T) {
	got := ProcessLimits(map[string]any{"limits": []any{"raw", nil}})
	want := map[string]any{"limits": []any{"raw", nil}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProcessLimits() = %#v, want %#v", got, want)
	}
}

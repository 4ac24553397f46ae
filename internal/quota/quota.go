// Package quota rewrites raw quota-limit payloads into display form.
package quota

import (
	"maps"

	"github.com/samber/lo"
)

// Raw limit codes returned by the API.
const (
	TypeTokensLimit = "TOKENS_LIMIT"
	TypeTimeLimit   = "TIME_LIMIT"
)

// Display labels substituted for the raw codes.
const (
	LabelTokens = "Token usage(5 Hour)"
	LabelMCP    = "MCP usage(1 Month)"
)

// ProcessLimits maps every entry of data["limits"] to its display form.
//
// TOKENS_LIMIT keeps only type and percentage. TIME_LIMIT renames
// currentValue to currentUsage and usage to "totol"; consumers of the
// report depend on that spelling. Unknown entries pass through.
//
// The input is never mutated: a shallow copy with a new limits list is
// returned. Anything that is not an object with a limits list comes back
// unchanged.
func ProcessLimits(data any) any {
	obj, ok := data.(map[string]any)
	if !ok || obj == nil {
		return data
	}
	limits, ok := obj["limits"].([]any)
	if !ok {
		return data
	}

	out := maps.Clone(obj)
	out["limits"] = lo.Map(limits, func(item any, _ int) any {
		return processLimit(item)
	})
	return out
}

func processLimit(item any) any {
	entry, ok := item.(map[string]any)
	if !ok {
		return item
	}

	switch entry["type"] {
	case TypeTokensLimit:
		out := map[string]any{"type": LabelTokens}
		copyField(out, entry, "percentage", "percentage")
		return out
	case TypeTimeLimit:
		out := map[string]any{"type": LabelMCP}
		copyField(out, entry, "percentage", "percentage")
		copyField(out, entry, "currentValue", "currentUsage")
		copyField(out, entry, "usage", "totol")
		copyField(out, entry, "usageDetails", "usageDetails")
		return out
	default:
		return item
	}
}

// copyField copies src[from] into dst[to] only when the key exists, so
// absent fields stay absent after re-encoding.
func copyField(dst, src map[string]any, from, to string) {
	if v, ok := src[from]; ok {
		dst[to] = v
	}
}

// Package report turns raw usage data into a Markdown or card report.
//
// The raw form is a text blob with a "Platform:" line followed by three
// labeled JSON objects, as produced by Compose. Parse reads it back and the
// renderers format the result.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Labels introducing each JSON block in the raw text.
const (
	LabelModelUsage = "Model usage data:"
	LabelToolUsage  = "Tool usage data:"
	LabelQuotaLimit = "Quota limit data:"
)

// Format selects a renderer.
type Format string

const (
	FormatCard     Format = "card"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "card", "markdown" or "md" in any case. An empty
// string selects the card.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatCard):
		return FormatCard, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want card or markdown)", s)
	}
}

// Data is the parsed content of a raw blob. Payloads are decoded JSON and
// may be missing any field.
type Data struct {
	Platform   string
	ModelUsage any
	ToolUsage  any
	QuotaLimit any
}

// Compose builds the raw text blob that Parse reads.
func Compose(platform string, modelUsage, toolUsage, quotaLimit any) (string, error) {
	blocks := []struct {
		label string
		value any
	}{
		{LabelModelUsage, modelUsage},
		{LabelToolUsage, toolUsage},
		{LabelQuotaLimit, quotaLimit},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Platform: %s", platform)
	for _, block := range blocks {
		// a bare null would let the next block's object be read in its place
		if block.value == nil {
			block.value = map[string]any{}
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(block.value); err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", strings.TrimSuffix(block.label, ":"), err)
		}
		fmt.Fprintf(&b, "\n\n%s\n%s", block.label, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	}
	return b.String(), nil
}

// Parse extracts the platform and the three JSON blocks from raw. Missing
// blocks become empty objects; a missing quota block has an empty limits
// list.
func Parse(raw string) (Data, error) {
	d := Data{Platform: ExtractPlatform(raw)}

	var err error
	if d.ModelUsage, err = extractOr(raw, LabelModelUsage, map[string]any{}); err != nil {
		return Data{}, err
	}
	if d.ToolUsage, err = extractOr(raw, LabelToolUsage, map[string]any{}); err != nil {
		return Data{}, err
	}
	if d.QuotaLimit, err = extractOr(raw, LabelQuotaLimit, map[string]any{"limits": []any{}}); err != nil {
		return Data{}, err
	}
	return d, nil
}

func extractOr(raw, label string, fallback any) (any, error) {
	v, err := ExtractJSON(raw, label)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return fallback, nil
	}
	return v, nil
}

// Render formats d. now is only used by the card footer.
func Render(d Data, format Format, now time.Time) (string, error) {
	switch format {
	case FormatCard:
		return RenderCard(d, now), nil
	case FormatMarkdown:
		return RenderMarkdown(d), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// Generate parses raw and renders it in one step.
func Generate(raw string, format Format, now time.Time) (string, error) {
	d, err := Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse usage data: %w", err)
	}
	return Render(d, format, now)
}

package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const unknownPlatform = "Unknown"

var platformPattern = regexp.MustCompile(`Platform:\s*(\w+)`)

// ExtractJSON finds label in text and decodes the first JSON object that
// follows it. The object's end is found by counting brace depth, so braces
// inside string values are miscounted; the API does not emit them.
//
// A nil value with a nil error means nothing was found: the label is
// missing, no "{" follows it, or the braces never balance. An error is
// returned only when a balanced block is not valid JSON.
func ExtractJSON(text, label string) (any, error) {
	start := strings.Index(text, label)
	if start == -1 {
		return nil, nil
	}

	open := strings.IndexByte(text[start:], '{')
	if open == -1 {
		return nil, nil
	}
	open += start

	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth != 0 {
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(text[open:i+1]), &v); err != nil {
			return nil, fmt.Errorf("invalid JSON after %q: %w", label, err)
		}
		return v, nil
	}

	return nil, nil
}

// ExtractPlatform returns the word following "Platform:", or "Unknown".
func ExtractPlatform(text string) string {
	m := platformPattern.FindStringSubmatch(text)
	if m == nil {
		return unknownPlatform
	}
	return m[1]
}

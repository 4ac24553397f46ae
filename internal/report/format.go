package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// platformNames maps platform codes to display names.
var platformNames = map[string]string{
	"ZHIPU":     "ZHIPU (智谱 AI)",
	"ZAI":       "ZAI",
	"OPENAI":    "OpenAI",
	"ANTHROPIC": "Anthropic",
}

// PlatformName returns the display name for a platform code, or the code
// itself when it is not known.
func PlatformName(code string) string {
	if name, ok := platformNames[code]; ok {
		return name
	}
	return code
}

// FormatNumber renders a decoded JSON number with comma thousands
// separators. nil renders as "-". Digit strings are grouped too; any other
// value is printed as-is.
func FormatNumber(v any) string {
	switch n := v.(type) {
	case nil:
		return "-"
	case float64:
		return formatFloat(n)
	case int:
		return numberPrinter.Sprintf("%d", n)
	case int64:
		return numberPrinter.Sprintf("%d", n)
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return numberPrinter.Sprintf("%d", i)
		}
		return n
	default:
		return display(v)
	}
}

// formatFloat groups the integer part only; a fractional part is kept
// verbatim.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1e18 {
		return display(f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	i, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}
	grouped := numberPrinter.Sprintf("%d", i)
	if i == 0 && strings.HasPrefix(intPart, "-") {
		grouped = "-" + grouped
	}
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

// display renders a decoded JSON value the way it would be interpolated
// into text: numbers without exponent or trailing zeros, nil as "-".
func display(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// field returns obj[key] when obj is a JSON object, nil otherwise.
func field(obj any, key string) any {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// list returns v when it is a JSON array, nil otherwise.
func list(v any) []any {
	l, _ := v.([]any)
	return l
}

// at returns l[i], or nil when i is out of range.
func at(l []any, i int) any {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

// count returns v, or 0 when v is missing, null, false, zero or empty.
func count(v any) any {
	switch x := v.(type) {
	case nil:
		return float64(0)
	case bool:
		if !x {
			return float64(0)
		}
	case float64:
		if x == 0 {
			return float64(0)
		}
	case string:
		if x == "" {
			return float64(0)
		}
	}
	return v
}

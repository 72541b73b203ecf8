package advisor

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Raw is returned by Coerce when no JSON value could be recovered from the text.
type Raw struct {
	Text string
}

// Coerce recovers a JSON value from free-form model output. It tries, in order,
// the whole text, the span from the first '{' to the last '}', and the span from
// the first '[' to the last ']'. Nested balance is not checked. When nothing
// parses the input comes back unchanged, wrapped in Raw.
//
// Objects decode to map[string]any, arrays to []any and numbers to float64.
func Coerce(text string) any {
	if v, ok := parseJSON(text); ok {
		return v
	}

	if span, ok := between(text, '{', '}'); ok {
		if v, ok := parseJSON(span); ok {
			return v
		}
	}

	if arr, ok := extractArray(text); ok {
		return arr
	}

	return Raw{Text: text}
}

// extractArray parses the span from the first '[' to the last ']' and reports
// whether it held a JSON array.
func extractArray(text string) ([]any, bool) {
	span, ok := between(text, '[', ']')
	if !ok {
		return nil, false
	}

	v, ok := parseJSON(span)
	if !ok {
		return nil, false
	}

	arr, ok := v.([]any)
	return arr, ok
}

func parseJSON(text string) (any, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

func between(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	end := strings.LastIndexByte(text, close)
	if end <= start {
		return "", false
	}

	return text[start : end+1], true
}

// truthy mirrors loose truthiness of decoded JSON: null, false, 0, NaN and ""
// are false, every array and object is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	default:
		return true
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// coerceStrings turns a decoded JSON value into a non-nil string list. A single
// string becomes a one element list, non-string elements are stringified and
// blank entries are dropped.
func coerceStrings(v any) []string {
	out := []string{}

	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

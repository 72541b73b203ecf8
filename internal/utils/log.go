package utils

import "strings"

// TruncateForLog shortens s to limit runes for log previews, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}

	if head := Head(s, limit); head != s {
		return head + "..."
	}
	return s
}

// Head returns at most the first n runes of s.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

package uploads

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Multipart clients send titles/categories three ways: one plain value, one
// JSON-encoded array, or the same field repeated. Flatten folds all three
// into one ordered list.
func Flatten(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if strings.HasPrefix(trimmed, "[") {
			var decoded []string
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				out = append(out, decoded...)
				continue
			}
		}
		out = append(out, value)
	}
	return out
}

// ReplicateTitles expands a single title to count entries by appending a
// 1-based index, keeping the batch's titles distinct. Lists already longer
// than one entry pass through untouched.
func ReplicateTitles(titles []string, count int) []string {
	if len(titles) != 1 || count <= 1 {
		return titles
	}
	base := titles[0]
	out := make([]string, count)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", base, i+1)
	}
	return out
}

// ReplicateCategories expands a single category to count verbatim copies.
func ReplicateCategories(categories []string, count int) []string {
	if len(categories) != 1 || count <= 1 {
		return categories
	}
	out := make([]string, count)
	for i := range out {
		out[i] = categories[0]
	}
	return out
}

package category

import (
	"regexp"
	"sort"
	"strings"

	pkgerrors "github.com/rmoralesdev/mediavault-backend/pkg/errors"
)

// The gallery serves a fixed topic taxonomy; categories outside this set are
// rejected everywhere before they can reach a query.
var allowed = map[string]struct{}{
	"waifu":    {},
	"neko":     {},
	"shinobu":  {},
	"megumin":  {},
	"bully":    {},
	"cuddle":   {},
	"cry":      {},
	"hug":      {},
	"kiss":     {},
	"pat":      {},
	"smug":     {},
	"highfive": {},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lowercases the raw value and collapses whitespace runs to a single
// underscore. It does not check membership.
func Normalize(raw string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))
	return whitespaceRun.ReplaceAllString(clean, "_")
}

// Validate normalizes the raw value and checks it against the allow-list,
// returning the canonical form or a validation error.
func Validate(raw string) (string, error) {
	normalized := Normalize(raw)
	if _, ok := allowed[normalized]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid category").
			WithDetails(map[string]any{"category": raw, "allowed": List()})
	}
	return normalized, nil
}

// IsValid reports whether the raw value normalizes to an allowed category.
func IsValid(raw string) bool {
	_, err := Validate(raw)
	return err == nil
}

// List returns the canonical allow-list in stable order.
func List() []string {
	values := make([]string, 0, len(allowed))
	for value := range allowed {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// Package identity normalizes vendor agent labels into canonical keys.
//
// The same agent shows up as "Jane Doe", "JANE DOE - 104", or as one
// element of a "; "-joined list depending on the vendor. Everything
// downstream works exclusively with canonical keys: lowercase, trimmed,
// hyphen suffix and trailing extension digits removed.
package identity

import (
	"regexp"
	"strings"
)

// ListDelimiter separates agent names in list-valued fields.
const ListDelimiter = "; "

var trailingDigits = regexp.MustCompile(`\s*\d+\s*$`)

// Normalize converts a raw agent label to its canonical key. The result
// may be empty ("no agent"); callers must filter empty keys out before
// aggregation. Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)

	// Labels like "Jane Doe - 104" keep only the part before the hyphen.
	if idx := strings.Index(s, "-"); idx >= 0 {
		s = s[:idx]
	}

	s = trailingDigits.ReplaceAllString(s, "")

	return strings.ToLower(strings.TrimSpace(s))
}

// Keys normalizes an agent field into an ordered sequence of canonical
// keys. When list is true the field is split on ListDelimiter first.
// Duplicates within one record are preserved: each element is a name
// credited for that record. Empty keys are included; filtering them is
// the caller's job.
func Keys(raw string, list bool) []string {
	if !list {
		return []string{Normalize(raw)}
	}

	parts := strings.Split(raw, ListDelimiter)
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, Normalize(p))
	}
	return keys
}

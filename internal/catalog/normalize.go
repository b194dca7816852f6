package catalog

import "strings"

// Normalize lowercases, trims, and collapses internal whitespace.
// It is the single normalization used for stored aliases and for all
// incoming lookup text; keeping one function prevents index drift.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

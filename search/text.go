package search

import "strings"

// normalizeQuery collapses runs of whitespace and trims the ends.
// A blank query normalizes to "".
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

package search

import "strings"

// containsExcludedTerm reports whether text contains any of the terms,
// case-insensitively. Empty terms never match.
func containsExcludedTerm(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	lowered := strings.ToLower(text)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

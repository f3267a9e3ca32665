package domain

import "strings"

// FilterByName derives the subset of the catalog matching a free-text query.
// An empty or whitespace-only query returns the catalog unchanged, in the
// original order; otherwise items whose display name contains the query as a
// case-insensitive substring are returned, preserving catalog order. The
// function is pure: neither the catalog nor the query is mutated, and an
// empty result is a valid outcome rather than an error.
func FilterByName(catalog []Product, query string) []Product {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return catalog
	}
	needle := strings.ToLower(trimmed)
	matched := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

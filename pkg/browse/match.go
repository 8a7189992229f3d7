package browse

import "strings"

// MatchesAnyWord lower-cases the query, splits it on spaces, and reports
// whether ANY word is a substring of any field (OR semantics across words).
// An empty query matches everything.
func MatchesAnyWord(query string, fields ...string) bool {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return true
	}
	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}
	for _, w := range words {
		for _, f := range lowered {
			if strings.Contains(f, w) {
				return true
			}
		}
	}
	return false
}

// PostFilter applies search (title/brand/model) and location word-OR matching
// to an already-fetched page of vehicles. Records beyond the fetched window
// are invisible to this filter.
func PostFilter(vehicles []Vehicle, search, location string) []Vehicle {
	out := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !MatchesAnyWord(search, v.Title, v.Brand, v.Model) {
			continue
		}
		if !MatchesAnyWord(location, v.Location) {
			continue
		}
		out = append(out, v)
	}
	return out
}

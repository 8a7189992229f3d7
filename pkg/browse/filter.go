// Package browse is the Go client for the listing browse API: filter state
// that round-trips through URL query strings, a fetcher that discards stale
// responses, and the local post-filter used by per-category views.
package browse

import (
	"net/url"
	"strconv"
)

// Sentinel value meaning "no constraint" for enum-like filters. Omitted from
// outgoing query strings rather than sent literally.
const All = "all"

// SortNewest is the default sort order.
const SortNewest = "newest"

// FilterState is the current filter/sort/pagination selection. The zero value
// is not valid; start from DefaultState.
type FilterState struct {
	Category   string
	Brand      string
	Year       string
	MinPrice   string
	MaxPrice   string
	MaxMileage string
	Location   string
	Search     string
	SortBy     string
	Page       int
}

// DefaultState is the zero-filter selection: every enum at "all", free text
// empty, newest first, page 1.
func DefaultState() FilterState {
	return FilterState{
		Category: All,
		Brand:    All,
		Year:     All,
		SortBy:   SortNewest,
		Page:     1,
	}
}

// ParseValues reads a query string into filter state. Any absent parameter
// resolves to its default, so a bare URL reproduces DefaultState.
func ParseValues(values url.Values) FilterState {
	s := DefaultState()
	if v := values.Get("category"); v != "" {
		s.Category = v
	}
	if v := values.Get("brand"); v != "" {
		s.Brand = v
	}
	if v := values.Get("year"); v != "" {
		s.Year = v
	}
	s.MinPrice = values.Get("minPrice")
	s.MaxPrice = values.Get("maxPrice")
	s.MaxMileage = values.Get("maxMileage")
	s.Location = values.Get("location")
	s.Search = values.Get("search")
	if v := values.Get("sortBy"); v != "" {
		s.SortBy = v
	}
	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			s.Page = n
		}
	}
	return s
}

// Values encodes the state, omitting defaults: "all" sentinels, empty strings,
// newest sort and page 1 are not sent. ParseValues(s.Values()) == s.
func (s FilterState) Values() url.Values {
	values := url.Values{}
	if s.Category != "" && s.Category != All {
		values.Set("category", s.Category)
	}
	if s.Brand != "" && s.Brand != All {
		values.Set("brand", s.Brand)
	}
	if s.Year != "" && s.Year != All {
		values.Set("year", s.Year)
	}
	if s.MinPrice != "" {
		values.Set("minPrice", s.MinPrice)
	}
	if s.MaxPrice != "" {
		values.Set("maxPrice", s.MaxPrice)
	}
	if s.MaxMileage != "" {
		values.Set("maxMileage", s.MaxMileage)
	}
	if s.Location != "" {
		values.Set("location", s.Location)
	}
	if s.Search != "" {
		values.Set("search", s.Search)
	}
	if s.SortBy != "" && s.SortBy != SortNewest {
		values.Set("sortBy", s.SortBy)
	}
	if s.Page > 1 {
		values.Set("page", strconv.Itoa(s.Page))
	}
	return values
}

// Update applies a filter mutation and resets the page to 1, so narrowing
// results never lands on an out-of-range page. Use SetPage to change pages.
func (s *FilterState) Update(mut func(*FilterState)) {
	mut(s)
	s.Page = 1
}

// SetPage moves to a page without touching any filter.
func (s *FilterState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Clear resets every field to its default.
func (s *FilterState) Clear() {
	*s = DefaultState()
}

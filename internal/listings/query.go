package listings

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DefaultPageSize matches the general browse grid.
const DefaultPageSize = 12

// MaxPageSize caps limit; the per-category browse fetches at this cap.
const MaxPageSize = 100

// Query is the parsed filter/sort/pagination state of one browse request.
// The sentinel "all" and empty strings mean no constraint. Unrecognized enum
// values are not rejected — they flow into the WHERE clause and match nothing.
type Query struct {
	Page       int
	Limit      int
	Category   string
	Brand      string
	Year       string
	Color      string
	MinPrice   string
	MaxPrice   string
	MaxMileage string
	Search     string
	Location   string
	SortBy     string
}

// ParseQuery reads the recognized query parameters; absent parameters resolve
// to the documented defaults (page 1, limit 12, sort newest).
func ParseQuery(c *fiber.Ctx) Query {
	q := Query{
		Page:       atoiDefault(c.Query("page"), 1),
		Limit:      atoiDefault(c.Query("limit"), DefaultPageSize),
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		Year:       c.Query("year"),
		Color:      c.Query("color"),
		MinPrice:   c.Query("minPrice"),
		MaxPrice:   c.Query("maxPrice"),
		MaxMileage: c.Query("maxMileage"),
		Search:     c.Query("search"),
		Location:   c.Query("location"),
		SortBy:     c.Query("sortBy"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.SortBy == "" {
		q.SortBy = "newest"
	}
	return q
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func constrained(v string) bool {
	return v != "" && v != "all"
}

// apply builds the WHERE clause for the filter state. LOWER/LIKE instead of
// ILIKE so the same clause runs on Postgres and the sqlite test driver.
func (q Query) apply(tx *gorm.DB) *gorm.DB {
	if constrained(q.Category) {
		tx = tx.Where("category = ?", q.Category)
	}
	if constrained(q.Brand) {
		tx = tx.Where("LOWER(brand) = ?", strings.ToLower(q.Brand))
	}
	if constrained(q.Year) {
		tx = tx.Where("year = ?", atoiDefault(q.Year, -1))
	}
	if q.Color != "" {
		tx = tx.Where("LOWER(color) = ?", strings.ToLower(q.Color))
	}
	if q.MinPrice != "" {
		if v, err := strconv.ParseFloat(q.MinPrice, 64); err == nil {
			tx = tx.Where("price >= ?", v)
		}
	}
	if q.MaxPrice != "" {
		if v, err := strconv.ParseFloat(q.MaxPrice, 64); err == nil {
			tx = tx.Where("price <= ?", v)
		}
	}
	if q.MaxMileage != "" {
		if v, err := strconv.ParseInt(q.MaxMileage, 10, 64); err == nil {
			tx = tx.Where("mileage IS NULL OR mileage <= ?", v)
		}
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ?", pattern, pattern, pattern)
	}
	if q.Location != "" {
		pattern := "%" + strings.ToLower(q.Location) + "%"
		tx = tx.Where("LOWER(location) LIKE ? OR LOWER(city) LIKE ?", pattern, pattern)
	}
	return tx
}

// orderClause maps the sort enum; anything unrecognized falls back to newest.
func (q Query) orderClause() string {
	switch q.SortBy {
	case "price-asc":
		return "price ASC"
	case "price-desc":
		return "price DESC"
	case "year-desc":
		return "year DESC"
	case "mileage-asc":
		return "mileage ASC"
	default:
		return "created_at DESC"
	}
}

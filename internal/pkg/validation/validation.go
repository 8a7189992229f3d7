package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"voltmarket-backend/internal/models"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail matches the frontend rule: /^[^\s@]+@[^\s@]+\.[^\s@]+$/
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

const maxPrice = 1_000_000
const minYear = 1990

// ListingInput carries the creatable listing fields through validation.
type ListingInput struct {
	Title       string
	Brand       string
	Model       string
	Description string
	Category    string
	Price       float64
	OldPrice    *float64
	Year        int
	Mileage     *int64
	RangeMiles  *int64
	Color       string
	Images      []string
	VideoURL    *string
	Attributes  map[string]interface{}
	Location    string
	City        string
	State       string
	PostalCode  string
	Lat         *float64
	Lng         *float64
}

// ValidateListing applies the creation-boundary rules. The returned map is
// keyed by field name; empty means valid. A free-typed location string without
// resolved coordinates is never sufficient.
func ValidateListing(in ListingInput) map[string]string {
	errs := map[string]string{}

	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n < 5 || n > 100 {
		errs["title"] = "Title must be between 5 and 100 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Brand)) < 2 {
		errs["brand"] = "Brand must be at least 2 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Model)) < 2 {
		errs["model"] = "Model must be at least 2 characters"
	}
	if !models.ValidCategory(in.Category) {
		errs["category"] = "Category must be one of ev-car, hybrid-car, ev-scooter, e-bike"
	}
	if maxYear := time.Now().Year() + 1; in.Year < minYear || in.Year > maxYear {
		errs["year"] = fmt.Sprintf("Year must be between %d and %d", minYear, maxYear)
	}
	if in.Price <= 0 || in.Price > maxPrice {
		errs["price"] = "Price must be positive and at most 1,000,000"
	}
	if in.OldPrice != nil && *in.OldPrice < 0 {
		errs["old_price"] = "Old price cannot be negative"
	}
	if in.Mileage != nil && *in.Mileage < 0 {
		errs["mileage"] = "Mileage cannot be negative"
	}
	if in.RangeMiles != nil && *in.RangeMiles < 0 {
		errs["range_miles"] = "Range cannot be negative"
	}
	if len(in.Images) == 0 {
		errs["images"] = "At least one photo is required"
	}
	// Resolved location gate: textual location plus coordinates from the
	// location-resolution step. Free text alone does not pass.
	if strings.TrimSpace(in.Location) == "" || in.Lat == nil || in.Lng == nil {
		errs["location"] = "A resolved location is required — pick one from the suggestions"
	}

	if _, has := errs["category"]; !has {
		if msg := validateAttributes(in.Category, in.Attributes); msg != "" {
			errs["attributes"] = msg
		}
	}
	return errs
}

// Attribute groups are tagged by category: a scooter listing carrying
// fuel_type is rejected, a car listing carrying motor_power_watts is rejected.
const carAttributesSchema = `{
	"type": "object",
	"properties": {
		"fuel_type":    {"type": "string", "enum": ["electric", "hybrid", "plug-in-hybrid"]},
		"transmission": {"type": "string", "enum": ["automatic", "manual", "single-speed"]},
		"drivetrain":   {"type": "string", "enum": ["fwd", "rwd", "awd"]}
	},
	"additionalProperties": false
}`

const micromobilityAttributesSchema = `{
	"type": "object",
	"properties": {
		"motor_power_watts": {"type": "number", "minimum": 0},
		"wheel_size_inches": {"type": "number", "minimum": 0},
		"gear_system":       {"type": "string"}
	},
	"additionalProperties": false
}`

var carSchema, micromobilitySchema *jsonschema.Schema

func init() {
	carSchema = mustCompile("car-attributes.json", carAttributesSchema)
	micromobilitySchema = mustCompile("micromobility-attributes.json", micromobilityAttributesSchema)
}

func mustCompile(name, doc string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, strings.NewReader(doc)); err != nil {
		panic(err)
	}
	return c.MustCompile(name)
}

func validateAttributes(category string, attrs map[string]interface{}) string {
	if len(attrs) == 0 {
		return ""
	}
	schema := micromobilitySchema
	if models.CarCategory(category) {
		schema = carSchema
	}
	// Schema.Validate wants plain decoded JSON values.
	doc := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		doc[k] = v
	}
	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Sprintf("Attributes do not match the %s category: %s", category, ve.Message)
		}
		return fmt.Sprintf("Attributes do not match the %s category", category)
	}
	return ""
}

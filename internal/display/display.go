// Package display maps listing records to display-ready card fields. Pure
// derivation only — no network or storage side effects.
package display

import (
	"encoding/json"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"voltmarket-backend/internal/models"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Card is the display projection of one listing for the browse grid.
type Card struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	PriceDisplay  string   `json:"price_display"`
	Discount      bool     `json:"discount"`
	OldPrice      string   `json:"old_price_display,omitempty"`
	MileageText   string   `json:"mileage_display"`
	CoverKind     string   `json:"cover_kind"` // video | image | placeholder
	CoverURL      string   `json:"cover_url,omitempty"`
	Placeholder   string   `json:"placeholder,omitempty"`
	CategoryColor string   `json:"category_color"`
	Sold          bool     `json:"sold"`
	CardOpacity   float64  `json:"card_opacity"`
}

// FromListing derives the card view for one listing.
func FromListing(l *models.Listing) Card {
	card := Card{
		ID:            l.ListingID.String(),
		Title:         l.Title,
		PriceDisplay:  FormatPrice(l.Price),
		MileageText:   FormatMileage(l.Mileage),
		CategoryColor: CategoryColor(l.Category),
		Sold:          l.Sold,
		CardOpacity:   1,
	}
	if ShowDiscount(l.Price, l.OldPrice) {
		card.Discount = true
		card.OldPrice = FormatPrice(*l.OldPrice)
	}
	card.CoverKind, card.CoverURL, card.Placeholder = CoverMedia(l)
	if l.Sold {
		card.CardOpacity = 0.6
	}
	return card
}

// ShowDiscount reports whether the struck-through old price is rendered:
// both prices finite, old price positive and strictly greater than price.
func ShowDiscount(price float64, oldPrice *float64) bool {
	if oldPrice == nil {
		return false
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return false
	}
	op := *oldPrice
	if math.IsNaN(op) || math.IsInf(op, 0) {
		return false
	}
	return op > 0 && op > price
}

// FormatPrice renders a currency amount with thousands separators, e.g. "$45,000".
func FormatPrice(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("$%d", int64(v))
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatMileage renders "15,000 mi"; absent or zero mileage reads "New".
func FormatMileage(mileage *int64) string {
	if mileage == nil || *mileage <= 0 {
		return "New"
	}
	return printer.Sprintf("%d mi", *mileage)
}

// CoverMedia picks the card's cover: video takes priority over the first
// image; with neither, a brand/model placeholder.
func CoverMedia(l *models.Listing) (kind, url, placeholder string) {
	if l.VideoURL != nil && *l.VideoURL != "" {
		return "video", *l.VideoURL, ""
	}
	var images []string
	if len(l.Images) > 0 {
		_ = json.Unmarshal(l.Images, &images)
	}
	if len(images) > 0 && images[0] != "" {
		return "image", images[0], ""
	}
	return "placeholder", "", l.Brand + " " + l.Model
}

// CategoryColor is the fixed badge color mapping; gray for anything else.
func CategoryColor(category string) string {
	switch category {
	case models.CategoryEVCar:
		return "blue"
	case models.CategoryHybridCar:
		return "green"
	case models.CategoryEVScooter:
		return "purple"
	case models.CategoryEBike:
		return "orange"
	}
	return "gray"
}

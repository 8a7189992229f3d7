package listings

import (
	"strconv"

	"voltmarket-backend/internal/display"
	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/models"
	"voltmarket-backend/internal/pkg/response"
	"voltmarket-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type createListingRequest struct {
	Title       string                 `json:"title"`
	Brand       string                 `json:"brand"`
	Model       string                 `json:"model"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Price       float64                `json:"price"`
	OldPrice    *float64               `json:"old_price"`
	Year        int                    `json:"year"`
	Mileage     *int64                 `json:"mileage"`
	RangeMiles  *int64                 `json:"range_miles"`
	Color       string                 `json:"color"`
	Images      []string               `json:"images"`
	VideoURL    *string                `json:"video_url"`
	Attributes  map[string]interface{} `json:"attributes"`
	Location    string                 `json:"location"`
	City        string                 `json:"city"`
	State       string                 `json:"state"`
	PostalCode  string                 `json:"postal_code"`
	Lat         *float64               `json:"lat"`
	Lng         *float64               `json:"lng"`
}

// CreateListing POST /api/v1/listings — validates at the creation boundary,
// then persists. 201 carries requires_checkout for private car sellers.
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "A signed-in account with a resolvable email is required")
	}

	var body createListingRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	in := validation.ListingInput{
		Title:       body.Title,
		Brand:       body.Brand,
		Model:       body.Model,
		Description: body.Description,
		Category:    body.Category,
		Price:       body.Price,
		OldPrice:    body.OldPrice,
		Year:        body.Year,
		Mileage:     body.Mileage,
		RangeMiles:  body.RangeMiles,
		Color:       body.Color,
		Images:      body.Images,
		VideoURL:    body.VideoURL,
		Attributes:  body.Attributes,
		Location:    body.Location,
		City:        body.City,
		State:       body.State,
		PostalCode:  body.PostalCode,
		Lat:         body.Lat,
		Lng:         body.Lng,
	}
	if fieldErrs := validation.ValidateListing(in); len(fieldErrs) > 0 {
		return response.Error(c, "Listing validation failed", 400, fieldErrs)
	}

	sellerType := actor.SellerType
	if sellerType == "" {
		sellerType = models.SellerPrivate
	}
	listing, err := h.Service.CreateListing(c.Context(), CreateListingInput{
		ListingInput: in,
		SellerID:     actor.UserID,
		SellerEmail:  actor.Email,
		SellerType:   sellerType,
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}

	return response.SuccessCreated(c, "Listing created successfully", fiber.Map{
		"listing":           listing,
		"requires_checkout": listing.Status == models.StatusPendingPayment,
	}, nil)
}

// Browse GET /api/v1/listings — one paginated request per fetch cycle;
// data carries { vehicles, total } plus per-card display fields.
func (h *Handlers) Browse(c *fiber.Ctx) error {
	q := ParseQuery(c)
	vehicles, total, err := h.Service.Browse(c.Context(), q)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}

	cards := make([]display.Card, len(vehicles))
	for i := range vehicles {
		cards[i] = display.FromListing(&vehicles[i])
	}
	totalPages := (int(total) + q.Limit - 1) / q.Limit

	return response.Success(c, "Listings fetched successfully", fiber.Map{
		"vehicles": vehicles,
		"cards":    cards,
		"total":    total,
	}, fiber.Map{
		"page":       q.Page,
		"limit":      q.Limit,
		"totalPages": totalPages,
	})
}

// CategoryBrowse GET /api/v1/listings/category/:category — fetches up to 100
// records and applies the word-OR post-filter for search/location.
func (h *Handlers) CategoryBrowse(c *fiber.Ctx) error {
	category := c.Params("category")
	vehicles, err := h.Service.CategoryBrowse(c.Context(), category, c.Query("search"), c.Query("location"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	cards := make([]display.Card, len(vehicles))
	for i := range vehicles {
		cards[i] = display.FromListing(&vehicles[i])
	}
	return response.Success(c, "Listings fetched successfully", fiber.Map{
		"vehicles": vehicles,
		"cards":    cards,
		"total":    len(vehicles),
	}, nil)
}

// Nearby GET /api/v1/listings/nearby?lat=&lng=&precision=
func (h *Handlers) Nearby(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		return response.Error(c, "lat and lng are required", 400, nil)
	}
	precision := DefaultNearbyPrecision
	if p := c.Query("precision"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			precision = n
		}
	}
	vehicles, err := h.Service.Nearby(c.Context(), lat, lng, uint(precision))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Nearby listings fetched", fiber.Map{
		"vehicles": vehicles,
		"total":    len(vehicles),
	}, nil)
}

// GetByID GET /api/v1/listings/:listing_id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	idStr := c.Params("listing_id")
	listingID, err := uuid.Parse(idStr)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}
	listing, err := h.Service.GetByID(c.Context(), listingID)
	if err != nil {
		switch err.Error() {
		case "listing_id is required":
			return response.Error(c, err.Error(), 400, nil)
		case "Listing not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Listing fetched successfully", fiber.Map{
		"listing": listing,
		"card":    display.FromListing(listing),
	}, nil)
}

// MarkSold POST /api/v1/listings/mark-sold — one-way transition, owner only.
func (h *Handlers) MarkSold(c *fiber.Ctx) error {
	var body struct {
		ListingID string `json:"listing_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}

	listing, err := h.Service.MarkSold(c.Context(), listingID, actor.UserID, actor.Email)
	if err != nil {
		statusMap := map[string]int{
			"Listing not found":       404,
			"Unauthorized":            403,
			"Listing is already sold": 400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing marked as sold", listing, nil)
}

// UpdatePrice PUT /api/v1/listings/price — owner only.
func (h *Handlers) UpdatePrice(c *fiber.Ctx) error {
	var body struct {
		ListingID string   `json:"listing_id"`
		Price     *float64 `json:"price"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == "" || body.Price == nil {
		return response.Error(c, "listing_id and price are required", 400, nil)
	}
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}

	listing, err := h.Service.UpdatePrice(c.Context(), listingID, actor.UserID, *body.Price, actor.Email)
	if err != nil {
		statusMap := map[string]int{
			"Listing not found":             404,
			"Unauthorized":                  403,
			"Invalid price":                 400,
			"No valid changes provided":     400,
			"Sold listings cannot be repriced": 400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing price updated", listing, nil)
}

// ListEvents GET /api/v1/listings/:listing_id/events — owner only.
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}
	listing, err := h.Service.GetByID(c.Context(), listingID)
	if err != nil {
		if err.Error() == "Listing not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if listing.SellerID != actor.UserID {
		return response.Error(c, "Unauthorized", 403, nil)
	}
	out, err := h.Service.Events.ListForListing(c.Context(), listingID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing events fetched successfully", fiber.Map{"events": out}, nil)
}

package checkout

import (
	"voltmarket-backend/internal/listings"
	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/models"
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Listings   *listings.Service
	Creator    SessionCreator
	SuccessURL string
	CancelURL  string
}

// CreateSession POST /api/v1/checkout/create-session — returns the Stripe
// redirect URL for a pending listing's fee. A failure here leaves the listing
// in place unpaid; nothing is rolled back.
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		ListingID string `json:"listing_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}

	listing, err := h.Listings.GetByID(c.Context(), listingID)
	if err != nil {
		if err.Error() == "Listing not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if listing.SellerID != actor.UserID {
		return response.Error(c, "Unauthorized", 403, nil)
	}
	if listing.Status != models.StatusPendingPayment {
		return response.Error(c, "Listing does not require checkout", 400, nil)
	}

	if h.Creator == nil {
		return response.Error(c, "Checkout not configured", 500, nil)
	}
	result, err := h.Creator.Create(CreateSessionInput{
		ListingID:    listing.ListingID.String(),
		ListingTitle: listing.Title,
		BuyerEmail:   actor.Email,
		AmountCents:  ListingFeeCents,
		SuccessURL:   h.SuccessURL,
		CancelURL:    h.CancelURL,
	})
	if err != nil {
		log.Error().Err(err).Str("listing_id", listing.ListingID.String()).Msg("checkout session creation failed")
		return response.Error(c, "Failed to create checkout session", 502, fiber.Map{
			"listing_id": listing.ListingID.String(),
		})
	}

	return response.Success(c, "Checkout session created", fiber.Map{
		"session_id": result.ID,
		"url":        result.URL,
	}, nil)
}

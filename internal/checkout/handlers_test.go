package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"voltmarket-backend/internal/listingevents"
	"voltmarket-backend/internal/listings"
	"voltmarket-backend/internal/models"
)

type fakeCreator struct {
	lastInput CreateSessionInput
	err       error
}

func (f *fakeCreator) Create(in CreateSessionInput) (*SessionResult, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &SessionResult{ID: "cs_fake_123", URL: "https://checkout.stripe.com/c/pay/cs_fake_123"}, nil
}

func setupCheckout(t *testing.T) (*Handlers, *fakeCreator, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Listing{}, &models.ListingEvent{}))

	creator := &fakeCreator{}
	h := &Handlers{
		Listings:   &listings.Service{DB: db, Events: &listingevents.Service{DB: db}},
		Creator:    creator,
		SuccessURL: "https://voltmarket.app/sell/success",
		CancelURL:  "https://voltmarket.app/sell",
	}
	return h, creator, db
}

func seedListing(t *testing.T, db *gorm.DB, sellerID uuid.UUID, status string) *models.Listing {
	listing := &models.Listing{
		Title:       "2021 Tesla Model 3 Long Range",
		Brand:       "Tesla",
		Model:       "Model 3",
		Category:    models.CategoryEVCar,
		Price:       32000,
		Year:        2021,
		Images:      datatypes.JSON(`["https://cdn.example.com/1.jpg"]`),
		Location:    "Austin, TX",
		SellerID:    sellerID,
		SellerEmail: "seller@example.com",
		SellerType:  models.SellerPrivate,
		Status:      status,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func checkoutApp(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": userID.String(),
			"email":   "seller@example.com",
		})
		return c.Next()
	})
	app.Post("/checkout/create-session", h.CreateSession)
	return app
}

func postCreateSession(t *testing.T, app *fiber.App, listingID string) *map[string]interface{} {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"listing_id": listingID})
	req := httptest.NewRequest("POST", "/checkout/create-session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	out["_status"] = float64(resp.StatusCode)
	return &out
}

func TestCreateSession_Success(t *testing.T) {
	h, creator, db := setupCheckout(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, models.StatusPendingPayment)
	app := checkoutApp(h, sellerID)

	out := *postCreateSession(t, app, listing.ListingID.String())
	assert.Equal(t, float64(200), out["_status"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "cs_fake_123", data["session_id"])
	assert.Contains(t, data["url"], "checkout.stripe.com")

	assert.Equal(t, ListingFeeCents, creator.lastInput.AmountCents)
	assert.Equal(t, listing.ListingID.String(), creator.lastInput.ListingID)
	assert.Equal(t, "https://voltmarket.app/sell/success", creator.lastInput.SuccessURL)
}

func TestCreateSession_OnlyForPendingListings(t *testing.T) {
	h, _, db := setupCheckout(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, models.StatusActive)
	app := checkoutApp(h, sellerID)

	out := *postCreateSession(t, app, listing.ListingID.String())
	assert.Equal(t, float64(400), out["_status"])
}

func TestCreateSession_OwnerOnly(t *testing.T) {
	h, _, db := setupCheckout(t)
	listing := seedListing(t, db, uuid.New(), models.StatusPendingPayment)
	app := checkoutApp(h, uuid.New())

	out := *postCreateSession(t, app, listing.ListingID.String())
	assert.Equal(t, float64(403), out["_status"])
}

func TestCreateSession_StripeFailureKeepsListing(t *testing.T) {
	h, creator, db := setupCheckout(t)
	creator.err = errors.New("stripe is down")
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, models.StatusPendingPayment)
	app := checkoutApp(h, sellerID)

	out := *postCreateSession(t, app, listing.ListingID.String())
	assert.Equal(t, float64(502), out["_status"])
	details := out["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, listing.ListingID.String(), details["listing_id"])

	// The listing survives unpaid; it was not rolled back.
	var kept models.Listing
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&kept).Error)
	assert.Equal(t, models.StatusPendingPayment, kept.Status)
}

func TestCreateSession_NotFound(t *testing.T) {
	h, _, _ := setupCheckout(t)
	app := checkoutApp(h, uuid.New())

	out := *postCreateSession(t, app, uuid.NewString())
	assert.Equal(t, float64(404), out["_status"])
}

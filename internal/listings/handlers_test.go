package listings

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltmarket-backend/internal/models"
)

func sessionUser(id uuid.UUID, email, sellerType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":     id.String(),
			"fullname":    "Test Seller",
			"email":       email,
			"seller_type": sellerType,
		})
		return c.Next()
	}
}

func newTestApp(t *testing.T) (*fiber.App, *Handlers, *Service) {
	s := setupListingsService(t)
	h := &Handlers{Service: s}
	app := fiber.New()
	return app, h, s
}

func TestCreateListingHandler_ValidationErrors(t *testing.T) {
	app, h, _ := newTestApp(t)
	app.Post("/listings", sessionUser(uuid.New(), "seller@example.com", "private"), h.CreateListing)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "EV",
		"brand":    "T",
		"category": "jetski",
		"price":    0,
		"year":     1950,
	})
	req := httptest.NewRequest("POST", "/listings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "error", out["status"])
	details := out["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "category")
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "year")
	assert.Contains(t, details, "images")
	assert.Contains(t, details, "location")
}

func TestCreateListingHandler_RequiresSession(t *testing.T) {
	app, h, _ := newTestApp(t)
	app.Post("/listings", h.CreateListing)

	req := httptest.NewRequest("POST", "/listings", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCreateListingHandler_PrivateCarRequiresCheckout(t *testing.T) {
	app, h, _ := newTestApp(t)
	app.Post("/listings", sessionUser(uuid.New(), "seller@example.com", "private"), h.CreateListing)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "2021 Tesla Model 3 Long Range",
		"brand":    "Tesla",
		"model":    "Model 3",
		"category": "ev-car",
		"price":    32000,
		"year":     2021,
		"images":   []string{"https://cdn.example.com/1.jpg"},
		"location": "Austin, TX",
		"lat":      30.2672,
		"lng":      -97.7431,
	})
	req := httptest.NewRequest("POST", "/listings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, true, data["requires_checkout"])
	listing := data["listing"].(map[string]interface{})
	assert.Equal(t, "pending_payment", listing["status"])
}

func TestCreateListingHandler_EBikeGoesLive(t *testing.T) {
	app, h, _ := newTestApp(t)
	app.Post("/listings", sessionUser(uuid.New(), "seller@example.com", "private"), h.CreateListing)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Rad Power RadCity 5 Plus",
		"brand":    "Rad Power",
		"model":    "RadCity 5",
		"category": "e-bike",
		"price":    1100,
		"year":     2023,
		"images":   []string{"https://cdn.example.com/bike.jpg"},
		"location": "Austin, TX",
		"lat":      30.2672,
		"lng":      -97.7431,
		"attributes": map[string]interface{}{
			"motor_power_watts": 750,
		},
	})
	req := httptest.NewRequest("POST", "/listings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, false, data["requires_checkout"])
}

func TestBrowseHandler_EnvelopeAndMetadata(t *testing.T) {
	app, h, s := newTestApp(t)
	app.Get("/listings", h.Browse)
	for i := 0; i < 3; i++ {
		seedListing(t, s, nil)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/listings?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "success", out["status"])
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Len(t, data["vehicles"], 2)
	assert.Len(t, data["cards"], 2)
	meta := out["metadata"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(2), meta["limit"])
	assert.Equal(t, float64(2), meta["totalPages"])
}

func TestCategoryBrowseHandler(t *testing.T) {
	app, h, s := newTestApp(t)
	app.Get("/listings/category/:category", h.CategoryBrowse)
	seedListing(t, s, nil)
	seedListing(t, s, func(in *CreateListingInput) {
		in.Title = "Xiaomi Pro 2 scooter"
		in.Brand = "Xiaomi"
		in.Model = "Pro 2"
		in.Category = models.CategoryEVScooter
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/listings/category/ev-scooter?search=xiaomi+segway", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestGetByIDHandler_InvalidUUID(t *testing.T) {
	app, h, _ := newTestApp(t)
	app.Get("/listings/:listing_id", h.GetByID)

	resp, err := app.Test(httptest.NewRequest("GET", "/listings/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetByIDHandler_NotFound(t *testing.T) {
	app, h, _ := newTestApp(t)
	app.Get("/listings/:listing_id", h.GetByID)

	resp, err := app.Test(httptest.NewRequest("GET", "/listings/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMarkSoldHandler_OwnerFlow(t *testing.T) {
	app, h, s := newTestApp(t)
	sellerID := uuid.New()
	listing := seedListing(t, s, func(in *CreateListingInput) { in.SellerID = sellerID })
	app.Post("/listings/mark-sold", sessionUser(sellerID, "seller@example.com", "private"), h.MarkSold)

	body, _ := json.Marshal(map[string]string{"listing_id": listing.ListingID.String()})
	req := httptest.NewRequest("POST", "/listings/mark-sold", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Second call on the same listing: already sold.
	req = httptest.NewRequest("POST", "/listings/mark-sold", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestMarkSoldHandler_NonOwner(t *testing.T) {
	app, h, s := newTestApp(t)
	listing := seedListing(t, s, nil)
	app.Post("/listings/mark-sold", sessionUser(uuid.New(), "other@example.com", "private"), h.MarkSold)

	body, _ := json.Marshal(map[string]string{"listing_id": listing.ListingID.String()})
	req := httptest.NewRequest("POST", "/listings/mark-sold", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestListEventsHandler_OwnerOnly(t *testing.T) {
	app, h, s := newTestApp(t)
	sellerID := uuid.New()
	listing := seedListing(t, s, func(in *CreateListingInput) { in.SellerID = sellerID })

	owner := fiber.New()
	owner.Get("/listings/:listing_id/events", sessionUser(sellerID, "seller@example.com", "private"), h.ListEvents)
	resp, err := owner.Test(httptest.NewRequest("GET", "/listings/"+listing.ListingID.String()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	events := out["data"].(map[string]interface{})["events"].([]interface{})
	assert.Len(t, events, 1)

	app.Get("/listings/:listing_id/events", sessionUser(uuid.New(), "other@example.com", "private"), h.ListEvents)
	resp, err = app.Test(httptest.NewRequest("GET", "/listings/"+listing.ListingID.String()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

package drafts

import (
	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Store *Store
}

func owner(c *fiber.Ctx) string {
	if actor := middleware.GetActor(c); actor != nil {
		return actor.UserID.String()
	}
	return AnonymousOwner
}

// Get GET /api/v1/drafts/:purpose
func (h *Handlers) Get(c *fiber.Ctx) error {
	purpose := c.Params("purpose")
	if purpose == "" {
		return response.Error(c, "purpose is required", 400, nil)
	}
	payload, err := h.Store.Load(c.Context(), purpose, owner(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Draft fetched", fiber.Map{"draft": payload}, nil)
}

// Put PUT /api/v1/drafts/:purpose — body is the draft payload as-is.
func (h *Handlers) Put(c *fiber.Ctx) error {
	purpose := c.Params("purpose")
	if purpose == "" {
		return response.Error(c, "purpose is required", 400, nil)
	}
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return response.Error(c, "Invalid draft payload", 400, nil)
	}
	if err := h.Store.Save(c.Context(), purpose, owner(c), payload); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Draft saved", nil, nil)
}

// Delete DELETE /api/v1/drafts/:purpose
func (h *Handlers) Delete(c *fiber.Ctx) error {
	purpose := c.Params("purpose")
	if purpose == "" {
		return response.Error(c, "purpose is required", 400, nil)
	}
	if err := h.Store.Delete(c.Context(), purpose, owner(c)); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Draft cleared", nil, nil)
}

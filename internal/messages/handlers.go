package messages

import (
	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Send POST /api/v1/messages — requires a signed-in user with a resolvable
// email; rejected client-side state never reaches here, but the gate holds
// server-side too.
func (h *Handlers) Send(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "A signed-in account with a resolvable email is required")
	}

	var body struct {
		ListingID string `json:"listing_id"`
		Content   string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == "" {
		return response.Error(c, "listing_id and content are required", 400, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}

	msg, err := h.Service.Send(c.Context(), SendInput{
		ListingID:   listingID,
		SenderID:    actor.UserID,
		SenderEmail: actor.Email,
		Content:     body.Content,
	})
	if err != nil {
		statusMap := map[string]int{
			"listing_id is required":                400,
			"Message content is required":           400,
			"A resolvable sender email is required": 400,
			"Listing not found":                     404,
			"Cannot message your own listing":       403,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Message sent", msg, nil)
}

// SentState GET /api/v1/messages/sent-state — listing ids the signed-in user
// has messaged about; rehydrates clients after reload or device switch.
func (h *Handlers) SentState(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	ids, err := h.Service.SentState(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Sent state fetched", fiber.Map{"listing_ids": ids}, nil)
}

// Conversation GET /api/v1/messages/listing/:listing_id
func (h *Handlers) Conversation(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}
	msgs, err := h.Service.Conversation(c.Context(), listingID, actor.Email)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Conversation fetched", fiber.Map{"messages": msgs}, nil)
}

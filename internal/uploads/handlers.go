package uploads

import (
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *Service
}

type uploadRequest struct {
	FileName string `json:"file_name"`
}

// ListingImage POST /api/v1/uploads/listing-image
func (h *Handlers) ListingImage(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}

	res, err := h.Service.GetSignedUploadURL(c.Context(), "listing-images", req.FileName)
	if err != nil {
		return response.Error(c, "Failed to generate upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}

// ListingVideo POST /api/v1/uploads/listing-video
func (h *Handlers) ListingVideo(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}

	res, err := h.Service.GetSignedUploadURL(c.Context(), "listing-videos", req.FileName)
	if err != nil {
		return response.Error(c, "Failed to generate upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}

package blog

import (
	"github.com/gofiber/fiber/v2"

	"voltmarket-backend/internal/pkg/response"
)

type Handlers struct{}

func NewHandlers() *Handlers { return &Handlers{} }

// List returns all posts, optionally filtered by ?category=.
func (h *Handlers) List(c *fiber.Ctx) error {
	category := c.Query("category")
	items := ByCategory(category)
	return response.Success(c, "Posts retrieved successfully", fiber.Map{
		"posts": items,
	}, fiber.Map{
		"total":    len(items),
		"category": category,
	})
}

// Get returns a single post by slug.
func (h *Handlers) Get(c *fiber.Ctx) error {
	post := BySlug(c.Params("slug"))
	if post == nil {
		return response.Error(c, "Post not found", fiber.StatusNotFound, nil)
	}
	return response.Success(c, "Post retrieved successfully", fiber.Map{
		"post": post,
	}, nil)
}

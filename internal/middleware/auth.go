package middleware

import (
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not signed in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the signed-in user resolved from the session map.
type Actor struct {
	UserID     uuid.UUID
	Fullname   string
	Email      string
	SellerType string
}

// GetActor resolves the session user into a typed Actor. Returns nil when not
// signed in or when the session user has no resolvable id and email.
func GetActor(c *fiber.Ctx) *Actor {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	idStr, _ := m["user_id"].(string)
	email, _ := m["email"].(string)
	if idStr == "" || email == "" {
		return nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	fullname, _ := m["fullname"].(string)
	sellerType, _ := m["seller_type"].(string)
	return &Actor{UserID: id, Fullname: fullname, Email: email, SellerType: sellerType}
}

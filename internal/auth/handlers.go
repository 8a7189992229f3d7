package auth

import (
	"context"

	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service    *Service
	UserFinder UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
	SyncSecret string
}

type syncRequest struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Fullname   string `json:"fullname"`
	AvatarURL  string `json:"avatar_url"`
}

// Sync POST /api/v1/auth/sync — upserts the external identity, opens a
// session, returns the internal seller id. Called once on sign-in and again
// defensively at submit time when the cached id is missing.
func (h *Handlers) Sync(c *fiber.Ctx) error {
	if h.SyncSecret != "" && c.Get("x-sync-secret") != h.SyncSecret {
		return response.Error(c, "Forbidden", fiber.StatusForbidden, nil)
	}
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "external_id and email are required", fiber.StatusBadRequest, nil)
	}
	if req.ExternalID == "" || req.Email == "" {
		return response.Error(c, "external_id and email are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.SyncExternalUser(c.Context(), SyncInput{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Fullname:   req.Fullname,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		switch err.Error() {
		case "external_id is required", "A valid email is required":
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Msg("auth sync failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:     user.UserID.String(),
		Fullname:   user.Fullname,
		Email:      user.Email,
		SellerType: user.SellerType,
	})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Account synced", fiber.Map{
		"seller_id":   user.UserID.String(),
		"email":       user.Email,
		"seller_type": user.SellerType,
	}, nil)
}

// LoginRequest body for dealer portal login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login — dealer email/password login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrInvalidEmail, ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:     user.UserID.String(),
		Fullname:   user.Fullname,
		Email:      user.Email,
		SellerType: user.SellerType,
	})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":     user.UserID.String(),
			"fullname":    user.Fullname,
			"email":       user.Email,
			"seller_type": user.SellerType,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — returns the session user or 401.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Not logged in")
	}
	return response.Success(c, "Session user fetched", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — destroys the session and clears the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	actor := middleware.GetActor(c)

	if sessionID != "" {
		ctx := context.Background()
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
		if actor != nil {
			_ = h.Rdb.SRem(ctx, userSessionsPrefix+actor.UserID.String(), sessionID).Err()
		}
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out", nil, nil)
}

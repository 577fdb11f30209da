package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/dto"
	"github.com/godlywomen/community-api/internal/service"
)

// AuthHandler exposes account, profile and user stats endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	activity *service.ActivityService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, activity *service.ActivityService) *AuthHandler {
	return &AuthHandler{auth: authService, activity: activity}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, pair, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.NewTokenResponse(pair),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.NewTokenResponse(pair),
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.AuthResponse{
		User:   dto.NewUserResponse(user),
		Tokens: dto.NewTokenResponse(pair),
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// acknowledges; clients discard their tokens.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), identity.SubjectID); err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"logged_out": true})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.auth.GetUser(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateMe handles PATCH /auth/me.
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.UpdateProfile(c.UserContext(), identity.SubjectID, service.ProfileUpdate{
		Name:      req.Name,
		Bio:       req.Bio,
		Image:     req.Image,
		Location:  req.Location,
		Website:   req.Website,
		Facebook:  req.Facebook,
		Twitter:   req.Twitter,
		Instagram: req.Instagram,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// PublicProfile handles GET /auth/users/:id.
func (h *AuthHandler) PublicProfile(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewPublicUserResponse(user))
}

// Stats handles GET /auth/:userId/stats.
func (h *AuthHandler) Stats(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	stats, err := h.activity.Stats(c.UserContext(), c.Params("userId"), identity.SubjectID)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, stats)
}

// Activity handles GET /auth/:userId/activity.
func (h *AuthHandler) Activity(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.activity.Activity(c.UserContext(), c.Params("userId"), identity.SubjectID, c.QueryInt("limit", service.DefaultPageLimit))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewActivityResponse(items))
}

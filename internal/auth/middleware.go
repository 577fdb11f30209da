package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/godlywomen/community-api/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens on protected routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication. A rejected request never reaches the
// downstream handler.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	identity, err := m.tokens.Authorize(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return Rejection(err)
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// Optional lets anonymous requests through but still rejects bad credentials.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	return m.Handle(c)
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

// Rejection maps token authority errors to client-visible responses.
func Rejection(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return apperrors.NewUnauthorizedCode("MISSING_CREDENTIALS", "missing or malformed bearer credentials", err)
	case errors.Is(err, ErrExpiredToken):
		return apperrors.NewUnauthorizedCode("TOKEN_EXPIRED", "token expired", err)
	case errors.Is(err, ErrInvalidToken):
		return apperrors.NewUnauthorizedCode("INVALID_TOKEN", "invalid token", err)
	case errors.Is(err, ErrMalformedInput):
		return apperrors.NewDomainError("VALIDATION_FAILED", "identity fields required", http.StatusBadRequest, nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/dto"
	"github.com/godlywomen/community-api/internal/auth"
	"github.com/godlywomen/community-api/internal/service"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

// caller returns the authenticated identity or a 401.
func caller(c *fiber.Ctx) (*auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, auth.Rejection(auth.ErrMissingCredentials)
	}
	return identity, nil
}

// viewerID is the caller's id on routes where authentication is optional.
func viewerID(c *fiber.Ctx) string {
	if identity, ok := auth.IdentityFromContext(c); ok {
		return identity.SubjectID
	}
	return ""
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func pageRequest(c *fiber.Ctx) service.PageRequest {
	return service.PageRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", service.DefaultPageLimit),
	}.Normalize()
}

func pageMeta[T any](p service.Paged[T]) dto.PageMeta {
	return dto.PageMeta{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

func list[T any, R any](c *fiber.Ctx, p service.Paged[T], render func(*T) R) error {
	items := make([]R, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, render(&p.Items[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": pageMeta(p)})
}

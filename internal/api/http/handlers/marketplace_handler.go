package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/dto"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/service"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

// MarketplaceHandler manages marketplace listing endpoints.
type MarketplaceHandler struct {
	service *service.ListingService
}

// NewMarketplaceHandler constructs handler.
func NewMarketplaceHandler(listings *service.ListingService) *MarketplaceHandler {
	return &MarketplaceHandler{service: listings}
}

// List GET /marketplace.
func (h *MarketplaceHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), service.ListingQuery{
		Type:    domain.ListingType(strings.TrimSpace(c.Query("type"))),
		Search:  c.Query("search"),
		OwnerID: c.Query("owner"),
		Page:    pageRequest(c),
	})
	if err != nil {
		return err
	}
	return list(c, page, dto.NewListingResponse)
}

// Create POST /marketplace.
func (h *MarketplaceHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ListingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return invalidDate(req.Date)
	}
	listing, err := h.service.Create(c.UserContext(), identity.SubjectID, service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Type:        domain.ListingType(req.Type),
		Contact:     req.Contact,
		CountryCode: req.CountryCode,
		Image:       req.Image,
		Date:        date,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewListingResponse(listing))
}

// Get GET /marketplace/:id.
func (h *MarketplaceHandler) Get(c *fiber.Ctx) error {
	listing, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewListingResponse(listing))
}

// Update PATCH /marketplace/:id.
func (h *MarketplaceHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ListingUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update := service.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Contact:     req.Contact,
		CountryCode: req.CountryCode,
		Image:       req.Image,
	}
	if req.Type != nil {
		t := domain.ListingType(*req.Type)
		update.Type = &t
	}
	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date)
		if err != nil {
			return invalidDate(*req.Date)
		}
		update.Date = date
	}
	listing, err := h.service.Update(c.UserContext(), identity.SubjectID, c.Params("id"), update)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewListingResponse(listing))
}

// Delete DELETE /marketplace/:id.
func (h *MarketplaceHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), identity.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func invalidDate(raw string) error {
	return apperrors.NewValidationError("invalid date", map[string]any{"date": raw})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/dto"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/service"
)

// PrayersHandler manages prayer wall endpoints.
type PrayersHandler struct {
	service *service.PrayerService
}

// NewPrayersHandler constructs handler.
func NewPrayersHandler(prayers *service.PrayerService) *PrayersHandler {
	return &PrayersHandler{service: prayers}
}

// List GET /prayers.
func (h *PrayersHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), service.PrayerQuery{
		Type:   domain.PrayerType(c.Query("prayer_type")),
		Search: c.Query("search"),
		Page:   pageRequest(c),
	})
	if err != nil {
		return err
	}
	viewer := viewerID(c)
	return list(c, page, func(p *domain.Prayer) dto.PrayerResponse {
		return dto.NewPrayerResponse(p, viewer)
	})
}

// Create POST /prayers.
func (h *PrayersHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PrayerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	prayer, err := h.service.Create(c.UserContext(), identity.SubjectID, service.PrayerInput{
		Title:       req.Title,
		Content:     req.Content,
		Type:        domain.PrayerType(req.PrayerType),
		IsAnonymous: req.IsAnonymous,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewPrayerResponse(prayer, identity.SubjectID))
}

// Get GET /prayers/:id.
func (h *PrayersHandler) Get(c *fiber.Ctx) error {
	viewer := viewerID(c)
	detail, err := h.service.Get(c.UserContext(), c.Params("id"), viewer)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewPrayerDetailResponse(&detail.Prayer, viewer, detail.SupportCount, detail.ResponseCount))
}

// Update PATCH /prayers/:id.
func (h *PrayersHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PrayerUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update := service.PrayerUpdate{
		Title:       req.Title,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		IsPublic:    req.IsPublic,
	}
	if req.PrayerType != nil {
		t := domain.PrayerType(*req.PrayerType)
		update.Type = &t
	}
	prayer, err := h.service.Update(c.UserContext(), identity.SubjectID, c.Params("id"), update)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewPrayerResponse(prayer, identity.SubjectID))
}

// Delete DELETE /prayers/:id.
func (h *PrayersHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), identity.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Support POST /prayers/:id/support.
func (h *PrayersHandler) Support(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	supported, count, err := h.service.ToggleSupport(c.UserContext(), identity.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.ToggleResponse{Active: supported, Count: count})
}

// ListResponses GET /prayers/:id/responses.
func (h *PrayersHandler) ListResponses(c *fiber.Ctx) error {
	page, err := h.service.ListResponses(c.UserContext(), c.Params("id"), viewerID(c), pageRequest(c))
	if err != nil {
		return err
	}
	return list(c, page, dto.NewPrayerReplyResponse)
}

// AddResponse POST /prayers/:id/responses.
func (h *PrayersHandler) AddResponse(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PrayerResponseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	response, err := h.service.AddResponse(c.UserContext(), identity.SubjectID, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewPrayerReplyResponse(response))
}

// DeleteResponse DELETE /prayers/responses/:responseId.
func (h *PrayersHandler) DeleteResponse(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteResponse(c.UserContext(), identity.SubjectID, c.Params("responseId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

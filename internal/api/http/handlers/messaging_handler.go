package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/dto"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/service"
)

// MessagingHandler serves private conversations. Every route requires a caller.
type MessagingHandler struct {
	service *service.MessagingService
}

// NewMessagingHandler constructs handler.
func NewMessagingHandler(messaging *service.MessagingService) *MessagingHandler {
	return &MessagingHandler{service: messaging}
}

// ListConversations GET /messaging/conversations.
func (h *MessagingHandler) ListConversations(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListConversations(c.UserContext(), identity.SubjectID, pageRequest(c))
	if err != nil {
		return err
	}
	return list(c, page, func(s *service.ConversationSummary) dto.ConversationResponse {
		return dto.NewConversationResponse(&s.Conversation, s.UnreadCount)
	})
}

// StartConversation POST /messaging/conversations. Answers 201 for a new
// conversation and 200 when the pair already has one.
func (h *MessagingHandler) StartConversation(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ConversationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	conv, created, err := h.service.StartConversation(c.UserContext(), identity.SubjectID, req.ParticipantID)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return data(c, status, dto.NewConversationResponse(conv, 0))
}

// GetConversation GET /messaging/conversations/:id.
func (h *MessagingHandler) GetConversation(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	summary, err := h.service.GetConversation(c.UserContext(), identity.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewConversationResponse(&summary.Conversation, summary.UnreadCount))
}

// MarkRead POST /messaging/conversations/:id/mark_as_read.
func (h *MessagingHandler) MarkRead(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	marked, err := h.service.MarkRead(c.UserContext(), identity.SubjectID, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MarkReadResponse{Marked: marked})
}

// ListMessages GET /messaging/messages?conversation_id=.
func (h *MessagingHandler) ListMessages(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListMessages(c.UserContext(), identity.SubjectID, c.Query("conversation_id"), pageRequest(c))
	if err != nil {
		return err
	}
	return list(c, page, func(m *domain.Message) dto.MessageResponse {
		return dto.NewMessageResponse(m)
	})
}

// SendMessage POST /messaging/messages.
func (h *MessagingHandler) SendMessage(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.MessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	message, err := h.service.SendMessage(c.UserContext(), identity.SubjectID, req.ConversationID, req.Content)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewMessageResponse(message))
}

// DeleteMessage DELETE /messaging/messages/:id.
func (h *MessagingHandler) DeleteMessage(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteMessage(c.UserContext(), identity.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

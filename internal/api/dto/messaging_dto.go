package dto

import (
	"time"

	"github.com/godlywomen/community-api/internal/domain"
)

// ConversationRequest is the POST /messaging/conversations body.
type ConversationRequest struct {
	ParticipantID string `json:"participant_id"`
}

// MessageRequest is the POST /messaging/messages body.
type MessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// ConversationResponse renders a conversation for one of its participants.
type ConversationResponse struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participant_ids"`
	UnreadCount    int       `json:"unread_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageResponse renders a message.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// MarkReadResponse reports how many messages were flagged as read.
type MarkReadResponse struct {
	Marked int `json:"marked"`
}

// NewConversationResponse converts a domain conversation.
func NewConversationResponse(c *domain.Conversation, unread int) ConversationResponse {
	return ConversationResponse{
		ID:             c.ID,
		ParticipantIDs: []string{c.Participants[0], c.Participants[1]},
		UnreadCount:    unread,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewMessageResponse converts a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

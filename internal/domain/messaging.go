package domain

import "time"

// Conversation is a private thread between exactly two users. Participants
// are kept in ascending order so a pair maps to a single conversation.
type Conversation struct {
	ID           string
	Participants [2]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewParticipants orders a user pair the way conversations store it.
func NewParticipants(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.Participants[0] == userID || c.Participants[1] == userID)
}

// Message is a single entry in a conversation.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Content        string
	IsRead         bool
	CreatedAt      time.Time
}

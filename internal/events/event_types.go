package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventContentCreated  EventType = "content_created"
	EventContentUpdated  EventType = "content_updated"
	EventContentDeleted  EventType = "content_deleted"
	EventArticleViewed   EventType = "article_viewed"
	EventArticleLiked    EventType = "article_liked"
	EventPrayerSupported EventType = "prayer_supported"
)

// AllTypes lists every event type services publish.
var AllTypes = []EventType{
	EventUserRegistered,
	EventContentCreated,
	EventContentUpdated,
	EventContentDeleted,
	EventArticleViewed,
	EventArticleLiked,
	EventPrayerSupported,
}

// ResourceKind names the kind of record an event refers to.
type ResourceKind string

const (
	ResourceUser    ResourceKind = "user"
	ResourceListing ResourceKind = "listing"
	ResourceArticle ResourceKind = "article"
	ResourcePrayer  ResourceKind = "prayer"
)

// Event represents a domain event emitted by services. ActorID is the user
// whose stats the event may change.
type Event struct {
	ID           string       `json:"id"`
	Type         EventType    `json:"type"`
	ActorID      string       `json:"actor_id"`
	ResourceKind ResourceKind `json:"resource_kind"`
	ResourceID   string       `json:"resource_id"`
	Timestamp    time.Time    `json:"timestamp"`
	Payload      interface{}  `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, actorID string, kind ResourceKind, resourceID string) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		ActorID:      actorID,
		ResourceKind: kind,
		ResourceID:   resourceID,
		Timestamp:    time.Now().UTC(),
	}
}

// ToggledPayload describes the outcome of a like or support toggle.
type ToggledPayload struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

package dto

import (
	"time"

	"github.com/godlywomen/community-api/internal/domain"
)

// PrayerRequest is the POST /prayers body.
type PrayerRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	PrayerType  string `json:"prayer_type"`
	IsAnonymous bool   `json:"is_anonymous"`
	IsPublic    *bool  `json:"is_public"`
}

// PrayerUpdateRequest is the PATCH /prayers/:id body.
type PrayerUpdateRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	PrayerType  *string `json:"prayer_type"`
	IsAnonymous *bool   `json:"is_anonymous"`
	IsPublic    *bool   `json:"is_public"`
}

// PrayerResponseRequest is the POST /prayers/:id/responses body.
type PrayerResponseRequest struct {
	Content string `json:"content"`
}

// PrayerResponse renders a prayer. AuthorID is null for anonymous prayers
// unless the viewer wrote it.
type PrayerResponse struct {
	ID            string    `json:"id"`
	AuthorID      *string   `json:"author_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PrayerType    string    `json:"prayer_type"`
	IsAnonymous   bool      `json:"is_anonymous"`
	IsPublic      bool      `json:"is_public"`
	SupportCount  *int      `json:"support_count,omitempty"`
	ResponseCount *int      `json:"response_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PrayerReplyResponse renders a response posted under a prayer.
type PrayerReplyResponse struct {
	ID        string    `json:"id"`
	PrayerID  string    `json:"prayer_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPrayerResponse converts a domain prayer for viewerID.
func NewPrayerResponse(p *domain.Prayer, viewerID string) PrayerResponse {
	var author *string
	if !p.IsAnonymous || p.AuthorID == viewerID {
		id := p.AuthorID
		author = &id
	}
	return PrayerResponse{
		ID:          p.ID,
		AuthorID:    author,
		Title:       p.Title,
		Content:     p.Content,
		PrayerType:  string(p.Type),
		IsAnonymous: p.IsAnonymous,
		IsPublic:    p.IsPublic,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewPrayerDetailResponse includes the counters.
func NewPrayerDetailResponse(p *domain.Prayer, viewerID string, supporters, responses int) PrayerResponse {
	resp := NewPrayerResponse(p, viewerID)
	resp.SupportCount = &supporters
	resp.ResponseCount = &responses
	return resp
}

// NewPrayerReplyResponse converts a domain prayer response.
func NewPrayerReplyResponse(r *domain.PrayerResponse) PrayerReplyResponse {
	return PrayerReplyResponse{
		ID:        r.ID,
		PrayerID:  r.PrayerID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/godlywomen/community-api/internal/domain"
)

// ListingRequest is the POST /marketplace body. Date accepts RFC 3339 or
// YYYY-MM-DD.
type ListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Contact     string `json:"contact"`
	CountryCode string `json:"country_code"`
	Image       string `json:"image"`
	Date        string `json:"date"`
}

// ListingUpdateRequest is the PATCH /marketplace/:id body.
type ListingUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Currency    *string `json:"currency"`
	Type        *string `json:"type"`
	Contact     *string `json:"contact"`
	CountryCode *string `json:"country_code"`
	Image       *string `json:"image"`
	Date        *string `json:"date"`
}

// ListingResponse renders a listing.
type ListingResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Currency    string     `json:"currency"`
	Type        string     `json:"type"`
	Contact     string     `json:"contact"`
	CountryCode string     `json:"country_code"`
	Image       string     `json:"image"`
	Date        *time.Time `json:"date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewListingResponse converts a domain listing.
func NewListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Currency:    l.Currency,
		Type:        string(l.Type),
		Contact:     l.Contact,
		CountryCode: l.CountryCode,
		Image:       l.Image,
		Date:        l.Date,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ParseDate reads an RFC 3339 timestamp or a plain YYYY-MM-DD date.
func ParseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package dto

import (
	"time"

	"github.com/godlywomen/community-api/internal/auth"
	"github.com/godlywomen/community-api/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ProfileUpdateRequest is the PATCH /auth/me body. Omitted fields are unchanged.
type ProfileUpdateRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
	Facebook  *string `json:"facebook"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
}

// TokenResponse standard response for auth endpoints.
type TokenResponse struct {
	TokenType        string    `json:"token_type"`
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// UserResponse is the full profile, shown to its owner.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	Facebook  string    `json:"facebook"`
	Twitter   string    `json:"twitter"`
	Instagram string    `json:"instagram"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUserResponse is the profile shown to other users.
type PublicUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	Facebook  string    `json:"facebook"`
	Twitter   string    `json:"twitter"`
	Instagram string    `json:"instagram"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse bundles the user and their tokens.
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// ActivityItemResponse is one entry of the activity feed.
type ActivityItemResponse struct {
	Type       string    `json:"type"`
	ResourceID string    `json:"resource_id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTokenResponse renders a token pair.
func NewTokenResponse(pair auth.TokenPair) TokenResponse {
	return TokenResponse{
		TokenType:        "Bearer",
		AccessToken:      pair.AccessToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

// NewUserResponse renders the owner's view of a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		Image:     u.Image,
		Location:  u.Location,
		Website:   u.Website,
		Facebook:  u.Facebook,
		Twitter:   u.Twitter,
		Instagram: u.Instagram,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewPublicUserResponse renders the public view of a user.
func NewPublicUserResponse(u *domain.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Bio:       u.Bio,
		Image:     u.Image,
		Location:  u.Location,
		Website:   u.Website,
		Facebook:  u.Facebook,
		Twitter:   u.Twitter,
		Instagram: u.Instagram,
		CreatedAt: u.CreatedAt,
	}
}

// NewActivityResponse renders the activity feed.
func NewActivityResponse(items []domain.ActivityItem) []ActivityItemResponse {
	out := make([]ActivityItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ActivityItemResponse{
			Type:       string(item.Kind),
			ResourceID: item.ResourceID,
			Title:      item.Title,
			CreatedAt:  item.CreatedAt,
		})
	}
	return out
}

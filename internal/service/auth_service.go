package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/auth"
	"github.com/godlywomen/community-api/internal/config"
	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/events"
	"github.com/godlywomen/community-api/internal/repository"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	minPwLen   int
	events     publisher
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate carries optional profile changes. Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	Bio       *string
	Image     *string
	Location  *string
	Website   *string
	Facebook  *string
	Twitter   *string
	Instagram *string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	minPwLen := cfg.MinPasswordLength
	if minPwLen <= 0 {
		minPwLen = 6
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: cfg.BcryptCost,
		minPwLen:   minPwLen,
		events:     newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// TokenManager exposes the token authority used by this service.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a new account and signs the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, auth.TokenPair, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if !emailPattern.MatchString(email) {
		details["email"] = "invalid email address"
	}
	if len(input.Password) < s.minPwLen {
		details["password"] = "must be at least " + strconv.Itoa(s.minPwLen) + " characters"
	}
	if len(details) > 0 {
		return nil, auth.TokenPair{}, apperrors.NewValidationError("invalid registration", details)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, auth.TokenPair{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, auth.TokenPair{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, auth.TokenPair{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	s.events.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, events.ResourceUser, user.ID))
	return user, pair, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, auth.TokenPair{}, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, auth.TokenPair{}, invalidCredentials()
	}
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, auth.TokenPair{}, invalidCredentials()
		}
		return nil, auth.TokenPair{}, err
	}
	if !user.IsActive {
		return nil, auth.TokenPair{}, apperrors.NewForbidden("account disabled")
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user must
// still exist and be active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, auth.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, auth.TokenPair{}, auth.Rejection(auth.ErrMissingCredentials)
	}
	identity, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, auth.TokenPair{}, auth.Rejection(err)
	}

	user, err := s.users.GetByID(ctx, identity.SubjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, auth.TokenPair{}, auth.Rejection(auth.ErrInvalidToken)
	}
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if !user.IsActive {
		return nil, auth.TokenPair{}, apperrors.NewForbidden("account disabled")
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of update to the user's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", map[string]any{"name": "required"})
		}
		user.Name = name
	}
	setString(&user.Bio, update.Bio)
	setString(&user.Image, update.Image)
	setString(&user.Location, update.Location)
	setString(&user.Website, update.Website)
	setString(&user.Facebook, update.Facebook)
	setString(&user.Twitter, update.Twitter)
	setString(&user.Instagram, update.Instagram)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

func invalidCredentials() error {
	return apperrors.NewUnauthorizedCode("INVALID_CREDENTIALS", "invalid email or password", nil)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

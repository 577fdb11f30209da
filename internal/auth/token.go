package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenKind selects the validity window of an issued token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrMissingCredentials means no usable bearer credentials were presented.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidToken covers malformed tokens, bad signatures and wrong token kinds.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken means the token was well formed and signed but is past expires_at.
	ErrExpiredToken = errors.New("token expired")
	// ErrMalformedInput is returned when issuing without a subject or email.
	ErrMalformedInput = errors.New("malformed identity input")
)

// Identity is the verified claim set extracted from a token.
type Identity struct {
	SubjectID string
	Email     string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims describes JWT payload.
type Claims struct {
	Email string    `json:"email"`
	Kind  TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is what login, registration and refresh hand back to clients.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenManager issues and validates HS256 tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customises a TokenManager.
type Option func(*TokenManager)

// WithClock overrides the time source used for issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// WithTTLs overrides the access and refresh validity windows.
func WithTTLs(access, refresh time.Duration) Option {
	return func(tm *TokenManager) {
		if access > 0 {
			tm.accessTTL = access
		}
		if refresh > 0 {
			tm.refreshTTL = refresh
		}
	}
}

// NewTokenManager builds a new manager around the process signing secret.
func NewTokenManager(secret string, opts ...Option) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret must not be empty")
	}
	tm := &TokenManager{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Issue signs a token of the given kind for the subject.
func (tm *TokenManager) Issue(subjectID, email string, kind TokenKind) (string, time.Time, error) {
	if strings.TrimSpace(subjectID) == "" || strings.TrimSpace(email) == "" {
		return "", time.Time{}, ErrMalformedInput
	}
	ttl, err := tm.window(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	// Claims carry whole seconds. Expiry rounds up so a token never
	// lapses before now + ttl.
	now := tm.now()
	expires := now.Add(ttl)
	if whole := expires.Truncate(time.Second); !whole.Equal(expires) {
		expires = whole.Add(time.Second)
	}
	claims := &Claims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now.Truncate(time.Second)),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// IssuePair issues an access and a refresh token for the same identity.
func (tm *TokenManager) IssuePair(subjectID, email string) (TokenPair, error) {
	access, accessExp, err := tm.Issue(subjectID, email, TokenKindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := tm.Issue(subjectID, email, TokenKindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Validate checks structure, signature and expiry and returns the embedded identity.
// A token is accepted while now <= expires_at.
func (tm *TokenManager) Validate(tokenStr string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, tm.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
		jwt.WithLeeway(time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.Email == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	// jwt rejects at exp itself; the leeway above defers that to this check.
	if tm.now().After(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}
	if _, err := tm.window(claims.Kind); err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Kind:      claims.Kind,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ValidateRefresh validates a token and requires it to be a refresh token.
func (tm *TokenManager) ValidateRefresh(tokenStr string) (*Identity, error) {
	return tm.validateKind(tokenStr, TokenKindRefresh)
}

func (tm *TokenManager) validateKind(tokenStr string, kind TokenKind) (*Identity, error) {
	identity, err := tm.Validate(tokenStr)
	if err != nil {
		return nil, err
	}
	if identity.Kind != kind {
		return nil, ErrInvalidToken
	}
	return identity, nil
}

func (tm *TokenManager) key(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return tm.secret, nil
}

func (tm *TokenManager) window(kind TokenKind) (time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return tm.accessTTL, nil
	case TokenKindRefresh:
		return tm.refreshTTL, nil
	default:
		return 0, fmt.Errorf("%w: unknown token kind %q", ErrMalformedInput, kind)
	}
}

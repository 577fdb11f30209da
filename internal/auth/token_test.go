package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret", WithClock(clock.Now))
	require.NoError(t, err)
	return tm
}

func TestNewTokenManagerRejectsEmptySecret(t *testing.T) {
	_, err := NewTokenManager("")
	require.Error(t, err)
}

func TestIssueThenValidate(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	token, exp, err := tm.Issue("user_42", "a@b.com", TokenKindAccess)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.True(t, exp.Equal(clock.Now().Add(24*time.Hour)))

	identity, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user_42", identity.SubjectID)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Equal(t, TokenKindAccess, identity.Kind)
	assert.True(t, identity.IssuedAt.Equal(clock.Now()))
	assert.True(t, identity.ExpiresAt.Equal(exp))
}

func TestIssueIsDeterministicForSameInstant(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	first, _, err := tm.Issue("user_1", "u@example.com", TokenKindAccess)
	require.NoError(t, err)
	second, _, err := tm.Issue("user_1", "u@example.com", TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIssueRejectsMalformedInput(t *testing.T) {
	tm := newTestManager(t, newFakeClock())

	cases := []struct {
		name      string
		subjectID string
		email     string
		kind      TokenKind
	}{
		{name: "empty subject", subjectID: "", email: "a@b.com", kind: TokenKindAccess},
		{name: "blank email", subjectID: "user_1", email: "  ", kind: TokenKindAccess},
		{name: "unknown kind", subjectID: "user_1", email: "a@b.com", kind: TokenKind("session")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tm.Issue(tc.subjectID, tc.email, tc.kind)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestAccessTokenExpiresAfterWindow(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	token, _, err := tm.Issue("user_42", "a@b.com", TokenKindAccess)
	require.NoError(t, err)

	clock.Advance(24*time.Hour - time.Second)
	_, err = tm.Validate(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExpiryBoundaryWithSubSecondClock(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 900_000_000, time.UTC)
	clock := &fakeClock{now: issuedAt}
	tm := newTestManager(t, clock)

	token, exp, err := tm.Issue("user_42", "a@b.com", TokenKindAccess)
	require.NoError(t, err)
	assert.False(t, exp.Before(issuedAt.Add(24*time.Hour)), "expiry %s precedes issue + 24h", exp)

	identity, err := tm.Validate(token)
	require.NoError(t, err)
	assert.True(t, identity.ExpiresAt.Equal(exp))

	clock.Advance(24*time.Hour - 500*time.Millisecond)
	_, err = tm.Validate(token)
	require.NoError(t, err)

	clock.Set(exp)
	_, err = tm.Validate(token)
	require.NoError(t, err, "token must be accepted at expires_at")

	clock.Set(exp.Add(time.Nanosecond))
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshTokenWindow(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	token, exp, err := tm.Issue("user_42", "a@b.com", TokenKindRefresh)
	require.NoError(t, err)
	assert.True(t, exp.Equal(clock.Now().Add(7*24*time.Hour)))

	clock.Advance(48 * time.Hour)
	identity, err := tm.ValidateRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, TokenKindRefresh, identity.Kind)

	clock.Advance(6 * 24 * time.Hour)
	_, err = tm.ValidateRefresh(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	tm := newTestManager(t, newFakeClock())
	token, _, err := tm.Issue("user_1", "a@b.com", TokenKindAccess)
	require.NoError(t, err)

	_, err = tm.ValidateRefresh(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAlteredSignatureIsRejected(t *testing.T) {
	tm := newTestManager(t, newFakeClock())
	token, _, err := tm.Issue("user_42", "a@b.com", TokenKindAccess)
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := tm.Validate(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken, "position %d", i)
	}
}

func TestValidateRejectsForeignSecretAndGarbage(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)
	other, err := NewTokenManager("another-secret", WithClock(clock.Now))
	require.NoError(t, err)

	foreign, _, err := other.Issue("user_1", "a@b.com", TokenKindAccess)
	require.NoError(t, err)

	for _, token := range []string{foreign, "", "not-a-token", "a.b.c", "a.b"} {
		_, err := tm.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	claims := &Claims{
		Email: "a@b.com",
		Kind:  TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			IssuedAt:  jwt.NewNumericDate(clock.Now()),
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, token := range []string{hs512, none} {
		_, err := tm.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestValidateRequiresExpiry(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	claims := &Claims{
		Email: "a@b.com",
		Kind:  TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "user_1",
			IssuedAt: jwt.NewNumericDate(clock.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuePair(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	pair, err := tm.IssuePair("user_7", "seven@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.AccessExpiresAt.Before(pair.RefreshExpiresAt))

	access, err := tm.Authorize("Bearer " + pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user_7", access.SubjectID)

	refresh, err := tm.ValidateRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "seven@example.com", refresh.Email)
}

func TestConcurrentIssueAndValidate(t *testing.T) {
	tm := newTestManager(t, newFakeClock())

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _, err := tm.Issue("user_c", "c@example.com", TokenKindAccess)
			if err != nil {
				errs <- err
				return
			}
			if _, err := tm.Validate(token); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

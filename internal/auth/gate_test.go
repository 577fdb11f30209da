package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "absent", header: "", wantErr: ErrMissingCredentials},
		{name: "basic scheme", header: "Basic abc123", wantErr: ErrMissingCredentials},
		{name: "lowercase scheme", header: "bearer abc123", wantErr: ErrMissingCredentials},
		{name: "no separator", header: "Bearerabc123", wantErr: ErrMissingCredentials},
		{name: "empty token", header: "Bearer ", wantErr: ErrMissingCredentials},
		{name: "whitespace token", header: "Bearer    ", wantErr: ErrMissingCredentials},
		{name: "well formed", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BearerToken(tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAuthorizeScenario(t *testing.T) {
	clock := newFakeClock()
	tm := newTestManager(t, clock)

	token, _, err := tm.Issue("user_42", "a@b.com", TokenKindAccess)
	require.NoError(t, err)

	identity, err := tm.Authorize("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user_42", identity.SubjectID)
	assert.Equal(t, "a@b.com", identity.Email)

	clock.Advance(24*time.Hour + time.Second)
	_, err = tm.Authorize("Bearer " + token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthorizeRejections(t *testing.T) {
	tm := newTestManager(t, newFakeClock())
	refresh, _, err := tm.Issue("user_1", "a@b.com", TokenKindRefresh)
	require.NoError(t, err)

	_, err = tm.Authorize("")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = tm.Authorize("Basic abc123")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = tm.Authorize("Bearer garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Authorize("Bearer " + refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godlywomen/community-api/internal/domain"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDate("2024-06-01T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 18, got.Hour())

	got, err = ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("June first")
	assert.Error(t, err)
}

func TestPrayerResponseHidesAnonymousAuthor(t *testing.T) {
	p := &domain.Prayer{ID: "p1", AuthorID: "u1", IsAnonymous: true}

	assert.Nil(t, NewPrayerResponse(p, "u2").AuthorID)
	require.NotNil(t, NewPrayerResponse(p, "u1").AuthorID)

	p.IsAnonymous = false
	resp := NewPrayerDetailResponse(p, "", 3, 4)
	require.NotNil(t, resp.AuthorID)
	assert.Equal(t, "u1", *resp.AuthorID)
	assert.Equal(t, 3, *resp.SupportCount)
	assert.Equal(t, 4, *resp.ResponseCount)
}

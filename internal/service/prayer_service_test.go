package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godlywomen/community-api/internal/domain"
)

func TestPrayerDefaultsAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Author", "author@example.com")

	public, err := f.prayers.Create(ctx, author.ID, PrayerInput{Title: "Healing", Content: "For my mother"})
	require.NoError(t, err)
	assert.Equal(t, domain.PrayerTypeRequest, public.Type)
	assert.True(t, public.IsPublic)

	hidden := false
	private, err := f.prayers.Create(ctx, author.ID, PrayerInput{Title: "Private", Content: "Quiet", IsPublic: &hidden})
	require.NoError(t, err)

	list, err := f.prayers.List(ctx, PrayerQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, public.ID, list.Items[0].ID)

	_, err = f.prayers.Get(ctx, private.ID, "stranger")
	requireCode(t, err, "NOT_FOUND")
	detail, err := f.prayers.Get(ctx, private.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", detail.Prayer.Title)

	_, err = f.prayers.Create(ctx, author.ID, PrayerInput{Title: "x", Content: "y", Type: "lament"})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestPrayerSupportAndResponses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Author", "author@example.com")
	prayer, err := f.prayers.Create(ctx, author.ID, PrayerInput{Title: "Exams", Content: "Pray for me", Type: domain.PrayerTypeRequest})
	require.NoError(t, err)

	supported, count, err := f.prayers.ToggleSupport(ctx, "u2", prayer.ID)
	require.NoError(t, err)
	assert.True(t, supported)
	assert.Equal(t, 1, count)

	response, err := f.prayers.AddResponse(ctx, "u2", prayer.ID, "Praying with you")
	require.NoError(t, err)
	_, err = f.prayers.AddResponse(ctx, "u2", prayer.ID, "")
	requireCode(t, err, "VALIDATION_FAILED")

	detail, err := f.prayers.Get(ctx, prayer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.SupportCount)
	assert.Equal(t, 1, detail.ResponseCount)

	page, err := f.prayers.ListResponses(ctx, prayer.ID, "", PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	requireCode(t, f.prayers.DeleteResponse(ctx, author.ID, response.ID), "FORBIDDEN")
	require.NoError(t, f.prayers.DeleteResponse(ctx, "u2", response.ID))
	requireCode(t, f.prayers.DeleteResponse(ctx, "u2", response.ID), "NOT_FOUND")
}

func TestPrayerUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Author", "author@example.com")
	prayer, err := f.prayers.Create(ctx, author.ID, PrayerInput{Title: "Job", Content: "Interview"})
	require.NoError(t, err)

	praise := domain.PrayerTypePraise
	anon := true
	updated, err := f.prayers.Update(ctx, author.ID, prayer.ID, PrayerUpdate{Type: &praise, IsAnonymous: &anon})
	require.NoError(t, err)
	assert.Equal(t, domain.PrayerTypePraise, updated.Type)
	assert.True(t, updated.IsAnonymous)

	_, err = f.prayers.Update(ctx, "u2", prayer.ID, PrayerUpdate{Type: &praise})
	requireCode(t, err, "FORBIDDEN")

	_, err = f.prayers.AddResponse(ctx, "u2", prayer.ID, "Congrats")
	require.NoError(t, err)
	require.NoError(t, f.prayers.Delete(ctx, author.ID, prayer.ID))

	n, err := f.store.PrayerResponses().CountByPrayer(ctx, prayer.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = f.prayers.Get(ctx, prayer.ID, author.ID)
	requireCode(t, err, "NOT_FOUND")
}

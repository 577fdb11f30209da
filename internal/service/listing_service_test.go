package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/events"
)

func TestListingDefaultsAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Owner", "owner@example.com")
	other := f.register(t, "Other", "other@example.com")

	listing, err := f.listings.Create(ctx, owner.ID, ListingInput{Title: "Handmade bags", Price: "1500"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultListingCurrency, listing.Currency)
	assert.Equal(t, domain.ListingTypeProduct, listing.Type)
	assert.Contains(t, f.recorder.types(), events.EventContentCreated)

	title := "Stolen"
	_, err = f.listings.Update(ctx, other.ID, listing.ID, ListingUpdate{Title: &title})
	requireCode(t, err, "FORBIDDEN")
	requireCode(t, f.listings.Delete(ctx, other.ID, listing.ID), "FORBIDDEN")

	service := domain.ListingTypeService
	updated, err := f.listings.Update(ctx, owner.ID, listing.ID, ListingUpdate{Type: &service})
	require.NoError(t, err)
	assert.Equal(t, domain.ListingTypeService, updated.Type)
	assert.Equal(t, "Handmade bags", updated.Title)

	require.NoError(t, f.listings.Delete(ctx, owner.ID, listing.ID))
	_, err = f.listings.Get(ctx, listing.ID)
	requireCode(t, err, "NOT_FOUND")
	requireCode(t, f.listings.Delete(ctx, owner.ID, listing.ID), "NOT_FOUND")
}

func TestListingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.listings.Create(ctx, "u1", ListingInput{Title: "  "})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = f.listings.Create(ctx, "u1", ListingInput{Title: "Car", Type: "Vehicle"})
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = f.listings.List(ctx, ListingQuery{Type: "Vehicle"})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestListingListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		_, err := f.listings.Create(ctx, "u1", ListingInput{Title: title})
		require.NoError(t, err)
	}

	page, err := f.listings.List(ctx, ListingQuery{Page: PageRequest{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Three", page.Items[0].Title)
	assert.Equal(t, "Two", page.Items[1].Title)
}

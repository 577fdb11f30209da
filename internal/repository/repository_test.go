package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/godlywomen/community-api/internal/domain"
)

func TestListingWhereBuildsPositionalArgs(t *testing.T) {
	where := listingWhere(ListingFilter{
		Type:    domain.ListingTypeService,
		OwnerID: "owner-1",
		Search:  "  Cakes ",
	})

	assert.Equal(t,
		"1=1 AND type=$1 AND owner_id=$2 AND (LOWER(title) LIKE $3 OR LOWER(description) LIKE $3)",
		where.String())
	assert.Equal(t, []any{domain.ListingTypeService, "owner-1", "%cakes%"}, where.args)
}

func TestPrayerWherePublicOnly(t *testing.T) {
	where := prayerWhere(PrayerFilter{PublicOnly: true, Type: domain.PrayerTypePraise})
	assert.Equal(t, "1=1 AND is_public=$1 AND prayer_type=$2", where.String())
	assert.Len(t, where.args, 2)
}

func TestPrayerWhereNamedOnly(t *testing.T) {
	where := prayerWhere(PrayerFilter{PublicOnly: true, NamedOnly: true, AuthorID: "u1"})
	assert.Equal(t, "1=1 AND is_public=$1 AND is_anonymous=$2 AND author_id=$3", where.String())
	assert.Equal(t, []any{true, false, "u1"}, where.args)
}

func TestArticleWhereEmptyFilter(t *testing.T) {
	where := articleWhere(ArticleFilter{})
	assert.Equal(t, "1=1", where.String())
	assert.Empty(t, where.args)
}

func TestPageDefaults(t *testing.T) {
	limit, offset := page(0, -5)
	assert.Equal(t, defaultListLimit, limit)
	assert.Equal(t, 0, offset)

	limit, offset = page(50, 100)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 100, offset)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}), ErrDuplicate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503", ConstraintName: "messages_conversation_id_fkey"}), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

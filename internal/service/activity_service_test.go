package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/cache"
	"github.com/godlywomen/community-api/internal/domain"
)

type mapStatsCache struct {
	entries map[string]domain.UserStats
	getErr  error
	sets    int
}

func (c *mapStatsCache) Get(_ context.Context, userID string, scope cache.Scope) (*domain.UserStats, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	stats, ok := c.entries[cache.StatsKey(userID, scope)]
	if !ok {
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *mapStatsCache) Set(_ context.Context, userID string, scope cache.Scope, stats domain.UserStats) error {
	c.sets++
	c.entries[cache.StatsKey(userID, scope)] = stats
	return nil
}

func (c *mapStatsCache) Invalidate(_ context.Context, userID string) error {
	for _, scope := range cache.Scopes {
		delete(c.entries, cache.StatsKey(userID, scope))
	}
	return nil
}

func TestStatsCountsFootprint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ann", "ann@example.com")
	other := f.register(t, "Bea", "bea@example.com")

	theirs, err := f.articles.Create(ctx, other.ID, ArticleInput{Title: "Theirs", Content: "x", Status: domain.ArticleStatusPublished})
	require.NoError(t, err)
	_, err = f.articles.Read(ctx, theirs.ID, user.ID)
	require.NoError(t, err)
	_, err = f.articles.Read(ctx, theirs.ID, user.ID)
	require.NoError(t, err)

	_, err = f.articles.Create(ctx, user.ID, ArticleInput{Title: "Mine", Content: "x"})
	require.NoError(t, err)
	_, err = f.prayers.Create(ctx, user.ID, PrayerInput{Title: "P", Content: "x"})
	require.NoError(t, err)
	_, err = f.listings.Create(ctx, user.ID, ListingInput{Title: "L1"})
	require.NoError(t, err)
	_, err = f.listings.Create(ctx, user.ID, ListingInput{Title: "L2"})
	require.NoError(t, err)

	f.clock.Advance(72 * time.Hour)
	stats, err := f.activity.Stats(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ArticlesRead)
	assert.Equal(t, 1, stats.ArticlesWritten)
	assert.Equal(t, 1, stats.PrayersPosted)
	assert.Equal(t, 2, stats.ListingsPosted)
	assert.Equal(t, 4, stats.DaysActive)

	_, err = f.activity.Stats(ctx, "missing", user.ID)
	requireCode(t, err, "NOT_FOUND")
}

func TestStatsUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ann", "ann@example.com")

	c := &mapStatsCache{entries: map[string]domain.UserStats{}}
	svc := NewActivityService(ActivityDependencies{
		UserRepo:    f.store.Users(),
		ArticleRepo: f.store.Articles(),
		PrayerRepo:  f.store.Prayers(),
		ListingRepo: f.store.Listings(),
		StatsCache:  c,
		Logger:      zap.NewNop(),
	})

	first, err := svc.Stats(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)

	_, err = f.listings.Create(ctx, user.ID, ListingInput{Title: "New"})
	require.NoError(t, err)

	cached, err := svc.Stats(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ListingsPosted, cached.ListingsPosted)
	assert.Equal(t, 1, c.sets)

	require.NoError(t, c.Invalidate(ctx, user.ID))
	fresh, err := svc.Stats(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.ListingsPosted)

	c.getErr = errors.New("redis down")
	_, err = svc.Stats(ctx, user.ID, user.ID)
	assert.NoError(t, err)
}

func TestStatsHideNonPublicCountsFromOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ann", "ann@example.com")
	viewer := f.register(t, "Bea", "bea@example.com")

	_, err := f.articles.Create(ctx, user.ID, ArticleInput{Title: "Published", Content: "x", Status: domain.ArticleStatusPublished})
	require.NoError(t, err)
	draft, err := f.articles.Create(ctx, user.ID, ArticleInput{Title: "Draft", Content: "x"})
	require.NoError(t, err)
	_, err = f.prayers.Create(ctx, user.ID, PrayerInput{Title: "Open", Content: "x"})
	require.NoError(t, err)
	_, err = f.prayers.Create(ctx, user.ID, PrayerInput{Title: "Unnamed", Content: "x", IsAnonymous: true})
	require.NoError(t, err)
	private := false
	_, err = f.prayers.Create(ctx, user.ID, PrayerInput{Title: "Hidden", Content: "x", IsPublic: &private})
	require.NoError(t, err)

	c := &mapStatsCache{entries: map[string]domain.UserStats{}}
	svc := NewActivityService(ActivityDependencies{
		UserRepo:    f.store.Users(),
		ArticleRepo: f.store.Articles(),
		PrayerRepo:  f.store.Prayers(),
		ListingRepo: f.store.Listings(),
		StatsCache:  c,
	})

	own, err := svc.Stats(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, own.ArticlesWritten)
	assert.Equal(t, 3, own.PrayersPosted)

	public, err := svc.Stats(ctx, user.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, public.ArticlesWritten)
	assert.Equal(t, 1, public.PrayersPosted)
	assert.Equal(t, 2, c.sets, "each scope is cached separately")

	published := domain.ArticleStatusPublished
	_, err = f.articles.Update(ctx, user.ID, draft.ID, ArticleUpdate{Status: &published})
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, user.ID))
	public, err = svc.Stats(ctx, user.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, public.ArticlesWritten)
}

func TestActivityMergesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ann", "ann@example.com")

	_, err := f.listings.Create(ctx, user.ID, ListingInput{Title: "oldest"})
	require.NoError(t, err)
	_, err = f.articles.Create(ctx, user.ID, ArticleInput{Title: "draft", Content: "x"})
	require.NoError(t, err)
	_, err = f.prayers.Create(ctx, user.ID, PrayerInput{Title: "anonymous", Content: "x", IsAnonymous: true})
	require.NoError(t, err)
	_, err = f.articles.Create(ctx, user.ID, ArticleInput{Title: "newest", Content: "x", Status: domain.ArticleStatusPublished})
	require.NoError(t, err)

	own, err := f.activity.Activity(ctx, user.ID, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, own, 4)
	assert.Equal(t, "newest", own[0].Title)
	assert.Equal(t, domain.ActivityPrayer, own[1].Kind)
	assert.Equal(t, "oldest", own[3].Title)

	public, err := f.activity.Activity(ctx, user.ID, "someone-else", 0)
	require.NoError(t, err)
	titles := make([]string, 0, len(public))
	for _, item := range public {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"newest", "oldest"}, titles)

	limited, err := f.activity.Activity(ctx, user.ID, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDaysActive(t *testing.T) {
	joined := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, daysActive(joined, joined))
	assert.Equal(t, 1, daysActive(joined, joined.Add(-time.Hour)))
	assert.Equal(t, 2, daysActive(joined, joined.Add(24*time.Hour)))
	assert.Equal(t, 1, daysActive(time.Time{}, joined))
}

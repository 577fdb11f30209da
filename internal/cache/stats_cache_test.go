package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godlywomen/community-api/internal/domain"
)

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "community:stats:user-1:owner", StatsKey("user-1", ScopeOwner))
	assert.Equal(t, "community:stats:user-1:public", StatsKey("user-1", ScopePublic))
}

func TestDecodeStats(t *testing.T) {
	stats, err := decodeStats([]byte(`{"articlesRead":3,"articlesWritten":1,"prayersPosted":2,"listingsPosted":0,"daysActive":5,"computedAt":"2024-05-01T10:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ArticlesRead)
	assert.Equal(t, 5, stats.DaysActive)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), stats.ComputedAt)

	_, err = decodeStats([]byte("not json"))
	assert.Error(t, err)
}

func TestNoopStatsCache(t *testing.T) {
	var c StatsCache = NoopStatsCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", ScopeOwner, domain.UserStats{ArticlesRead: 1}))
	stats, ok, err := c.Get(ctx, "u1", ScopeOwner)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, stats)
	assert.NoError(t, c.Invalidate(ctx, "u1"))
}

func TestRedisStatsCacheSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisStatsCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "u1", ScopePublic)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "u1", ScopePublic, domain.UserStats{}))
	assert.Error(t, c.Invalidate(ctx, "u1"))
}

// Package cache keeps computed per-user stats in Redis so repeated profile
// views do not rerun the aggregate queries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/godlywomen/community-api/internal/domain"
)

const statsKeyPrefix = "community:stats:"

// Scope selects which variant of a user's stats is cached. Owners see
// counts that include drafts and private or anonymous prayers.
type Scope string

const (
	ScopeOwner  Scope = "owner"
	ScopePublic Scope = "public"
)

// Scopes lists every scope an invalidation must clear.
var Scopes = []Scope{ScopeOwner, ScopePublic}

// StatsCache stores computed user stats.
type StatsCache interface {
	Get(ctx context.Context, userID string, scope Scope) (*domain.UserStats, bool, error)
	Set(ctx context.Context, userID string, scope Scope, stats domain.UserStats) error
	Invalidate(ctx context.Context, userID string) error
}

// RedisStatsCache is a StatsCache backed by go-redis.
type RedisStatsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStatsCache returns a cache writing entries that expire after ttl.
// A zero ttl keeps entries until they are invalidated.
func NewRedisStatsCache(client redis.Cmdable, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats and whether they were present.
func (c *RedisStatsCache) Get(ctx context.Context, userID string, scope Scope) (*domain.UserStats, bool, error) {
	raw, err := c.client.Get(ctx, StatsKey(userID, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get stats: %w", err)
	}
	stats, err := decodeStats(raw)
	if err != nil {
		return nil, false, err
	}
	return stats, true, nil
}

// Set stores stats for the user under the given scope.
func (c *RedisStatsCache) Set(ctx context.Context, userID string, scope Scope, stats domain.UserStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, StatsKey(userID, scope), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set stats: %w", err)
	}
	return nil
}

// Invalidate drops every cached scope for the user.
func (c *RedisStatsCache) Invalidate(ctx context.Context, userID string) error {
	keys := make([]string, 0, len(Scopes))
	for _, scope := range Scopes {
		keys = append(keys, StatsKey(userID, scope))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate stats: %w", err)
	}
	return nil
}

// StatsKey is the Redis key holding one scope of a user's stats.
func StatsKey(userID string, scope Scope) string {
	return statsKeyPrefix + userID + ":" + string(scope)
}

func decodeStats(raw []byte) (*domain.UserStats, error) {
	var stats domain.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}

// NoopStatsCache never stores anything. Used when caching is disabled.
type NoopStatsCache struct{}

// Get always misses.
func (NoopStatsCache) Get(context.Context, string, Scope) (*domain.UserStats, bool, error) {
	return nil, false, nil
}

// Set discards stats.
func (NoopStatsCache) Set(context.Context, string, Scope, domain.UserStats) error { return nil }

// Invalidate is a no-op.
func (NoopStatsCache) Invalidate(context.Context, string) error { return nil }

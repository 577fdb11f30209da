package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_HOURS", "")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL())
	assert.Empty(t, cfg.Postgres.DSN)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:  AppConfig{Env: "production"},
			Auth: AuthConfig{JWTSecret: "s3cret", AccessTokenTTLHours: 24, RefreshTokenTTLHours: 168},
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Auth.JWTSecret = DevJWTSecret
	assert.Error(t, cfg.Validate())

	cfg.App.Env = "development"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Auth.RefreshTokenTTLHours = 0
	assert.Error(t, cfg.Validate())
}

func TestDurationHelpers(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 30*time.Second, AppConfig{RequestTimeoutSeconds: 30}.RequestTimeout())
	assert.Equal(t, time.Duration(0), CacheConfig{StatsTTLSeconds: -1}.StatsTTL())
	assert.Equal(t, 5*time.Minute, CacheConfig{StatsTTLSeconds: 300}.StatsTTL())
	assert.Equal(t, "0.0.0.0:8080", AppConfig{Host: "0.0.0.0", Port: "8080"}.Addr())
}

func TestEnvParsingFallsBack(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "maybe")
	t.Setenv("POSTGRES_MAX_CONNS", "many")
	assert.True(t, getEnvAsBool("CACHE_ENABLED", true))
	assert.Equal(t, 10, getEnvAsInt("POSTGRES_MAX_CONNS", 10))
}

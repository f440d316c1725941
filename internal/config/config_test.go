package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "mysql", cfg.Store)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "local", cfg.Uploads.Backend)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, "assets/styles", cfg.StylesDir)
	assert.False(t, cfg.EventsEnabled)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestLoad_PlaceholderSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", PlaceholderSecret)

	_, err := Load()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORE", "memory")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("UPLOAD_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "photos")
	t.Setenv("S3_PREFIX", "salon/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "s3", cfg.Uploads.Backend)
	assert.Equal(t, "photos", cfg.S3.Bucket)
	assert.Equal(t, "salon/", cfg.S3.Prefix)
}

func TestValidate(t *testing.T) {
	base := Config{
		SecretKey:       "k",
		Store:           "mysql",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Uploads:         UploadConfig{Backend: "local"},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(c *Config) { c.Store = "postgres" }},
		{"s3 without bucket", func(c *Config) { c.Uploads.Backend = "s3" }},
		{"unknown upload backend", func(c *Config) { c.Uploads.Backend = "ftp" }},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"blank secret", func(c *Config) { c.SecretKey = "   " }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrConfiguration)
		})
	}
}

func TestRateLimitPolicy(t *testing.T) {
	base := RateLimitConfig{Enabled: true, Capacity: 60, RefillTokens: 1, RefillInterval: time.Second, Prefix: "rl"}

	p := base.Policy("login", 10, time.Minute)

	assert.Equal(t, 10, p.Capacity)
	assert.Equal(t, 10, p.RefillTokens)
	assert.Equal(t, time.Minute, p.RefillInterval)
	assert.Equal(t, "rl:login", p.Prefix)
	assert.Equal(t, 5*time.Minute, p.TTL)
	assert.Equal(t, 60, base.Capacity, "base config must not be mutated")
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")

	cfg, err := LoadCacheConfig()
	require.NoError(t, err)

	assert.Equal(t, MethodSet{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestLoadCacheConfig_Defaults(t *testing.T) {
	cfg, err := LoadCacheConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, MethodSet{"GET": true}, cfg.Methods)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadRateLimitConfig(t *testing.T) {
	cfg, err := LoadRateLimitConfig()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Minute, cfg.TTL)

	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2m")
	cfg, err = LoadRateLimitConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Minute, cfg.RefillInterval)
	assert.Equal(t, 10*time.Minute, cfg.TTL)
}

func TestLoadRedisConfig_HostPortOverrideAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	cfg, err := LoadRedisConfig()
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", cfg.Addr)

	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_TLS", "true")
	cfg, err = LoadRedisConfig()
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", cfg.Addr)
	assert.True(t, cfg.TLS)
}

func TestLoadAuxiliaryConfig_RejectsMalformedValues(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_CAPACITY", "abc")
		_, err := LoadRateLimitConfig()
		assert.ErrorIs(t, err, ErrConfiguration)
	})
	t.Run("cache", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		_, err := LoadCacheConfig()
		assert.ErrorIs(t, err, ErrConfiguration)
	})
	t.Run("redis", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := LoadRedisConfig()
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// RateLimitConfig configures the Redis token bucket.  Capacity tokens fit in
// the bucket and RefillTokens are added every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"60"`
	RefillTokens   int           `env:"RATE_LIMIT_REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1s"`
	TTL            time.Duration `env:"RATE_LIMIT_TTL" envDefault:"10m"`
	KeyStrategy    string        `env:"RATE_LIMIT_KEY_STRATEGY" envDefault:"ip_route"`
	Prefix         string        `env:"RATE_LIMIT_PREFIX" envDefault:"rl"`
	Debug          bool          `env:"RATE_LIMIT_DEBUG" envDefault:"false"`
}

// rateLimitShorthand holds the simpler knobs that override the bucket shape
// when set: a burst size and a one-token refill period.
type rateLimitShorthand struct {
	Burst       int           `env:"RATE_LIMIT_BURST"`
	RefillEvery time.Duration `env:"RATE_LIMIT_REFILL_EVERY"`
}

// LoadRateLimitConfig parses the RATE_LIMIT_* variables.  A value that does
// not parse is an error wrapping ErrConfiguration.
func LoadRateLimitConfig() (RateLimitConfig, error) {
	var cfg RateLimitConfig
	if err := env.Parse(&cfg); err != nil {
		return RateLimitConfig{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	var short rateLimitShorthand
	if err := env.Parse(&short); err != nil {
		return RateLimitConfig{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if short.Burst > 0 {
		cfg.Capacity = short.Burst
	}
	if short.RefillEvery > 0 {
		cfg.RefillTokens = 1
		cfg.RefillInterval = short.RefillEvery
	}
	return cfg.normalized(), nil
}

// Policy derives a route-specific limit of n requests per period from the
// base config.  The bucket refills completely once per period and keeps its
// own key namespace so routes do not share budgets.
func (c RateLimitConfig) Policy(name string, n int, period time.Duration) RateLimitConfig {
	p := c
	p.Capacity = n
	p.RefillTokens = n
	p.RefillInterval = period
	p.TTL = 0
	p.Prefix = c.Prefix + ":" + name
	return p.normalized()
}

func (c RateLimitConfig) normalized() RateLimitConfig {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}

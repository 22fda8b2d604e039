package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RateLimitConfig configures the token bucket applied to the credential
// endpoints (login and register).
type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"10"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"6s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
}

// LoadRateLimitConfig reads the limiter settings and clamps them to sane
// minimums.
func LoadRateLimitConfig() RateLimitConfig {
	var rl RateLimitConfig
	if err := envconfig.Process("", &rl); err != nil {
		rl = RateLimitConfig{Enabled: true, Capacity: 10, RefillTokens: 1, RefillInterval: 6 * time.Second, TTL: 10 * time.Minute, Prefix: "rl"}
	}
	return rl.normalize()
}

func (rl RateLimitConfig) normalize() RateLimitConfig {
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	if rl.Prefix == "" {
		rl.Prefix = "rl"
	}
	return rl
}

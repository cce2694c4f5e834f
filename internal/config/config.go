package config

import (
	"os"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Auth
	JWTSecret string

	// Offers
	SweepInterval time.Duration
	RuleCacheTTL  time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	cfg := AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Minute),
		RuleCacheTTL:  getEnvDuration("RULE_CACHE_TTL", 60*time.Second),
	}

	// A cached rule set must not outlive a sweep: sweeper transitions do not
	// invalidate the cache, so the TTL bounds how long an expired rule can
	// keep applying.
	if cfg.RuleCacheTTL > cfg.SweepInterval {
		cfg.RuleCacheTTL = cfg.SweepInterval
	}
	return cfg
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("RULE_CACHE_TTL", "")

	cfg := Load()

	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("http addr = %q, want :8000", cfg.HTTPAddr)
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("sweep interval = %s, want 1m", cfg.SweepInterval)
	}
	if cfg.RuleCacheTTL != 60*time.Second {
		t.Fatalf("rule cache ttl = %s, want 60s", cfg.RuleCacheTTL)
	}
}

func TestLoadCapsCacheTTLAtSweepInterval(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("RULE_CACHE_TTL", "5m")

	cfg := Load()

	if cfg.RuleCacheTTL != cfg.SweepInterval {
		t.Fatalf("rule cache ttl = %s, want capped at sweep interval %s",
			cfg.RuleCacheTTL, cfg.SweepInterval)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SWEEP_INTERVAL", "2m")
	t.Setenv("RULE_CACHE_TTL", "45s")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("http addr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.SweepInterval != 2*time.Minute {
		t.Fatalf("sweep interval = %s, want 2m", cfg.SweepInterval)
	}
	if cfg.RuleCacheTTL != 45*time.Second {
		t.Fatalf("rule cache ttl = %s, want 45s", cfg.RuleCacheTTL)
	}
}

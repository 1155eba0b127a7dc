package config

import (
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAPIBaseURL, "https://api.joshuaart.test")
}

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() || cfg.App.IsDev() {
		t.Fatalf("environment predicates disagree with %q", cfg.App.Env)
	}
	if cfg.API.BaseURL != "https://api.joshuaart.test" {
		t.Fatalf("unexpected API base URL %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Fatalf("default timeout should be zero, got %v", cfg.API.Timeout)
	}
	if cfg.Cache.Backend != CacheBackendMemory {
		t.Fatalf("default cache backend should be memory, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.ListTTL != 30*time.Second {
		t.Fatalf("unexpected list TTL %v", cfg.Cache.ListTTL)
	}
	if cfg.Cache.DetailTTL != 5*time.Minute {
		t.Fatalf("unexpected detail TTL %v", cfg.Cache.DetailTTL)
	}
	if cfg.Cache.SessionTTL != 5*time.Second {
		t.Fatalf("unexpected session TTL %v", cfg.Cache.SessionTTL)
	}
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("PORTFOLIO_CACHE_BACKEND", "memcached")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown cache backend")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("PORTFOLIO_CACHE_BACKEND", CacheBackendRedis)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when redis backend has no address")
	}

	t.Setenv("PORTFOLIO_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected redis URL %q", cfg.Redis.URL)
	}
}

func TestJWTRefreshTokenTTL(t *testing.T) {
	cfg := JWTConfig{RefreshTokenTTLMinutes: 60}
	if got := cfg.RefreshTokenTTL(); got != time.Hour {
		t.Fatalf("expected 1h, got %v", got)
	}
	cfg.RefreshTokenTTLMinutes = 0
	if got := cfg.RefreshTokenTTL(); got != 0 {
		t.Fatalf("expected zero TTL, got %v", got)
	}
}

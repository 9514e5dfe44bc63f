package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_URL", "AMQP_URL", "EXPORT_LOCALE", "CURRENCY_SYMBOL", "EXPORT_TIMEOUT", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected cache disabled by default, got %q", cfg.RedisURL)
	}
	if cfg.ExportLocale != "en-IN" {
		t.Errorf("expected en-IN locale, got %s", cfg.ExportLocale)
	}
	if cfg.CurrencySymbol != "₹" {
		t.Errorf("expected rupee symbol, got %s", cfg.CurrencySymbol)
	}
	if cfg.ExportTimeout != 30*time.Second {
		t.Errorf("expected 30s export timeout, got %s", cfg.ExportTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SNAPSHOT_CACHE_TTL", "90s")
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.SnapshotCacheTTL != 90*time.Second {
		t.Errorf("expected 90s ttl, got %s", cfg.SnapshotCacheTTL)
	}
	if cfg.JWTExpirationDur != 15*time.Minute {
		t.Errorf("expected fallback to 15m, got %s", cfg.JWTExpirationDur)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

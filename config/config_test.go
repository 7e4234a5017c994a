package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := Load()

	if cfg.Port != "9090" || cfg.DBDriver != "sqlite" || cfg.DatabaseURL != "file:test.db" {
		t.Fatalf("unexpected connection settings: %+v", cfg)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected secret %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Fatalf("expected 90m ttl, got %s", cfg.TokenTTL)
	}
	if !cfg.CookieSecure {
		t.Fatalf("expected secure cookies")
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.AllowedOrigins)
	}
}

func TestGetEnvHelpers_FallBackOnBadValues(t *testing.T) {
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "-5s")

	if got := GetEnvBool("TEST_BOOL", true); !got {
		t.Fatalf("expected fallback true")
	}
	if got := GetEnvDuration("TEST_DURATION", time.Hour); got != time.Hour {
		t.Fatalf("expected fallback 1h, got %s", got)
	}
	if got := GetEnv("TEST_MISSING_KEY_FOR_CONFIG", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}
}

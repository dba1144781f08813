package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/gotransfer/internal/infrastructure/config"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		// Setenv registers the restore; Unsetenv then clears it for the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "REDIS_URL", "NOTIFIER", "HTTP_PORT", "NOTIFY_MAX_RETRIES", "RATE_LIMIT_RPS")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Notifier != config.NotifierLog {
		t.Fatalf("expected default notifier %q, got %q", config.NotifierLog, cfg.Notifier)
	}

	if cfg.NotifyMaxRetries != 3 {
		t.Fatalf("expected 3 notification retries, got %d", cfg.NotifyMaxRetries)
	}

	if cfg.NotifyRetryWindow != 250*time.Millisecond {
		t.Fatalf("expected a 250ms notification retry window, got %v", cfg.NotifyRetryWindow)
	}

	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled by default, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("NOTIFIER", "nats")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("IDEMPOTENCY_TTL", "1h")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.Notifier != config.NotifierNATS || cfg.NATSURL != "nats://broker:4222" {
		t.Fatalf("expected NATS notifier settings, got %s %s", cfg.Notifier, cfg.NATSURL)
	}

	if cfg.IdempotencyTTL != time.Hour {
		t.Fatalf("expected idempotency TTL override, got %s", cfg.IdempotencyTTL)
	}

	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

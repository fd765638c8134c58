package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DBName == "" {
		t.Fatal("expected default database name")
	}
	if cfg.Port == "" {
		t.Fatal("expected default port")
	}
	if cfg.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %v", cfg.AccessTokenTTL)
	}
	if cfg.FeedbackCron != "0 9 * * *" {
		t.Fatalf("expected daily 9am schedule, got %q", cfg.FeedbackCron)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected default smtp port, got %d", cfg.SMTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_NAME", "override")
	t.Setenv("PORT", "9999")
	t.Setenv("ACCESS_TOKEN_TTL", "48")
	t.Setenv("SMTP_PORT", "2525")

	cfg := Load()

	if cfg.DBName != "override" {
		t.Fatalf("got %q", cfg.DBName)
	}
	if cfg.Port != "9999" {
		t.Fatalf("got %q", cfg.Port)
	}
	if cfg.AccessTokenTTL != 48*time.Hour {
		t.Fatalf("got %v", cfg.AccessTokenTTL)
	}
	if cfg.SMTPPort != 2525 {
		t.Fatalf("got %d", cfg.SMTPPort)
	}
}

func TestIntEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected fallback, got %d", cfg.SMTPPort)
	}
}

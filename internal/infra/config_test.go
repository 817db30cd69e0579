package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PORT", "")
	t.Setenv("NARRATIVE_PROVIDER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q", cfg.Port)
	}
	if cfg.NarrativeProvider != NarrativeStatic {
		t.Fatalf("NarrativeProvider mismatch: got %q", cfg.NarrativeProvider)
	}
	if cfg.NarrativeCacheTTL != time.Hour {
		t.Fatalf("NarrativeCacheTTL mismatch: got %s", cfg.NarrativeCacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadConfigRejectsUnknownNarrativeProvider(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("NARRATIVE_PROVIDER", "claude")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadConfigParsesOriginsAndTimeouts(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("NARRATIVE_PROVIDER", "OpenAI")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://crm.example.org, ,https://admin.example.org ")
	t.Setenv("HTTP_READ_TIMEOUT_SECONDS", "7")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.NarrativeProvider != NarrativeOpenAI {
		t.Fatalf("NarrativeProvider mismatch: got %q", cfg.NarrativeProvider)
	}
	want := []string{"https://crm.example.org", "https://admin.example.org"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
	if cfg.HTTPReadTimeout != 7*time.Second {
		t.Fatalf("HTTPReadTimeout mismatch: got %s", cfg.HTTPReadTimeout)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("RateLimitPerMin should fall back to default, got %d", cfg.RateLimitPerMin)
	}
}

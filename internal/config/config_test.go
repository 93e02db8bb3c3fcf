package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "CORS_ORIGINS", "LLM_MAX_HISTORY", "SEND_RATE_LIMIT", "FEED_TIMEOUT"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8001" {
		t.Errorf("expected default port 8001, got %q", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS default, got %v", cfg.CORSOrigins)
	}
	if cfg.Feeds.Timeout != 10*time.Second {
		t.Errorf("expected 10s feed timeout, got %v", cfg.Feeds.Timeout)
	}
	if cfg.AIEnabled() {
		t.Errorf("AI should be disabled without LLM_API_KEY")
	}
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("SEND_RATE_WINDOW", "30s")
	t.Setenv("LLM_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit.WindowDuration != 30*time.Second {
		t.Errorf("unexpected window: %v", cfg.RateLimit.WindowDuration)
	}
	if !cfg.AIEnabled() {
		t.Errorf("AI should be enabled with LLM_API_KEY")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{Port: "8001", DBPath: "x.db", CORSOrigins: []string{"*"}}
	cfg.LLM.MaxHistory = 10
	cfg.Feeds.Timeout = time.Second
	cfg.RateLimit = RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg.RateLimit.RequestsPerWindow = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}
}

func TestLoadClientFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bdask.yml")
	body := "backend:\n  url: http://example.test\n  timeout: 5s\nvoice:\n  deepgram_api_key: key\n  recorder_command: arecord -q\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadClient(path)
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.Backend.URL != "http://example.test" || cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("unexpected backend config: %+v", cfg.Backend)
	}
	if cfg.Voice.Language != "bn-BD" {
		t.Errorf("expected default language bn-BD, got %q", cfg.Voice.Language)
	}
	if !cfg.Voice.VoiceEnabled() {
		t.Errorf("voice should be enabled")
	}
}

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("expected 15s default timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Voice.VoiceEnabled() {
		t.Errorf("voice should be disabled without credentials")
	}
}

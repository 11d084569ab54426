package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Fatalf("OpenAIModel = %q, want default", cfg.OpenAIModel)
	}
	if cfg.MaxRetries != 3 {
		t.Fatalf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RateLimitRequests != 10 || cfg.RateLimitWindow != time.Minute {
		t.Fatalf("rate limit defaults = %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Fatalf("OpenAIAPIKey = %q, want empty default", cfg.OpenAIAPIKey)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("OPENAI_TIMEOUT", "10s")
	t.Setenv("OPENAI_MOCK", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.CompletionTimeout != 10*time.Second {
		t.Fatalf("CompletionTimeout = %v, want 10s", cfg.CompletionTimeout)
	}
	if !cfg.ForceMockClient {
		t.Fatalf("ForceMockClient = false, want true")
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("RateLimitWindow = %v, want 30s", cfg.RateLimitWindow)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"OPENAI_MAX_RETRIES", "0"},
		{"OPENAI_MAX_RETRIES", "not-a-number"},
		{"OPENAI_TIMEOUT", "10ms"},
		{"RATE_LIMIT_REQUESTS", "-1"},
		{"OPENAI_MOCK", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() accepted %s=%s", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_HISTORY_LIMIT",
		"OPENAI_API_KEY",
		"OPENAI_BASE_URL",
		"OPENAI_MODEL",
		"OPENAI_TIMEOUT",
		"OPENAI_MAX_RETRIES",
		"OPENAI_MOCK",
		"RATE_LIMIT_REQUESTS",
		"RATE_LIMIT_WINDOW",
		"DATABASE_URL",
		"REDIS_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

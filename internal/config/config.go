package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the explanation service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	CompletionTimeout time.Duration
	MaxRetries        int
	ForceMockClient   bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	DatabaseURL  string
	RedisURL     string
	HistoryLimit int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                 envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:         envOrDefault("APP_METRICS_NAMESPACE", "explainr"),
		OpenAIAPIKey:             stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:            envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:              envOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		DatabaseURL:              stringsTrimSpace("DATABASE_URL"),
		RedisURL:                 stringsTrimSpace("REDIS_URL"),
		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
		CompletionTimeout:        30 * time.Second,
		MaxRetries:               3,
		RateLimitRequests:        10,
		RateLimitWindow:          time.Minute,
		HistoryLimit:             20,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CompletionTimeout, err = durationFromEnv("OPENAI_TIMEOUT", cfg.CompletionTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxRetries, err = intFromEnv("OPENAI_MAX_RETRIES", cfg.MaxRetries)
	if err != nil {
		return Config{}, err
	}
	cfg.ForceMockClient, err = boolFromEnv("OPENAI_MOCK", cfg.ForceMockClient)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitRequests, err = intFromEnv("RATE_LIMIT_REQUESTS", cfg.RateLimitRequests)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitWindow, err = durationFromEnv("RATE_LIMIT_WINDOW", cfg.RateLimitWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryLimit, err = intFromEnv("APP_HISTORY_LIMIT", cfg.HistoryLimit)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.CompletionTimeout < time.Second {
		return Config{}, fmt.Errorf("OPENAI_TIMEOUT must be at least 1s")
	}
	if cfg.MaxRetries <= 0 {
		return Config{}, fmt.Errorf("OPENAI_MAX_RETRIES must be positive")
	}
	if cfg.RateLimitRequests <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	if cfg.RateLimitWindow < time.Second {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_LIMIT must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}

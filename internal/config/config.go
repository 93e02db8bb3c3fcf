// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	CORSOrigins []string
	LogFile     string
	LLM         LLMConfig
	Feeds       FeedsConfig
	RateLimit   RateLimitConfig
}

// LLMConfig points the assistant at an OpenAI-compatible endpoint.
type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxHistory int
	Timeout    time.Duration
}

// FeedsConfig holds credentials for the upstream data feeds.
type FeedsConfig struct {
	CricketAPIKey  string
	NewsAPIKey     string
	FootballAPIKey string
	ExchangeAPIKey string
	RedisAddr      string
	RedisPassword  string
	CacheTTL       time.Duration
	Timeout        time.Duration
}

// RateLimitConfig limits /api/chat/send per client.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8001"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/bdask.db"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		LogFile:     getEnv("LOG_FILE", ""),
		LLM: LLMConfig{
			APIKey:     getEnv("LLM_API_KEY", ""),
			BaseURL:    getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:      getEnv("LLM_MODEL", "gemini-2.0-flash"),
			MaxHistory: getEnvInt("LLM_MAX_HISTORY", 20),
			Timeout:    getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Feeds: FeedsConfig{
			CricketAPIKey:  getEnv("CRICKET_API_KEY", ""),
			NewsAPIKey:     getEnv("NEWS_API_KEY", ""),
			FootballAPIKey: getEnv("FOOTBALL_API_KEY", ""),
			ExchangeAPIKey: getEnv("EXCHANGE_API_KEY", ""),
			RedisAddr:      getEnv("REDIS_ADDR", ""),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			CacheTTL:       getEnvDuration("FEED_CACHE_TTL", 2*time.Minute),
			Timeout:        getEnvDuration("FEED_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("SEND_RATE_LIMIT", 20),
			WindowDuration:    getEnvDuration("SEND_RATE_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS cannot be empty")
	}
	if c.LLM.MaxHistory <= 0 {
		return fmt.Errorf("LLM_MAX_HISTORY must be > 0")
	}
	if c.Feeds.Timeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("SEND_RATE_LIMIT must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("SEND_RATE_WINDOW must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AIEnabled reports whether an LLM key is configured.
func (c *Config) AIEnabled() bool {
	return c.LLM.APIKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Package feeds fetches live cricket, football, news and exchange-rate data
// from third-party APIs and shapes it for the frontend.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

var (
	// ErrNotConfigured means the feed's API key is missing.
	ErrNotConfigured = errors.New("api key not configured")
	// ErrUpstreamTimeout means the upstream API did not answer in time.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstream means the upstream API reported a failure.
	ErrUpstream = errors.New("upstream returned an error")
)

// Error attributes a failure to one feed.
type Error struct {
	Feed string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotConfigured):
		return e.Feed + " API key not configured"
	case errors.Is(e.Err, ErrUpstreamTimeout):
		return e.Feed + " API timeout"
	default:
		return e.Feed + " API error: " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Config holds API keys, upstream endpoints and timing.
type Config struct {
	CricketAPIKey  string
	NewsAPIKey     string
	FootballAPIKey string
	ExchangeAPIKey string

	CricketURL  string
	NewsURL     string
	FootballURL string
	ExchangeURL string

	Timeout  time.Duration
	CacheTTL time.Duration
}

func (c *Config) applyDefaults() {
	if c.CricketURL == "" {
		c.CricketURL = "https://api.cricapi.com"
	}
	if c.NewsURL == "" {
		c.NewsURL = "https://newsdata.io"
	}
	if c.FootballURL == "" {
		c.FootballURL = "https://api.football-data.org"
	}
	if c.ExchangeURL == "" {
		c.ExchangeURL = "https://v6.exchangerate-api.com"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// Service serves all feeds. A nil cache disables caching.
type Service struct {
	cfg    Config
	http   *http.Client
	cache  Cache
	logger *slog.Logger
}

// NewService creates a feed service.
func NewService(cfg Config, cache Cache, logger *slog.Logger) *Service {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		http:   &http.Client{},
		cache:  cache,
		logger: logger,
	}
}

// getJSON decodes the body of a GET request into dst and returns the HTTP
// status code.
func (s *Service) getJSON(ctx context.Context, url string, header http.Header, dst any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, ErrUpstreamTimeout
		}
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return resp.StatusCode, ErrUpstreamTimeout
		}
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// cached returns the cached value for key or calls fetch and stores its
// result. Cache failures are logged and otherwise ignored.
func cached[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil && s.cfg.CacheTTL > 0 {
		data, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Feed cache read failed", "key", key, "error", err)
		} else if ok {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		data, err := json.Marshal(v)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.cfg.CacheTTL)
		}
		if err != nil {
			s.logger.Warn("Feed cache write failed", "key", key, "error", err)
		}
	}
	return v, nil
}

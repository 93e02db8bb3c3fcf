// Package client is an HTTP client for the BdAsk chat API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/middleware"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 15 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client talks to the /api/chat endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientID sends id in the client identity header.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// New returns a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSessions calls GET /api/chat/sessions.
func (c *Client) ListSessions(ctx context.Context) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := c.do(ctx, http.MethodGet, "/api/chat/sessions", nil, &sessions); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ListMessages calls GET /api/chat/messages/{id}.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	var messages []domain.Message
	if err := c.do(ctx, http.MethodGet, "/api/chat/messages/"+url.PathEscape(sessionID), nil, &messages); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// CreateSession calls POST /api/chat/session.
func (c *Client) CreateSession(ctx context.Context, title string) (*domain.Session, error) {
	var session domain.Session
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/api/chat/session", body, &session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// DeleteSession calls DELETE /api/chat/session/{id}.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/chat/session/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Send calls POST /api/chat/send.
func (c *Client) Send(ctx context.Context, sessionID, message string) (*domain.ChatReply, error) {
	var reply domain.ChatReply
	body := map[string]string{"session_id": sessionID, "message": message}
	if err := c.do(ctx, http.MethodPost, "/api/chat/send", body, &reply); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set(middleware.ClientHeaderName, c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)
		return &StatusError{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package chat mirrors the backend's sessions and messages on the client and
// orchestrates sending messages with optimistic updates.
package chat

import (
	"context"

	"github.com/bdask/bdask/internal/domain"
)

// Backend is the chat REST surface the client consumes.
type Backend interface {
	ListSessions(ctx context.Context) ([]domain.Session, error)
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)
	CreateSession(ctx context.Context, title string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	Send(ctx context.Context, sessionID, message string) (*domain.ChatReply, error)
}

// WeatherLookup fetches a weather snapshot for a free-text query.
type WeatherLookup interface {
	ForQuery(ctx context.Context, query string) (*domain.Weather, error)
}

// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/bdask/bdask/internal/domain"
)

// Listing limits applied by the chat endpoints.
const (
	DefaultSessionLimit = 100
	DefaultMessageLimit = 1000
)

// ErrNotFound is returned when a mutation targets a session that does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the interface for persisting chat sessions and messages.
type Repository interface {
	// CreateSession inserts a new session.
	CreateSession(ctx context.Context, session *domain.Session) error

	// GetSession retrieves a session by ID. Returns nil, nil when absent.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// ListSessions returns sessions ordered by updated_at, newest first.
	ListSessions(ctx context.Context, limit int) ([]domain.Session, error)

	// TouchSession bumps updated_at so the session sorts first.
	TouchSession(ctx context.Context, id string, at time.Time) error

	// DeleteSession removes a session together with its messages.
	DeleteSession(ctx context.Context, id string) error

	// AppendMessage stores one message.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages returns a session's messages in chronological order.
	ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// CreateStatusCheck stores a client heartbeat.
	CreateStatusCheck(ctx context.Context, check *domain.StatusCheck) error

	// ListStatusChecks returns stored heartbeats, newest first.
	ListStatusChecks(ctx context.Context, limit int) ([]domain.StatusCheck, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

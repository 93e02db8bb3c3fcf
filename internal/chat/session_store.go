package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bdask/bdask/internal/domain"
)

// SessionStore keeps the client-side cache of sessions and of the active
// session's messages. The backend stays the source of truth; every fetch
// replaces the cache wholesale.
type SessionStore struct {
	backend Backend
	state   *State
	log     *slog.Logger
}

// NewSessionStore creates a store over backend writing into state.
func NewSessionStore(backend Backend, state *State, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{backend: backend, state: state, log: logger}
}

// State exposes the underlying cache.
func (s *SessionStore) State() *State { return s.state }

// ListSessions refreshes the session list. On failure the previous list is
// kept and the error is only logged.
func (s *SessionStore) ListSessions(ctx context.Context) []domain.Session {
	sessions, err := s.backend.ListSessions(ctx)
	if err != nil {
		s.log.Error("Failed to load sessions", "error", err)
		return s.state.Snapshot().Sessions
	}
	s.state.replaceSessions(sessions)
	return sessions
}

// LoadMessages fetches the messages of sessionID and installs them if the
// session is still active. On failure the list is left empty and the error
// is only logged.
func (s *SessionStore) LoadMessages(ctx context.Context, sessionID string) []domain.Message {
	msgs, err := s.backend.ListMessages(ctx, sessionID)
	if err != nil {
		s.log.Error("Failed to load messages", "session_id", sessionID, "error", err)
		s.state.replaceMessages(sessionID, nil)
		return nil
	}
	if !s.state.replaceMessages(sessionID, msgs) {
		s.log.Debug("Dropping messages for inactive session", "session_id", sessionID)
	}
	return msgs
}

// CreateSession creates a session on the backend and prepends it to the
// cached list. Errors are returned to the caller and leave the cache as is.
func (s *SessionStore) CreateSession(ctx context.Context, title string) (*domain.Session, error) {
	session, err := s.backend.CreateSession(ctx, title)
	if err != nil {
		s.log.Error("Failed to create session", "title", title, "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.state.prependSession(*session)
	return session, nil
}

// DeleteSession removes a session on the backend, then from the cache. If
// it was active, the active session and the message list are cleared.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.backend.DeleteSession(ctx, id); err != nil {
		s.log.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("delete session: %w", err)
	}
	s.state.removeSession(id)
	return nil
}

// Activate makes id the active session with an empty message list. An
// empty id deactivates.
func (s *SessionStore) Activate(id string) {
	s.state.activate(id)
}

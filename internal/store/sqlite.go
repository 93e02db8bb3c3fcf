package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, timestamp);

	CREATE TABLE IF NOT EXISTS status_checks (
		id TEXT PRIMARY KEY,
		client_name TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CreateSession inserts a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.Title,
		session.CreatedAt.UnixMilli(), session.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT id, title, created_at, updated_at FROM sessions WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	var session domain.Session
	var createdAt, updatedAt int64
	err := row.Scan(&session.ID, &session.Title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	session.CreatedAt = time.UnixMilli(createdAt).UTC()
	session.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &session, nil
}

// ListSessions returns sessions ordered by most recent activity.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	query := `
		SELECT id, title, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC, rowid DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close session rows", "error", closeErr)
		}
	}()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var session domain.Session
		var createdAt, updatedAt int64
		if err := rows.Scan(&session.ID, &session.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		session.CreatedAt = time.UnixMilli(createdAt).UTC()
		session.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// TouchSession updates the session's updated_at timestamp.
func (s *SQLiteStore) TouchSession(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("TouchSession affected 0 rows", "session_id", id)
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session and its messages in one transaction.
// Retries with exponential backoff on SQLITE_BUSY.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	var deleted int64
	err := shared.RetryOnConflict(ctx, shared.DefaultRetryPolicy, "delete_session", func() error {
		n, err := s.deleteSessionOnce(ctx, id)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) deleteSessionOnce(ctx context.Context, id string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Debug("failed to rollback delete session tx", "error", rbErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete session row: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return rows, nil
}

// AppendMessage stores one message.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	query := `INSERT INTO messages (id, session_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.SessionID, string(msg.Role), msg.Content, msg.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns the messages of one session in chronological order.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	// Newest N, returned oldest first.
	query := `
		SELECT id, session_id, role, content, timestamp FROM (
			SELECT rowid AS seq, id, session_id, role, content, timestamp
			FROM messages WHERE session_id = ?
			ORDER BY timestamp DESC, rowid DESC LIMIT ?
		) ORDER BY timestamp ASC, seq ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close message rows", "error", closeErr)
		}
	}()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		var role string
		var ts int64
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msg.Role = domain.Role(role)
		msg.Timestamp = time.UnixMilli(ts).UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// CreateStatusCheck stores a client heartbeat.
func (s *SQLiteStore) CreateStatusCheck(ctx context.Context, check *domain.StatusCheck) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO status_checks (id, client_name, timestamp) VALUES (?, ?, ?)`,
		check.ID, check.ClientName, check.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

// ListStatusChecks returns stored heartbeats, newest first.
func (s *SQLiteStore) ListStatusChecks(ctx context.Context, limit int) ([]domain.StatusCheck, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_name, timestamp FROM status_checks ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query status checks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close status check rows", "error", closeErr)
		}
	}()

	checks := make([]domain.StatusCheck, 0)
	for rows.Next() {
		var check domain.StatusCheck
		var ts int64
		if err := rows.Scan(&check.ID, &check.ClientName, &ts); err != nil {
			return nil, fmt.Errorf("scan status check row: %w", err)
		}
		check.Timestamp = time.UnixMilli(ts).UTC()
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status checks: %w", err)
	}
	return checks, nil
}

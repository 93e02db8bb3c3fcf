package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bdask/bdask/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "bdask.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func mustCreateSession(t *testing.T, repo Repository, id string, updated time.Time) {
	t.Helper()
	err := repo.CreateSession(context.Background(), &domain.Session{
		ID:        id,
		Title:     "title " + id,
		CreatedAt: updated,
		UpdatedAt: updated,
	})
	if err != nil {
		t.Fatalf("CreateSession(%s) failed: %v", id, err)
	}
}

func TestSQLiteSessionsOrderedByUpdatedAt(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mustCreateSession(t, repo, "a", base)
	mustCreateSession(t, repo, "b", base.Add(time.Minute))
	mustCreateSession(t, repo, "c", base.Add(2*time.Minute))

	if err := repo.TouchSession(ctx, "a", base.Add(time.Hour)); err != nil {
		t.Fatalf("TouchSession failed: %v", err)
	}

	sessions, err := repo.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	got := []string{sessions[0].ID, sessions[1].ID, sessions[2].ID}
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}

	limited, err := repo.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("ListSessions with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestSQLiteGetSessionMissingReturnsNil(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)

	session, err := repo.GetSession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session, got %+v", session)
	}
}

func TestSQLiteMessagesChronological(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mustCreateSession(t, repo, "s1", now)
	mustCreateSession(t, repo, "s2", now)

	msgs := []domain.Message{
		{ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "উত্তর", Timestamp: now.Add(time.Second)},
		{ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "প্রশ্ন", Timestamp: now},
		{ID: "m3", SessionID: "s2", Role: domain.RoleUser, Content: "other", Timestamp: now},
	}
	for i := range msgs {
		if err := repo.AppendMessage(ctx, &msgs[i]); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	got, err := repo.ListMessages(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].ID != "m1" || got[1].ID != "m2" {
		t.Fatalf("messages out of order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Role != domain.RoleUser || got[0].Content != "প্রশ্ন" {
		t.Fatalf("unexpected first message: %+v", got[0])
	}
}

func TestSQLiteDeleteSessionRemovesMessages(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	mustCreateSession(t, repo, "s1", now)
	if err := repo.AppendMessage(ctx, &domain.Message{ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "hi", Timestamp: now}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := repo.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	msgs, err := repo.ListMessages(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected messages to be deleted, got %d", len(msgs))
	}

	if err := repo.DeleteSession(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteTouchMissingSession(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)

	if err := repo.TouchSession(context.Background(), "nope", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStatusChecks(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, name := range []string{"web", "cli"} {
		check := &domain.StatusCheck{ID: name, ClientName: name, Timestamp: now.Add(time.Duration(i) * time.Second)}
		if err := repo.CreateStatusCheck(ctx, check); err != nil {
			t.Fatalf("CreateStatusCheck failed: %v", err)
		}
	}

	checks, err := repo.ListStatusChecks(ctx, 10)
	if err != nil {
		t.Fatalf("ListStatusChecks failed: %v", err)
	}
	if len(checks) != 2 || checks[0].ClientName != "cli" {
		t.Fatalf("unexpected status checks: %+v", checks)
	}
}

func TestSQLitePragmasApplyToPooledConnections(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)
	db := repo.(*SQLiteStore).db
	ctx := context.Background()

	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}

	// Hold one connection so the next query opens a fresh one.
	held, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn failed: %v", err)
	}
	defer func() { _ = held.Close() }()

	fresh, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn failed: %v", err)
	}
	defer func() { _ = fresh.Close() }()

	var timeout int
	if err := fresh.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout query failed: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestSQLiteMessagesLimitKeepsNewest(t *testing.T) {
	t.Parallel()
	repo := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mustCreateSession(t, repo, "s1", now)
	for i, id := range []string{"m1", "m2", "m3", "m4"} {
		msg := domain.Message{ID: id, SessionID: "s1", Role: domain.RoleUser, Content: id, Timestamp: now.Add(time.Duration(i) * time.Second)}
		if err := repo.AppendMessage(ctx, &msg); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	got, err := repo.ListMessages(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m3" || got[1].ID != "m4" {
		t.Fatalf("expected [m3 m4], got %+v", got)
	}
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bdask/bdask/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEndpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chat/sessions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"s1","title":"প্রথম","created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}]`))
	})
	mux.HandleFunc("GET /api/chat/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.PathValue("id"))
		_, _ = w.Write([]byte(`[{"id":"m1","session_id":"s1","role":"user","content":"hi","timestamp":"2025-01-01T00:00:00Z"}]`))
	})
	mux.HandleFunc("POST /api/chat/session", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "নতুন", body["title"])
		_, _ = w.Write([]byte(`{"id":"s2","title":"নতুন"}`))
	})
	mux.HandleFunc("DELETE /api/chat/session/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	mux.HandleFunc("POST /api/chat/send", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["session_id"])
		assert.Equal(t, "client_x", r.Header.Get(middleware.ClientHeaderName))
		_, _ = w.Write([]byte(`{"session_id":"s1","response":"উত্তর","timestamp":"2025-01-01T00:00:05Z"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, WithClientID("client_x"))
	ctx := context.Background()

	sessions, err := c.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "প্রথম", sessions[0].Title)

	msgs, err := c.ListMessages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)

	session, err := c.CreateSession(ctx, "নতুন")
	require.NoError(t, err)
	assert.Equal(t, "s2", session.ID)

	require.NoError(t, c.DeleteSession(ctx, "s2"))

	reply, err := c.Send(ctx, "s1", "প্রশ্ন")
	require.NoError(t, err)
	assert.Equal(t, "উত্তর", reply.Response)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 5, 0, time.UTC), reply.Timestamp)
}

func TestClientStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"চ্যাটে সমস্যা হয়েছে"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Send(context.Background(), "s1", "x")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "চ্যাটে সমস্যা হয়েছে", statusErr.Detail)
}

func TestClientTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).ListSessions(context.Background())
	require.Error(t, err)
}

func TestClientIDReachesIdentityMiddleware(t *testing.T) {
	t.Parallel()

	id, err := middleware.NewClientID()
	require.NoError(t, err)

	seen := make(chan string, 1)
	srv := httptest.NewServer(middleware.Identity(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- middleware.ClientIDFromContext(r.Context())
		_, _ = w.Write([]byte(`[]`))
	})))
	defer srv.Close()

	_, err = New(srv.URL, time.Second, WithClientID(id)).ListSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, <-seen)
}

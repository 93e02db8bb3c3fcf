package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bdask/bdask/internal/assistant"
	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/middleware"
	"github.com/bdask/bdask/internal/store"
	"github.com/go-chi/chi/v5"
)

var errAssistantDisabled = errors.New("LLM API key not configured")

// ChatHandler serves chat sessions and messages.
type ChatHandler struct {
	*Handler
	processor assistant.Processor
	limiter   *middleware.RateLimiter
}

// NewChatHandler creates a chat handler. A nil processor makes every send
// fail; a nil limiter disables rate limiting.
func NewChatHandler(base *Handler, processor assistant.Processor, limiter *middleware.RateLimiter) *ChatHandler {
	return &ChatHandler{Handler: base, processor: processor, limiter: limiter}
}

// RegisterRoutes registers chat routes under the /api router.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/session", h.CreateSession)
		r.Get("/sessions", h.ListSessions)
		r.Get("/messages/{sessionID}", h.ListMessages)
		r.Delete("/session/{sessionID}", h.DeleteSession)
		if h.limiter != nil {
			r.With(h.limiter.Limit).Post("/send", h.Send)
		} else {
			r.Post("/send", h.Send)
		}
	})
}

type createSessionRequest struct {
	Title string `json:"title"`
}

// CreateSession creates a titled session; a blank title gets the default.
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		Error(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		req.Title = domain.DefaultSessionTitle
	}

	now := h.now()
	session := &domain.Session{ID: h.newID(), Title: req.Title, CreatedAt: now, UpdatedAt: now}
	if err := h.repo.CreateSession(r.Context(), session); err != nil {
		slog.Error("Failed to create chat session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	slog.Info("Created chat session", "session_id", session.ID)
	JSON(w, http.StatusOK, session)
}

// ListSessions returns the most recently updated sessions first.
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.repo.ListSessions(r.Context(), store.DefaultSessionLimit)
	if err != nil {
		slog.Error("Failed to list chat sessions", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	JSON(w, http.StatusOK, sessions)
}

// ListMessages returns a session's messages oldest first. Unknown sessions
// yield an empty list.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	msgs, err := h.repo.ListMessages(r.Context(), sessionID, store.DefaultMessageLimit)
	if err != nil {
		slog.Error("Failed to list chat messages", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	JSON(w, http.StatusOK, msgs)
}

// DeleteSession removes a session and its messages. Deleting an unknown
// session succeeds.
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.repo.DeleteSession(r.Context(), sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("Failed to delete chat session", "error", err, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	slog.Info("Deleted chat session", "session_id", sessionID)
	JSON(w, http.StatusOK, map[string]string{"message": "সেশন মুছে ফেলা হয়েছে"})
}

type sendRequest struct {
	SessionID *string `json:"session_id"`
	Message   *string `json:"message"`
}

// Send stores the user's message, asks the assistant for a reply with the
// session's earlier messages as context, and stores the reply.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !decode(w, r, &req) {
		return
	}
	if name := missingField(field{"session_id", req.SessionID}, field{"message", req.Message}); name != "" {
		Error(w, http.StatusUnprocessableEntity, name+" is required")
		return
	}

	session, err := h.repo.GetSession(r.Context(), *req.SessionID)
	if err != nil {
		slog.Error("Failed to load session", "error", err, "session_id", *req.SessionID)
		Error(w, http.StatusInternalServerError, "চ্যাটে সমস্যা হয়েছে: "+err.Error())
		return
	}
	if session == nil {
		Error(w, http.StatusNotFound, "সেশন পাওয়া যায়নি")
		return
	}

	reply, err := h.exchange(r.Context(), session.ID, *req.Message)
	if err != nil {
		slog.Error("Error in chat", "error", err, "session_id", *req.SessionID)
		Error(w, http.StatusInternalServerError, "চ্যাটে সমস্যা হয়েছে: "+err.Error())
		return
	}

	slog.Info("Chat response sent", "session_id", reply.SessionID)
	JSON(w, http.StatusOK, reply)
}

func (h *ChatHandler) exchange(ctx context.Context, sessionID, message string) (*domain.ChatReply, error) {
	history, err := h.repo.ListMessages(ctx, sessionID, store.DefaultMessageLimit)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ID:        h.newID(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   message,
		Timestamp: h.now(),
	}
	if err := h.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	if h.processor == nil {
		return nil, errAssistantDisabled
	}
	response, err := h.processor.Reply(ctx, history, message)
	if err != nil {
		return nil, err
	}

	now := h.now()
	aiMsg := &domain.Message{
		ID:        h.newID(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   response,
		Timestamp: now,
	}
	if err := h.repo.AppendMessage(ctx, aiMsg); err != nil {
		return nil, err
	}

	if err := h.repo.TouchSession(ctx, sessionID, now); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		slog.Warn("Sent message to unknown session", "session_id", sessionID)
	}

	return &domain.ChatReply{SessionID: sessionID, Response: response, Timestamp: now}, nil
}

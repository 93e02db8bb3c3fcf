package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bdask/bdask/internal/assistant"
	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/feeds"
	"github.com/go-chi/chi/v5"
)

// statusCheckLimit caps GET /api/status.
const statusCheckLimit = 1000

// FeedService is the upstream data used by the feature tabs.
type FeedService interface {
	Cricket(ctx context.Context) (*feeds.CricketFeed, error)
	News(ctx context.Context, category string) (*feeds.NewsFeed, error)
	Football(ctx context.Context) (*feeds.FootballFeed, error)
	ExchangeRates(ctx context.Context) (*feeds.Rates, error)
}

// FeatureHandler serves the non-chat endpoints.
type FeatureHandler struct {
	*Handler
	processor assistant.Processor
	feeds     FeedService
}

// NewFeatureHandler creates a feature handler.
func NewFeatureHandler(base *Handler, processor assistant.Processor, feeds FeedService) *FeatureHandler {
	return &FeatureHandler{Handler: base, processor: processor, feeds: feeds}
}

// RegisterRoutes registers feature routes under the /api router.
func (h *FeatureHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Post("/status", h.CreateStatusCheck)
	r.Get("/status", h.ListStatusChecks)
	r.Post("/translate", h.Translate)
	r.Get("/cricket/live", h.Cricket)
	r.Get("/news", h.News)
	r.Get("/football/live", h.Football)
	r.Get("/exchange/rates", h.ExchangeRates)
}

// Root greets API clients.
func (h *FeatureHandler) Root(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"message": "BdAsk API - বাংলাদেশের AI সহকারী"})
}

type statusCheckRequest struct {
	ClientName *string `json:"client_name"`
}

// CreateStatusCheck records a client heartbeat.
func (h *FeatureHandler) CreateStatusCheck(w http.ResponseWriter, r *http.Request) {
	var req statusCheckRequest
	if !decode(w, r, &req) {
		return
	}
	if name := missingField(field{"client_name", req.ClientName}); name != "" {
		Error(w, http.StatusUnprocessableEntity, name+" is required")
		return
	}

	check := &domain.StatusCheck{ID: h.newID(), ClientName: *req.ClientName, Timestamp: h.now()}
	if err := h.repo.CreateStatusCheck(r.Context(), check); err != nil {
		slog.Error("Failed to store status check", "error", err)
		Error(w, http.StatusInternalServerError, "failed to store status check")
		return
	}
	JSON(w, http.StatusOK, check)
}

// ListStatusChecks returns stored heartbeats.
func (h *FeatureHandler) ListStatusChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.repo.ListStatusChecks(r.Context(), statusCheckLimit)
	if err != nil {
		slog.Error("Failed to list status checks", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list status checks")
		return
	}
	if checks == nil {
		checks = []domain.StatusCheck{}
	}
	JSON(w, http.StatusOK, checks)
}

type translateRequest struct {
	Text   *string `json:"text"`
	Source *string `json:"source"`
	Target *string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	Source         string `json:"source"`
	Target         string `json:"target"`
}

// Translate renders text between two language codes.
func (h *FeatureHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !decode(w, r, &req) {
		return
	}
	if name := missingField(
		field{"text", req.Text},
		field{"source", req.Source},
		field{"target", req.Target},
	); name != "" {
		Error(w, http.StatusUnprocessableEntity, name+" is required")
		return
	}

	resp := translateResponse{Source: *req.Source, Target: *req.Target}
	if strings.TrimSpace(*req.Text) == "" {
		JSON(w, http.StatusOK, resp)
		return
	}
	if h.processor == nil {
		Error(w, http.StatusInternalServerError, "অনুবাদে সমস্যা হয়েছে: "+errAssistantDisabled.Error())
		return
	}

	translated, err := h.processor.Translate(r.Context(), *req.Text, resp.Source, resp.Target)
	if err != nil {
		slog.Error("Translation error", "error", err, "source", resp.Source, "target", resp.Target)
		Error(w, http.StatusInternalServerError, "অনুবাদে সমস্যা হয়েছে: "+err.Error())
		return
	}

	slog.Info("Translation completed", "source", resp.Source, "target", resp.Target)
	resp.TranslatedText = strings.TrimSpace(translated)
	JSON(w, http.StatusOK, resp)
}

// Cricket returns current cricket matches.
func (h *FeatureHandler) Cricket(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feeds.Cricket(r.Context())
	if err != nil {
		feedError(w, err)
		return
	}
	JSON(w, http.StatusOK, feed)
}

// News returns Bangladeshi news, filtered by the optional category query.
func (h *FeatureHandler) News(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feeds.News(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		feedError(w, err)
		return
	}
	JSON(w, http.StatusOK, feed)
}

// Football returns recent and live football matches.
func (h *FeatureHandler) Football(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feeds.Football(r.Context())
	if err != nil {
		feedError(w, err)
		return
	}
	JSON(w, http.StatusOK, feed)
}

// ExchangeRates returns BDT-based exchange rates.
func (h *FeatureHandler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.feeds.ExchangeRates(r.Context())
	if err != nil {
		feedError(w, err)
		return
	}
	JSON(w, http.StatusOK, rates)
}

func feedError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, feeds.ErrUpstreamTimeout) {
		status = http.StatusGatewayTimeout
	}
	Error(w, status, err.Error())
}

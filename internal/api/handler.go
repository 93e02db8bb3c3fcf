// Package api provides HTTP handlers for the BdAsk API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bdask/bdask/internal/store"
	"github.com/google/uuid"
)

// Handler provides common handler utilities.
type Handler struct {
	repo  store.Repository
	now   func() time.Time
	newID func() string
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository) *Handler {
	return &Handler{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"detail": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response in the {"detail": ...} shape clients expect.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]string{"detail": detail})
}

// decode reads a JSON body into v. It writes a 422 and returns false on
// malformed input.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		Error(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type field struct {
	name  string
	value *string
}

// missingField returns the name of the first absent field, or "".
func missingField(fields ...field) string {
	for _, f := range fields {
		if f.value == nil {
			return f.name
		}
	}
	return ""
}

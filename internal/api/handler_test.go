//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestErrorUsesDetailKey(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusGatewayTimeout, "Cricket API timeout")

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("Expected status 504, got %d", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["detail"] != "Cricket API timeout" {
		t.Errorf("Expected detail, got %v", got)
	}
}

func TestMissingFieldKeepsOrder(t *testing.T) {
	text := "x"
	if got := missingField(field{"text", &text}, field{"source", nil}, field{"target", nil}); got != "source" {
		t.Errorf("Expected source, got %q", got)
	}
	if got := missingField(field{"text", &text}); got != "" {
		t.Errorf("Expected no missing field, got %q", got)
	}
}

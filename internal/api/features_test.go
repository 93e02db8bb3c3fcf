package api

import (
	"net/http"
	"testing"

	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/feeds"
	"github.com/go-chi/chi/v5"
)

func newFeatureRouter(repo *fakeRepo, p *fakeProcessor, f *fakeFeeds) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", NewFeatureHandler(newTestBase(repo), p, f).RegisterRoutes)
	return r
}

func TestRootGreeting(t *testing.T) {
	t.Parallel()
	h := newFeatureRouter(newFakeRepo(), &fakeProcessor{}, &fakeFeeds{})

	w := do(t, h, http.MethodGet, "/api/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["message"] != "BdAsk API - বাংলাদেশের AI সহকারী" {
		t.Errorf("unexpected greeting %q", body["message"])
	}
}

func TestStatusChecks(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	h := newFeatureRouter(repo, &fakeProcessor{}, &fakeFeeds{})

	w := do(t, h, http.MethodPost, "/api/status", `{"client_name":"test_client"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var created domain.StatusCheck
	decodeBody(t, w, &created)
	if created.ID == "" || created.ClientName != "test_client" || created.Timestamp.IsZero() {
		t.Errorf("unexpected status check %+v", created)
	}

	if w := do(t, h, http.MethodPost, "/api/status", `{}`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 without client_name, got %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/api/status", "")
	var list []domain.StatusCheck
	decodeBody(t, w, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()
	p := &fakeProcessor{reply: "Hello"}
	h := newFeatureRouter(newFakeRepo(), p, &fakeFeeds{})

	w := do(t, h, http.MethodPost, "/api/translate", `{"text":"হ্যালো","source":"bn","target":"en"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body translateResponse
	decodeBody(t, w, &body)
	if body.TranslatedText != "Hello" || body.Source != "bn" || body.Target != "en" {
		t.Errorf("unexpected translation %+v", body)
	}
	if len(p.translations) != 1 || p.translations[0] != "bn>en:হ্যালো" {
		t.Errorf("unexpected processor calls %v", p.translations)
	}
}

func TestTranslateEmptyTextSkipsModel(t *testing.T) {
	t.Parallel()
	p := &fakeProcessor{reply: "x"}
	h := newFeatureRouter(newFakeRepo(), p, &fakeFeeds{})

	w := do(t, h, http.MethodPost, "/api/translate", `{"text":"  ","source":"bn","target":"en"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(p.translations) != 0 {
		t.Errorf("model should not be called for empty text")
	}
}

func TestTranslateErrors(t *testing.T) {
	t.Parallel()

	h := newFeatureRouter(newFakeRepo(), &fakeProcessor{}, &fakeFeeds{})
	if w := do(t, h, http.MethodPost, "/api/translate", `{"text":"test"}`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing fields, got %d", w.Code)
	}

	h = newFeatureRouter(newFakeRepo(), &fakeProcessor{err: errBoom}, &fakeFeeds{})
	w := do(t, h, http.MethodPost, "/api/translate", `{"text":"a","source":"en","target":"bn"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["detail"] != "অনুবাদে সমস্যা হয়েছে: boom" {
		t.Errorf("unexpected detail %q", body["detail"])
	}
}

func TestFeedEndpoints(t *testing.T) {
	t.Parallel()
	f := &fakeFeeds{}
	h := newFeatureRouter(newFakeRepo(), &fakeProcessor{}, f)

	for _, path := range []string{"/api/cricket/live", "/api/news?category=national", "/api/football/live", "/api/exchange/rates"} {
		if w := do(t, h, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
	if f.category != "national" {
		t.Errorf("expected category forwarded, got %q", f.category)
	}
}

func TestFeedErrorStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		detail string
	}{
		{&feeds.Error{Feed: "Cricket", Err: feeds.ErrNotConfigured}, http.StatusInternalServerError, "Cricket API key not configured"},
		{&feeds.Error{Feed: "Cricket", Err: feeds.ErrUpstreamTimeout}, http.StatusGatewayTimeout, "Cricket API timeout"},
		{&feeds.Error{Feed: "Cricket", Err: errBoom}, http.StatusInternalServerError, "Cricket API error: boom"},
	}
	for _, tc := range cases {
		h := newFeatureRouter(newFakeRepo(), &fakeProcessor{}, &fakeFeeds{err: tc.err})
		w := do(t, h, http.MethodGet, "/api/cricket/live", "")
		if w.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		var body map[string]string
		decodeBody(t, w, &body)
		if body["detail"] != tc.detail {
			t.Errorf("expected detail %q, got %q", tc.detail, body["detail"])
		}
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	r := chi.NewRouter()
	NewHealthHandler(repo, true).RegisterHealth(r)

	if w := do(t, r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	repo.pingErr = errBoom
	if w := do(t, r, http.MethodGet, "/health", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

package api

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/feeds"
	"github.com/bdask/bdask/internal/store"
)

type fakeRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	messages []domain.Message
	checks   []domain.StatusCheck
	pingErr  error
	listErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[string]*domain.Session)}
}

func (f *fakeRepo) CreateSession(_ context.Context, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *s
	f.sessions[s.ID] = &copy
	return nil
}

func (f *fakeRepo) GetSession(_ context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[id]
	if s == nil {
		return nil, nil
	}
	copy := *s
	return &copy, nil
}

func (f *fakeRepo) ListSessions(_ context.Context, limit int) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) TouchSession(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[id]
	if s == nil {
		return store.ErrNotFound
	}
	s.UpdatedAt = at
	return nil
}

func (f *fakeRepo) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.sessions, id)
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.SessionID != id {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

func (f *fakeRepo) AppendMessage(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeRepo) ListMessages(_ context.Context, sessionID string, _ int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateStatusCheck(_ context.Context, c *domain.StatusCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append([]domain.StatusCheck{*c}, f.checks...)
	return nil
}

func (f *fakeRepo) ListStatusChecks(_ context.Context, _ int) ([]domain.StatusCheck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.StatusCheck(nil), f.checks...), nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return f.pingErr }
func (f *fakeRepo) Close() error                 { return nil }

func (f *fakeRepo) messagesFor(sessionID string) []domain.Message {
	msgs, _ := f.ListMessages(context.Background(), sessionID, 0)
	return msgs
}

type fakeProcessor struct {
	mu           sync.Mutex
	reply        string
	err          error
	histories    [][]domain.Message
	translations []string
}

func (p *fakeProcessor) Reply(_ context.Context, history []domain.Message, message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.histories = append(p.histories, history)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProcessor) Translate(_ context.Context, text, source, target string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.translations = append(p.translations, source+">"+target+":"+text)
	if p.err != nil {
		return "", p.err
	}
	return "  " + p.reply + "\n", nil
}

type fakeFeeds struct {
	err      error
	category string
}

func (f *fakeFeeds) Cricket(context.Context) (*feeds.CricketFeed, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feeds.CricketFeed{Matches: []feeds.CricketMatch{{ID: "m1", Name: "BAN vs SL"}}, Total: 1}, nil
}

func (f *fakeFeeds) News(_ context.Context, category string) (*feeds.NewsFeed, error) {
	f.category = category
	if f.err != nil {
		return nil, f.err
	}
	return &feeds.NewsFeed{Articles: []feeds.Article{}, Message: "No news found"}, nil
}

func (f *fakeFeeds) Football(context.Context) (*feeds.FootballFeed, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feeds.FootballFeed{Matches: []feeds.FootballMatch{}}, nil
}

func (f *fakeFeeds) ExchangeRates(context.Context) (*feeds.Rates, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &feeds.Rates{Base: "BDT", Rates: map[string]float64{"USD": 0.0082}}, nil
}

var errBoom = errors.New("boom")

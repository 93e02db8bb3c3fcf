package chat

import (
	"slices"
	"sync"

	"github.com/bdask/bdask/internal/domain"
)

// State is the single owner of the cached session list, the active session
// and its message list. All mutations go through its methods.
type State struct {
	mu       sync.RWMutex
	sessions []domain.Session
	activeID string
	messages []domain.Message
	loading  bool
	onChange func()
}

// OnChange registers fn to run after the message list changes. fn runs
// without the state lock held, so it may take a Snapshot.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	Sessions        []domain.Session
	ActiveSessionID string
	Messages        []domain.Message
	Loading         bool
}

// Snapshot returns a copy safe to read without locking.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Sessions:        slices.Clone(s.sessions),
		ActiveSessionID: s.activeID,
		Messages:        slices.Clone(s.messages),
		Loading:         s.loading,
	}
}

// ActiveSessionID returns the active session, or "" when none.
func (s *State) ActiveSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Loading reports whether a send is in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// tryBeginLoading sets the loading flag, failing if it was already set.
func (s *State) tryBeginLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

func (s *State) endLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *State) replaceSessions(sessions []domain.Session) {
	s.mu.Lock()
	s.sessions = slices.Clone(sessions)
	s.mu.Unlock()
}

func (s *State) prependSession(session domain.Session) {
	s.mu.Lock()
	s.sessions = append([]domain.Session{session}, s.sessions...)
	s.mu.Unlock()
}

// removeSession drops id from the list, clearing the active session and its
// messages when id was active.
func (s *State) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = slices.DeleteFunc(s.sessions, func(sess domain.Session) bool { return sess.ID == id })
	if s.activeID == id {
		s.activeID = ""
		s.messages = nil
	}
}

// activate switches the active session and empties the message list.
func (s *State) activate(id string) {
	s.mu.Lock()
	s.activeID = id
	s.messages = nil
	s.mu.Unlock()
}

// replaceMessages installs msgs if sessionID is still active. Results of a
// load that raced with a session switch are dropped.
func (s *State) replaceMessages(sessionID string, msgs []domain.Message) bool {
	s.mu.Lock()
	if s.activeID != sessionID {
		s.mu.Unlock()
		return false
	}
	s.messages = slices.Clone(msgs)
	fn := s.onChange
	s.mu.Unlock()
	notifyChange(fn)
	return true
}

// appendMessage adds msg if its session is still active.
func (s *State) appendMessage(msg domain.Message) bool {
	s.mu.Lock()
	if s.activeID != msg.SessionID {
		s.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, msg)
	fn := s.onChange
	s.mu.Unlock()
	notifyChange(fn)
	return true
}

func (s *State) removeMessage(id string) {
	s.mu.Lock()
	s.messages = slices.DeleteFunc(s.messages, func(m domain.Message) bool { return m.ID == id })
	fn := s.onChange
	s.mu.Unlock()
	notifyChange(fn)
}

func notifyChange(fn func()) {
	if fn != nil {
		fn()
	}
}

// hasMessageID reports whether any cached message uses id.
func (s *State) hasMessageID(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.messages, func(m domain.Message) bool { return m.ID == id })
}

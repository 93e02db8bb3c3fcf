package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/notify"
	"github.com/bdask/bdask/internal/weather"
	"github.com/sourcegraph/conc"
)

// Dispatcher sends user messages. Each send is a small saga: append the
// user message locally, call the backend, then either commit the assistant
// reply or compensate by removing the user message.
type Dispatcher struct {
	store    *SessionStore
	backend  Backend
	weather  WeatherLookup
	notifier notify.Notifier
	ids      *IDGenerator
	now      func() time.Time
	log      *slog.Logger
}

// DispatcherDeps holds the Dispatcher's collaborators. Weather is optional.
type DispatcherDeps struct {
	Store    *SessionStore
	Backend  Backend
	Weather  WeatherLookup
	Notifier notify.Notifier
	IDs      *IDGenerator
	Logger   *slog.Logger
}

// NewDispatcher wires a Dispatcher.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	if deps.IDs == nil {
		deps.IDs = NewIDGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Dispatcher{
		store:    deps.Store,
		backend:  deps.Backend,
		weather:  deps.Weather,
		notifier: deps.Notifier,
		ids:      deps.IDs,
		now:      time.Now,
		log:      deps.Logger,
	}
}

// Send delivers content to the active session, creating one first when
// none is active. Blank content and sends issued while another is in
// flight are ignored. Failures are reported through the notifier.
func (d *Dispatcher) Send(ctx context.Context, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	state := d.store.State()
	if !state.tryBeginLoading() {
		d.log.Debug("Send ignored while another is in flight")
		return
	}
	defer state.endLoading()

	sessionID, ok := d.resolveSession(ctx, content)
	if !ok {
		return
	}

	userMsg := d.optimisticAppend(sessionID, content)

	reply, snapshot, err := d.exchange(ctx, sessionID, content)
	if err != nil {
		d.compensate(userMsg, err)
		return
	}
	d.commit(sessionID, reply, snapshot)
}

func (d *Dispatcher) resolveSession(ctx context.Context, content string) (string, bool) {
	if id := d.store.State().ActiveSessionID(); id != "" {
		return id, true
	}
	session, err := d.store.CreateSession(ctx, domain.TruncateTitle(content))
	if err != nil {
		d.notifier.Error(notify.SessionCreateFailed)
		return "", false
	}
	d.store.Activate(session.ID)
	return session.ID, true
}

func (d *Dispatcher) optimisticAppend(sessionID, content string) domain.Message {
	state := d.store.State()
	msg := domain.Message{
		ID:        d.ids.Next(state.hasMessageID),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   content,
		Timestamp: d.now().UTC(),
	}
	state.appendMessage(msg)
	return msg
}

// exchange runs the weather lookup, when the content asks about weather,
// alongside the chat call. A failed lookup only yields a nil snapshot.
func (d *Dispatcher) exchange(ctx context.Context, sessionID, content string) (*domain.ChatReply, *domain.Weather, error) {
	var (
		reply    *domain.ChatReply
		sendErr  error
		snapshot *domain.Weather
	)

	wg := conc.NewWaitGroup()
	if d.weather != nil && weather.IsWeatherQuery(content) {
		wg.Go(func() {
			w, err := d.weather.ForQuery(ctx, content)
			if err != nil {
				d.log.Warn("Weather lookup failed", "session_id", sessionID, "error", err)
				return
			}
			snapshot = w
		})
	}
	wg.Go(func() {
		reply, sendErr = d.backend.Send(ctx, sessionID, content)
	})
	wg.Wait()

	return reply, snapshot, sendErr
}

func (d *Dispatcher) commit(sessionID string, reply *domain.ChatReply, snapshot *domain.Weather) {
	state := d.store.State()
	ts := reply.Timestamp
	if ts.IsZero() {
		ts = d.now().UTC()
	}
	msg := domain.Message{
		ID:        d.ids.Next(state.hasMessageID),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   reply.Response,
		Timestamp: ts,
		Weather:   snapshot,
	}
	if !state.appendMessage(msg) {
		d.log.Debug("Session changed before reply arrived", "session_id", sessionID)
	}
}

func (d *Dispatcher) compensate(userMsg domain.Message, err error) {
	d.log.Error("Failed to send message", "session_id", userMsg.SessionID, "error", err)
	d.store.State().removeMessage(userMsg.ID)
	d.notifier.Error(notify.SendFailed)
}

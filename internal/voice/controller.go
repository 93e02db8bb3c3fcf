package voice

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/bdask/bdask/internal/notify"
)

// State is the controller's listening state.
type State int

const (
	StateUnsupported State = iota
	StateIdle
	StateListening
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	default:
		return "unsupported"
	}
}

// Controller drives a Recognizer and accumulates its transcript.
//
// Each StartListening opens a new generation; events from an older
// generation are dropped, except that a session stopped with StopListening
// keeps delivering its final results until the recognizer ends it.
type Controller struct {
	recognizer Recognizer
	notifier   notify.Notifier
	log        *slog.Logger
	onDone     func(transcript string)

	mu         sync.Mutex
	state      State
	lang       string
	transcript string
	interim    string
	confidence float64
	errCode    string
	gen        uint64
	running    bool
	closed     bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithTranscriptHandler registers fn to receive the accumulated transcript
// whenever a session ends with a non-empty one. The transcript stays
// readable until the next StartListening.
func WithTranscriptHandler(fn func(transcript string)) Option {
	return func(c *Controller) { c.onDone = fn }
}

// NewController checks r once. Without a usable recognizer the controller
// stays Unsupported for its whole life and every operation is a no-op.
func NewController(r Recognizer, n notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		notifier: n,
		log:      slog.Default(),
		lang:     DefaultLanguage,
		state:    StateUnsupported,
	}
	if capability := Detect(r); capability.Supported() {
		c.recognizer = capability.recognizer
		c.state = StateIdle
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartListening begins a new recognition session, clearing the previous
// transcript first.
func (c *Controller) StartListening(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateIdle || c.closed {
		c.mu.Unlock()
		return
	}
	draining := c.running
	c.transcript, c.interim, c.confidence = "", "", 0
	c.gen++
	gen := c.gen
	c.state = StateListening
	c.running = true
	opts := Options{
		Language:        c.lang,
		Continuous:      false,
		InterimResults:  true,
		MaxAlternatives: 3,
	}
	c.mu.Unlock()

	if draining {
		c.recognizer.Abort()
	}

	events, err := c.recognizer.Start(ctx, opts)
	if err != nil {
		c.log.Warn("Speech recognition failed to start", "error", err)
		code := ErrorCode(err)
		if code == "" {
			code = CodeAudioCapture
		}
		c.handle(gen, Event{Kind: EventError, Code: code})
		c.handle(gen, Event{Kind: EventEnd})
		return
	}

	// Close may have run while Start was blocked; its Abort then reached a
	// recognizer with no session yet.
	c.mu.Lock()
	stale := gen != c.gen || c.closed
	c.mu.Unlock()
	if stale {
		c.recognizer.Abort()
		go drain(events)
		return
	}
	go c.consume(gen, events)
}

func drain(events <-chan Event) {
	for range events {
	}
}

// StopListening ends the current session. Final results still in flight are
// appended when they arrive.
func (c *Controller) StopListening() {
	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.mu.Unlock()
	c.recognizer.Stop()
}

// ToggleListening starts when idle and stops when listening.
func (c *Controller) ToggleListening(ctx context.Context) {
	if c.IsListening() {
		c.StopListening()
		return
	}
	c.StartListening(ctx)
}

// ResetTranscript clears the transcript, interim text and confidence
// without touching the listening state.
func (c *Controller) ResetTranscript() {
	c.mu.Lock()
	c.transcript, c.interim, c.confidence = "", "", 0
	c.mu.Unlock()
}

// SetLanguage changes the locale for subsequent sessions.
func (c *Controller) SetLanguage(locale string) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return
	}
	c.mu.Lock()
	c.lang = locale
	c.mu.Unlock()
}

// Close aborts any running session. The controller is unusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	running := c.running
	c.running = false
	c.gen++
	if c.state == StateListening {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if running {
		c.recognizer.Abort()
	}
}

func (c *Controller) consume(gen uint64, events <-chan Event) {
	for ev := range events {
		c.handle(gen, ev)
	}
	// A recognizer that closes without EventEnd still ends the session.
	c.handle(gen, Event{Kind: EventEnd})
}

func (c *Controller) handle(gen uint64, ev Event) {
	c.mu.Lock()
	if gen != c.gen || !c.running {
		c.mu.Unlock()
		return
	}

	switch ev.Kind {
	case EventStart:
		c.errCode = ""
		c.interim = ""
		c.mu.Unlock()

	case EventResult:
		c.applyResult(ev.Segments)
		c.mu.Unlock()

	case EventSpeechEnd:
		listening := c.state == StateListening
		c.mu.Unlock()
		if listening {
			c.StopListening()
		}

	case EventError:
		c.errCode = ev.Code
		c.state = StateIdle
		c.mu.Unlock()
		c.log.Warn("Speech recognition error", "code", ev.Code)
		if c.notifier != nil {
			c.notifier.Error(ErrorMessage(ev.Code))
		}

	case EventEnd:
		c.state = StateIdle
		c.running = false
		c.interim = ""
		transcript := c.transcript
		c.mu.Unlock()
		if transcript != "" && c.onDone != nil {
			c.onDone(transcript)
		}

	default:
		c.mu.Unlock()
	}
}

// applyResult appends finalized text and replaces the interim text. Must be
// called with c.mu held.
func (c *Controller) applyResult(segments []Segment) {
	var final, interim strings.Builder
	maxConfidence := 0.0
	for _, seg := range segments {
		if seg.Final {
			final.WriteString(seg.Transcript)
			if seg.Confidence > maxConfidence {
				maxConfidence = seg.Confidence
			}
			continue
		}
		interim.WriteString(seg.Transcript)
	}
	if final.Len() > 0 {
		c.transcript += final.String()
		c.confidence = maxConfidence
	}
	c.interim = interim.String()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsSupported reports whether a recognizer was found at construction.
func (c *Controller) IsSupported() bool {
	return c.recognizer != nil
}

// IsListening reports whether a session is capturing speech.
func (c *Controller) IsListening() bool {
	return c.State() == StateListening
}

// Transcript returns the finalized text of the current session.
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// InterimTranscript returns the latest provisional text.
func (c *Controller) InterimTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interim
}

// Confidence returns the highest confidence of the last finalized update.
func (c *Controller) Confidence() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confidence
}

// Error returns the last error code, or "" after a clean start.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errCode
}

// Language returns the locale used for the next session.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

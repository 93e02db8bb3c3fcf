// Package deepgram implements voice.Recognizer on Deepgram's live
// transcription websocket, fed by a local audio capture command.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/bdask/bdask/internal/voice"
	"github.com/coder/websocket"
)

// Config holds the streaming parameters.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	SampleRate int
	Channels   int
	ChunkSize  int
}

// Recognizer streams captured audio to Deepgram.
type Recognizer struct {
	cfg    Config
	source AudioSource
	log    *slog.Logger

	mu      sync.Mutex
	current *session
}

// New returns a recognizer. It reports itself unsupported when the API key
// or the audio source is missing.
func New(cfg Config, source AudioSource, logger *slog.Logger) *Recognizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "wss://api.deepgram.com"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 3200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{cfg: cfg, source: source, log: logger}
}

// Supported implements voice.Recognizer.
func (r *Recognizer) Supported() bool {
	return r.cfg.APIKey != "" && r.source != nil
}

type session struct {
	conn    *websocket.Conn
	audio   io.ReadCloser
	cancel  context.CancelFunc
	events  chan voice.Event
	opts    voice.Options
	log     *slog.Logger
	once    sync.Once
	mu      sync.Mutex
	aborted bool
	stopped bool
	heard   bool
}

// Start implements voice.Recognizer.
func (r *Recognizer) Start(ctx context.Context, opts voice.Options) (<-chan voice.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return nil, &voice.Error{Code: voice.CodeAborted, Err: errors.New("recognition already started")}
	}

	sctx, cancel := context.WithCancel(ctx)
	conn, resp, err := websocket.Dial(sctx, r.listenURL(opts), &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Token " + r.cfg.APIKey}},
	})
	if err != nil {
		cancel()
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &voice.Error{Code: voice.CodeNotAllowed, Err: err}
		}
		return nil, &voice.Error{Code: voice.CodeNetwork, Err: err}
	}

	audio, err := r.source.Open(sctx)
	if err != nil {
		cancel()
		_ = conn.Close(websocket.StatusNormalClosure, "audio unavailable")
		return nil, &voice.Error{Code: voice.CodeAudioCapture, Err: err}
	}

	s := &session{
		conn:   conn,
		audio:  audio,
		cancel: cancel,
		events: make(chan voice.Event, 16),
		opts:   opts,
		log:    r.log,
	}
	r.current = s

	s.events <- voice.Event{Kind: voice.EventStart}
	go s.pump(sctx, r.cfg.ChunkSize)
	go func() {
		s.read(sctx)
		r.mu.Lock()
		if r.current == s {
			r.current = nil
		}
		r.mu.Unlock()
	}()
	return s.events, nil
}

// Stop implements voice.Recognizer.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()
	if s != nil {
		s.stop()
	}
}

// Abort implements voice.Recognizer.
func (r *Recognizer) Abort() {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()
	if s != nil {
		s.abort()
	}
}

func (r *Recognizer) listenURL(opts voice.Options) string {
	q := url.Values{}
	q.Set("model", r.cfg.Model)
	q.Set("language", opts.Language)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(r.cfg.SampleRate))
	q.Set("channels", strconv.Itoa(r.cfg.Channels))
	q.Set("interim_results", strconv.FormatBool(opts.InterimResults))
	q.Set("punctuate", "true")
	q.Set("smart_format", "true")
	if opts.MaxAlternatives > 0 {
		q.Set("alternatives", strconv.Itoa(opts.MaxAlternatives))
	}
	return strings.TrimSuffix(r.cfg.BaseURL, "/") + "/v1/listen?" + q.Encode()
}

// pump copies captured audio to the socket until the source ends or the
// session stops.
func (s *session) pump(ctx context.Context, chunkSize int) {
	buf := make([]byte, chunkSize)
	for {
		n, err := s.audio.Read(buf)
		if n > 0 {
			if werr := s.conn.Write(ctx, websocket.MessageBinary, buf[:n]); werr != nil {
				s.log.Debug("Deepgram audio write failed", "error", werr)
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Debug("Audio capture ended", "error", err)
			}
			s.stop()
			return
		}
	}
}

// stop closes the audio source and asks Deepgram to flush final results.
func (s *session) stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	if err := s.audio.Close(); err != nil {
		s.log.Debug("Failed to close audio source", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	if err := s.conn.Write(ctx, websocket.MessageText, []byte(`{"type":"CloseStream"}`)); err != nil {
		s.log.Debug("Failed to send CloseStream", "error", err)
	}
}

func (s *session) abort() {
	s.mu.Lock()
	s.aborted = true
	s.stopped = true
	s.mu.Unlock()
	_ = s.audio.Close()
	s.cancel()
	_ = s.conn.Close(websocket.StatusNormalClosure, "aborted")
}

// read translates Deepgram frames into events until the socket closes.
func (s *session) read(ctx context.Context) {
	defer s.finish()
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			s.mu.Lock()
			aborted, stopped, heard := s.aborted, s.stopped, s.heard
			s.mu.Unlock()
			switch {
			case aborted:
				s.events <- voice.Event{Kind: voice.EventError, Code: voice.CodeAborted}
			case websocket.CloseStatus(err) == websocket.StatusNormalClosure || stopped:
				if !heard {
					s.events <- voice.Event{Kind: voice.EventError, Code: voice.CodeNoSpeech}
				}
			default:
				s.log.Warn("Deepgram stream failed", "error", err)
				s.events <- voice.Event{Kind: voice.EventError, Code: voice.CodeNetwork}
			}
			return
		}

		ev, speechEnd, ok := parseFrame(data)
		if !ok {
			continue
		}
		if len(ev.Segments) > 0 {
			s.mu.Lock()
			for _, seg := range ev.Segments {
				if seg.Final && seg.Transcript != "" {
					s.heard = true
				}
			}
			s.mu.Unlock()
			s.events <- ev
		}
		if speechEnd && !s.opts.Continuous {
			s.events <- voice.Event{Kind: voice.EventSpeechEnd}
		}
	}
}

func (s *session) finish() {
	s.once.Do(func() {
		s.cancel()
		_ = s.conn.Close(websocket.StatusNormalClosure, "")
		s.events <- voice.Event{Kind: voice.EventEnd}
		close(s.events)
	})
}

type resultFrame struct {
	Type    string `json:"type"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
	IsFinal     bool `json:"is_final"`
	SpeechFinal bool `json:"speech_final"`
}

// parseFrame decodes a Results frame. Other frame types are skipped.
func parseFrame(data []byte) (voice.Event, bool, bool) {
	var frame resultFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return voice.Event{}, false, false
	}
	if frame.Type != "Results" {
		return voice.Event{}, false, false
	}
	ev := voice.Event{Kind: voice.EventResult}
	if alts := frame.Channel.Alternatives; len(alts) > 0 && alts[0].Transcript != "" {
		ev.Segments = []voice.Segment{{
			Transcript: alts[0].Transcript,
			Confidence: alts[0].Confidence,
			Final:      frame.IsFinal,
		}}
	}
	return ev, frame.SpeechFinal, true
}

// Package voice turns a speech recognizer into a start/stop/toggle input
// that accumulates a transcript.
package voice

import (
	"context"
	"errors"
)

// DefaultLanguage is the recognition locale used unless changed.
const DefaultLanguage = "bn-BD"

// Recognition error codes.
const (
	CodeNotAllowed   = "not-allowed"
	CodeNoSpeech     = "no-speech"
	CodeNetwork      = "network"
	CodeAudioCapture = "audio-capture"
	CodeAborted      = "aborted"
)

// Options configures one recognition session.
type Options struct {
	Language        string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// EventKind tags recognizer events.
type EventKind int

const (
	// EventStart means audio capture is engaged.
	EventStart EventKind = iota
	// EventResult carries transcript segments.
	EventResult
	// EventSpeechEnd means the speaker stopped talking.
	EventSpeechEnd
	// EventError carries an error code. An EventEnd follows.
	EventError
	// EventEnd is the last event of a session.
	EventEnd
)

// Segment is one recognized piece of speech.
type Segment struct {
	Transcript string
	Confidence float64
	Final      bool
}

// Event is emitted by a Recognizer during a session.
type Event struct {
	Kind     EventKind
	Segments []Segment
	Code     string
}

// Recognizer is a platform speech-recognition engine. It runs at most one
// session at a time; the event channel is closed after EventEnd.
type Recognizer interface {
	// Supported reports whether recognition can run on this host.
	Supported() bool
	// Start begins a session.
	Start(ctx context.Context, opts Options) (<-chan Event, error)
	// Stop ends capture and lets pending results arrive.
	Stop()
	// Abort ends the session immediately, discarding pending results.
	Abort()
}

// Error is a recognition failure carrying one of the Code constants.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "voice: " + e.Code + ": " + e.Err.Error()
	}
	return "voice: " + e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode extracts the recognition code from err, or "" when it has none.
func ErrorCode(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// Capability is the result of probing the host for a recognizer.
type Capability struct {
	recognizer Recognizer
}

// Detect checks r once. A nil or unsupported recognizer yields an
// unsupported capability.
func Detect(r Recognizer) Capability {
	if r == nil || !r.Supported() {
		return Capability{}
	}
	return Capability{recognizer: r}
}

// Supported reports whether a recognizer is available.
func (c Capability) Supported() bool { return c.recognizer != nil }

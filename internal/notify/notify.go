// Package notify delivers short user-facing notices (toasts).
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Bengali notices shown by the chat client.
const (
	SessionCreated      = "নতুন কথোপকথন শুরু হয়েছে!"
	SessionCreateFailed = "সেশন তৈরি করতে সমস্যা হয়েছে"
	SessionDeleted      = "সেশন মুছে ফেলা হয়েছে"
	SessionDeleteFailed = "সেশন মুছতে সমস্যা হয়েছে"
	SendFailed          = "বার্তা পাঠাতে সমস্যা হয়েছে। আবার চেষ্টা করুন।"
)

// Notifier shows a notice to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console writes notices as single lines to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a notifier writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Success(msg string) { c.write("✓", msg) }
func (c *Console) Error(msg string)   { c.write("✗", msg) }

func (c *Console) write(mark, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "%s %s\n", mark, msg)
}

// Kind distinguishes recorded notices.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Notice is one recorded notification.
type Notice struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Kind: k, Message: msg})
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Errors returns only the error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notices {
		if n.Kind == KindError {
			out = append(out, n.Message)
		}
	}
	return out
}

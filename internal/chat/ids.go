package chat

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out client-side message IDs derived from the current
// time in milliseconds. IDs are strictly increasing even when the clock
// stalls or steps backwards.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator backed by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh ID. taken reports IDs already in use; those are skipped.
func (g *IDGenerator) Next(taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	for taken != nil && taken(strconv.FormatInt(n, 10)) {
		n++
	}
	g.last = n
	return strconv.FormatInt(n, 10)
}

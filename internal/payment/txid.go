package payment

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues time-based transaction ids ("tx" + unix millis).
// Ids are strictly increasing: a second id within the same millisecond
// takes the next free value.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator reading the given clock.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "tx" + strconv.FormatInt(ms, 10)
}

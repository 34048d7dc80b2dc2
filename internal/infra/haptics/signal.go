// Package haptics queues vibration requests for delivery to the device with
// the next rendered screen.
package haptics

import (
	"sync"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"
)

// Signal collects pulses until the client picks them up.
type Signal struct {
	mu     sync.Mutex
	pulses []time.Duration
}

var _ port.Haptics = (*Signal)(nil)

// NewSignal creates an empty Signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Vibrate queues a pulse of duration d.
func (s *Signal) Vibrate(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.pulses = append(s.pulses, d)
	s.mu.Unlock()
}

// Drain returns the queued pulses in milliseconds and empties the queue.
func (s *Signal) Drain() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pulses) == 0 {
		return nil
	}
	out := make([]int, len(s.pulses))
	for i, p := range s.pulses {
		out[i] = int(p.Milliseconds())
	}
	s.pulses = nil
	return out
}

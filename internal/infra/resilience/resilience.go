// Package resilience provides fault-tolerance patterns for outbound calls:
// circuit breaker and bulkhead. Calls to the generative-AI service are
// single-attempt.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrAbandoned marks a call the caller gave up on before the service
// answered. It says nothing about the service's health.
var ErrAbandoned = errors.New("call abandoned by caller")

// BreakerOption customizes a circuit breaker.
type BreakerOption func(*gobreaker.Settings)

// OnStateChange registers fn to observe every breaker transition.
func OnStateChange(fn func(name string, from, to gobreaker.State)) BreakerOption {
	return func(s *gobreaker.Settings) { s.OnStateChange = fn }
}

// NewCircuitBreaker creates a circuit breaker that opens once at least 5
// requests in the current 30s window have failed at a 60% ratio, and
// probes again with 3 requests after 10s. Cancelled and abandoned calls
// never count as failures.
func NewCircuitBreaker(name string, opts ...BreakerOption) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrAbandoned)
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// Bulkhead caps the number of concurrent model calls across all sessions.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead with the given max concurrency.
// Non-positive values mean a single slot.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Bulkhead{sem: make(chan struct{}, maxConcurrency)}
}

// Acquire blocks until a slot is available or context is cancelled.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (b *Bulkhead) Release() {
	<-b.sem
}

package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/payment"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"
)

// --- Mocks ---

type mockGenerator struct {
	mu       sync.Mutex
	calls    atomic.Int32
	lastReq  *domain.GenerateRequest
	response *domain.GenerateResponse
	err      error
}

func (m *mockGenerator) GenerateContent(_ context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockGenerator) request() *domain.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

// blockingResolver holds every resolution until release is closed.
type blockingResolver struct {
	started chan string
	release chan struct{}
}

func newBlockingResolver() *blockingResolver {
	return &blockingResolver{started: make(chan string, 4), release: make(chan struct{})}
}

func (r *blockingResolver) Resolve(_ context.Context, raw string) domain.Payee {
	r.started <- raw
	<-r.release
	return service.FallbackPayee(raw)
}

type staticInsight struct {
	text  string
	calls atomic.Int32
}

func (s *staticInsight) Summarize(_ context.Context, _ []domain.Transaction) string {
	s.calls.Add(1)
	return s.text
}

// --- Helpers ---

func testControllerConfig() service.ControllerConfig {
	sc := scanner.DefaultConfig()
	sc.PollInterval = 5 * time.Millisecond
	sc.SimulateDelay = 10 * time.Millisecond

	return service.ControllerConfig{
		Scanner: sc,
		Payment: payment.Config{
			ProcessingDelay: 10 * time.Millisecond,
			Now:             time.Now,
			IDs:             payment.NewIDGenerator(time.Now),
		},
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

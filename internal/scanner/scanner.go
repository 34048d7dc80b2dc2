// Package scanner implements the QR scanner screen: it holds the camera for
// one activation, polls frames through the optional barcode detector, and
// offers simulated scans for devices without native detection.
package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"

	"go.uber.org/zap"
)

// State is the scanner's lifecycle position.
type State string

const (
	StateAcquiring State = "acquiring-camera"
	StateScanning  State = "scanning"
	StateAnalyzing State = "analyzing"
	StateSuccess   State = "success"
	StateError     State = "error"
)

// Source tells how a payload was obtained.
type Source string

const (
	SourceNative    Source = "native"
	SourceSimulated Source = "simulated"
)

// DemoKind selects one of the built-in simulated QR codes.
type DemoKind string

const (
	DemoMerchant DemoKind = "merchant"
	DemoPersonal DemoKind = "personal"
)

const (
	MerchantDemoID = "star_bakery@okhdfc"
	PersonalDemoID = "rahul.verma@okybl"
)

// CameraDeniedMessage is shown whenever the camera cannot be acquired.
const CameraDeniedMessage = "Camera access denied. Please allow permissions."

// PayeeID returns the identifier encoded by the demo QR.
func (k DemoKind) PayeeID() (string, bool) {
	switch k {
	case DemoMerchant:
		return MerchantDemoID, true
	case DemoPersonal:
		return PersonalDemoID, true
	}
	return "", false
}

// Config holds the scanner timings.
type Config struct {
	PollInterval  time.Duration
	SimulateDelay time.Duration
	HapticPulse   time.Duration
	Constraints   domain.CameraConstraints
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		PollInterval:  300 * time.Millisecond,
		SimulateDelay: 1500 * time.Millisecond,
		HapticPulse:   200 * time.Millisecond,
		Constraints:   domain.RearCamera,
	}
}

// ScanFunc receives the decoded payload. It runs on its own goroutine so it
// may call back into code that stops the Session.
type ScanFunc func(raw string, source Source)

// Snapshot is a read-only view of the scanner for rendering.
type Snapshot struct {
	State         State  `json:"state"`
	Error         string `json:"error,omitempty"`
	NativeSupport bool   `json:"nativeSupport"`
	CanSimulate   bool   `json:"canSimulate"`
}

// Session is one activation of the scanner screen. It is single use:
// Start acquires the camera at most once and Stop releases everything.
type Session struct {
	cfg      Config
	camera   port.Camera
	detector port.BarcodeDetector
	haptics  port.Haptics
	onScan   ScanFunc
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	errMsg    string
	stream    port.VideoStream
	started   bool
	stopped   bool
	handedOff bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a Session. detector and haptics may be nil when the platform
// lacks the capability.
func New(cfg Config, camera port.Camera, detector port.BarcodeDetector, haptics port.Haptics, onScan ScanFunc, logger *zap.Logger) *Session {
	return &Session{
		cfg:      cfg,
		camera:   camera,
		detector: detector,
		haptics:  haptics,
		onScan:   onScan,
		logger:   logger,
		state:    StateAcquiring,
	}
}

// Start acquires the camera and, when a detector is available, begins
// polling frames. A failed acquisition leaves the Session in StateError and
// returns the cause; nothing is polled in that case.
func (s *Session) Start(parent context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return nil
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(parent)

	stream, err := s.camera.Open(s.ctx, s.cfg.Constraints)
	if err != nil {
		s.state = StateError
		s.errMsg = CameraDeniedMessage
		s.logger.Warn("camera acquisition failed", zap.Error(err))
		return err
	}

	s.stream = stream
	s.state = StateScanning

	if s.detector != nil {
		s.wg.Add(1)
		go s.poll(s.ctx)
	}
	return nil
}

// Simulate schedules a demo payload after the configured delay.
func (s *Session) Simulate(kind DemoKind) error {
	id, ok := kind.PayeeID()
	if !ok {
		return &domain.ErrValidation{Field: "kind", Message: "unknown demo kind " + string(kind)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped || s.state != StateScanning {
		return &domain.ErrInvalidAction{View: domain.ViewScanner, Action: "simulate"}
	}

	s.state = StateAnalyzing
	s.wg.Add(1)
	go s.simulate(s.ctx, id)
	return nil
}

// Stop tears the activation down: pending work is cancelled, the camera is
// released and every goroutine is joined. It is idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.releaseLocked()
	if s.handedOff && s.state == StateAnalyzing {
		s.state = StateSuccess
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Snapshot returns the current render state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:         s.state,
		Error:         s.errMsg,
		NativeSupport: s.detector != nil,
		CanSimulate:   s.state == StateScanning && !s.stopped,
	}
}

func (s *Session) poll(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		stream, scanning := s.stream, s.state == StateScanning
		s.mu.Unlock()
		if !scanning || stream == nil {
			return
		}

		frame, ready := stream.Frame()
		if !ready {
			continue
		}

		codes, err := s.detector.Detect(ctx, frame)
		if err != nil {
			s.logger.Debug("frame detection failed", zap.Error(err))
			continue
		}
		for _, raw := range codes {
			if raw == "" {
				continue
			}
			if s.finish(ctx, raw, SourceNative) {
				return
			}
		}
	}
}

func (s *Session) simulate(ctx context.Context, id string) {
	defer s.wg.Done()

	t := time.NewTimer(s.cfg.SimulateDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}
	s.finish(ctx, id, SourceSimulated)
}

// finish moves to analyzing, releases the camera and hands the payload off.
// Only the first payload of an activation is delivered.
func (s *Session) finish(ctx context.Context, raw string, source Source) bool {
	s.mu.Lock()
	if ctx.Err() != nil || s.handedOff {
		s.mu.Unlock()
		return false
	}
	if source == SourceNative && s.state != StateScanning {
		s.mu.Unlock()
		return false
	}
	s.state = StateAnalyzing
	s.handedOff = true
	s.releaseLocked()
	s.mu.Unlock()

	if source == SourceNative && s.haptics != nil {
		s.haptics.Vibrate(s.cfg.HapticPulse)
	}

	s.logger.Info("qr payload captured", zap.String("source", string(source)))
	go s.onScan(raw, source)
	return true
}

func (s *Session) releaseLocked() {
	if s.stream == nil {
		return
	}
	if err := s.stream.Close(); err != nil {
		s.logger.Warn("camera release failed", zap.Error(err))
	}
	s.stream = nil
}

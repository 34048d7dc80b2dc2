// Package camera models a device camera whose frames are pushed by the
// client. A Feed is owned by one device session and can be held by at most
// one stream at a time.
package camera

import (
	"context"
	"image"
	"sync"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"
)

// Feed is the session's camera. The zero permission state is "denied":
// the client must report a grant before the device can be opened.
type Feed struct {
	mu          sync.Mutex
	granted     bool
	held        bool
	latest      image.Image
	constraints domain.CameraConstraints
	opens       int
}

var _ port.Camera = (*Feed)(nil)

// NewFeed creates a Feed with permission not yet granted.
func NewFeed() *Feed {
	return &Feed{}
}

// SetPermission records the outcome of the client's permission prompt.
func (f *Feed) SetPermission(granted bool) {
	f.mu.Lock()
	f.granted = granted
	f.mu.Unlock()
}

// Open acquires the device exclusively.
func (f *Feed) Open(ctx context.Context, constraints domain.CameraConstraints) (port.VideoStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.granted {
		return nil, &domain.ErrCameraUnavailable{Reason: "permission denied"}
	}
	if f.held {
		return nil, domain.ErrDeviceBusy
	}

	f.held = true
	f.latest = nil
	f.constraints = constraints
	f.opens++
	return &stream{feed: f}, nil
}

// Push delivers a frame from the device. Frames are rejected while no
// stream holds the camera.
func (f *Feed) Push(img image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.held {
		return domain.ErrCameraIdle
	}
	f.latest = img
	return nil
}

// Held reports whether a stream currently owns the device.
func (f *Feed) Held() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held
}

// Opens returns how many times the device has been acquired.
func (f *Feed) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// Constraints returns the constraints of the most recent acquisition.
func (f *Feed) Constraints() domain.CameraConstraints {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.constraints
}

func (f *Feed) frame() (image.Image, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.latest != nil
}

func (f *Feed) release() {
	f.mu.Lock()
	f.held = false
	f.latest = nil
	f.mu.Unlock()
}

type stream struct {
	feed *Feed
	once sync.Once
	done bool
	mu   sync.Mutex
}

// Frame returns the latest frame; false until one has arrived.
func (s *stream) Frame() (image.Image, bool) {
	s.mu.Lock()
	closed := s.done
	s.mu.Unlock()
	if closed {
		return nil, false
	}
	return s.feed.frame()
}

func (s *stream) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
		s.feed.release()
	})
	return nil
}

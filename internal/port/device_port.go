package port

import (
	"context"
	"image"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
)

// Camera grants exclusive access to a capture device.
type Camera interface {
	// Open acquires the device. It fails with *domain.ErrCameraUnavailable
	// when permission is denied and domain.ErrDeviceBusy when already held.
	Open(ctx context.Context, constraints domain.CameraConstraints) (VideoStream, error)
}

// VideoStream is a held camera. Close releases the device and is idempotent.
type VideoStream interface {
	// Frame returns the most recent frame, or false while no frame has
	// arrived yet.
	Frame() (image.Image, bool)
	Close() error
}

// BarcodeDetector decodes zero or more payloads from a single frame.
type BarcodeDetector interface {
	Detect(ctx context.Context, frame image.Image) ([]string, error)
}

// Haptics triggers a vibration on the device.
type Haptics interface {
	Vibrate(d time.Duration)
}

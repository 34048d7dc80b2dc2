// Package qr holds the QR code capabilities: decoding payloads out of
// camera frames and rendering the profile QR image.
package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"go.opentelemetry.io/otel"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/port"
)

var tracer = otel.Tracer("qr")

// Detector decodes QR codes with gozxing. gozxing readers keep internal
// state, so Detect calls are serialized.
type Detector struct {
	mu     sync.Mutex
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

var _ port.BarcodeDetector = (*Detector)(nil)

// NewDetector creates a QR-only detector.
func NewDetector() *Detector {
	return &Detector{
		reader: qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Detect returns the payloads found in frame. A frame without a code yields
// no payloads and no error.
func (d *Detector) Detect(ctx context.Context, frame image.Image) ([]string, error) {
	_, span := tracer.Start(ctx, "Detector.Detect")
	defer span.End()

	bmp, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return nil, fmt.Errorf("binarize frame: %w", err)
	}

	d.mu.Lock()
	res, err := d.reader.Decode(bmp, d.hints)
	d.reader.Reset()
	d.mu.Unlock()

	if err != nil {
		var notFound gozxing.NotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode qr: %w", err)
	}

	if text := res.GetText(); text != "" {
		return []string{text}, nil
	}
	return nil, nil
}

package qr_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/qr"
)

func TestEncodeThenDetect(t *testing.T) {
	payload := "upi://pay?pa=star_bakery@okhdfc&pn=Star+Bakery"

	raw, err := qr.EncodePNG(payload)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Fatal("expected PNG signature")
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	got, err := qr.NewDetector().Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0] != payload {
		t.Errorf("expected [%s], got %v", payload, got)
	}
}

func TestDetect_BlankFrame(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	got, err := qr.NewDetector().Detect(context.Background(), blank)
	if err != nil {
		t.Fatalf("expected no error for a frame without codes, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no payloads, got %v", got)
	}
}

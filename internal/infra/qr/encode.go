package qr

import (
	"bytes"
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// bufferCloser lets the standard writer target an in-memory buffer.
type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

// EncodePNG renders payload as a QR code PNG.
func EncodePNG(payload string) ([]byte, error) {
	qrc, err := qrcode.New(payload)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}

	buf := bufferCloser{Buffer: new(bytes.Buffer)}
	w := standard.NewWithWriter(buf, standard.WithBuiltinImageEncoder(standard.PNG_FORMAT))
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("write qr png: %w", err)
	}
	return buf.Bytes(), nil
}

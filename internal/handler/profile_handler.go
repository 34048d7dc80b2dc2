package handler

import (
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/qr"

	"go.uber.org/zap"
)

// profileQRHandler serves the user's receive-money QR code.
func profileQRHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/profile/qr.png")
		defer span.End()

		user := SessionFromContext(r.Context()).Controller.Snapshot().User
		png, err := qr.EncodePNG(user.PaymentURI())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}
}

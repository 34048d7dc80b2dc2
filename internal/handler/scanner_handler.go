package handler

import (
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/scanner"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxFrameBytes bounds a single uploaded camera frame.
const maxFrameBytes = 4 << 20

// ============================================================
// Scanner: /v1/scanner/*
// ============================================================

// scannerOpenHandler records the device's camera permission answer and
// opens the scanner screen.
func scannerOpenHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/scanner/open")
		defer span.End()

		var req struct {
			CameraPermission bool `json:"cameraPermission"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(attribute.Bool("camera.permission", req.CameraPermission))

		sess := SessionFromContext(r.Context())
		sess.Feed.SetPermission(req.CameraPermission)
		if err := sess.Controller.Navigate(domain.ViewScanner); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusOK, sess)
	}
}

// scannerFramesHandler accepts one JPEG or PNG camera frame and hands it to
// the session's camera stream.
func scannerFramesHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/scanner/frames")
		defer span.End()

		img, format, err := image.Decode(http.MaxBytesReader(w, r.Body, maxFrameBytes))
		if err != nil {
			logger.Debug("frame decode failed", zap.Error(err))
			writeError(w, http.StatusBadRequest, "invalid image frame")
			return
		}
		span.SetAttributes(attribute.String("frame.format", format))

		sess := SessionFromContext(r.Context())
		if err := sess.Feed.Push(img); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusAccepted, sess)
	}
}

func scannerSimulateHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/scanner/simulate")
		defer span.End()

		var req struct {
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(attribute.String("scan.kind", req.Kind))

		sess := SessionFromContext(r.Context())
		if err := sess.Controller.Simulate(scanner.DemoKind(req.Kind)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusAccepted, sess)
	}
}

// scannerCloseHandler is the scanner's back button.
func scannerCloseHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/scanner/close")
		defer span.End()

		sess := SessionFromContext(r.Context())
		if err := sess.Controller.Navigate(domain.ViewHome); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusOK, sess)
	}
}

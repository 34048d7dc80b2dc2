package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/screen"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeScreen renders the session's current screen. Pending haptic pulses
// are drained into the document so each pulse is delivered once.
func writeScreen(w http.ResponseWriter, status int, sess *service.Session) {
	var pulses []int
	if sess.Haptics != nil {
		pulses = sess.Haptics.Drain()
	}
	writeJSON(w, status, screen.Render(sess.Controller.Snapshot(), pulses))
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var circuitOpen *domain.ErrCircuitOpen
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var invalidAction *domain.ErrInvalidAction
	var cameraUnavailable *domain.ErrCameraUnavailable
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &invalidAction):
		logger.Debug("invalid action", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDeviceBusy), errors.Is(err, domain.ErrCameraIdle):
		logger.Debug("camera conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &cameraUnavailable):
		logger.Debug("camera unavailable", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &external):
		logger.Error("external service error", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

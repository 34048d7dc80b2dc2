package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Payment: /v1/payment/*
// ============================================================

func paymentKeyHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/payment/keys")
		defer span.End()

		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := SessionFromContext(r.Context())
		if err := sess.Controller.PressKey(req.Key); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusOK, sess)
	}
}

// paymentActionHandler serves the body-less payment buttons.
func paymentActionHandler(name string, action func(*service.Controller) error, logger *zap.Logger) http.HandlerFunc {
	op := "POST /v1/payment/" + name
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), op)
		defer span.End()

		sess := SessionFromContext(r.Context())
		if err := action(sess.Controller); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusOK, sess)
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Navigation: GET /v1/screen, POST /v1/navigate
// ============================================================

func screenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/screen")
		defer span.End()

		writeScreen(w, http.StatusOK, SessionFromContext(r.Context()))
	}
}

func navigateHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/navigate")
		defer span.End()

		var req struct {
			View string `json:"view"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		view, err := domain.ParseView(req.View)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("view", string(view)))

		sess := SessionFromContext(r.Context())
		if err := sess.Controller.Navigate(view); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeScreen(w, http.StatusOK, sess)
	}
}

package handler

import (
	"net/http"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/screen"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Sessions: POST /v1/sessions, DELETE /v1/sessions
// ============================================================

type createSessionResponse struct {
	Token     string          `json:"token"`
	SessionID string          `json:"sessionId"`
	Screen    screen.Document `json:"screen"`
}

func createSessionHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions")
		defer span.End()

		sess, token, err := sessions.Create(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("session.id", sess.ID))

		writeJSON(w, http.StatusCreated, createSessionResponse{
			Token:     token,
			SessionID: sess.ID,
			Screen:    screen.Render(sess.Controller.Snapshot(), nil),
		})
	}
}

func endSessionHandler(sessions *service.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "DELETE /v1/sessions")
		defer span.End()

		sess := SessionFromContext(r.Context())
		sessions.End(sess.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

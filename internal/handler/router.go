package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/infra/observability"
	"github.com/boddenberg/upi-wallet-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// genaiBreaker is nil when no model is configured and the AI collaborators
// answer with their fallbacks.
func NewRouter(sessions *service.SessionManager, genaiBreaker *gobreaker.CircuitBreaker, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(sessions, genaiBreaker))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/genai", genaiMetricsHandler(metrics))

		if sessions == nil {
			r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusServiceUnavailable, "session service unavailable")
			}))
			return
		}

		// =============================================
		// Sessions
		// =============================================
		r.Post("/sessions", createSessionHandler(sessions, logger))

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(sessions, logger))

			r.Delete("/sessions", endSessionHandler(sessions))

			// =============================================
			// Navigation
			// =============================================
			r.Get("/screen", screenHandler())
			r.Post("/navigate", navigateHandler(logger))

			// =============================================
			// Scanner
			// =============================================
			r.Post("/scanner/open", scannerOpenHandler(logger))
			r.Post("/scanner/frames", scannerFramesHandler(logger))
			r.Post("/scanner/simulate", scannerSimulateHandler(logger))
			r.Post("/scanner/close", scannerCloseHandler(logger))

			// =============================================
			// Payment
			// =============================================
			r.Post("/payment/keys", paymentKeyHandler(logger))
			r.Post("/payment/backspace", paymentActionHandler("backspace", (*service.Controller).Backspace, logger))
			r.Post("/payment/proceed", paymentActionHandler("proceed", (*service.Controller).Proceed, logger))
			r.Post("/payment/submit", paymentActionHandler("submit", (*service.Controller).Submit, logger))
			r.Post("/payment/back", paymentActionHandler("back", (*service.Controller).PaymentBack, logger))

			// =============================================
			// Profile
			// =============================================
			r.Get("/profile/qr.png", profileQRHandler(logger))
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(sessions *service.SessionManager, genaiBreaker *gobreaker.CircuitBreaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "wallet-bfa", Status: "healthy", LastChecked: now},
		}

		genai := domain.ServiceHealth{Name: "genai", Status: "healthy", LastChecked: now}
		switch {
		case genaiBreaker == nil:
			genai.Status = "degraded"
			genai.Detail = "not configured, fallbacks active"
		case genaiBreaker.State() == gobreaker.StateOpen:
			genai.Status = "degraded"
			genai.Detail = "circuit open, fallbacks active"
		default:
			genai.Detail = "circuit " + genaiBreaker.State().String()
		}
		services = append(services, genai)

		if sessions != nil {
			detector := domain.ServiceHealth{Name: "barcode-detection", Status: "healthy", LastChecked: now}
			if !sessions.BarcodeDetection() {
				detector.Status = "degraded"
				detector.Detail = "unavailable, demo scans only"
			}
			services = append(services, detector,
				domain.ServiceHealth{
					Name:        "sessions",
					Status:      "healthy",
					Detail:      fmt.Sprintf("%d active", sessions.Count()),
					LastChecked: now,
				})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func genaiMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetGenAISnapshot())
	}
}

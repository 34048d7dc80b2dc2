package observability

import (
	"time"

	"github.com/boddenberg/upi-wallet-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the wallet BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	genaiCalls      *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	breakerChanges  *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec
	screenViews     *prometheus.CounterVec
	scans           *prometheus.CounterVec
	cameraFailures  prometheus.Counter
	payments        prometheus.Counter
	activeSessions  prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_operation_duration_seconds",
				Help:    "Duration of operations by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		genaiCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_genai_calls_total",
				Help: "Total generative-AI calls by outcome.",
			},
			[]string{"status"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_genai_fallbacks_total",
				Help: "Total times a collaborator answered with its fixed fallback.",
			},
			[]string{"collaborator"},
		),
		breakerChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_circuit_breaker_transitions_total",
				Help: "Circuit breaker state transitions by breaker and target state.",
			},
			[]string{"breaker", "state"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		screenViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_screen_views_total",
				Help: "Total screen activations by view.",
			},
			[]string{"view"},
		),
		scans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_scans_total",
				Help: "Total successful scans by source.",
			},
			[]string{"source"},
		),
		cameraFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wallet_camera_failures_total",
				Help: "Total camera acquisitions that failed.",
			},
		),
		payments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wallet_payments_total",
				Help: "Total simulated payments completed.",
			},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_active_sessions",
				Help: "Device sessions currently held in memory.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrGenAICall counts a model call with status "success" or "error".
func (m *Metrics) IncrGenAICall(status string) {
	m.genaiCalls.WithLabelValues(status).Inc()
}

// IncrFallback counts a fallback answer by collaborator ("payee", "insight").
func (m *Metrics) IncrFallback(collaborator string) {
	m.fallbacks.WithLabelValues(collaborator).Inc()
}

// IncrBreakerTransition counts a circuit breaker moving to state.
func (m *Metrics) IncrBreakerTransition(breaker, state string) {
	m.breakerChanges.WithLabelValues(breaker, state).Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrScreenView counts a view activation.
func (m *Metrics) IncrScreenView(view domain.View) {
	m.screenViews.WithLabelValues(string(view)).Inc()
}

// IncrScan counts a completed scan; source is "native" or "simulated".
func (m *Metrics) IncrScan(source string) {
	m.scans.WithLabelValues(source).Inc()
}

// IncrCameraFailure counts a failed camera acquisition.
func (m *Metrics) IncrCameraFailure() {
	m.cameraFailures.Inc()
}

// IncrPayment counts a completed payment.
func (m *Metrics) IncrPayment() {
	m.payments.Inc()
}

// SessionOpened and SessionClosed track the active session gauge.
func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }
func (m *Metrics) SessionClosed() { m.activeSessions.Dec() }

// GetGenAISnapshot returns a snapshot of AI-related metrics suitable for the
// GET /v1/metrics/genai endpoint.
func (m *Metrics) GetGenAISnapshot() *domain.GenAIMetrics {
	success := getCounterValue(m.genaiCalls.WithLabelValues("success"))
	failed := getCounterValue(m.genaiCalls.WithLabelValues("error"))
	payeeFallbacks := getCounterValue(m.fallbacks.WithLabelValues("payee"))
	insightFallbacks := getCounterValue(m.fallbacks.WithLabelValues("insight"))
	tokens := getCounterValue(m.tokensUsed.WithLabelValues("prompt")) +
		getCounterValue(m.tokensUsed.WithLabelValues("completion"))
	scans := getCounterValue(m.scans.WithLabelValues("native")) +
		getCounterValue(m.scans.WithLabelValues("simulated"))

	total := success + failed
	errorRate, fallbackRate, avgTokens := 0.0, 0.0, 0.0
	if total > 0 {
		errorRate = failed / total
		avgTokens = tokens / total
	}
	if resolved := payeeFallbacks + insightFallbacks + success; resolved > 0 {
		fallbackRate = (payeeFallbacks + insightFallbacks) / resolved
	}

	return &domain.GenAIMetrics{
		TotalCalls:        int64(total),
		ErrorRate:         errorRate,
		FallbackRate:      fallbackRate,
		PayeeFallbacks:    int64(payeeFallbacks),
		InsightFallbacks:  int64(insightFallbacks),
		AvgTokensPerCall:  avgTokens,
		ActiveSessions:    int64(getGaugeValue(m.activeSessions)),
		PaymentsCompleted: int64(getCounterValue(m.payments)),
		ScansCompleted:    int64(scans),
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a counter.
func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getGaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		return 0
	}
	if m.Gauge != nil && m.Gauge.Value != nil {
		return *m.Gauge.Value
	}
	return 0
}

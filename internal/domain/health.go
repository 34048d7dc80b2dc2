package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// GenAIMetrics is returned by GET /v1/metrics/genai.
type GenAIMetrics struct {
	TotalCalls        int64   `json:"totalCalls"`
	ErrorRate         float64 `json:"errorRate"`
	FallbackRate      float64 `json:"fallbackRate"`
	PayeeFallbacks    int64   `json:"payeeFallbacks"`
	InsightFallbacks  int64   `json:"insightFallbacks"`
	AvgTokensPerCall  float64 `json:"avgTokensPerCall"`
	ActiveSessions    int64   `json:"activeSessions"`
	PaymentsCompleted int64   `json:"paymentsCompleted"`
	ScansCompleted    int64   `json:"scansCompleted"`
	Period            string  `json:"period"`
}

package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual service.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// ServiceMetrics is returned by GET /v1/metrics/service.
type ServiceMetrics struct {
	Simulations         int64   `json:"simulations"`
	InfeasiblePlans     int64   `json:"infeasiblePlans"`
	AdvisorRequests     int64   `json:"advisorRequests"`
	AdvisorUnavailable  float64 `json:"advisorUnavailableRate"`
	AvgTokensPerRequest float64 `json:"avgTokensPerRequest"`
	CacheHitRate        float64 `json:"cacheHitRate"`
	Period              string  `json:"period"`
}

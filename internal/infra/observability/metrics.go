package observability

import (
	"time"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	simulations     *prometheus.CounterVec
	simulatedMonths prometheus.Histogram
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec
	advisorRequests *prometheus.CounterVec
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
				Name:    "debtfree_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		simulations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtfree_simulations_total",
				Help: "Payoff simulations run, by strategy and terminal status.",
			},
			[]string{"strategy", "status"},
		),
		simulatedMonths: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "debtfree_simulated_months",
				Help:    "Length of simulated payoff timelines in months.",
				Buckets: []float64{6, 12, 24, 36, 60, 120, 240, 360, 600},
			},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtfree_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtfree_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtfree_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtfree_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		advisorRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "debtfree_advisor_requests_total",
				Help: "Chat advisor requests by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordSimulation counts one run and observes its length.
func (m *Metrics) RecordSimulation(strategy, status string, months int) {
	m.simulations.WithLabelValues(strategy, status).Inc()
	m.simulatedMonths.Observe(float64(months))
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrAdvisor counts an advisor request; outcome is "answered" or
// "unavailable".
func (m *Metrics) IncrAdvisor(outcome string) {
	m.advisorRequests.WithLabelValues(outcome).Inc()
}

// Snapshot summarizes the counters for GET /v1/metrics/service.
func (m *Metrics) Snapshot() *domain.ServiceMetrics {
	answered := getCounterValue(m.advisorRequests, "answered")
	unavailable := getCounterValue(m.advisorRequests, "unavailable")
	advisorTotal := answered + unavailable
	tokens := getCounterValue(m.tokensUsed, "prompt") + getCounterValue(m.tokensUsed, "completion")
	hits := sumCounterVec(m.cacheHits)
	misses := sumCounterVec(m.cacheMisses)

	out := &domain.ServiceMetrics{
		Simulations:     int64(sumCounterVec(m.simulations)),
		InfeasiblePlans: int64(sumCounterVecWhere(m.simulations, "status", "infeasible")),
		AdvisorRequests: int64(advisorTotal),
		Period:          "all_time",
	}
	if advisorTotal > 0 {
		out.AdvisorUnavailable = unavailable / advisorTotal
	}
	if answered > 0 {
		out.AvgTokensPerRequest = tokens / answered
	}
	if hits+misses > 0 {
		out.CacheHitRate = hits / (hits + misses)
	}
	return out
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func sumCounterVec(cv *prometheus.CounterVec) float64 {
	return sumCounterVecWhere(cv, "", "")
}

// sumCounterVecWhere adds every child of cv, optionally only those whose
// label name has the given value.
func sumCounterVecWhere(cv *prometheus.CounterVec, name, value string) float64 {
	ch := make(chan prometheus.Metric)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	var total float64
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err != nil || m.Counter == nil {
			continue
		}
		if name != "" && !hasLabel(m, name, value) {
			continue
		}
		total += m.Counter.GetValue()
	}
	return total
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

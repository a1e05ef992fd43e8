package handler

import (
	"context"
	"net/http"
	"time"

	chathandler "github.com/debtfree/debtfree-go/internal/chat/handler"
	chatservice "github.com/debtfree/debtfree-go/internal/chat/service"
	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency for GET /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware. A nil
// advisor leaves the advisor routes unregistered.
func NewRouter(
	planner *service.Planner,
	advisor *chatservice.AdvisorService,
	checks []HealthCheck,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(checks))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/service", serviceMetricsHandler(metrics))

		// =============================================
		// Payoff plans
		// =============================================
		r.Route("/plans", func(r chi.Router) {
			r.Post("/simulate", simulateHandler(planner, logger))
			r.Post("/compare", compareHandler(planner, logger))
			r.Post("/scenarios", scenariosHandler(planner, logger))
			r.Post("/sensitivity", sensitivityHandler(planner, logger))
			r.Post("/summary", summaryHandler(planner, logger))
		})

		// =============================================
		// Closed-form amortization
		// =============================================
		r.Post("/amortization/payment", paymentHandler(planner, logger))
		r.Post("/amortization/payoff", payoffHandler(planner, logger))

		// =============================================
		// Chat advisor
		// =============================================
		if advisor != nil {
			r.Post("/advisor/chat", chathandler.ChatHandler(advisor, logger))
			r.Get("/advisor/conversations/{id}", chathandler.ConversationHandler(advisor, logger))
		}
	})

	return r
}

func healthzHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "debtfree-api", Status: "healthy", LastChecked: now},
		}
		overall := "healthy"
		for _, hc := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			start := time.Now()
			err := hc.Check(ctx)
			cancel()

			status := "healthy"
			if err != nil {
				status = "degraded"
				overall = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name:        hc.Name,
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func serviceMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}

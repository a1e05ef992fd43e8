package handler

import (
	"net/http"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// /v1/plans: simulation endpoints
// ============================================================
//
// Infeasible and horizon-exceeded plans are not errors: they come back
// with 200, a status and a human-readable message.

func simulateHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/plans/simulate")
		defer span.End()

		var req domain.PlanRequest
		if !decodeBody(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.Int("plan.debts", len(req.Debts)))

		resp, err := planner.Simulate(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func compareHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/plans/compare")
		defer span.End()

		var req domain.PlanRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := planner.Compare(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func scenariosHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/plans/scenarios")
		defer span.End()

		var req domain.PlanRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := planner.Scenarios(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func sensitivityHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/plans/sensitivity")
		defer span.End()

		var req domain.SensitivityRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := planner.Sensitivity(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func summaryHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/plans/summary")
		defer span.End()

		var req domain.PlanRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := planner.Summary(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// /v1/amortization: closed-form calculators
// ============================================================

func paymentHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.PaymentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := planner.Payment(&req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func payoffHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.PayoffRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := planner.Payoff(&req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

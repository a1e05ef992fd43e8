package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/debtfree/debtfree-go/internal/chat/domain"
	maindomain "github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/debtfree/debtfree-go/internal/service"
)

// ============================================================
// ContextStrategy: per-intent prompt enrichment
// ============================================================

// ContextStrategy adds an intent-specific section to the context document.
// The first strategy whose CanHandle accepts the intent wins.
type ContextStrategy interface {
	CanHandle(intent string) bool

	// Enrich returns extra context text, or "" when it has nothing to add.
	Enrich(ctx context.Context, chatCtx *domain.ChatContext) (string, error)
}

// DefaultStrategies returns the strategies registered in production.
func DefaultStrategies(planner *service.Planner) []ContextStrategy {
	return []ContextStrategy{
		NewComparisonStrategy(planner),
		NewSensitivityStrategy(planner),
	}
}

func hasDebts(plan *maindomain.PlanRequest) bool {
	return plan != nil && len(plan.Debts) > 0
}

// ComparisonStrategy answers "which method is better" questions with both
// orderings simulated side by side.
type ComparisonStrategy struct {
	planner *service.Planner
}

func NewComparisonStrategy(planner *service.Planner) *ComparisonStrategy {
	return &ComparisonStrategy{planner: planner}
}

func (s *ComparisonStrategy) CanHandle(intent string) bool {
	return intent == IntentCompare
}

func (s *ComparisonStrategy) Enrich(ctx context.Context, chatCtx *domain.ChatContext) (string, error) {
	if !hasDebts(chatCtx.Plan) {
		return "", nil
	}
	cmp, err := s.planner.Compare(ctx, chatCtx.Plan)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Strategy comparison:\n")
	for _, run := range []*maindomain.SimulationResponse{cmp.Avalanche, cmp.Snowball} {
		fmt.Fprintf(&b, "- %s: %s, %d months, interest %s\n",
			run.Strategy, run.Status, run.Months, money(run.TotalInterest))
	}
	avalPaid := cmp.Avalanche.Status == string(engine.StatusPaidOff)
	snowPaid := cmp.Snowball.Status == string(engine.StatusPaidOff)
	switch {
	case avalPaid && snowPaid:
		fmt.Fprintf(&b, "- Recommended: %s (avalanche saves %s interest and %d months over snowball)\n",
			cmp.Recommended, money(cmp.InterestSaved), cmp.MonthsSaved)
	case avalPaid || snowPaid:
		fmt.Fprintf(&b, "- Recommended: %s (the other order does not pay off)\n", cmp.Recommended)
	default:
		b.WriteString("- Neither order pays off with this budget.\n")
	}
	return b.String(), nil
}

// SensitivityStrategy answers "what if I pay more" questions with the
// extra-payment table.
type SensitivityStrategy struct {
	planner *service.Planner
}

func NewSensitivityStrategy(planner *service.Planner) *SensitivityStrategy {
	return &SensitivityStrategy{planner: planner}
}

func (s *SensitivityStrategy) CanHandle(intent string) bool {
	return intent == IntentExtra
}

func (s *SensitivityStrategy) Enrich(ctx context.Context, chatCtx *domain.ChatContext) (string, error) {
	if !hasDebts(chatCtx.Plan) {
		return "", nil
	}
	table, err := s.planner.Sensitivity(ctx, &maindomain.SensitivityRequest{PlanRequest: *chatCtx.Plan})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Extra payment what-if (%s order, on top of minimums):\n", table.Strategy)
	for _, row := range table.Rows {
		if row.Status != "paid_off" {
			fmt.Fprintf(&b, "- +%s/mo: not paid off (%s)\n", money(row.Extra), row.Status)
			continue
		}
		fmt.Fprintf(&b, "- +%s/mo: %d months, interest %s, saves %s and %d months\n",
			money(row.Extra), row.Months, money(row.TotalInterest), money(row.InterestSaved), row.MonthsSaved)
	}
	return b.String(), nil
}

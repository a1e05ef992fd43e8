package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/debtfree/debtfree-go/internal/infra/cache"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"
	"github.com/debtfree/debtfree-go/internal/service"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.March, 1, 15, 0, 0, 0, time.UTC)

func newPlanner(t *testing.T) (*service.Planner, *observability.Metrics) {
	t.Helper()
	c := cache.New[*domain.SimulationResponse](time.Minute)
	t.Cleanup(func() { c.Close() })
	metrics := observability.NewMetrics()

	p := service.NewPlanner(
		c,
		resilience.NewBulkhead(4),
		metrics,
		zap.NewNop(),
		service.Defaults{HorizonMonths: 600, TakeHomeRate: 0.75},
	).WithClock(func() time.Time { return fixedNow })
	return p, metrics
}

func householdPlan() *domain.PlanRequest {
	return &domain.PlanRequest{
		Debts: []domain.DebtInput{
			{Name: "Visa", Category: "Credit Card", Balance: 5000, APR: 22.9, MinPayment: 150},
			{Name: "Civic", Category: "car loan", Balance: 9000, APR: 6.5, MinPayment: 280},
			{Name: "Store card", Category: "revolving", Balance: 800, APR: 18, MinPayment: 40},
		},
		Income:   []domain.IncomeInput{{Label: "salary", Amount: 5400, Frequency: "Monthly"}},
		Expenses: []domain.ExpenseInput{{Label: "rent", Amount: 1600, Kind: "needs"}, {Label: "fun", Amount: 200, Kind: "wants"}},
		Strategy: "avalanche",
		Budget:   domain.BudgetInput{Policy: "flat_extra", Extra: 200},
	}
}

func TestSimulate_Success(t *testing.T) {
	p, metrics := newPlanner(t)

	req := householdPlan()
	req.FutureIncome = []domain.IncomeInput{{Label: "raise", Amount: 500, Frequency: "monthly", StartMonth: 3}}
	resp, err := p.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Status != "paid_off" {
		t.Errorf("expected paid_off, got %s (%s)", resp.Status, resp.Message)
	}
	if resp.PlanID == "" {
		t.Error("expected a plan id")
	}
	if len(resp.Events) != 3 {
		t.Fatalf("expected 3 payoff events, got %d", len(resp.Events))
	}
	if resp.Events[len(resp.Events)-1].Month != resp.Months {
		t.Errorf("expected last payoff in month %d, got %d", resp.Months, resp.Events[len(resp.Events)-1].Month)
	}
	if len(resp.Timeline) != resp.Months {
		t.Fatalf("expected %d timeline points, got %d", resp.Months, len(resp.Timeline))
	}
	// the raise joins in month 3
	for i, want := range []struct{ gross, takeHome float64 }{{5400, 4050}, {5400, 4050}, {5900, 4425}} {
		m := resp.Timeline[i]
		if m.GrossIncome != want.gross || m.TakeHome != want.takeHome || m.Expenses != 1800 {
			t.Errorf("month %d: expected %v/%v/1800, got %v/%v/%v",
				m.Month, want.gross, want.takeHome, m.GrossIncome, m.TakeHome, m.Expenses)
		}
	}
	if resp.DebtFreeDate == "" {
		t.Error("expected a debt-free date")
	}
	if s := metrics.Snapshot(); s.Simulations != 1 {
		t.Errorf("expected 1 simulation recorded, got %d", s.Simulations)
	}
}

func TestSimulate_CachesNormalizedPlan(t *testing.T) {
	p, metrics := newPlanner(t)

	first, err := p.Simulate(context.Background(), householdPlan())
	if err != nil {
		t.Fatal(err)
	}

	// Same plan with the defaults spelled out must hit the cache.
	explicit := householdPlan()
	explicit.HorizonMonths = 600
	explicit.TakeHomeRate = 0.75
	explicit.StartDate = "2025-03-01"

	second, err := p.Simulate(context.Background(), explicit)
	if err != nil {
		t.Fatal(err)
	}

	if first.PlanID != second.PlanID {
		t.Errorf("expected same plan id, got %s and %s", first.PlanID, second.PlanID)
	}
	s := metrics.Snapshot()
	if s.Simulations != 1 {
		t.Errorf("expected a single engine run, got %d", s.Simulations)
	}
	if s.CacheHitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", s.CacheHitRate)
	}
}

func TestSimulate_InfeasibleIsAResultNotAnError(t *testing.T) {
	p, _ := newPlanner(t)

	req := &domain.PlanRequest{
		Debts: []domain.DebtInput{{Name: "Payday", Balance: 10000, APR: 36, MinPayment: 100}},
	}
	resp, err := p.Simulate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Status != "infeasible" {
		t.Fatalf("expected infeasible, got %s", resp.Status)
	}
	if len(resp.StalledDebts) != 1 || resp.StalledDebts[0] != "Payday" {
		t.Errorf("expected Payday to be reported, got %v", resp.StalledDebts)
	}
	if resp.Message == "" || resp.DebtFreeDate != "" {
		t.Errorf("expected message and no debt-free date, got %+v", resp)
	}
}

func TestSimulate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(r *domain.PlanRequest)
		field string
	}{
		{"no debts", func(r *domain.PlanRequest) { r.Debts = nil }, "debts"},
		{"negative balance", func(r *domain.PlanRequest) { r.Debts[0].Balance = -1 }, "debts[0].balance"},
		{"apr too high", func(r *domain.PlanRequest) { r.Debts[1].APR = 120 }, "debts[1].apr"},
		{"unknown category", func(r *domain.PlanRequest) { r.Debts[2].Category = "timeshare" }, "debts[2].category"},
		{"bad frequency", func(r *domain.PlanRequest) { r.Income[0].Frequency = "hourly" }, "income[0].frequency"},
		{"bad strategy", func(r *domain.PlanRequest) { r.Strategy = "random" }, "strategy"},
		{"bad policy", func(r *domain.PlanRequest) { r.Budget.Policy = "yolo" }, "budget.policy"},
		{"fraction", func(r *domain.PlanRequest) { r.Budget.Fraction = 1.5 }, "budget.fraction"},
		{"horizon", func(r *domain.PlanRequest) { r.HorizonMonths = -3 }, "horizonMonths"},
		{"take-home", func(r *domain.PlanRequest) { r.TakeHomeRate = 1.2 }, "takeHomeRate"},
		{"start date", func(r *domain.PlanRequest) { r.StartDate = "03/01/2025" }, "startDate"},
		{"expense kind", func(r *domain.PlanRequest) { r.Expenses[0].Kind = "luxury" }, "expenses[0].kind"},
		{"future income month", func(r *domain.PlanRequest) {
			r.FutureIncome = []domain.IncomeInput{{Amount: 500, Frequency: "monthly"}}
		}, "futureIncome[0].startMonth"},
	}

	p, _ := newPlanner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := householdPlan()
			tt.mut(req)

			_, err := p.Simulate(context.Background(), req)

			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if validation.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validation.Field)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	p, _ := newPlanner(t)

	resp, err := p.Compare(context.Background(), householdPlan())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Avalanche.Strategy != "avalanche" || resp.Snowball.Strategy != "snowball" {
		t.Fatalf("unexpected strategies: %s / %s", resp.Avalanche.Strategy, resp.Snowball.Strategy)
	}
	if resp.InterestSaved < 0 {
		t.Errorf("expected avalanche to save interest, got %v", resp.InterestSaved)
	}
	want := resp.Snowball.TotalInterest - resp.Avalanche.TotalInterest
	if diff := resp.InterestSaved - want; diff > 0.011 || diff < -0.011 {
		t.Errorf("interest saved %v does not match the runs (%v)", resp.InterestSaved, want)
	}
	if resp.Avalanche.Timeline != nil {
		t.Error("expected comparison runs without timelines")
	}
}

func TestCompare_NoSavingsUnlessBothPayOff(t *testing.T) {
	p, _ := newPlanner(t)

	// The payday loan never amortizes, so neither order pays off.
	req := &domain.PlanRequest{
		Debts: []domain.DebtInput{
			{Name: "Payday", Balance: 10000, APR: 36, MinPayment: 100},
			{Name: "Dentist", Balance: 400, APR: 0, MinPayment: 20},
		},
	}
	resp, err := p.Compare(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Avalanche.Status == "paid_off" || resp.Snowball.Status == "paid_off" {
		t.Fatalf("expected both runs to fail, got %s / %s", resp.Avalanche.Status, resp.Snowball.Status)
	}
	if resp.InterestSaved != 0 || resp.MonthsSaved != 0 {
		t.Errorf("expected no savings, got %v and %d months", resp.InterestSaved, resp.MonthsSaved)
	}
}

func TestScenarios(t *testing.T) {
	p, _ := newPlanner(t)

	resp, err := p.Scenarios(context.Background(), householdPlan())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.Scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(resp.Scenarios))
	}

	names := []string{"minimum-only", "balanced", "aggressive"}
	for i, s := range resp.Scenarios {
		if s.Name != names[i] {
			t.Errorf("scenario %d: expected %s, got %s", i, names[i], s.Name)
		}
	}

	minOnly, balanced, aggressive := resp.Scenarios[0], resp.Scenarios[1], resp.Scenarios[2]
	if !(minOnly.MonthlyBudget < balanced.MonthlyBudget && balanced.MonthlyBudget < aggressive.MonthlyBudget) {
		t.Errorf("expected increasing budgets, got %v %v %v",
			minOnly.MonthlyBudget, balanced.MonthlyBudget, aggressive.MonthlyBudget)
	}
	if aggressive.Result.Months > balanced.Result.Months || balanced.Result.Months > minOnly.Result.Months {
		t.Errorf("expected bigger budgets to finish sooner: %d %d %d",
			minOnly.Result.Months, balanced.Result.Months, aggressive.Result.Months)
	}
}

func TestSensitivity(t *testing.T) {
	p, _ := newPlanner(t)

	resp, err := p.Sensitivity(context.Background(), &domain.SensitivityRequest{PlanRequest: *householdPlan()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.Rows) != len(service.DefaultSensitivityExtras) {
		t.Fatalf("expected %d rows, got %d", len(service.DefaultSensitivityExtras), len(resp.Rows))
	}

	if resp.Rows[0].Extra != 0 || resp.Rows[0].InterestSaved != 0 || resp.Rows[0].MonthsSaved != 0 {
		t.Errorf("expected the $0 row to be the baseline, got %+v", resp.Rows[0])
	}
	for i := 1; i < len(resp.Rows); i++ {
		prev, cur := resp.Rows[i-1], resp.Rows[i]
		if cur.Months > prev.Months {
			t.Errorf("extra %v took longer than %v", cur.Extra, prev.Extra)
		}
		if cur.InterestSaved < prev.InterestSaved {
			t.Errorf("extra %v saved less than %v", cur.Extra, prev.Extra)
		}
	}
}

func TestSensitivity_RejectsNegativeExtra(t *testing.T) {
	p, _ := newPlanner(t)

	_, err := p.Sensitivity(context.Background(), &domain.SensitivityRequest{
		PlanRequest: *householdPlan(),
		Extras:      []float64{100, -5},
	})

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) || validation.Field != "extras[1]" {
		t.Fatalf("expected extras[1] validation error, got %v", err)
	}
}

func TestSimulate_CancelledContext(t *testing.T) {
	c := cache.New[*domain.SimulationResponse](time.Minute)
	defer c.Close()
	bulkhead := resilience.NewBulkhead(1)
	p := service.NewPlanner(c, bulkhead, observability.NewMetrics(), zap.NewNop(), service.Defaults{})

	// Hold the only slot so the run has to wait.
	if err := bulkhead.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer bulkhead.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Simulate(ctx, householdPlan()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPaymentAndPayoff(t *testing.T) {
	p, _ := newPlanner(t)

	pay, err := p.Payment(&domain.PaymentRequest{Balance: 1200, APR: 0, Months: 12})
	if err != nil {
		t.Fatal(err)
	}
	if pay.MonthlyPayment != 100 || pay.TotalInterest != 0 {
		t.Errorf("unexpected payment: %+v", pay)
	}

	off, err := p.Payoff(&domain.PayoffRequest{Balance: 5000, APR: 20, Payment: 100})
	if err != nil {
		t.Fatal(err)
	}
	if off.Months != 109 {
		t.Errorf("expected 109 months, got %d", off.Months)
	}

	if _, err := p.Payoff(&domain.PayoffRequest{Balance: 5000, APR: 24, Payment: 100}); !errors.Is(err, engine.ErrPaymentTooLow) {
		t.Errorf("expected ErrPaymentTooLow, got %v", err)
	}

	var validation *domain.ErrValidation
	if _, err := p.Payoff(&domain.PayoffRequest{Balance: 0, APR: 5, Payment: 100}); !errors.As(err, &validation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := p.Payment(&domain.PaymentRequest{Balance: 1000, APR: 5}); !errors.As(err, &validation) {
		t.Errorf("expected validation error for zero months, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/debtfree/debtfree-go/internal/infra/cache"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"
	"github.com/debtfree/debtfree-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/planner")

// DefaultSensitivityExtras is the extra-payment ladder of the what-if table.
var DefaultSensitivityExtras = []float64{0, 50, 100, 200, 300, 500, 750, 1000}

const maxSensitivityRows = 20

// planNamespace seeds deterministic plan ids.
var planNamespace = uuid.MustParse("6f1c2a4e-1d7b-4c55-9a53-6a0f3f1e8d21")

// Planner runs payoff simulations for API and CLI callers. Runs are pure and
// independent, so the multi-run operations fan out with errgroup, bounded by
// the bulkhead.
type Planner struct {
	cache    port.Cache[*domain.SimulationResponse]
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
	defaults Defaults
	now      func() time.Time
}

// NewPlanner creates the planner with all dependencies injected.
func NewPlanner(
	cache port.Cache[*domain.SimulationResponse],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
	defaults Defaults,
) *Planner {
	return &Planner{
		cache:    cache,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for default start dates.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// Inputs validates req and resolves its defaults.
func (p *Planner) Inputs(req *domain.PlanRequest) (*Inputs, error) {
	return BuildInputs(req, p.defaults, p.now())
}

func (p *Planner) simulationInputs(req *domain.PlanRequest) (*Inputs, error) {
	in, err := p.Inputs(req)
	if err != nil {
		return nil, err
	}
	if len(in.Debts) == 0 {
		return nil, &domain.ErrValidation{Field: "debts", Message: "at least one debt is required"}
	}
	return in, nil
}

// Run simulates in under the bulkhead and records metrics.
func (p *Planner) Run(ctx context.Context, in *Inputs) (*engine.Result, error) {
	var res *engine.Result
	err := p.bulkhead.Do(ctx, func() error {
		res = engine.Simulate(in.Plan())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for simulation slot: %w", err)
	}
	p.metrics.RecordSimulation(string(res.Strategy), string(res.Status), res.Months)
	return res, nil
}

// Simulate runs one plan and returns its full timeline. Results are cached
// by the normalized plan.
func (p *Planner) Simulate(ctx context.Context, req *domain.PlanRequest) (*domain.SimulationResponse, error) {
	ctx, span := tracer.Start(ctx, "Planner.Simulate")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("simulate", time.Since(start))
	}()

	in, err := p.simulationInputs(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("plan.strategy", string(in.Strategy)),
		attribute.String("plan.policy", in.Policy.Name()),
		attribute.Int("plan.debts", len(in.Debts)),
	)

	key, err := cache.Key("simulation", in.normalized)
	if err != nil {
		return nil, fmt.Errorf("cache key: %w", err)
	}
	if cached, ok := p.cache.Get(ctx, key); ok {
		p.metrics.IncrCacheHit("simulation")
		return cached, nil
	}
	p.metrics.IncrCacheMiss("simulation")

	res, err := p.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	resp := toSimulationResponse(res, key, in.Start, true)
	span.SetAttributes(attribute.String("plan.status", resp.Status), attribute.Int("plan.months", resp.Months))

	if res.Status != engine.StatusPaidOff {
		p.logger.Info("plan did not pay off",
			zap.String("plan_id", resp.PlanID),
			zap.String("status", resp.Status),
			zap.Int("months", resp.Months),
		)
	}

	p.cache.Set(ctx, key, resp)
	return resp, nil
}

// Compare runs avalanche and snowball concurrently on the same plan.
func (p *Planner) Compare(ctx context.Context, req *domain.PlanRequest) (*domain.ComparisonResponse, error) {
	ctx, span := tracer.Start(ctx, "Planner.Compare")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("compare", time.Since(start))
	}()

	in, err := p.simulationInputs(req)
	if err != nil {
		return nil, err
	}

	strategies := []engine.Strategy{engine.Avalanche, engine.Snowball}
	results := make([]*engine.Result, len(strategies))

	g, gCtx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		i, s := i, s
		g.Go(func() error {
			variant := *in
			variant.Strategy = s
			res, err := p.Run(gCtx, &variant)
			if err != nil {
				return fmt.Errorf("%s run: %w", s, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aval, snow := results[0], results[1]
	out := &domain.ComparisonResponse{
		Avalanche:   toSimulationResponse(aval, "", in.Start, false),
		Snowball:    toSimulationResponse(snow, "", in.Start, false),
		Recommended: recommend(aval, snow),
	}
	if aval.Status == engine.StatusPaidOff && snow.Status == engine.StatusPaidOff {
		out.InterestSaved = domain.RoundCents(snow.TotalInterest - aval.TotalInterest)
		out.MonthsSaved = snow.Months - aval.Months
	}
	return out, nil
}

// recommend prefers the run that pays off; among paid-off runs, the cheaper
// one, with ties going to snowball for its early wins.
func recommend(aval, snow *engine.Result) string {
	switch {
	case aval.Status == engine.StatusPaidOff && snow.Status != engine.StatusPaidOff:
		return string(engine.Avalanche)
	case snow.Status == engine.StatusPaidOff && aval.Status != engine.StatusPaidOff:
		return string(engine.Snowball)
	case aval.TotalInterest < snow.TotalInterest-0.005:
		return string(engine.Avalanche)
	}
	return string(engine.Snowball)
}

type scenarioDef struct {
	name        string
	description string
	policy      engine.BudgetPolicy
}

var scenarioDefs = []scenarioDef{
	{"minimum-only", "Pay only the required minimums.", engine.FlatExtra{}},
	{"balanced", "Minimums plus half of the true disposable income.", engine.DisposablePercent{Fraction: 0.5}},
	{"aggressive", "Minimums plus all of the true disposable income.", engine.DisposablePercent{Fraction: 1}},
}

// Scenarios runs the minimum-only, balanced and aggressive budgets
// concurrently with the plan's strategy.
func (p *Planner) Scenarios(ctx context.Context, req *domain.PlanRequest) (*domain.ScenarioResponse, error) {
	ctx, span := tracer.Start(ctx, "Planner.Scenarios")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("scenarios", time.Since(start))
	}()

	in, err := p.simulationInputs(req)
	if err != nil {
		return nil, err
	}

	out := &domain.ScenarioResponse{
		Strategy:  string(in.Strategy),
		Scenarios: make([]domain.ScenarioOutcome, len(scenarioDefs)),
	}
	m := monthZero(in)

	g, gCtx := errgroup.WithContext(ctx)
	for i, def := range scenarioDefs {
		i, def := i, def
		g.Go(func() error {
			variant := *in
			variant.Policy = def.policy
			res, err := p.Run(gCtx, &variant)
			if err != nil {
				return fmt.Errorf("%s scenario: %w", def.name, err)
			}
			out.Scenarios[i] = domain.ScenarioOutcome{
				Name:          def.name,
				Description:   def.description,
				MonthlyBudget: domain.RoundCents(def.policy.Budget(m)),
				Result:        toSimulationResponse(res, "", in.Start, false),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sensitivity runs the plan once per extra amount with a flat_extra budget
// and reports the savings against paying minimums only.
func (p *Planner) Sensitivity(ctx context.Context, req *domain.SensitivityRequest) (*domain.SensitivityResponse, error) {
	ctx, span := tracer.Start(ctx, "Planner.Sensitivity")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.RecordRequestDuration("sensitivity", time.Since(start))
	}()

	if req == nil {
		return nil, &domain.ErrValidation{Field: "body", Message: "plan is required"}
	}
	in, err := p.simulationInputs(&req.PlanRequest)
	if err != nil {
		return nil, err
	}

	extras := req.Extras
	if len(extras) == 0 {
		extras = DefaultSensitivityExtras
	}
	if len(extras) > maxSensitivityRows {
		return nil, &domain.ErrValidation{Field: "extras", Message: fmt.Sprintf("at most %d amounts", maxSensitivityRows)}
	}
	for i, e := range extras {
		if !finite(e) || e < 0 {
			return nil, &domain.ErrValidation{Field: fmt.Sprintf("extras[%d]", i), Message: "must not be negative"}
		}
	}

	// Index 0 is the minimum-only baseline.
	amounts := append([]float64{0}, extras...)
	results := make([]*engine.Result, len(amounts))

	g, gCtx := errgroup.WithContext(ctx)
	for i, extra := range amounts {
		i, extra := i, extra
		g.Go(func() error {
			variant := *in
			variant.Policy = engine.FlatExtra{Extra: extra}
			res, err := p.Run(gCtx, &variant)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	base := results[0]
	out := &domain.SensitivityResponse{Strategy: string(in.Strategy)}
	for i, extra := range extras {
		res := results[i+1]
		row := domain.SensitivityRow{
			Extra:         extra,
			Status:        string(res.Status),
			Months:        res.Months,
			TotalInterest: domain.RoundCents(res.TotalInterest),
		}
		if res.Status == engine.StatusPaidOff {
			row.DebtFreeDate = engine.PayoffDate(in.Start, res.Months).Format(dateLayout)
		}
		if base.Status == engine.StatusPaidOff && res.Status == engine.StatusPaidOff {
			row.InterestSaved = domain.RoundCents(max(0, base.TotalInterest-res.TotalInterest))
			row.MonthsSaved = base.Months - res.Months
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Summary computes the dashboard metrics without simulating.
func (p *Planner) Summary(ctx context.Context, req *domain.PlanRequest) (*domain.SummaryResponse, error) {
	_, span := tracer.Start(ctx, "Planner.Summary")
	defer span.End()

	in, err := p.Inputs(req)
	if err != nil {
		return nil, err
	}
	return Summarize(in), nil
}

// Summarize derives the summary figures from validated inputs. DTI and the
// freedom score are measured against take-home income.
func Summarize(in *Inputs) *domain.SummaryResponse {
	m := monthZero(in)
	score := engine.FreedomScore(in.Debts, m.TakeHome, m.Expenses, engine.BudgetWeights)

	byKind := make(map[string]float64)
	for k, v := range engine.ExpensesByKind(in.Expenses) {
		byKind[string(k)] = domain.RoundCents(v)
	}

	return &domain.SummaryResponse{
		TotalDebt:          domain.RoundCents(engine.TotalBalance(in.Debts)),
		TotalMinimums:      domain.RoundCents(m.Minimums),
		GrossMonthlyIncome: domain.RoundCents(m.GrossIncome),
		TakeHome:           domain.RoundCents(m.TakeHome),
		Expenses:           domain.RoundCents(m.Expenses),
		ExpensesByKind:     byKind,
		Disposable:         domain.RoundCents(m.TakeHome - m.Expenses - m.Minimums),
		DebtToIncome:       domain.RoundRatio(engine.DebtToIncome(in.Debts, m.TakeHome)),
		WeightedAPR:        domain.RoundRatio(engine.WeightedAverageAPR(in.Debts)),
		FreedomScore:       score,
		ScoreBand:          engine.ScoreBand(score),
		Insights:           BuildInsights(in),
	}
}

// Payment is the closed-form level payment for a fixed term.
func (p *Planner) Payment(req *domain.PaymentRequest) (*domain.PaymentResponse, error) {
	switch {
	case !finite(req.Balance) || req.Balance <= 0:
		return nil, &domain.ErrValidation{Field: "balance", Message: "must be positive"}
	case !finite(req.APR) || req.APR < 0 || req.APR > 100:
		return nil, &domain.ErrValidation{Field: "apr", Message: "must be between 0 and 100"}
	case req.Months <= 0 || req.Months > maxHorizonMonths:
		return nil, &domain.ErrValidation{Field: "months", Message: fmt.Sprintf("must be between 1 and %d", maxHorizonMonths)}
	}

	payment := engine.AmortizedPayment(req.Balance, req.APR, req.Months)
	total := payment * float64(req.Months)
	return &domain.PaymentResponse{
		MonthlyPayment: domain.RoundCents(payment),
		TotalPaid:      domain.RoundCents(total),
		TotalInterest:  domain.RoundCents(total - req.Balance),
	}, nil
}

// Payoff is the closed-form month count for a fixed payment. It returns
// engine.ErrPaymentTooLow when the payment never outpaces interest.
func (p *Planner) Payoff(req *domain.PayoffRequest) (*domain.PayoffResponse, error) {
	if !finite(req.APR) || req.APR < 0 || req.APR > 100 {
		return nil, &domain.ErrValidation{Field: "apr", Message: "must be between 0 and 100"}
	}
	if !finite(req.Balance) || !finite(req.Payment) {
		return nil, &domain.ErrValidation{Field: "balance", Message: "must be a number"}
	}

	res, err := engine.MonthsToPayoff(req.Balance, req.APR, req.Payment)
	if errors.Is(err, engine.ErrInvalidPayoffInput) {
		return nil, &domain.ErrValidation{Field: "payment", Message: err.Error()}
	}
	if err != nil {
		return nil, err
	}
	return &domain.PayoffResponse{
		Months:        res.Months,
		TotalPaid:     domain.RoundCents(res.TotalPaid),
		TotalInterest: domain.RoundCents(res.TotalInterest),
		FinalPayment:  domain.RoundCents(res.FinalPayment),
	}, nil
}

func toSimulationResponse(res *engine.Result, key string, start time.Time, timeline bool) *domain.SimulationResponse {
	out := &domain.SimulationResponse{
		Strategy:         string(res.Strategy),
		Policy:           res.Policy,
		Status:           string(res.Status),
		Months:           res.Months,
		StartingBalance:  domain.RoundCents(res.StartingBalance),
		TotalInterest:    domain.RoundCents(res.TotalInterest),
		TotalPaid:        domain.RoundCents(res.TotalPaid),
		RemainingBalance: domain.RoundCents(res.RemainingBalance),
		Debts:            res.Names,
		Events:           make([]domain.PayoffEvent, 0, len(res.Events)),
	}
	if key != "" {
		out.PlanID = uuid.NewSHA1(planNamespace, []byte(key)).String()
	}
	if err := res.Err(); err != nil {
		out.Message = err.Error()
	}
	if res.Status == engine.StatusPaidOff {
		out.DebtFreeDate = engine.PayoffDate(start, res.Months).Format(dateLayout)
	}
	for _, i := range res.Stalled {
		out.StalledDebts = append(out.StalledDebts, res.Names[i])
	}

	for _, ev := range res.Events {
		out.Events = append(out.Events, domain.PayoffEvent{
			Debt:         ev.Name,
			Month:        ev.Month,
			Date:         ev.Date.Format(dateLayout),
			FreedPayment: domain.RoundCents(ev.FreedPayment),
		})
	}

	if timeline {
		out.Timeline = make([]domain.MonthSnapshot, 0, len(res.Snapshots))
		for _, s := range res.Snapshots {
			balances := make([]float64, len(s.Balances))
			for i, b := range s.Balances {
				balances[i] = domain.RoundCents(b)
			}
			out.Timeline = append(out.Timeline, domain.MonthSnapshot{
				Month:              s.Month,
				Balances:           balances,
				TotalRemaining:     domain.RoundCents(s.TotalRemaining),
				Interest:           domain.RoundCents(s.Interest),
				Paid:               domain.RoundCents(s.Paid),
				CumulativeInterest: domain.RoundCents(s.CumulativeInterest),
				GrossIncome:        domain.RoundCents(s.GrossIncome),
				TakeHome:           domain.RoundCents(s.TakeHome),
				Expenses:           domain.RoundCents(s.Expenses),
				Budget:             domain.RoundCents(s.Budget),
			})
		}
	}
	return out
}

package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
)

const (
	maxDebts         = 50
	maxHorizonMonths = 1200
	dateLayout       = "2006-01-02"
)

// Defaults fill plan fields the caller left empty.
type Defaults struct {
	HorizonMonths int
	TakeHomeRate  float64
}

// Inputs is a validated plan request converted to engine types. The request's
// optional fields are resolved, so two Inputs built from requests that differ
// only by defaulted fields are equal.
type Inputs struct {
	Debts         []engine.Debt
	Income        []engine.IncomeStream
	Expenses      []engine.Expense
	Strategy      engine.Strategy
	Policy        engine.BudgetPolicy
	HorizonMonths int
	TakeHomeRate  float64
	Start         time.Time

	// normalized is the request with resolved defaults, used for cache keys.
	normalized domain.PlanRequest
}

// Plan returns an engine plan for the inputs.
func (in *Inputs) Plan() engine.Plan {
	return engine.Plan{
		Debts:         in.Debts,
		Income:        in.Income,
		Expenses:      in.Expenses,
		Strategy:      in.Strategy,
		Policy:        in.Policy,
		HorizonMonths: in.HorizonMonths,
		TakeHomeRate:  in.TakeHomeRate,
		Start:         in.Start,
	}
}

// GrossMonthlyIncome is today's gross income (future streams excluded).
func (in *Inputs) GrossMonthlyIncome() float64 {
	return engine.GrossMonthlyIncome(in.Income, 0)
}

// TakeHome is today's take-home income.
func (in *Inputs) TakeHome() float64 {
	return engine.TakeHome(in.GrossMonthlyIncome(), in.TakeHomeRate)
}

// BuildInputs validates req and converts it. now supplies the default start
// date.
func BuildInputs(req *domain.PlanRequest, d Defaults, now time.Time) (*Inputs, error) {
	if req == nil {
		return nil, &domain.ErrValidation{Field: "body", Message: "plan is required"}
	}
	if len(req.Debts) > maxDebts {
		return nil, &domain.ErrValidation{Field: "debts", Message: fmt.Sprintf("at most %d debts are supported", maxDebts)}
	}

	in := &Inputs{normalized: *req}

	for i, di := range req.Debts {
		debt, err := buildDebt(i, di)
		if err != nil {
			return nil, err
		}
		in.Debts = append(in.Debts, debt)
	}

	for i, ii := range req.Income {
		s, err := buildIncome(fmt.Sprintf("income[%d]", i), ii)
		if err != nil {
			return nil, err
		}
		s.StartMonth = 0
		in.Income = append(in.Income, s)
	}
	for i, ii := range req.FutureIncome {
		field := fmt.Sprintf("futureIncome[%d]", i)
		if ii.StartMonth < 1 {
			return nil, &domain.ErrValidation{Field: field + ".startMonth", Message: "future income must start at month 1 or later"}
		}
		s, err := buildIncome(field, ii)
		if err != nil {
			return nil, err
		}
		in.Income = append(in.Income, s)
	}

	for i, ei := range req.Expenses {
		e, err := buildExpense(i, ei)
		if err != nil {
			return nil, err
		}
		in.Expenses = append(in.Expenses, e)
	}

	strategy, err := engine.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "strategy", Message: "must be avalanche or snowball"}
	}
	in.Strategy = strategy
	in.normalized.Strategy = string(strategy)

	if in.Policy, err = buildPolicy(req.Budget); err != nil {
		return nil, err
	}
	in.normalized.Budget.Policy = in.Policy.Name()

	switch {
	case req.HorizonMonths == 0:
		in.HorizonMonths = d.HorizonMonths
		if in.HorizonMonths <= 0 {
			in.HorizonMonths = engine.DefaultHorizonMonths
		}
	case req.HorizonMonths < 0 || req.HorizonMonths > maxHorizonMonths:
		return nil, &domain.ErrValidation{Field: "horizonMonths", Message: fmt.Sprintf("must be between 1 and %d", maxHorizonMonths)}
	default:
		in.HorizonMonths = req.HorizonMonths
	}
	in.normalized.HorizonMonths = in.HorizonMonths

	switch {
	case req.TakeHomeRate == 0:
		in.TakeHomeRate = d.TakeHomeRate
		if in.TakeHomeRate <= 0 || in.TakeHomeRate > 1 {
			in.TakeHomeRate = engine.DefaultTakeHomeRate
		}
	case req.TakeHomeRate < 0 || req.TakeHomeRate > 1 || math.IsNaN(req.TakeHomeRate):
		return nil, &domain.ErrValidation{Field: "takeHomeRate", Message: "must be in (0, 1]"}
	default:
		in.TakeHomeRate = req.TakeHomeRate
	}
	in.normalized.TakeHomeRate = in.TakeHomeRate

	if req.StartDate == "" {
		y, m, dd := now.Date()
		in.Start = time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	} else {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, &domain.ErrValidation{Field: "startDate", Message: "must be YYYY-MM-DD"}
		}
		in.Start = start
	}
	in.normalized.StartDate = in.Start.Format(dateLayout)

	return in, nil
}

func buildDebt(i int, di domain.DebtInput) (engine.Debt, error) {
	field := fmt.Sprintf("debts[%d]", i)

	name := strings.TrimSpace(di.Name)
	if name == "" {
		name = fmt.Sprintf("Debt %d", i+1)
	}

	category := engine.CategoryOther
	if strings.TrimSpace(di.Category) != "" {
		c, ok := engine.ParseCategory(di.Category)
		if !ok {
			return engine.Debt{}, &domain.ErrValidation{Field: field + ".category", Message: fmt.Sprintf("unknown category %q", di.Category)}
		}
		category = c
	}

	switch {
	case !finite(di.Balance) || di.Balance < 0:
		return engine.Debt{}, &domain.ErrValidation{Field: field + ".balance", Message: "must be zero or positive"}
	case !finite(di.APR) || di.APR < 0 || di.APR > 100:
		return engine.Debt{}, &domain.ErrValidation{Field: field + ".apr", Message: "must be between 0 and 100"}
	case di.TermMonths < 0:
		return engine.Debt{}, &domain.ErrValidation{Field: field + ".termMonths", Message: "must not be negative"}
	case !finite(di.MinPayment) || di.MinPayment < 0:
		return engine.Debt{}, &domain.ErrValidation{Field: field + ".minPayment", Message: "must not be negative"}
	}

	return engine.Debt{
		Name:       name,
		Category:   category,
		Balance:    di.Balance,
		APR:        di.APR,
		TermMonths: di.TermMonths,
		MinPayment: di.MinPayment,
	}, nil
}

func buildIncome(field string, ii domain.IncomeInput) (engine.IncomeStream, error) {
	if !finite(ii.Amount) || ii.Amount < 0 {
		return engine.IncomeStream{}, &domain.ErrValidation{Field: field + ".amount", Message: "must be zero or positive"}
	}
	freq, err := engine.ParseFrequency(ii.Frequency)
	if err != nil {
		return engine.IncomeStream{}, &domain.ErrValidation{Field: field + ".frequency", Message: "must be weekly, biweekly, monthly or annual"}
	}
	return engine.IncomeStream{
		Label:      ii.Label,
		Amount:     ii.Amount,
		Frequency:  freq,
		StartMonth: ii.StartMonth,
	}, nil
}

func buildExpense(i int, ei domain.ExpenseInput) (engine.Expense, error) {
	field := fmt.Sprintf("expenses[%d]", i)
	if !finite(ei.Amount) || ei.Amount < 0 {
		return engine.Expense{}, &domain.ErrValidation{Field: field + ".amount", Message: "must be zero or positive"}
	}

	kind := engine.ExpenseKind(strings.ToLower(strings.TrimSpace(ei.Kind)))
	switch kind {
	case "":
		kind = engine.Needs
	case engine.Needs, engine.Wants, engine.Savings:
	default:
		return engine.Expense{}, &domain.ErrValidation{Field: field + ".kind", Message: "must be needs, wants or savings"}
	}
	return engine.Expense{Label: ei.Label, Amount: ei.Amount, Kind: kind}, nil
}

func buildPolicy(b domain.BudgetInput) (engine.BudgetPolicy, error) {
	switch {
	case !finite(b.Extra) || b.Extra < 0:
		return nil, &domain.ErrValidation{Field: "budget.extra", Message: "must not be negative"}
	case !finite(b.Total) || b.Total < 0:
		return nil, &domain.ErrValidation{Field: "budget.total", Message: "must not be negative"}
	case !finite(b.Fraction) || b.Fraction < 0 || b.Fraction > 1:
		return nil, &domain.ErrValidation{Field: "budget.fraction", Message: "must be between 0 and 1"}
	}

	amount := b.Extra
	if b.Policy == engine.PolicyFixedTotal {
		amount = b.Total
	}
	p, err := engine.NewPolicy(b.Policy, amount, b.Fraction)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "budget.policy", Message: err.Error()}
	}
	return p, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package engine

import (
	"math"
	"time"

	"github.com/debtfree/debtfree-go/internal/domain"
)

const (
	DefaultHorizonMonths = 600
	DefaultTakeHomeRate  = 0.75

	// BalanceThreshold is the balance at or below which a debt counts as paid.
	BalanceThreshold = 0.01

	// DaysPerMonth is the average month length used for payoff dates.
	DaysPerMonth = 30.44

	// StallWindow is how many consecutive stalled months mark a plan as
	// infeasible, once all income is active. A month is stalled when neither
	// the total balance nor the month's interest went down: a budget below
	// total interest can still converge while it shrinks the high-rate debts.
	StallWindow = 12

	stallEpsilon = 1e-6
)

// Status is the terminal state of a simulation run.
type Status string

const (
	StatusPaidOff         Status = "paid_off"
	StatusHorizonExceeded Status = "horizon_exceeded"
	StatusInfeasible      Status = "infeasible"
)

// Plan is the immutable input of one simulation run. The engine never keeps
// a reference to its slices after Simulate returns.
type Plan struct {
	Debts    []Debt
	Income   []IncomeStream
	Expenses []Expense
	Strategy Strategy
	Policy   BudgetPolicy

	// HorizonMonths caps the run; 0 means DefaultHorizonMonths.
	HorizonMonths int
	// TakeHomeRate is the share of gross kept after withholding; values
	// outside (0, 1] mean DefaultTakeHomeRate.
	TakeHomeRate float64
	// Start anchors payoff dates. It is an input so runs stay reproducible.
	Start time.Time
}

// Snapshot is the state at the end of one simulated month.
type Snapshot struct {
	Month              int
	Balances           []float64
	TotalRemaining     float64
	CumulativeInterest float64
	CumulativePaid     float64
	Interest           float64
	Paid               float64
	GrossIncome        float64
	TakeHome           float64
	Expenses           float64
	Budget             float64
}

// PayoffEvent records the month a debt was eliminated and the required
// payment that stops being owed from then on.
type PayoffEvent struct {
	DebtIndex    int
	Name         string
	Month        int
	Date         time.Time
	FreedPayment float64
}

// Result is the output of one run. It is freshly allocated per call and owned
// by the caller.
type Result struct {
	Strategy Strategy
	Policy   string
	Status   Status

	Names     []string
	Snapshots []Snapshot
	Events    []PayoffEvent

	Months           int
	StartingBalance  float64
	RemainingBalance float64
	TotalInterest    float64
	TotalPaid        float64

	// Stalled holds the indices of debts that never amortize when Status is
	// StatusInfeasible.
	Stalled []int
}

// Err converts a non-paid-off terminal state into a typed error.
func (r *Result) Err() error {
	switch r.Status {
	case StatusInfeasible:
		names := make([]string, 0, len(r.Stalled))
		for _, i := range r.Stalled {
			names = append(names, r.Names[i])
		}
		return &domain.ErrInfeasiblePlan{Debts: names, Month: r.Months}
	case StatusHorizonExceeded:
		return &domain.ErrHorizonExceeded{Months: r.Months, Remaining: r.RemainingBalance}
	}
	return nil
}

// PayoffDate estimates the calendar date of a simulated month.
func PayoffDate(start time.Time, month int) time.Time {
	return start.Add(time.Duration(float64(month) * DaysPerMonth * float64(24*time.Hour)))
}

// Simulate runs the monthly payoff loop until every debt is paid, the horizon
// is reached, or the plan is found not to converge.
//
// Each month: income for the month is summed (future streams join at their
// start month), take-home and disposable income are derived, revolving
// minimums are recomputed from the current balance, interest accrues on every
// active debt, the policy's budget pays minimums in strategy order and then
// any leftover goes to debts in strategy order, spilling over within the
// month. When the budget cannot cover every minimum, later debts in the order
// get a partial payment or nothing.
func Simulate(plan Plan) *Result {
	horizon := plan.HorizonMonths
	if horizon <= 0 {
		horizon = DefaultHorizonMonths
	}
	rate := plan.TakeHomeRate
	if rate <= 0 || rate > 1 {
		rate = DefaultTakeHomeRate
	}
	policy := plan.Policy
	if policy == nil {
		policy = FlatExtra{}
	}

	n := len(plan.Debts)
	res := &Result{
		Strategy: plan.Strategy,
		Policy:   policy.Name(),
		Status:   StatusPaidOff,
		Names:    make([]string, n),
	}

	balances := make([]float64, n)
	required := make([]float64, n)
	monthlyRates := make([]float64, n)
	dynamic := make([]bool, n)
	paidOff := make([]bool, n)

	for i, d := range plan.Debts {
		res.Names[i] = d.Name
		balances[i] = math.Max(0, d.Balance)
		monthlyRates[i] = MonthlyRate(math.Max(0, d.APR))
		dynamic[i] = recomputesMonthly(d)
		if !dynamic[i] {
			required[i] = RequiredPayment(d)
		}
		paidOff[i] = balances[i] <= BalanceThreshold
		res.StartingBalance += balances[i]
	}

	order := plan.Strategy.Order(plan.Debts)
	expenses := TotalExpenses(plan.Expenses)

	lastActivation := 0
	for _, s := range plan.Income {
		if s.StartMonth > lastActivation {
			lastActivation = s.StartMonth
		}
	}

	var (
		cumInterest  float64
		cumPaid      float64
		prevInterest = math.Inf(1)
		stalled      int
		windowStart  []float64
		monthBalance = make([]float64, n)
	)

	month := 0
	for {
		if allTrue(paidOff) {
			break
		}
		if month >= horizon {
			res.Status = StatusHorizonExceeded
			break
		}
		month++
		copy(monthBalance, balances)
		startTotal := sum(balances)

		gross := GrossMonthlyIncome(plan.Income, month)
		takeHome := TakeHome(gross, rate)
		disposable := math.Max(0, takeHome-expenses)

		var minimums float64
		for i, d := range plan.Debts {
			if paidOff[i] {
				continue
			}
			if dynamic[i] {
				current := d
				current.Balance = balances[i]
				required[i] = RequiredPayment(current)
			}
			minimums += required[i]
		}

		var interest float64
		for i := range balances {
			if paidOff[i] {
				continue
			}
			accrued := balances[i] * monthlyRates[i]
			balances[i] += accrued
			interest += accrued
		}
		cumInterest += interest

		budget := math.Max(0, policy.Budget(MonthContext{
			Month:       month,
			GrossIncome: gross,
			TakeHome:    takeHome,
			Expenses:    expenses,
			Disposable:  disposable,
			Minimums:    minimums,
		}))
		available := budget

		var paid float64
		for _, i := range order {
			if paidOff[i] || available <= 0 {
				continue
			}
			pay := math.Min(required[i], math.Min(balances[i], available))
			balances[i] -= pay
			available -= pay
			paid += pay
		}

		for _, i := range order {
			if available <= 0 {
				break
			}
			if paidOff[i] || balances[i] <= 0 {
				continue
			}
			pay := math.Min(available, balances[i])
			balances[i] -= pay
			available -= pay
			paid += pay
		}
		cumPaid += paid

		for i := range balances {
			if balances[i] < 0 {
				balances[i] = 0
			}
		}

		for i := range balances {
			if !paidOff[i] && balances[i] <= BalanceThreshold {
				paidOff[i] = true
				res.Events = append(res.Events, PayoffEvent{
					DebtIndex:    i,
					Name:         res.Names[i],
					Month:        month,
					Date:         PayoffDate(plan.Start, month),
					FreedPayment: required[i],
				})
			}
		}

		endTotal := sum(balances)
		res.Snapshots = append(res.Snapshots, Snapshot{
			Month:              month,
			Balances:           append([]float64(nil), balances...),
			TotalRemaining:     endTotal,
			CumulativeInterest: cumInterest,
			CumulativePaid:     cumPaid,
			Interest:           interest,
			Paid:               paid,
			GrossIncome:        gross,
			TakeHome:           takeHome,
			Expenses:           expenses,
			Budget:             budget,
		})

		progress := endTotal < startTotal-stallEpsilon || interest < prevInterest-stallEpsilon
		prevInterest = interest
		if month < lastActivation || allTrue(paidOff) || progress {
			stalled = 0
			continue
		}
		if stalled == 0 {
			windowStart = append(windowStart[:0], monthBalance...)
		}
		stalled++
		if stalled >= StallWindow {
			res.Status = StatusInfeasible
			res.Stalled = stalledDebts(balances, windowStart, paidOff)
			break
		}
	}

	res.Months = month
	res.RemainingBalance = sum(balances)
	res.TotalInterest = cumInterest
	res.TotalPaid = cumPaid
	return res
}

// stalledDebts returns the unpaid debts whose balance did not go down over
// the stall window. If the total stalled while every debt moved a little, all
// unpaid debts are reported.
func stalledDebts(end, start []float64, paidOff []bool) []int {
	var out []int
	for i := range end {
		if !paidOff[i] && end[i] >= start[i]-stallEpsilon {
			out = append(out, i)
		}
	}
	if len(out) > 0 {
		return out
	}
	for i := range end {
		if !paidOff[i] {
			out = append(out, i)
		}
	}
	return out
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

func allTrue(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}

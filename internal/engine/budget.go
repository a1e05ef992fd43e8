package engine

import (
	"fmt"
	"math"
)

// Budget policy names.
const (
	PolicyFlatExtra         = "flat_extra"
	PolicyFixedTotal        = "fixed_total"
	PolicyTakeHomePercent   = "take_home_percent"
	PolicyDisposablePercent = "disposable_percent"
)

// MonthContext holds the figures a BudgetPolicy may derive a month's budget
// from. Minimums is the sum of required payments of debts still active at the
// start of the month.
type MonthContext struct {
	Month       int
	GrossIncome float64
	TakeHome    float64
	Expenses    float64
	Disposable  float64
	Minimums    float64
}

// BudgetPolicy decides the total amount (minimums and extra combined)
// available for debt payments in a month.
type BudgetPolicy interface {
	Name() string
	Budget(m MonthContext) float64
}

// FlatExtra pays every active minimum plus a fixed extra amount. Minimums
// freed by paid-off debts leave the budget.
type FlatExtra struct {
	Extra float64
}

func (FlatExtra) Name() string { return PolicyFlatExtra }

func (p FlatExtra) Budget(m MonthContext) float64 {
	return m.Minimums + math.Max(0, p.Extra)
}

// FixedTotal commits the same total every month regardless of income, so
// minimums freed by paid-off debts roll over to the remaining ones.
type FixedTotal struct {
	Total float64
}

func (FixedTotal) Name() string { return PolicyFixedTotal }

func (p FixedTotal) Budget(MonthContext) float64 {
	return math.Max(0, p.Total)
}

// TakeHomePercent commits a fraction of take-home pay.
type TakeHomePercent struct {
	Fraction float64
}

func (TakeHomePercent) Name() string { return PolicyTakeHomePercent }

func (p TakeHomePercent) Budget(m MonthContext) float64 {
	return clampFraction(p.Fraction) * m.TakeHome
}

// DisposablePercent pays the minimums plus a fraction of the true disposable
// income (take-home minus expenses minus minimums). When disposable income
// cannot cover the minimums the whole disposable amount is committed.
type DisposablePercent struct {
	Fraction float64
}

func (DisposablePercent) Name() string { return PolicyDisposablePercent }

func (p DisposablePercent) Budget(m MonthContext) float64 {
	if m.Disposable <= m.Minimums {
		return math.Max(0, m.Disposable)
	}
	return m.Minimums + clampFraction(p.Fraction)*(m.Disposable-m.Minimums)
}

func clampFraction(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}

// NewPolicy builds a named policy. amount is the extra for flat_extra and the
// total for fixed_total; fraction applies to the percentage policies. An
// empty name selects flat_extra.
func NewPolicy(name string, amount, fraction float64) (BudgetPolicy, error) {
	switch name {
	case "", PolicyFlatExtra:
		return FlatExtra{Extra: amount}, nil
	case PolicyFixedTotal:
		return FixedTotal{Total: amount}, nil
	case PolicyTakeHomePercent:
		return TakeHomePercent{Fraction: fraction}, nil
	case PolicyDisposablePercent:
		return DisposablePercent{Fraction: fraction}, nil
	}
	return nil, fmt.Errorf("unknown budget policy %q", name)
}

package engine

import "math"

// Debt is one owed balance as seen by the engine.
//
// TermMonths is only consulted for installment categories; 0 means "use the
// category default" and a negative value means no payment schedule exists.
// MinPayment, when positive, is a caller-stated required payment that replaces
// the category rule and stays fixed for the whole simulation.
type Debt struct {
	Name       string
	Category   Category
	Balance    float64
	APR        float64
	TermMonths int
	MinPayment float64
}

// RequiredPayment returns the monthly payment the debt requires at its current
// balance. It never fails: a non-positive balance or term yields 0.
func RequiredPayment(d Debt) float64 {
	if d.Balance <= 0 {
		return 0
	}
	if d.MinPayment > 0 {
		return d.MinPayment
	}

	cfg := d.Category.config()
	if cfg.rule == rulePercentOfBalance {
		return math.Max(cfg.floor, d.Balance*cfg.minPercent)
	}

	term := d.TermMonths
	if term == 0 {
		term = cfg.defaultTerm
	}
	return AmortizedPayment(d.Balance, d.APR, term)
}

// recomputesMonthly reports whether the debt's required payment tracks its
// shrinking balance. Installment debts and debts with a stated minimum keep the
// payment computed from the original record.
func recomputesMonthly(d Debt) bool {
	return d.MinPayment <= 0 && d.Category.Revolving()
}

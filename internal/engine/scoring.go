package engine

import "math"

// ScoreWeights are the penalty multipliers of the freedom score. They are
// heuristic dashboard constants, not a statistical model.
type ScoreWeights struct {
	DTI     float64
	Expense float64
	APR     float64
}

var (
	// BasicWeights penalize debt-to-income and average APR only.
	BasicWeights = ScoreWeights{DTI: 150, APR: 2}
	// BudgetWeights also penalize the expense-to-income ratio.
	BudgetWeights = ScoreWeights{DTI: 120, Expense: 40, APR: 1.5}
)

// TotalBalance sums the positive balances.
func TotalBalance(debts []Debt) float64 {
	var total float64
	for _, d := range debts {
		if d.Balance > 0 {
			total += d.Balance
		}
	}
	return total
}

// TotalRequiredPayments sums RequiredPayment over the debts at their current
// balances.
func TotalRequiredPayments(debts []Debt) float64 {
	var total float64
	for _, d := range debts {
		total += RequiredPayment(d)
	}
	return total
}

// DebtToIncome is required payments over monthly income, or 0 without income.
func DebtToIncome(debts []Debt, income float64) float64 {
	if income <= 0 {
		return 0
	}
	return TotalRequiredPayments(debts) / income
}

// WeightedAverageAPR is the balance-weighted APR, or 0 without balance.
func WeightedAverageAPR(debts []Debt) float64 {
	var weighted, total float64
	for _, d := range debts {
		if d.Balance <= 0 {
			continue
		}
		weighted += d.APR * d.Balance
		total += d.Balance
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// FreedomScore is a 0-100 debt-health indicator:
//
//	100 - DTI*w.DTI - expenses/income*w.Expense - avgAPR*w.APR
//
// rounded and clamped. It is exactly 100 with no debts or no income. It is a
// heuristic, not a financial guarantee.
func FreedomScore(debts []Debt, income, expenses float64, w ScoreWeights) int {
	if income <= 0 || TotalBalance(debts) == 0 {
		return 100
	}
	score := 100 -
		DebtToIncome(debts, income)*w.DTI -
		math.Max(0, expenses)/income*w.Expense -
		WeightedAverageAPR(debts)*w.APR

	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// ScoreBand labels a freedom score.
func ScoreBand(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	}
	return "At Risk"
}

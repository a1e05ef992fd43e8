package engine

import (
	"fmt"
	"strings"
)

// Frequency is how often an income stream pays.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Annual   Frequency = "annual"
)

// Average periods per month. These are the published approximations and must
// not be replaced by exact calendar arithmetic.
var frequencyMultiplier = map[Frequency]float64{
	Weekly:   4.333,
	Biweekly: 2.167,
	Monthly:  1,
	Annual:   1.0 / 12,
}

// MonthlyMultiplier converts one period's amount to a monthly equivalent.
// Unknown frequencies are treated as monthly.
func (f Frequency) MonthlyMultiplier() float64 {
	if m, ok := frequencyMultiplier[f]; ok {
		return m
	}
	return 1
}

// ParseFrequency accepts the canonical names plus the dashboard spellings
// ("Bi-Weekly", "Annual", ...).
func ParseFrequency(s string) (Frequency, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", " ", "", "_", "").Replace(key)
	switch key {
	case "weekly":
		return Weekly, nil
	case "biweekly", "fortnightly":
		return Biweekly, nil
	case "monthly", "":
		return Monthly, nil
	case "annual", "annually", "yearly":
		return Annual, nil
	}
	return "", fmt.Errorf("unknown pay frequency %q", s)
}

// IncomeStream is one recurring gross income source. StartMonth 0 means the
// stream is already being paid; k >= 1 means it starts with simulated month k
// (a scheduled raise or new job).
type IncomeStream struct {
	Label      string
	Amount     float64
	Frequency  Frequency
	StartMonth int
}

// Monthly is the stream's gross monthly equivalent.
func (s IncomeStream) Monthly() float64 {
	if s.Amount <= 0 {
		return 0
	}
	return s.Amount * s.Frequency.MonthlyMultiplier()
}

// ActiveAt reports whether the stream pays during the given month.
func (s IncomeStream) ActiveAt(month int) bool {
	return s.StartMonth <= month
}

// GrossMonthlyIncome sums the monthly equivalents of every stream active at
// month. Month 0 is "today".
func GrossMonthlyIncome(streams []IncomeStream, month int) float64 {
	var total float64
	for _, s := range streams {
		if s.ActiveAt(month) {
			total += s.Monthly()
		}
	}
	return total
}

// TakeHome applies the flat withholding approximation.
func TakeHome(gross, rate float64) float64 {
	return gross * rate
}

// ExpenseKind is the coarse budgeting class of a living expense.
type ExpenseKind string

const (
	Needs   ExpenseKind = "needs"
	Wants   ExpenseKind = "wants"
	Savings ExpenseKind = "savings"
)

// Expense is one recurring monthly living-expense line.
type Expense struct {
	Label  string
	Amount float64
	Kind   ExpenseKind
}

// TotalExpenses sums the positive expense amounts.
func TotalExpenses(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		if e.Amount > 0 {
			total += e.Amount
		}
	}
	return total
}

// ExpensesByKind groups expense totals by kind.
func ExpensesByKind(expenses []Expense) map[ExpenseKind]float64 {
	out := make(map[ExpenseKind]float64, 3)
	for _, e := range expenses {
		if e.Amount > 0 {
			out[e.Kind] += e.Amount
		}
	}
	return out
}

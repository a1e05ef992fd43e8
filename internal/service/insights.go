package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/dustin/go-humanize"
)

// DTI thresholds. 43% is the usual qualified-mortgage ceiling.
const (
	dtiDanger       = 0.43
	dtiWatch        = 0.20
	highRateAPR     = 20.0
	roomThreshold   = 100.0
	maxSuggestExtra = 200.0
)

// Insight levels.
const (
	LevelDanger  = "danger"
	LevelWarning = "warning"
	LevelSuccess = "success"
	LevelInfo    = "info"
)

// monthZero is the budget context for today's figures.
func monthZero(in *Inputs) engine.MonthContext {
	takeHome := in.TakeHome()
	expenses := engine.TotalExpenses(in.Expenses)
	return engine.MonthContext{
		GrossIncome: in.GrossMonthlyIncome(),
		TakeHome:    takeHome,
		Expenses:    expenses,
		Disposable:  math.Max(0, takeHome-expenses),
		Minimums:    engine.TotalRequiredPayments(in.Debts),
	}
}

// extraCommitment is how much the budget policy pays above the minimums
// today.
func extraCommitment(in *Inputs, m engine.MonthContext) float64 {
	return math.Max(0, in.Policy.Budget(m)-m.Minimums)
}

// BuildInsights produces the advisor cards for a plan, in display order.
func BuildInsights(in *Inputs) []domain.Insight {
	if len(in.Debts) == 0 {
		return []domain.Insight{{
			Level:   LevelInfo,
			Title:   "No debts yet",
			Message: "Add your debts to get personalized advice.",
		}}
	}

	m := monthZero(in)
	dti := engine.DebtToIncome(in.Debts, m.TakeHome)
	extra := extraCommitment(in, m)
	var out []domain.Insight

	pct := fmt.Sprintf("%.0f%%", dti*100)
	switch {
	case dti > dtiDanger:
		out = append(out, domain.Insight{
			Level: LevelDanger,
			Title: "Danger zone",
			Message: "Your debt-to-income ratio is " + pct + ", above the 43% mortgage qualification threshold. " +
				"Paying off small debts quickly lowers your required payments fastest.",
		})
	case dti > dtiWatch:
		out = append(out, domain.Insight{
			Level:   LevelWarning,
			Title:   "Watch your DTI",
			Message: "At " + pct + " you carry a moderate debt load. Keeping it below 20% leaves room for the unexpected.",
		})
	default:
		out = append(out, domain.Insight{
			Level:   LevelSuccess,
			Title:   "Healthy DTI",
			Message: "Your debt-to-income ratio of " + pct + " is manageable. You have room to pay debt down aggressively.",
		})
	}

	var highRate []string
	for _, d := range in.Debts {
		if d.APR >= highRateAPR && d.Balance > 0 {
			highRate = append(highRate, d.Name)
		}
	}
	if len(highRate) > 0 {
		verb := "is"
		if len(highRate) > 1 {
			verb = "are"
		}
		out = append(out, domain.Insight{
			Level: LevelDanger,
			Title: "High-rate alert",
			Message: fmt.Sprintf("%s %s charging 20%%+ APR. Every dollar there costs 20+ cents a year; eliminate these first.",
				strings.Join(highRate, ", "), verb),
		})
	}

	room := m.TakeHome - m.Expenses - m.Minimums - extra
	switch {
	case extra > 0:
		out = append(out, domain.Insight{
			Level:   LevelSuccess,
			Title:   "Extra payment power",
			Message: "Your $" + humanize.Commaf(math.Round(extra)) + "/mo above the minimums is your fastest lever. Even small increases shrink the timeline.",
		})
	case room > roomThreshold:
		suggest := math.Min(maxSuggestExtra, room*0.5)
		out = append(out, domain.Insight{
			Level: LevelInfo,
			Title: "Untapped potential",
			Message: fmt.Sprintf("You have about $%s/mo of breathing room after expenses and minimums. Putting $%s extra toward debt could save a lot of interest.",
				humanize.Commaf(math.Round(room)), humanize.Commaf(math.Round(suggest))),
		})
	}

	if in.Strategy == engine.Snowball {
		out = append(out, domain.Insight{
			Level:   LevelInfo,
			Title:   "Snowball strategy",
			Message: "Quick wins on small balances build momentum. It usually costs a bit more interest than avalanche.",
		})
	} else {
		out = append(out, domain.Insight{
			Level:   LevelInfo,
			Title:   "Avalanche strategy",
			Message: "Paying the highest rate first minimizes total interest.",
		})
	}

	for _, d := range in.Debts {
		if d.Category == engine.CategoryMortgage {
			out = append(out, domain.Insight{
				Level:   LevelInfo,
				Title:   "Mortgage interest",
				Message: "Mortgage interest may be tax-deductible if you itemize, which lowers its effective rate. Weigh that before prepaying the mortgage instead of cards.",
			})
			break
		}
	}

	return out
}

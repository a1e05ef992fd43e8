package service

import (
	"fmt"
	"strings"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/debtfree/debtfree-go/internal/service"

	"github.com/dustin/go-humanize"
)

const dateLayout = "2006-01-02"

const systemPrompt = `You are a practical debt payoff advisor. Use only the financial snapshot below; do not invent numbers.
Keep answers short and concrete, and point to the user's own debts by name. This is educational guidance, not certified financial advice.`

const noPlanDocument = "No financial data was shared. Answer in general terms and suggest adding debts and income for tailored advice."

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// BuildContextDocument renders the plan as plain text for the language model.
// Output depends only on the arguments: same inputs, same bytes. res may be
// nil when there is nothing to simulate.
func BuildContextDocument(in *service.Inputs, summary *domain.SummaryResponse, res *engine.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Financial snapshot (plan starts %s)\n", in.Start.Format(dateLayout))

	b.WriteString("\nDebts:\n")
	if len(in.Debts) == 0 {
		b.WriteString("- none\n")
	}
	for i, d := range in.Debts {
		fmt.Fprintf(&b, "%d. %s (%s): balance %s, APR %.2f%%, required payment %s/mo\n",
			i+1, d.Name, d.Category, money(d.Balance), d.APR, money(engine.RequiredPayment(d)))
	}

	b.WriteString("\nIncome (gross):\n")
	if len(in.Income) == 0 {
		b.WriteString("- none\n")
	}
	for _, s := range in.Income {
		label := s.Label
		if label == "" {
			label = "income"
		}
		when := "current"
		if s.StartMonth > 0 {
			when = fmt.Sprintf("starts month %d", s.StartMonth)
		}
		fmt.Fprintf(&b, "- %s: %s %s, %s/mo, %s\n", label, money(s.Amount), s.Frequency, money(s.Monthly()), when)
	}

	if len(in.Expenses) > 0 {
		b.WriteString("\nLiving expenses:\n")
		for _, e := range in.Expenses {
			label := e.Label
			if label == "" {
				label = "expense"
			}
			fmt.Fprintf(&b, "- %s (%s): %s/mo\n", label, e.Kind, money(e.Amount))
		}
	}

	b.WriteString("\nMetrics:\n")
	fmt.Fprintf(&b, "- Total debt: %s\n", money(summary.TotalDebt))
	fmt.Fprintf(&b, "- Required minimums: %s/mo\n", money(summary.TotalMinimums))
	fmt.Fprintf(&b, "- Gross income: %s/mo, take-home at %.0f%%: %s/mo\n",
		money(summary.GrossMonthlyIncome), in.TakeHomeRate*100, money(summary.TakeHome))
	fmt.Fprintf(&b, "- Living expenses: %s/mo\n", money(summary.Expenses))
	fmt.Fprintf(&b, "- Disposable after expenses and minimums: %s/mo\n", money(summary.Disposable))
	fmt.Fprintf(&b, "- Debt-to-income: %s\n", percent(summary.DebtToIncome))
	fmt.Fprintf(&b, "- Weighted average APR: %.2f%%\n", summary.WeightedAPR)
	fmt.Fprintf(&b, "- Freedom score: %d/100 (%s)\n", summary.FreedomScore, summary.ScoreBand)

	if res != nil {
		fmt.Fprintf(&b, "\nCurrent plan (%s order, %s budget):\n", res.Strategy, res.Policy)
		if err := res.Err(); err != nil {
			fmt.Fprintf(&b, "- Outcome: %s\n", err)
		} else {
			fmt.Fprintf(&b, "- Outcome: debt-free in %d months, around %s\n",
				res.Months, engine.PayoffDate(in.Start, res.Months).Format(dateLayout))
		}
		fmt.Fprintf(&b, "- Total interest: %s, total paid: %s\n", money(res.TotalInterest), money(res.TotalPaid))
		if len(res.Events) > 0 {
			b.WriteString("- Payoff order:\n")
			for _, ev := range res.Events {
				fmt.Fprintf(&b, "  - %s in month %d (%s), frees %s/mo\n",
					ev.Name, ev.Month, ev.Date.Format(dateLayout), money(ev.FreedPayment))
			}
		}
	}

	if len(summary.Insights) > 0 {
		b.WriteString("\nNotes:\n")
		for _, ins := range summary.Insights {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", ins.Level, ins.Title, ins.Message)
		}
	}

	return b.String()
}

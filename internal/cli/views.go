package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/debtfree/debtfree-go/internal/domain"
)

// RenderSimulation renders one run: headline figures, payoff order and, when
// the response carries a timeline, a yearly balance table.
func RenderSimulation(resp *domain.SimulationResponse) string {
	var b strings.Builder

	rows := [][]string{
		{"Strategy", resp.Strategy},
		{"Budget policy", resp.Policy},
		{"Status", Status(resp.Status)},
		{"Time to freedom", Months(resp.Months)},
	}
	if resp.DebtFreeDate != "" {
		rows = append(rows, []string{"Debt-free date", resp.DebtFreeDate})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Starting balance", Money(resp.StartingBalance)},
		[]string{"Interest paid", Money(resp.TotalInterest)},
		[]string{"Total paid", Money(resp.TotalPaid)},
	)
	if resp.RemainingBalance > 0 {
		rows = append(rows, []string{"Remaining", Money(resp.RemainingBalance)})
	}
	b.WriteString(RenderTable(Table{Title: "Plan", Rows: rows}))

	if resp.Message != "" {
		b.WriteString("  " + warnStyle.Render(resp.Message) + "\n")
	}

	if len(resp.Events) > 0 {
		events := make([][]string, len(resp.Events))
		for i, ev := range resp.Events {
			events[i] = []string{Ordinal(i + 1), ev.Debt, strconv.Itoa(ev.Month), ev.Date, Money(ev.FreedPayment) + "/mo"}
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(Table{
			Title:   "Payoff order",
			Headers: []string{"#", "Debt", "Month", "Date", "Frees"},
			Rows:    events,
		}))
	}

	if len(resp.Timeline) > 0 {
		var points [][]string
		for i, snap := range resp.Timeline {
			if snap.Month%12 != 0 && i != len(resp.Timeline)-1 {
				continue
			}
			points = append(points, []string{
				Months(snap.Month), MoneyWhole(snap.TotalRemaining), MoneyWhole(snap.CumulativeInterest),
			})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable(Table{
			Title:   "Balance over time",
			Headers: []string{"After", "Remaining", "Interest so far"},
			Rows:    points,
		}))
	}
	return b.String()
}

// RenderComparison renders avalanche and snowball side by side.
func RenderComparison(cmp *domain.ComparisonResponse) string {
	row := func(label string, f func(*domain.SimulationResponse) string) []string {
		return []string{label, f(cmp.Avalanche), f(cmp.Snowball)}
	}
	table := Table{
		Title:   "Avalanche vs snowball",
		Headers: []string{"", "Avalanche", "Snowball"},
		Rows: [][]string{
			row("Status", func(r *domain.SimulationResponse) string { return Status(r.Status) }),
			row("Months", func(r *domain.SimulationResponse) string { return Months(r.Months) }),
			row("Interest", func(r *domain.SimulationResponse) string { return Money(r.TotalInterest) }),
			row("Total paid", func(r *domain.SimulationResponse) string { return Money(r.TotalPaid) }),
			row("First payoff", firstPayoff),
		},
	}

	var b strings.Builder
	b.WriteString(RenderTable(table))
	fmt.Fprintf(&b, "  Recommended: %s", headerStyle.Render(cmp.Recommended))
	if cmp.InterestSaved > 0 || cmp.MonthsSaved > 0 {
		fmt.Fprintf(&b, " (saves %s and %s)", Money(cmp.InterestSaved), Months(cmp.MonthsSaved))
	}
	b.WriteString("\n")
	return b.String()
}

func firstPayoff(r *domain.SimulationResponse) string {
	if len(r.Events) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", r.Events[0].Debt, Months(r.Events[0].Month))
}

// RenderScenarios renders the budget scenarios in their fixed order.
func RenderScenarios(resp *domain.ScenarioResponse) string {
	rows := make([][]string, 0, len(resp.Scenarios))
	for _, s := range resp.Scenarios {
		rows = append(rows, []string{
			s.Name, MoneyWhole(s.MonthlyBudget) + "/mo", Status(s.Result.Status),
			Months(s.Result.Months), Money(s.Result.TotalInterest),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Scenarios (" + resp.Strategy + ")",
		Headers: []string{"Scenario", "Budget", "Status", "Months", "Interest"},
		Rows:    rows,
	}))
	for _, s := range resp.Scenarios {
		b.WriteString("  " + Muted(s.Name+": "+s.Description) + "\n")
	}
	return b.String()
}

// RenderSensitivity renders the extra-payment table.
func RenderSensitivity(resp *domain.SensitivityResponse) string {
	rows := make([][]string, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		months, saved := "-", "-"
		if r.Status == "paid_off" {
			months = Months(r.Months)
			saved = fmt.Sprintf("%s / %s", Money(r.InterestSaved), Months(r.MonthsSaved))
		}
		rows = append(rows, []string{
			"+" + MoneyWhole(r.Extra) + "/mo", Status(r.Status), months, Money(r.TotalInterest), saved,
		})
	}
	return RenderTable(Table{
		Title:   "What if you pay extra? (" + resp.Strategy + ")",
		Headers: []string{"Extra", "Status", "Payoff", "Interest", "Saved vs minimums"},
		Rows:    rows,
	})
}

// RenderSummary renders the dashboard metrics and advisor notes.
func RenderSummary(s *domain.SummaryResponse) string {
	rows := [][]string{
		{"Total debt", Money(s.TotalDebt)},
		{"Required minimums", Money(s.TotalMinimums) + "/mo"},
		{"---"},
		{"Gross income", Money(s.GrossMonthlyIncome) + "/mo"},
		{"Take-home", Money(s.TakeHome) + "/mo"},
		{"Living expenses", Money(s.Expenses) + "/mo"},
	}

	kinds := make([]string, 0, len(s.ExpensesByKind))
	for k := range s.ExpensesByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		rows = append(rows, []string{"  " + k, Money(s.ExpensesByKind[k]) + "/mo"})
	}

	rows = append(rows,
		[]string{"Disposable", Money(s.Disposable) + "/mo"},
		[]string{"---"},
		[]string{"Debt-to-income", Percent(s.DebtToIncome)},
		[]string{"Weighted APR", APR(s.WeightedAPR)},
		[]string{"Freedom score", fmt.Sprintf("%d/100 %s", s.FreedomScore, s.ScoreBand)},
	)

	var b strings.Builder
	b.WriteString(RenderTable(Table{Title: "Summary", Rows: rows}))
	if len(s.Insights) > 0 {
		b.WriteString("\n")
		for _, in := range s.Insights {
			fmt.Fprintf(&b, "  %s %s\n      %s\n", Level(in.Level), headerStyle.Render(in.Title), in.Message)
		}
	}
	return b.String()
}

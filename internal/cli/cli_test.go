package cli_test

import (
	"strings"
	"testing"

	"github.com/debtfree/debtfree-go/internal/cli"
	"github.com/debtfree/debtfree-go/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-42.1, "-$42.10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cli.Money(tt.in), "Money(%v)", tt.in)
	}
	assert.Equal(t, "$1,235", cli.MoneyWhole(1234.5))
}

func TestMonths(t *testing.T) {
	tests := map[int]string{0: "0m", 9: "9m", 12: "1y", 27: "2y 3m", -3: "0m"}
	for in, want := range tests {
		assert.Equal(t, want, cli.Months(in), "Months(%d)", in)
	}
}

func TestPercentAndOrdinal(t *testing.T) {
	assert.Equal(t, "43.1%", cli.Percent(0.4312))
	assert.Equal(t, "22.90%", cli.APR(22.9))
	assert.Equal(t, "2nd", cli.Ordinal(2))
}

func TestRenderTable(t *testing.T) {
	out := cli.RenderTable(cli.Table{
		Title:   "Debts",
		Headers: []string{"Name", "Balance"},
		Rows:    [][]string{{"Visa", "$5,000.00"}, {"---"}, {"Total", "$5,000.00"}},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, out, "Visa")
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╯")
	assert.Empty(t, cli.RenderTable(cli.Table{}))
}

func TestRenderSimulation(t *testing.T) {
	out := cli.RenderSimulation(&domain.SimulationResponse{
		Strategy:        "avalanche",
		Policy:          "flat_extra",
		Status:          "paid_off",
		Months:          14,
		DebtFreeDate:    "2026-05-01",
		StartingBalance: 3000,
		TotalInterest:   210.4,
		TotalPaid:       3210.4,
		Events: []domain.PayoffEvent{
			{Debt: "Store card", Month: 5, Date: "2025-08-01", FreedPayment: 40},
			{Debt: "Visa", Month: 14, Date: "2026-05-01", FreedPayment: 90},
		},
		Timeline: []domain.MonthSnapshot{
			{Month: 12, TotalRemaining: 400},
			{Month: 13, TotalRemaining: 200},
			{Month: 14, TotalRemaining: 0},
		},
	})

	for _, want := range []string{"paid off", "1y 2m", "$210.40", "1st", "Store card", "Balance over time"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSummary(t *testing.T) {
	out := cli.RenderSummary(&domain.SummaryResponse{
		TotalDebt:      5800,
		ExpensesByKind: map[string]float64{"wants": 200, "needs": 1600},
		DebtToIncome:   0.116,
		FreedomScore:   72,
		ScoreBand:      "Good",
		Insights:       []domain.Insight{{Level: "success", Title: "Healthy DTI", Message: "ok"}},
	})

	assert.Contains(t, out, "11.6%")
	assert.Contains(t, out, "72/100 Good")
	assert.Contains(t, out, "Healthy DTI")
	assert.Less(t, strings.Index(out, "needs"), strings.Index(out, "wants"))
}

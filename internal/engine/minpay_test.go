package engine_test

import (
	"testing"

	"github.com/debtfree/debtfree-go/internal/engine"
	"github.com/stretchr/testify/assert"
)

func TestRequiredPayment(t *testing.T) {
	tests := []struct {
		name string
		debt engine.Debt
		want float64
	}{
		{
			name: "revolving floor",
			debt: engine.Debt{Category: engine.CategoryRevolving, Balance: 800, APR: 22},
			want: 25,
		},
		{
			name: "revolving percent",
			debt: engine.Debt{Category: engine.CategoryRevolving, Balance: 5000, APR: 22},
			want: 100,
		},
		{
			name: "medical uses the revolving rule",
			debt: engine.Debt{Category: engine.CategoryMedical, Balance: 3000},
			want: 60,
		},
		{
			name: "revolving floor capped by nothing",
			debt: engine.Debt{Category: engine.CategoryRevolving, Balance: 10},
			want: 25,
		},
		{
			name: "installment with term",
			debt: engine.Debt{Category: engine.CategoryAuto, Balance: 1200, TermMonths: 12},
			want: 100,
		},
		{
			name: "installment default term",
			debt: engine.Debt{Category: engine.CategoryPersonal, Balance: 4800},
			want: 100,
		},
		{
			name: "unknown category falls back to other",
			debt: engine.Debt{Category: "boat", Balance: 6000},
			want: 100,
		},
		{
			name: "negative term has no schedule",
			debt: engine.Debt{Category: engine.CategoryStudent, Balance: 1000, APR: 5, TermMonths: -1},
			want: 0,
		},
		{
			name: "paid off",
			debt: engine.Debt{Category: engine.CategoryRevolving, Balance: 0},
			want: 0,
		},
		{
			name: "stated minimum wins",
			debt: engine.Debt{Category: engine.CategoryRevolving, Balance: 5000, MinPayment: 175},
			want: 175,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, engine.RequiredPayment(tt.debt), 1e-9)
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := engine.ParseCategory("Credit Card")
	assert.True(t, ok)
	assert.Equal(t, engine.CategoryRevolving, c)

	c, ok = engine.ParseCategory(" mortgage ")
	assert.True(t, ok)
	assert.Equal(t, engine.CategoryMortgage, c)

	_, ok = engine.ParseCategory("payday")
	assert.False(t, ok)

	assert.Equal(t, 360, engine.CategoryMortgage.DefaultTerm())
	assert.Equal(t, 0, engine.CategoryRevolving.DefaultTerm())
	assert.Len(t, engine.Categories, 7)
}

func TestIncomeAndExpenses(t *testing.T) {
	streams := []engine.IncomeStream{
		{Label: "salary", Amount: 2000, Frequency: engine.Biweekly},
		{Label: "bonus", Amount: 12000, Frequency: engine.Annual},
		{Label: "new job", Amount: 1000, Frequency: engine.Weekly, StartMonth: 3},
	}

	assert.InDelta(t, 4334+1000, engine.GrossMonthlyIncome(streams, 0), 1e-9)
	assert.InDelta(t, 4334+1000, engine.GrossMonthlyIncome(streams, 2), 1e-9)
	assert.InDelta(t, 4334+1000+4333, engine.GrossMonthlyIncome(streams, 3), 1e-9)
	assert.InDelta(t, 750, engine.TakeHome(1000, 0.75), 1e-9)

	f, err := engine.ParseFrequency("Bi-Weekly")
	assert.NoError(t, err)
	assert.Equal(t, engine.Biweekly, f)
	_, err = engine.ParseFrequency("hourly")
	assert.Error(t, err)

	expenses := []engine.Expense{
		{Label: "rent", Amount: 1500, Kind: engine.Needs},
		{Label: "food", Amount: 400, Kind: engine.Needs},
		{Label: "fun", Amount: 200, Kind: engine.Wants},
		{Label: "bogus", Amount: -50, Kind: engine.Wants},
	}
	assert.Equal(t, 2100.0, engine.TotalExpenses(expenses))
	assert.Equal(t, 1900.0, engine.ExpensesByKind(expenses)[engine.Needs])
	assert.Equal(t, 200.0, engine.ExpensesByKind(expenses)[engine.Wants])
}

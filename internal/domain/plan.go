// Package domain holds the request and response types shared by the HTTP
// API, the CLI and the advisor, plus the typed errors.
package domain

// ============================================================
// Plan input: JSON body of /v1/plans/* and the TOML scenario file
// ============================================================

// PlanRequest describes a household's debts, income and budget choice.
// Amounts are in dollars, APRs in percent.
type PlanRequest struct {
	Debts         []DebtInput    `json:"debts" toml:"debts"`
	Income        []IncomeInput  `json:"income" toml:"income"`
	FutureIncome  []IncomeInput  `json:"futureIncome,omitempty" toml:"future_income"`
	Expenses      []ExpenseInput `json:"expenses,omitempty" toml:"expenses"`
	Strategy      string         `json:"strategy,omitempty" toml:"strategy"`
	Budget        BudgetInput    `json:"budget" toml:"budget"`
	HorizonMonths int            `json:"horizonMonths,omitempty" toml:"horizon_months"`
	TakeHomeRate  float64        `json:"takeHomeRate,omitempty" toml:"take_home_rate"`
	StartDate     string         `json:"startDate,omitempty" toml:"start_date"` // YYYY-MM-DD, default today
}

// DebtInput is one debt as entered by the user. Category accepts the
// canonical names and dashboard labels ("Credit Card", "Car Loan").
type DebtInput struct {
	Name       string  `json:"name" toml:"name"`
	Category   string  `json:"category" toml:"category"`
	Balance    float64 `json:"balance" toml:"balance"`
	APR        float64 `json:"apr" toml:"apr"`
	TermMonths int     `json:"termMonths,omitempty" toml:"term_months"`
	MinPayment float64 `json:"minPayment,omitempty" toml:"min_payment"`
}

// IncomeInput is a gross income stream. StartMonth is only meaningful for
// future income (month k >= 1 of the simulation).
type IncomeInput struct {
	Label      string  `json:"label" toml:"label"`
	Amount     float64 `json:"amount" toml:"amount"`
	Frequency  string  `json:"frequency" toml:"frequency"`
	StartMonth int     `json:"startMonth,omitempty" toml:"start_month"`
}

// ExpenseInput is a monthly living expense. Kind is needs, wants or savings.
type ExpenseInput struct {
	Label  string  `json:"label" toml:"label"`
	Amount float64 `json:"amount" toml:"amount"`
	Kind   string  `json:"kind,omitempty" toml:"kind"`
}

// BudgetInput selects a budget policy: flat_extra (Extra), fixed_total
// (Total), take_home_percent or disposable_percent (Fraction in [0,1]).
type BudgetInput struct {
	Policy   string  `json:"policy,omitempty" toml:"policy"`
	Extra    float64 `json:"extra,omitempty" toml:"extra"`
	Total    float64 `json:"total,omitempty" toml:"total"`
	Fraction float64 `json:"fraction,omitempty" toml:"fraction"`
}

// SensitivityRequest is a plan plus the extra amounts to try. Empty Extras
// uses the default ladder.
type SensitivityRequest struct {
	PlanRequest
	Extras []float64 `json:"extras,omitempty" toml:"extras"`
}

// PaymentRequest is the body of POST /v1/amortization/payment.
type PaymentRequest struct {
	Balance float64 `json:"balance"`
	APR     float64 `json:"apr"`
	Months  int     `json:"months"`
}

// PayoffRequest is the body of POST /v1/amortization/payoff.
type PayoffRequest struct {
	Balance float64 `json:"balance"`
	APR     float64 `json:"apr"`
	Payment float64 `json:"payment"`
}

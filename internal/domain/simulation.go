package domain

// ============================================================
// Simulation responses
// ============================================================

// SimulationResponse is one payoff run as returned by the API. Money values
// are rounded to cents.
type SimulationResponse struct {
	PlanID           string          `json:"planId"`
	Strategy         string          `json:"strategy"`
	Policy           string          `json:"policy"`
	Status           string          `json:"status"` // paid_off, horizon_exceeded, infeasible
	Message          string          `json:"message,omitempty"`
	Months           int             `json:"months"`
	DebtFreeDate     string          `json:"debtFreeDate,omitempty"`
	StartingBalance  float64         `json:"startingBalance"`
	TotalInterest    float64         `json:"totalInterest"`
	TotalPaid        float64         `json:"totalPaid"`
	RemainingBalance float64         `json:"remainingBalance"`
	StalledDebts     []string        `json:"stalledDebts,omitempty"`
	Debts            []string        `json:"debts"`
	Events           []PayoffEvent   `json:"events"`
	Timeline         []MonthSnapshot `json:"timeline,omitempty"`
}

// PayoffEvent marks the month a debt reached zero.
type PayoffEvent struct {
	Debt         string  `json:"debt"`
	Month        int     `json:"month"`
	Date         string  `json:"date"`
	FreedPayment float64 `json:"freedPayment"`
}

// MonthSnapshot is one point of the balance-over-time chart. Income figures
// are the month's own, so future income streams show up when they start.
type MonthSnapshot struct {
	Month              int       `json:"month"`
	Balances           []float64 `json:"balances"`
	TotalRemaining     float64   `json:"totalRemaining"`
	Interest           float64   `json:"interest"`
	Paid               float64   `json:"paid"`
	CumulativeInterest float64   `json:"cumulativeInterest"`
	GrossIncome        float64   `json:"grossIncome"`
	TakeHome           float64   `json:"takeHome"`
	Expenses           float64   `json:"expenses"`
	Budget             float64   `json:"budget"`
}

// ComparisonResponse puts avalanche and snowball side by side. The savings
// are only set when both runs pay off.
type ComparisonResponse struct {
	Avalanche     *SimulationResponse `json:"avalanche"`
	Snowball      *SimulationResponse `json:"snowball"`
	Recommended   string              `json:"recommended"`
	InterestSaved float64             `json:"interestSaved"`
	MonthsSaved   int                 `json:"monthsSaved"`
}

// ScenarioOutcome is one named budget scenario.
type ScenarioOutcome struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	MonthlyBudget float64             `json:"monthlyBudget"`
	Result        *SimulationResponse `json:"result"`
}

// ScenarioResponse lists the scenario outcomes in a fixed order.
type ScenarioResponse struct {
	Strategy  string            `json:"strategy"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// SensitivityRow is the outcome of one extra-payment amount, compared with
// paying minimums only.
type SensitivityRow struct {
	Extra         float64 `json:"extra"`
	Status        string  `json:"status"`
	Months        int     `json:"months"`
	DebtFreeDate  string  `json:"debtFreeDate,omitempty"`
	TotalInterest float64 `json:"totalInterest"`
	InterestSaved float64 `json:"interestSaved"`
	MonthsSaved   int     `json:"monthsSaved"`
}

// SensitivityResponse is the extra-payment table.
type SensitivityResponse struct {
	Strategy string           `json:"strategy"`
	Rows     []SensitivityRow `json:"rows"`
}

// ============================================================
// Summary (no simulation)
// ============================================================

// SummaryResponse carries the dashboard metrics derived from the inputs.
type SummaryResponse struct {
	TotalDebt          float64            `json:"totalDebt"`
	TotalMinimums      float64            `json:"totalMinimums"`
	GrossMonthlyIncome float64            `json:"grossMonthlyIncome"`
	TakeHome           float64            `json:"takeHome"`
	Expenses           float64            `json:"expenses"`
	ExpensesByKind     map[string]float64 `json:"expensesByKind,omitempty"`
	Disposable         float64            `json:"disposable"` // take-home - expenses - minimums
	DebtToIncome       float64            `json:"debtToIncome"`
	WeightedAPR        float64            `json:"weightedApr"`
	FreedomScore       int                `json:"freedomScore"`
	ScoreBand          string             `json:"scoreBand"`
	Insights           []Insight          `json:"insights"`
}

// Insight is one advisor card. Level is danger, warning, success or info.
type Insight struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ============================================================
// Closed-form amortization
// ============================================================

// PaymentResponse is the level payment for a fixed term.
type PaymentResponse struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
}

// PayoffResponse is how long a fixed payment takes.
type PayoffResponse struct {
	Months        int     `json:"months"`
	TotalPaid     float64 `json:"totalPaid"`
	TotalInterest float64 `json:"totalInterest"`
	FinalPayment  float64 `json:"finalPayment"`
}

// Package scenario reads and writes plan files in TOML.
//
//	strategy = "avalanche"
//
//	[budget]
//	policy = "flat_extra"
//	extra = 200
//
//	[[debts]]
//	name = "Visa"
//	category = "credit card"
//	balance = 5000
//	apr = 22.9
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/debtfree/debtfree-go/internal/domain"

	"github.com/BurntSushi/toml"
)

// Load reads a scenario file. Unknown keys are rejected so that typos do not
// silently fall back to defaults.
func Load(path string) (*domain.SensitivityRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes scenario TOML.
func Parse(data string) (*domain.SensitivityRequest, error) {
	var req domain.SensitivityRequest
	md, err := toml.Decode(data, &req)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("parsing scenario: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &req, nil
}

// Save writes req to path, refusing to overwrite an existing file.
func Save(path string, req *domain.SensitivityRequest) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists", path)
	}
	if err != nil {
		return fmt.Errorf("creating scenario file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(req); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}

// Example is the plan written by `debtplan init`.
func Example() *domain.SensitivityRequest {
	return &domain.SensitivityRequest{
		PlanRequest: domain.PlanRequest{
			Debts: []domain.DebtInput{
				{Name: "Visa", Category: "credit card", Balance: 5000, APR: 22.9},
				{Name: "Car loan", Category: "auto", Balance: 12000, APR: 6.5, TermMonths: 48},
				{Name: "Hospital", Category: "medical", Balance: 900, APR: 0, MinPayment: 50},
			},
			Income: []domain.IncomeInput{
				{Label: "salary", Amount: 2600, Frequency: "biweekly"},
			},
			FutureIncome: []domain.IncomeInput{
				{Label: "raise", Amount: 300, Frequency: "monthly", StartMonth: 12},
			},
			Expenses: []domain.ExpenseInput{
				{Label: "rent", Amount: 1500, Kind: "needs"},
				{Label: "groceries", Amount: 450, Kind: "needs"},
				{Label: "going out", Amount: 200, Kind: "wants"},
			},
			Strategy: "avalanche",
			Budget:   domain.BudgetInput{Policy: "disposable_percent", Fraction: 0.5},
		},
	}
}

// Package engine implements the debt payoff simulation core: minimum-payment
// rules, closed-form amortization, the month-by-month payoff simulator and the
// aggregate debt-health metrics.
//
// Everything in this package is pure. Functions take their inputs by value,
// never log, never read the clock and never keep state between calls, so two
// calls with equal inputs return equal results.
package engine

import "strings"

// Category identifies the kind of debt and selects its minimum-payment rule.
type Category string

const (
	CategoryRevolving Category = "revolving"
	CategoryAuto      Category = "auto"
	CategoryMortgage  Category = "mortgage"
	CategoryStudent   Category = "student"
	CategoryPersonal  Category = "personal"
	CategoryMedical   Category = "medical"
	CategoryOther     Category = "other"
)

// Revolving minimum-payment constants.
const (
	RevolvingMinPercent = 0.02
	RevolvingFloor      = 25.0
)

type paymentRule int

const (
	rulePercentOfBalance paymentRule = iota
	ruleAmortized
)

type categoryConfig struct {
	rule        paymentRule
	minPercent  float64
	floor       float64
	defaultTerm int
}

var categoryTable = map[Category]categoryConfig{
	CategoryRevolving: {rule: rulePercentOfBalance, minPercent: RevolvingMinPercent, floor: RevolvingFloor},
	CategoryMedical:   {rule: rulePercentOfBalance, minPercent: RevolvingMinPercent, floor: RevolvingFloor},
	CategoryAuto:      {rule: ruleAmortized, defaultTerm: 60},
	CategoryMortgage:  {rule: ruleAmortized, defaultTerm: 360},
	CategoryStudent:   {rule: ruleAmortized, defaultTerm: 120},
	CategoryPersonal:  {rule: ruleAmortized, defaultTerm: 48},
	CategoryOther:     {rule: ruleAmortized, defaultTerm: 60},
}

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryRevolving,
	CategoryAuto,
	CategoryMortgage,
	CategoryStudent,
	CategoryPersonal,
	CategoryMedical,
	CategoryOther,
}

func (c Category) config() categoryConfig {
	if cfg, ok := categoryTable[c]; ok {
		return cfg
	}
	return categoryTable[CategoryOther]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Revolving reports whether the category's minimum payment is a percentage of
// the current balance (and so changes every month).
func (c Category) Revolving() bool {
	return c.config().rule == rulePercentOfBalance
}

// DefaultTerm is the term in months assumed for installment debts that do not
// state one. Revolving categories return 0.
func (c Category) DefaultTerm() int {
	return c.config().defaultTerm
}

var categoryAliases = map[string]Category{
	"credit card":   CategoryRevolving,
	"credit_card":   CategoryRevolving,
	"creditcard":    CategoryRevolving,
	"card":          CategoryRevolving,
	"car loan":      CategoryAuto,
	"car_loan":      CategoryAuto,
	"car":           CategoryAuto,
	"student loan":  CategoryStudent,
	"student_loan":  CategoryStudent,
	"personal loan": CategoryPersonal,
	"personal_loan": CategoryPersonal,
	"home":          CategoryMortgage,
}

// ParseCategory maps a user-supplied label to a Category. It accepts the
// canonical names and the labels used by the dashboard forms
// ("Credit Card", "Car Loan", ...). Unknown labels return false.
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c := Category(key); c.Valid() {
		return c, true
	}
	c, ok := categoryAliases[key]
	return c, ok
}

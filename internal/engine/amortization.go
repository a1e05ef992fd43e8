package engine

import (
	"errors"
	"math"
)

var (
	// ErrPaymentTooLow is returned when a payment does not exceed the monthly
	// interest, so the balance would never shrink.
	ErrPaymentTooLow = errors.New("payment does not cover monthly interest")

	// ErrInvalidPayoffInput is returned for a non-positive balance or payment.
	ErrInvalidPayoffInput = errors.New("balance and payment must be positive")
)

// monthsTolerance absorbs float noise in the closed-form month count so that
// an exact payoff in n months is not rounded up to n+1.
const monthsTolerance = 1e-9

// MonthlyRate converts an APR in percent to the periodic monthly rate.
func MonthlyRate(apr float64) float64 {
	return apr / 100 / 12
}

// AmortizedPayment is the level monthly payment that retires balance in
// exactly months payments at the given APR.
func AmortizedPayment(balance, apr float64, months int) float64 {
	if balance <= 0 || months <= 0 {
		return 0
	}
	r := MonthlyRate(apr)
	if r == 0 {
		return balance / float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return balance * r * growth / (growth - 1)
}

// Payoff is the closed-form outcome of paying a fixed amount every month.
// FinalPayment is the (usually smaller) last payment; TotalPaid includes it.
type Payoff struct {
	Months        int
	TotalPaid     float64
	TotalInterest float64
	FinalPayment  float64
}

// MonthsToPayoff inverts AmortizedPayment: how many months a fixed payment
// needs to retire balance. Interest accrues before each payment, matching the
// simulator. The month count is always rounded up.
func MonthsToPayoff(balance, apr, payment float64) (Payoff, error) {
	if payment <= 0 || balance <= 0 {
		return Payoff{}, ErrInvalidPayoffInput
	}

	r := MonthlyRate(apr)
	if r == 0 {
		n := ceilMonths(balance / payment)
		return Payoff{
			Months:        n,
			TotalPaid:     balance,
			TotalInterest: 0,
			FinalPayment:  balance - float64(n-1)*payment,
		}, nil
	}

	if payment <= balance*r {
		return Payoff{}, ErrPaymentTooLow
	}

	n := ceilMonths(-math.Log(1-balance*r/payment) / math.Log(1+r))

	growth := math.Pow(1+r, float64(n-1))
	rest := balance*growth - payment*(growth-1)/r
	if rest < 0 {
		rest = 0
	}
	final := rest * (1 + r)
	total := payment*float64(n-1) + final

	return Payoff{
		Months:        n,
		TotalPaid:     total,
		TotalInterest: total - balance,
		FinalPayment:  final,
	}, nil
}

func ceilMonths(raw float64) int {
	n := int(math.Ceil(raw - monthsTolerance))
	if n < 1 {
		return 1
	}
	return n
}

package domain

import "github.com/shopspring/decimal"

// RoundCents rounds a dollar amount half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundRatio rounds a ratio to four decimals (0.1234 = 12.34%).
func RoundRatio(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

// Package cli formats plan results for the terminal.
package cli

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Money formats dollars with cents: 1234.5 -> "$1,234.50".
func Money(v float64) string {
	if v < 0 {
		return "-" + Money(-v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// MoneyWhole formats rounded dollars: 1234.5 -> "$1,235".
func MoneyWhole(v float64) string {
	if v < 0 {
		return "-" + MoneyWhole(-v)
	}
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// Percent formats a 0-1 ratio: 0.4312 -> "43.1%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// APR formats a percentage that is already in percent units.
func APR(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// Months formats a month count as years and months: 27 -> "2y 3m".
func Months(n int) string {
	if n <= 0 {
		return "0m"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%dm", months)
	case months == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dm", years, months)
	}
}

// Ordinal formats a payoff position: 1 -> "1st".
func Ordinal(n int) string {
	return humanize.Ordinal(n)
}

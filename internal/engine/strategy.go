package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy selects the order in which debts receive payments.
type Strategy string

const (
	// Avalanche pays the highest APR first. It minimizes total interest.
	Avalanche Strategy = "avalanche"
	// Snowball pays the smallest starting balance first.
	Snowball Strategy = "snowball"
)

// ParseStrategy accepts "avalanche"/"snowball" as well as the long dashboard
// labels ("Avalanche (Highest Interest First)"). Empty input means Avalanche.
func ParseStrategy(s string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch {
	case key == "", strings.HasPrefix(key, "ava"):
		return Avalanche, nil
	case strings.HasPrefix(key, "snow"):
		return Snowball, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Order returns debt indices in payment priority. The order is computed once
// from the starting records and is not re-sorted as balances change; ties keep
// input order.
func (s Strategy) Order(debts []Debt) []int {
	idx := make([]int, len(debts))
	for i := range idx {
		idx[i] = i
	}

	switch s {
	case Snowball:
		sort.SliceStable(idx, func(a, b int) bool {
			return debts[idx[a]].Balance < debts[idx[b]].Balance
		})
	default:
		sort.SliceStable(idx, func(a, b int) bool {
			return debts[idx[a]].APR > debts[idx[b]].APR
		})
	}
	return idx
}

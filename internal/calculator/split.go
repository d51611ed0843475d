// Package calculator implements the two-person allocation engine: income
// ratios, per-expense shares and contributions, and the ledger summary.
//
// Every function here is pure and total. Inputs are assumed to be validated
// by the caller; unexpected values fall back to the ratio split or zero
// instead of errors.
package calculator

import (
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/money"
)

// IncomeRatio returns the proportional split factors for the roster.
// When the combined income is not strictly positive both participants get
// 0.5. The second factor is always derived as 1 - r0 so the pair sums to
// exactly 1.
func IncomeRatio(r models.Roster) models.Pair {
	total := r[0].Income + r[1].Income
	if total <= 0 {
		return models.Pair{0.5, 0.5}
	}
	r0 := r[0].Income / total
	return models.Pair{r0, 1 - r0}
}

// splitByRatio rounds each term of amount*ratio independently.
func splitByRatio(amount float64, ratio models.Pair) models.Pair {
	return models.Pair{
		money.Round2(amount * ratio[0]),
		money.Round2(amount * ratio[1]),
	}
}

// Shares computes what each participant is expected to cover for an
// expense of the given amount.
//
//   - paidFor is the first participant's name:  [amount, 0]
//   - paidFor is the second participant's name: [0, amount]
//   - anything else (Common, empty, stale):     income-ratio split
//
// The names are checked in positional order, so when both participants share
// a name the first one wins.
func Shares(amount float64, paidFor string, r models.Roster) models.Pair {
	switch paidFor {
	case r[0].Name:
		return models.Pair{amount, 0}
	case r[1].Name:
		return models.Pair{0, amount}
	default:
		return splitByRatio(amount, IncomeRatio(r))
	}
}

// Contributions computes how much cash each participant put into an expense.
//
//   - paidBy is the first participant's name:  [amount, 0]
//   - paidBy is the second participant's name: [0, amount]
//   - paidBy is "Both":                        income-ratio split
//   - anything else:                           [0, 0]
func Contributions(amount float64, paidBy string, r models.Roster) models.Pair {
	switch paidBy {
	case r[0].Name:
		return models.Pair{amount, 0}
	case r[1].Name:
		return models.Pair{0, amount}
	case models.PaidByBoth:
		return splitByRatio(amount, IncomeRatio(r))
	default:
		return models.Pair{}
	}
}

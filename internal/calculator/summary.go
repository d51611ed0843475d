package calculator

import (
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/money"
)

// Summarize folds the ledger into totals for the roster.
//
// Algorithm:
//   - the income ratio is computed once
//   - total spend accrues every amount
//   - total paid accrues by PaidBy: a named payer gets the full amount, "Both"
//     adds the stored Contribution split, anything else adds nothing
//   - expected accrues by PaidFor: a named beneficiary gets the full amount,
//     anything else adds the income-ratio terms, each rounded before adding
//   - balance = total paid - expected, per participant
//
// Every running total is rounded after each accumulation. An unrecognised
// payer leaves a gap between TotalExpenses and the sum of TotalPaid; the gap
// is reported as-is.
func Summarize(r models.Roster, expenses []models.Expense) models.Summary {
	ratio := IncomeRatio(r)

	var (
		total    float64
		paid     models.Pair
		expected models.Pair
	)

	for _, e := range expenses {
		total = money.Round2(total + e.Amount)

		switch e.PaidBy {
		case r[0].Name:
			paid[0] = money.Round2(paid[0] + e.Amount)
		case r[1].Name:
			paid[1] = money.Round2(paid[1] + e.Amount)
		case models.PaidByBoth:
			paid[0] = money.Round2(paid[0] + e.Contribution[0])
			paid[1] = money.Round2(paid[1] + e.Contribution[1])
		}

		switch e.PaidFor {
		case r[0].Name:
			expected[0] = money.Round2(expected[0] + e.Amount)
		case r[1].Name:
			expected[1] = money.Round2(expected[1] + e.Amount)
		default:
			terms := splitByRatio(e.Amount, ratio)
			expected[0] = money.Round2(expected[0] + terms[0])
			expected[1] = money.Round2(expected[1] + terms[1])
		}
	}

	return models.Summary{
		TotalExpenses:         total,
		TotalPaid:             paid,
		ExpectedContributions: expected,
		Balances: models.Pair{
			money.Round2(paid[0] - expected[0]),
			money.Round2(paid[1] - expected[1]),
		},
	}
}

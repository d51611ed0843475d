package calculator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/money"
)

// UncategorizedLabel replaces an empty expense category in CategoryTotals.
const UncategorizedLabel = "Uncategorized"

// Transfer is the single payment that settles the household balance.
type Transfer struct {
	From   string  // Participant who owes
	To     string  // Participant who is owed
	Amount float64 // Always positive
}

// String renders the transfer the way it is shown to the household,
// e.g. "Bob owes Alice 250.00€".
func (t Transfer) String() string {
	return fmt.Sprintf("%s owes %s %.2f€", t.From, t.To, t.Amount)
}

// Settle reads the first participant's balance and returns who owes whom.
// It returns nil when the household is even. Only Balances[0] is consulted;
// rounding can leave Balances[1] a cent away from its negative.
func Settle(r models.Roster, s models.Summary) *Transfer {
	b := s.Balances[0]
	switch {
	case b > 0:
		return &Transfer{From: r[1].Name, To: r[0].Name, Amount: b}
	case b < 0:
		return &Transfer{From: r[0].Name, To: r[1].Name, Amount: money.Round2(-b)}
	default:
		return nil
	}
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// CategoryTotals aggregates expense amounts by category. Results are sorted
// by descending amount, then by name.
func CategoryTotals(expenses []models.Expense) []CategoryAmount {
	totals := make(map[string]float64)
	for _, e := range expenses {
		name := e.Category
		if name == "" {
			name = UncategorizedLabel
		}
		totals[name] = money.Round2(totals[name] + e.Amount)
	}

	out := make([]CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

package ledger

import (
	"errors"
	"math"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/money"
)

var (
	ErrInvalidAmount        = errors.New("amount must be a finite number >= 0")
	ErrPayerRequired        = errors.New("a payer must be selected")
	ErrUnknownPayer         = errors.New("payer must be one of the participants or Both")
	ErrContributionMismatch = errors.New("contributions must be >= 0 and add up to the amount")
)

// Draft is an expense as entered, before its shares and contributions are
// derived.
type Draft struct {
	Category string
	Amount   float64
	PaidBy   string
	PaidFor  string

	// Contribution optionally overrides the income-ratio split when PaidBy
	// is "Both". It is ignored for a single payer.
	Contribution *models.Pair
}

// Compose validates d against roster r and returns the fully derived
// expense.
func Compose(d Draft, r models.Roster) (models.Expense, error) {
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount < 0 {
		return models.Expense{}, ErrInvalidAmount
	}
	if d.PaidBy == "" {
		return models.Expense{}, ErrPayerRequired
	}
	if d.PaidBy != models.PaidByBoth && d.PaidBy != r[0].Name && d.PaidBy != r[1].Name {
		return models.Expense{}, ErrUnknownPayer
	}

	amount := money.Round2(d.Amount)
	shares := calculator.Shares(amount, d.PaidFor, r)
	contribution := calculator.Contributions(amount, d.PaidBy, r)

	if d.PaidBy == models.PaidByBoth && d.Contribution != nil && !isParticipant(d.PaidBy, r) {
		c := models.Pair{money.Round2(d.Contribution[0]), money.Round2(d.Contribution[1])}
		if c[0] < 0 || c[1] < 0 || !money.Equal(c.Sum(), amount) {
			return models.Expense{}, ErrContributionMismatch
		}
		contribution = c
	}

	return models.Expense{
		Category:          d.Category,
		Amount:            amount,
		PaidBy:            d.PaidBy,
		PaidFor:           d.PaidFor,
		FirstPersonShare:  shares[0],
		SecondPersonShare: shares[1],
		Contribution:      contribution,
	}, nil
}

func isParticipant(name string, r models.Roster) bool {
	return name == r[0].Name || name == r[1].Name
}

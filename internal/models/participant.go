package models

import (
	"errors"
	"math"

	"github.com/mmynk/fairshare/internal/money"
)

// ErrLeftoverExceedsIncome is returned when a desired leftover is negative or
// larger than the participant's gross income.
var ErrLeftoverExceedsIncome = errors.New("leftover must be between 0 and the gross income")

// ErrInvalidIncome is returned by Roster.Validate for a negative or
// non-finite income.
var ErrInvalidIncome = errors.New("income must be a finite number >= 0")

// IncomeMode describes how Participant.Income should be read.
type IncomeMode string

const (
	// GrossMode: Income is the participant's full income.
	GrossMode IncomeMode = "gross"
	// LeftoverMode: Income is what remains after the participant keeps
	// SalaryRemaining for themselves.
	LeftoverMode IncomeMode = "leftover"
)

// Participant is one of the two people sharing a household.
type Participant struct {
	// Name identifies the participant in PaidBy / PaidFor fields.
	// It may be empty; matching is by string equality only.
	Name string `json:"name"`

	// Income is the amount used for the income ratio. In leftover mode this
	// is the gross income minus SalaryRemaining.
	Income float64 `json:"income"`

	// SalaryRemaining is set only in leftover mode and holds the amount the
	// participant keeps for themselves.
	SalaryRemaining *float64 `json:"salaryRemaining,omitempty"`
}

// GrossIncome returns the participant's income before any leftover is
// subtracted.
func (p Participant) GrossIncome() float64 {
	if p.SalaryRemaining == nil {
		return p.Income
	}
	return money.Round2(p.Income + *p.SalaryRemaining)
}

// Roster is the fixed pair of household participants. Index 0 is the first
// participant and index 1 the second everywhere in the system.
type Roster [2]Participant

// NewRoster builds a gross-mode roster from two names and incomes.
func NewRoster(firstName string, firstIncome float64, secondName string, secondIncome float64) Roster {
	return Roster{
		{Name: firstName, Income: firstIncome},
		{Name: secondName, Income: secondIncome},
	}
}

// Validate checks that both incomes are usable for the income ratio.
func (r Roster) Validate() error {
	for _, p := range r {
		if math.IsNaN(p.Income) || math.IsInf(p.Income, 0) || p.Income < 0 {
			return ErrInvalidIncome
		}
	}
	return nil
}

// First returns the participant at index 0.
func (r Roster) First() Participant { return r[0] }

// Second returns the participant at index 1.
func (r Roster) Second() Participant { return r[1] }

// Names returns both participant names in positional order.
func (r Roster) Names() [2]string {
	return [2]string{r[0].Name, r[1].Name}
}

// Mode reports whether the roster is in leftover mode. A roster is in
// leftover mode only when both participants carry a SalaryRemaining, which is
// what ToLeftoverMode produces.
func (r Roster) Mode() IncomeMode {
	if r[0].SalaryRemaining != nil && r[1].SalaryRemaining != nil {
		return LeftoverMode
	}
	return GrossMode
}

// ToLeftoverMode switches both participants to leftover accounting.
// remaining[i] is what participant i keeps; their Income becomes
// gross - remaining[i] so that GrossIncome is preserved.
// Applying it to a roster already in leftover mode re-bases on the gross
// incomes.
func ToLeftoverMode(r Roster, remaining Pair) (Roster, error) {
	var out Roster
	for i, p := range r {
		gross := p.GrossIncome()
		keep := money.Round2(remaining[i])
		if keep < 0 || keep > gross {
			return r, ErrLeftoverExceedsIncome
		}
		out[i] = Participant{
			Name:            p.Name,
			Income:          money.Round2(gross - keep),
			SalaryRemaining: &keep,
		}
	}
	return out, nil
}

// FromLeftoverMode restores gross incomes and clears SalaryRemaining.
func FromLeftoverMode(r Roster) Roster {
	var out Roster
	for i, p := range r {
		out[i] = Participant{Name: p.Name, Income: p.GrossIncome()}
	}
	return out
}

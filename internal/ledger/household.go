package ledger

import (
	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
)

// Household is the single owning context for a roster and its ledger.
// Every mutation goes through its methods and ends with a full summary
// recompute, so Summary never reflects a partial update.
//
// A Household is not safe for concurrent use; callers serialize access.
type Household struct {
	roster  models.Roster
	ledger  *Ledger
	summary models.Summary
}

// NewHousehold returns a household with roster r and an empty ledger.
func NewHousehold(r models.Roster) *Household {
	return FromState(models.State{Participants: r})
}

// FromState rehydrates a household from persisted state. Stored shares and
// contributions are kept as they are.
func FromState(s models.State) *Household {
	h := &Household{
		roster: s.Participants,
		ledger: NewLedger(s.Expenses),
	}
	h.recompute()
	return h
}

func (h *Household) recompute() {
	h.summary = calculator.Summarize(h.roster, h.ledger.expenses)
}

// Roster returns the current participants.
func (h *Household) Roster() models.Roster {
	return h.roster
}

// Expenses returns a copy of the ledger.
func (h *Household) Expenses() []models.Expense {
	return h.ledger.Expenses()
}

// Summary returns the summary of the current roster and ledger.
func (h *Household) Summary() models.Summary {
	return h.summary
}

// State returns the persistable state.
func (h *Household) State() models.State {
	return models.State{
		Participants: h.roster,
		Expenses:     h.ledger.Expenses(),
	}
}

// Clone returns an independent copy of the household.
func (h *Household) Clone() *Household {
	return &Household{
		roster:  h.roster,
		ledger:  NewLedger(h.ledger.expenses),
		summary: h.summary,
	}
}

// UpdateRoster replaces the participants, re-derives the shares of every
// stored expense and recomputes the summary.
func (h *Household) UpdateRoster(r models.Roster) {
	h.roster = r
	h.ledger.Rederive(r)
	h.recompute()
}

// SetLeftover switches the roster to leftover accounting, keeping
// remaining[i] aside for participant i. The roster is unchanged on error.
func (h *Household) SetLeftover(remaining models.Pair) error {
	r, err := models.ToLeftoverMode(h.roster, remaining)
	if err != nil {
		return err
	}
	h.UpdateRoster(r)
	return nil
}

// ClearLeftover restores gross incomes.
func (h *Household) ClearLeftover() {
	h.UpdateRoster(models.FromLeftoverMode(h.roster))
}

// Preview returns the expense AddExpense would store for d, without
// changing the ledger.
func (h *Household) Preview(d Draft) (models.Expense, error) {
	return Compose(d, h.roster)
}

// AddExpense composes d against the current roster and appends it.
func (h *Household) AddExpense(d Draft) (models.Expense, error) {
	e, err := Compose(d, h.roster)
	if err != nil {
		return models.Expense{}, err
	}
	h.AppendExpense(e)
	return e, nil
}

// AppendExpense appends an already derived expense.
func (h *Household) AppendExpense(e models.Expense) {
	h.ledger.Append(e)
	h.recompute()
}

// RemoveExpense removes the expense at position i.
func (h *Household) RemoveExpense(i int) (models.Expense, error) {
	removed, err := h.ledger.RemoveAt(i)
	if err != nil {
		return models.Expense{}, err
	}
	h.recompute()
	return removed, nil
}

// Package ledger holds the ordered expense list and the household state
// container that keeps the summary in step with every change.
package ledger

import (
	"errors"
	"slices"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
)

// ErrIndexOutOfRange is returned by RemoveAt for a position outside the ledger.
var ErrIndexOutOfRange = errors.New("expense index out of range")

// Ledger is an ordered sequence of expenses. Order matters for display only;
// the summary does not depend on it.
type Ledger struct {
	expenses []models.Expense
}

// NewLedger returns a ledger holding a copy of expenses.
func NewLedger(expenses []models.Expense) *Ledger {
	return &Ledger{expenses: slices.Clone(expenses)}
}

// Append adds e to the end of the ledger.
func (l *Ledger) Append(e models.Expense) {
	l.expenses = append(l.expenses, e)
}

// RemoveAt deletes the expense at index i and shifts later entries down.
func (l *Ledger) RemoveAt(i int) (models.Expense, error) {
	if i < 0 || i >= len(l.expenses) {
		return models.Expense{}, ErrIndexOutOfRange
	}
	removed := l.expenses[i]
	l.expenses = slices.Delete(l.expenses, i, i+1)
	return removed, nil
}

// Rederive refreshes the cached shares of every expense for roster r.
// Contributions are left alone: they record cash that was actually paid.
func (l *Ledger) Rederive(r models.Roster) {
	for i := range l.expenses {
		e := &l.expenses[i]
		shares := calculator.Shares(e.Amount, e.PaidFor, r)
		e.FirstPersonShare, e.SecondPersonShare = shares[0], shares[1]
	}
}

// Len returns the number of expenses.
func (l *Ledger) Len() int {
	return len(l.expenses)
}

// Expenses returns a copy of the ledger in insertion order.
func (l *Ledger) Expenses() []models.Expense {
	return slices.Clone(l.expenses)
}

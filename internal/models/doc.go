// Package models defines the core domain models for fairshare.
//
// # Models
//
//   - Participant: one of the two people sharing a household
//   - Roster: the fixed pair of participants, addressed by position
//   - Expense: a single ledger entry with its cached shares and contributions
//   - Summary: the derived totals and balances for a roster and ledger
//   - State: the persisted shape (roster + expense list)
//   - Household: a stored State with identity and timestamps
//
// # Positional semantics
//
// Index 0 and index 1 carry meaning everywhere: shares, contributions, totals
// and balances are all Pair values whose first element belongs to the first
// participant. Participants are matched by plain string equality on their
// names, so an empty name is as valid a match target as a populated one.
//
// # Derived fields
//
// Expense.FirstPersonShare, Expense.SecondPersonShare and Expense.Contribution
// are caches of the calculator functions. They are written when an expense is
// composed and the shares are refreshed whenever the roster changes (see
// package ledger). Contributions are never refreshed: they record cash that
// was actually paid.
package models

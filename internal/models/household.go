package models

// State is the persisted shape of a household: exactly two participants and
// the ordered expense list. It carries no version field.
type State struct {
	Participants Roster    `json:"participants"`
	Expenses     []Expense `json:"expenses"`
}

// Household is a stored State with identity.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name of the household (e.g., "Flat on Elm St").
	Name string

	// State holds the roster and ledger.
	State State

	// CreatedAt is the Unix timestamp when the household was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last saved mutation.
	UpdatedAt int64
}

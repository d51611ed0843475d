package models

const (
	// PaidByBoth marks an expense paid in cash by both participants.
	PaidByBoth = "Both"

	// PaidForCommon marks an expense that benefits the whole household and is
	// shared by income ratio.
	PaidForCommon = "Common"
)

// Pair holds one amount per participant, in roster order.
type Pair [2]float64

// Sum returns the sum of both elements.
func (p Pair) Sum() float64 {
	return p[0] + p[1]
}

// Expense is a single ledger entry.
type Expense struct {
	// Category is a free-form label such as "Rent" or "Groceries".
	Category string `json:"category"`

	// Amount is the full cost of the expense, rounded to cents.
	Amount float64 `json:"amount"`

	// PaidBy is PaidByBoth or the name of the participant who paid.
	PaidBy string `json:"paidBy"`

	// PaidFor is PaidForCommon or the name of the participant who benefits.
	PaidFor string `json:"paidFor"`

	// FirstPersonShare and SecondPersonShare are what each participant is
	// expected to cover. Cached from calculator.Shares and refreshed on every
	// roster change.
	FirstPersonShare  float64 `json:"firstPersonShare"`
	SecondPersonShare float64 `json:"secondPersonShare"`

	// Contribution is the cash each participant actually put in. For a
	// single payer it is the whole amount on their side; for PaidByBoth it is
	// the split entered when the expense was recorded.
	Contribution Pair `json:"contribution"`
}

// Shares returns the cached shares as a Pair.
func (e Expense) Shares() Pair {
	return Pair{e.FirstPersonShare, e.SecondPersonShare}
}

// Summary is the derived view of a roster and its ledger. It is never stored;
// it is recomputed from scratch after every change.
type Summary struct {
	TotalExpenses         float64 `json:"totalExpenses"`
	TotalPaid             Pair    `json:"totalPaid"`
	ExpectedContributions Pair    `json:"expectedContributions"`

	// Balances are TotalPaid minus ExpectedContributions, per participant.
	// Positive means the participant is owed money. The two values are
	// rounded independently and are not forced to be exact negatives.
	Balances Pair `json:"balances"`
}

// Package api defines the messages exchanged with fairshare.v1.HouseholdService.
// Messages are plain structs encoded as JSON.
package api

// Income modes accepted by SetIncomeModeRequest.Mode.
const (
	IncomeModeGross    = "gross"
	IncomeModeLeftover = "leftover"
)

// Report formats accepted by GetReportRequest.Format.
const (
	ReportFormatText = "text"
	ReportFormatCSV  = "csv"
)

type Participant struct {
	Name            string   `json:"name"`
	Income          float64  `json:"income"`
	SalaryRemaining *float64 `json:"salaryRemaining,omitempty"`
}

type Expense struct {
	Category          string     `json:"category"`
	Amount            float64    `json:"amount"`
	PaidBy            string     `json:"paidBy"`
	PaidFor           string     `json:"paidFor"`
	FirstPersonShare  float64    `json:"firstPersonShare"`
	SecondPersonShare float64    `json:"secondPersonShare"`
	Contribution      [2]float64 `json:"contribution"`
}

type Summary struct {
	TotalExpenses         float64    `json:"totalExpenses"`
	TotalPaid             [2]float64 `json:"totalPaid"`
	ExpectedContributions [2]float64 `json:"expectedContributions"`
	Balances              [2]float64 `json:"balances"`
}

// State is the import/export shape of a household.
type State struct {
	Participants [2]Participant `json:"participants"`
	Expenses     []Expense      `json:"expenses"`
}

// Household is a household with its ledger and the summary computed
// over it.
type Household struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Participants [2]Participant `json:"participants"`
	IncomeMode   string         `json:"incomeMode"`
	Expenses     []Expense      `json:"expenses"`
	Summary      Summary        `json:"summary"`
	// Settlement is e.g. "Bob owes Alice 250.00€", empty when even.
	Settlement string `json:"settlement,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// HouseholdInfo is a list entry without the ledger.
type HouseholdInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ExpenseCount  int     `json:"expenseCount"`
	TotalExpenses float64 `json:"totalExpenses"`
	UpdatedAt     int64   `json:"updatedAt"`
}

// ExpenseInput is an expense as entered. Contribution is only honoured
// when PaidBy is "Both".
type ExpenseInput struct {
	Category     string      `json:"category"`
	Amount       float64     `json:"amount"`
	PaidBy       string      `json:"paidBy"`
	PaidFor      string      `json:"paidFor"`
	Contribution *[2]float64 `json:"contribution,omitempty"`
}

type CreateHouseholdRequest struct {
	Name string `json:"name"`
	// Participants defaults to two unnamed participants with zero income.
	Participants *[2]Participant `json:"participants,omitempty"`
}

type CreateHouseholdResponse struct {
	Household Household `json:"household"`
}

type GetHouseholdRequest struct {
	HouseholdID string `json:"householdId"`
}

type GetHouseholdResponse struct {
	Household Household `json:"household"`
}

type ListHouseholdsRequest struct{}

type ListHouseholdsResponse struct {
	Households []HouseholdInfo `json:"households"`
}

// UpdateRosterRequest carries names and gross incomes. A household in
// leftover mode keeps its SalaryRemaining values.
type UpdateRosterRequest struct {
	HouseholdID  string         `json:"householdId"`
	Participants [2]Participant `json:"participants"`
}

type UpdateRosterResponse struct {
	Household Household `json:"household"`
}

type SetIncomeModeRequest struct {
	HouseholdID string `json:"householdId"`
	Mode        string `json:"mode"`
	// SalaryRemaining is required for leftover mode.
	SalaryRemaining *[2]float64 `json:"salaryRemaining,omitempty"`
}

type SetIncomeModeResponse struct {
	Household Household `json:"household"`
}

type PreviewExpenseRequest struct {
	HouseholdID string       `json:"householdId"`
	Expense     ExpenseInput `json:"expense"`
}

type PreviewExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type AddExpenseRequest struct {
	HouseholdID string       `json:"householdId"`
	Expense     ExpenseInput `json:"expense"`
}

type AddExpenseResponse struct {
	Expense   Expense   `json:"expense"`
	Household Household `json:"household"`
}

type RemoveExpenseRequest struct {
	HouseholdID string `json:"householdId"`
	Index       int    `json:"index"`
}

type RemoveExpenseResponse struct {
	Removed   Expense   `json:"removed"`
	Household Household `json:"household"`
}

type GetReportRequest struct {
	HouseholdID string `json:"householdId"`
	// Format is "text" (default) or "csv".
	Format string `json:"format"`
}

type GetReportResponse struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type ExportStateRequest struct {
	HouseholdID string `json:"householdId"`
}

type ExportStateResponse struct {
	State State `json:"state"`
}

// ImportStateRequest replaces a household's roster and ledger. Shares are
// re-derived for the imported roster; contributions are kept.
type ImportStateRequest struct {
	HouseholdID string `json:"householdId"`
	State       State  `json:"state"`
}

type ImportStateResponse struct {
	Household Household `json:"household"`
}

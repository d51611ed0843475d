package service

import (
	"errors"
	"math"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/ledger"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/pkg/api"
)

var errPartialLeftover = errors.New("salaryRemaining must be set for both participants or neither")

// grossRoster reads names and gross incomes. When both participants carry
// SalaryRemaining the roster is switched to leftover mode with those values.
func grossRoster(ps [2]api.Participant) (models.Roster, error) {
	r := models.NewRoster(ps[0].Name, ps[0].Income, ps[1].Name, ps[1].Income)
	if err := r.Validate(); err != nil {
		return models.Roster{}, err
	}

	switch {
	case ps[0].SalaryRemaining != nil && ps[1].SalaryRemaining != nil:
		return models.ToLeftoverMode(r, models.Pair{*ps[0].SalaryRemaining, *ps[1].SalaryRemaining})
	case ps[0].SalaryRemaining != nil || ps[1].SalaryRemaining != nil:
		return models.Roster{}, errPartialLeftover
	}
	return r, nil
}

// storedRoster reads participants in their persisted shape, where Income is
// already net of SalaryRemaining.
func storedRoster(ps [2]api.Participant) (models.Roster, error) {
	var r models.Roster
	for i, p := range ps {
		r[i] = models.Participant{Name: p.Name, Income: p.Income}
		if p.SalaryRemaining != nil {
			v := *p.SalaryRemaining
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return models.Roster{}, models.ErrLeftoverExceedsIncome
			}
			r[i].SalaryRemaining = &v
		}
	}
	if (r[0].SalaryRemaining == nil) != (r[1].SalaryRemaining == nil) {
		return models.Roster{}, errPartialLeftover
	}
	return r, r.Validate()
}

func stateFromAPI(st api.State) (models.State, error) {
	r, err := storedRoster(st.Participants)
	if err != nil {
		return models.State{}, err
	}
	expenses := make([]models.Expense, 0, len(st.Expenses))
	for _, e := range st.Expenses {
		if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
			return models.State{}, ledger.ErrInvalidAmount
		}
		expenses = append(expenses, models.Expense{
			Category:          e.Category,
			Amount:            e.Amount,
			PaidBy:            e.PaidBy,
			PaidFor:           e.PaidFor,
			FirstPersonShare:  e.FirstPersonShare,
			SecondPersonShare: e.SecondPersonShare,
			Contribution:      models.Pair(e.Contribution),
		})
	}
	return models.State{Participants: r, Expenses: expenses}, nil
}

func draftFromAPI(in api.ExpenseInput) ledger.Draft {
	d := ledger.Draft{
		Category: in.Category,
		Amount:   in.Amount,
		PaidBy:   in.PaidBy,
		PaidFor:  in.PaidFor,
	}
	if in.Contribution != nil {
		c := models.Pair(*in.Contribution)
		d.Contribution = &c
	}
	return d
}

func toAPIParticipants(r models.Roster) [2]api.Participant {
	var out [2]api.Participant
	for i, p := range r {
		out[i] = api.Participant{Name: p.Name, Income: p.Income}
		if p.SalaryRemaining != nil {
			v := *p.SalaryRemaining
			out[i].SalaryRemaining = &v
		}
	}
	return out
}

func toAPIExpense(e models.Expense) api.Expense {
	return api.Expense{
		Category:          e.Category,
		Amount:            e.Amount,
		PaidBy:            e.PaidBy,
		PaidFor:           e.PaidFor,
		FirstPersonShare:  e.FirstPersonShare,
		SecondPersonShare: e.SecondPersonShare,
		Contribution:      e.Contribution,
	}
}

func toAPIExpenses(expenses []models.Expense) []api.Expense {
	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return out
}

func toAPISummary(s models.Summary) api.Summary {
	return api.Summary{
		TotalExpenses:         s.TotalExpenses,
		TotalPaid:             s.TotalPaid,
		ExpectedContributions: s.ExpectedContributions,
		Balances:              s.Balances,
	}
}

func toAPIState(st models.State) api.State {
	return api.State{
		Participants: toAPIParticipants(st.Participants),
		Expenses:     toAPIExpenses(st.Expenses),
	}
}

func settlement(r models.Roster, s models.Summary) string {
	if t := calculator.Settle(r, s); t != nil {
		return t.String()
	}
	return ""
}

func toAPIHousehold(meta *models.Household, hh *ledger.Household) api.Household {
	r := hh.Roster()
	s := hh.Summary()
	return api.Household{
		ID:           meta.ID,
		Name:         meta.Name,
		Participants: toAPIParticipants(r),
		IncomeMode:   string(r.Mode()),
		Expenses:     toAPIExpenses(hh.Expenses()),
		Summary:      toAPISummary(s),
		Settlement:   settlement(r, s),
		CreatedAt:    meta.CreatedAt,
		UpdatedAt:    meta.UpdatedAt,
	}
}

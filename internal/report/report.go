// Package report renders a household's expenses and summary as a plain
// text document or CSV. Every number comes from the calculator's output;
// the report never recomputes money.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
)

const DefaultTitle = "Household Expenses Report"

type PersonRow struct {
	Name     string
	Paid     float64
	Expected float64
	Balance  float64
}

type ExpenseRow struct {
	Category string
	Amount   float64
	PaidBy   string
	PaidFor  string
	Paid     models.Pair
	Shares   models.Pair
}

// Report is the rendered view of one household at a point in time.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Names       [2]string
	Total       float64
	Settlement  string // empty when balances are even
	People      [2]PersonRow
	Expenses    []ExpenseRow
	Categories  []calculator.CategoryAmount
}

// Build assembles a Report from a roster, its ledger and the summary
// computed over that ledger.
func Build(r models.Roster, expenses []models.Expense, s models.Summary, generatedAt time.Time) Report {
	rep := Report{
		Title:       DefaultTitle,
		GeneratedAt: generatedAt,
		Names:       r.Names(),
		Total:       s.TotalExpenses,
		Categories:  calculator.CategoryTotals(expenses),
	}
	if t := calculator.Settle(r, s); t != nil {
		rep.Settlement = t.String()
	}
	for i := range rep.People {
		rep.People[i] = PersonRow{
			Name:     r[i].Name,
			Paid:     s.TotalPaid[i],
			Expected: s.ExpectedContributions[i],
			Balance:  s.Balances[i],
		}
	}
	rep.Expenses = make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		rep.Expenses = append(rep.Expenses, ExpenseRow{
			Category: e.Category,
			Amount:   e.Amount,
			PaidBy:   e.PaidBy,
			PaidFor:  e.PaidFor,
			Paid:     e.Contribution,
			Shares:   e.Shares(),
		})
	}
	return rep
}

// Amount formats v with exactly two decimals.
func Amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func euro(v float64) string {
	return Amount(v) + "€"
}

var transliterate = strings.NewReplacer("č", "c", "ć", "c", "đ", "d")

func (rep Report) expenseHeader() []string {
	a, b := rep.Names[0], rep.Names[1]
	return []string{
		"Category", "Amount", "Paid By", "Paid For",
		a + " Paid", b + " Paid", a + "'s Share", b + "'s Share",
	}
}

// WriteText writes a tab-aligned plain text report.
func (rep Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, rep.Title)
	fmt.Fprintf(tw, "Generated on: %s\n", rep.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(tw, "Total Household Expenses: %s\n", euro(rep.Total))
	if rep.Settlement != "" {
		fmt.Fprintln(tw, rep.Settlement)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Name\tTotal Paid\tExpected Contribution\tBalance")
	for _, p := range rep.People {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, euro(p.Paid), euro(p.Expected), euro(p.Balance))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, strings.Join(rep.expenseHeader(), "\t"))
	for _, e := range rep.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			transliterate.Replace(e.Category), euro(e.Amount), e.PaidBy, e.PaidFor,
			euro(e.Paid[0]), euro(e.Paid[1]), euro(e.Shares[0]), euro(e.Shares[1]))
	}

	if len(rep.Categories) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Category\tTotal")
		for _, c := range rep.Categories {
			fmt.Fprintf(tw, "%s\t%s\n", transliterate.Replace(c.Name), euro(c.Amount))
		}
	}

	return tw.Flush()
}

// WriteCSV writes the report as CSV sections separated by empty lines.
// Categories are written as entered.
func (rep Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{rep.Title},
		{"Generated on", rep.GeneratedAt.Format("2006-01-02")},
		{"Total Household Expenses", Amount(rep.Total)},
		{"Settlement", rep.Settlement},
		{},
		{"Name", "Total Paid", "Expected Contribution", "Balance"},
	}
	for _, p := range rep.People {
		records = append(records, []string{p.Name, Amount(p.Paid), Amount(p.Expected), Amount(p.Balance)})
	}

	records = append(records, []string{}, rep.expenseHeader())
	for _, e := range rep.Expenses {
		records = append(records, []string{
			e.Category, Amount(e.Amount), e.PaidBy, e.PaidFor,
			Amount(e.Paid[0]), Amount(e.Paid[1]), Amount(e.Shares[0]), Amount(e.Shares[1]),
		})
	}

	records = append(records, []string{}, []string{"Category", "Total"})
	for _, c := range rep.Categories {
		records = append(records, []string{c.Name, Amount(c.Amount)})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
)

var generatedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleReport() Report {
	r := models.NewRoster("Alice", 3000, "Bob", 1000)
	expenses := []models.Expense{
		{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: models.PaidForCommon,
			FirstPersonShare: 750, SecondPersonShare: 250, Contribution: models.Pair{1000, 0}},
		{Category: "Hrana čćđ", Amount: 40, PaidBy: models.PaidByBoth, PaidFor: "Bob",
			FirstPersonShare: 0, SecondPersonShare: 40, Contribution: models.Pair{30, 10}},
	}
	return Build(r, expenses, calculator.Summarize(r, expenses), generatedAt)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{196.39, "196.39"},
		{-113.71, "-113.71"},
		{1000, "1000.00"},
		{0.1 + 0.2, "0.30"},
	}
	for _, tt := range tests {
		if got := Amount(tt.in); got != tt.want {
			t.Errorf("Amount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	rep := sampleReport()

	if rep.Total != 1040 {
		t.Errorf("Total = %v, want 1040", rep.Total)
	}
	if rep.Settlement != "Bob owes Alice 280.00€" {
		t.Errorf("Settlement = %q", rep.Settlement)
	}
	if rep.People[0].Paid != 1030 || rep.People[1].Paid != 10 {
		t.Errorf("Paid = %v / %v, want 1030 / 10", rep.People[0].Paid, rep.People[1].Paid)
	}
	if len(rep.Expenses) != 2 || rep.Expenses[1].Paid != (models.Pair{30, 10}) {
		t.Errorf("Expenses = %+v", rep.Expenses)
	}
	if len(rep.Categories) != 2 || rep.Categories[0].Name != "Rent" {
		t.Errorf("Categories = %+v", rep.Categories)
	}
}

func TestBuild_EvenBalances(t *testing.T) {
	r := models.NewRoster("Alice", 1, "Bob", 1)
	rep := Build(r, nil, calculator.Summarize(r, nil), generatedAt)
	if rep.Settlement != "" {
		t.Errorf("Settlement = %q, want empty", rep.Settlement)
	}
	if len(rep.Expenses) != 0 || len(rep.Categories) != 0 {
		t.Errorf("expected empty tables, got %d expenses, %d categories", len(rep.Expenses), len(rep.Categories))
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		DefaultTitle,
		"Generated on: 2026-03-01",
		"Total Household Expenses: 1040.00€",
		"Bob owes Alice 280.00€",
		"Alice Paid",
		"Bob's Share",
		"Hrana ccd",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
	if strings.ContainsAny(out, "čćđ") {
		t.Errorf("text report should transliterate categories:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}

	find := func(first string) []string {
		for _, rec := range records {
			if len(rec) > 0 && rec[0] == first {
				return rec
			}
		}
		return nil
	}

	if rec := find("Total Household Expenses"); rec == nil || rec[1] != "1040.00" {
		t.Errorf("total record = %v", rec)
	}
	if rec := find("Bob"); rec == nil || rec[3] != "-280.00" {
		t.Errorf("Bob record = %v", rec)
	}
	rec := find("Hrana čćđ")
	if rec == nil {
		t.Fatal("csv should keep the category as entered")
	}
	if rec[4] != "30.00" || rec[5] != "10.00" || rec[7] != "40.00" {
		t.Errorf("expense record = %v", rec)
	}
}

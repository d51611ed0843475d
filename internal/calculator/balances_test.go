package calculator

import (
	"reflect"
	"testing"

	"github.com/mmynk/fairshare/internal/models"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		balances models.Pair
		want     *Transfer
		wantText string
	}{
		{
			name:     "second owes first",
			balances: models.Pair{250, -250},
			want:     &Transfer{From: "Bob", To: "Alice", Amount: 250},
			wantText: "Bob owes Alice 250.00€",
		},
		{
			name:     "first owes second",
			balances: models.Pair{-37.5, 37.5},
			want:     &Transfer{From: "Alice", To: "Bob", Amount: 37.5},
			wantText: "Alice owes Bob 37.50€",
		},
		{
			name:     "reads only the first balance",
			balances: models.Pair{0, -0.01},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settle(aliceAndBob, models.Summary{Balances: tt.balances})
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Settle() = %+v, want %+v", got, tt.want)
			}
			if got != nil && got.String() != tt.wantText {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantText)
			}
		})
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []models.Expense{
		{Category: "Groceries", Amount: 40.1},
		{Category: "Rent", Amount: 1000},
		{Category: "", Amount: 15},
		{Category: "Groceries", Amount: 59.9},
		{Category: "Books", Amount: 15},
	}

	got := CategoryTotals(expenses)
	want := []CategoryAmount{
		{Name: "Rent", Amount: 1000},
		{Name: "Groceries", Amount: 100},
		{Name: "Books", Amount: 15},
		{Name: UncategorizedLabel, Amount: 15},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryTotals() = %+v, want %+v", got, want)
	}
}

func TestCategoryTotals_Empty(t *testing.T) {
	if got := CategoryTotals(nil); len(got) != 0 {
		t.Errorf("CategoryTotals(nil) = %+v, want empty", got)
	}
}

// Package storetest holds the behaviour every storage.Store implementation
// must share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

func sampleState() models.State {
	keep := 250.5
	return models.State{
		Participants: models.Roster{
			{Name: "Alice", Income: 2749.5, SalaryRemaining: &keep},
			{Name: "Bob", Income: 1000},
		},
		Expenses: []models.Expense{
			{
				Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: models.PaidForCommon,
				FirstPersonShare: 733.29, SecondPersonShare: 266.71, Contribution: models.Pair{1000, 0},
			},
			{
				Category: "Gym", Amount: 200, PaidBy: models.PaidByBoth, PaidFor: "Bob",
				FirstPersonShare: 0, SecondPersonShare: 200, Contribution: models.Pair{150, 50},
			},
			{
				Category: "", Amount: 12.34, PaidBy: "Bob", PaidFor: "Alice",
				FirstPersonShare: 12.34, SecondPersonShare: 0, Contribution: models.Pair{0, 12.34},
			},
		},
	}
}

// Run exercises s against the storage.Store contract.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateHousehold generates ID and name", func(t *testing.T) {
		h := &models.Household{State: models.State{Participants: models.NewRoster("Alice", 3000, "Bob", 1000)}}
		if err := s.CreateHousehold(ctx, h); err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}
		if h.ID == "" {
			t.Error("Expected household ID to be generated")
		}
		if h.Name != "Alice & Bob" {
			t.Errorf("Name = %q, want %q", h.Name, "Alice & Bob")
		}
		if h.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetHousehold round-trips the full state", func(t *testing.T) {
		original := &models.Household{Name: "Flat", State: sampleState()}
		if err := s.CreateHousehold(ctx, original); err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}

		got, err := s.GetHousehold(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetHousehold failed: %v", err)
		}
		if got.Name != "Flat" {
			t.Errorf("Name = %q, want Flat", got.Name)
		}
		if !reflect.DeepEqual(got.State, original.State) {
			t.Errorf("State mismatch:\n got %+v\nwant %+v", got.State, original.State)
		}
	})

	t.Run("GetHousehold returns ErrNotFound", func(t *testing.T) {
		_, err := s.GetHousehold(ctx, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveHousehold replaces roster and ledger", func(t *testing.T) {
		h := &models.Household{State: sampleState()}
		if err := s.CreateHousehold(ctx, h); err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}

		h.State.Participants = models.NewRoster("Alicia", 4000, "Bob", 1000)
		h.State.Expenses = h.State.Expenses[1:]
		if err := s.SaveHousehold(ctx, h); err != nil {
			t.Fatalf("SaveHousehold failed: %v", err)
		}

		got, err := s.GetHousehold(ctx, h.ID)
		if err != nil {
			t.Fatalf("GetHousehold failed: %v", err)
		}
		if !reflect.DeepEqual(got.State, h.State) {
			t.Errorf("State mismatch:\n got %+v\nwant %+v", got.State, h.State)
		}
		if got.UpdatedAt < got.CreatedAt {
			t.Errorf("UpdatedAt %d before CreatedAt %d", got.UpdatedAt, got.CreatedAt)
		}
	})

	t.Run("SaveHousehold with empty ledger", func(t *testing.T) {
		h := &models.Household{State: sampleState()}
		if err := s.CreateHousehold(ctx, h); err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}
		h.State.Expenses = nil
		if err := s.SaveHousehold(ctx, h); err != nil {
			t.Fatalf("SaveHousehold failed: %v", err)
		}
		got, err := s.GetHousehold(ctx, h.ID)
		if err != nil {
			t.Fatalf("GetHousehold failed: %v", err)
		}
		if len(got.State.Expenses) != 0 {
			t.Errorf("Expected 0 expenses, got %d", len(got.State.Expenses))
		}
	})

	t.Run("SaveHousehold unknown ID", func(t *testing.T) {
		h := &models.Household{ID: "missing", State: sampleState()}
		if err := s.SaveHousehold(ctx, h); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListHouseholds", func(t *testing.T) {
		list, err := s.ListHouseholds(ctx)
		if err != nil {
			t.Fatalf("ListHouseholds failed: %v", err)
		}
		// Four households were created by the subtests above.
		if len(list) < 4 {
			t.Errorf("Expected at least 4 households, got %d", len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i].UpdatedAt > list[i-1].UpdatedAt {
				t.Errorf("households not ordered by UpdatedAt at %d", i)
			}
		}
	})
}

// Package storage provides abstractions for persistent household storage.
package storage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/fairshare/internal/models"
)

// ErrNotFound is returned (wrapped) when a household ID is unknown.
var ErrNotFound = errors.New("household not found")

// Store defines the interface for household storage operations.
// This abstraction allows swapping storage backends (memory, SQLite,
// PostgreSQL) without changing the service layer.
type Store interface {
	// CreateHousehold persists a new household.
	// The ID, Name (when empty) and timestamps are populated by the store.
	CreateHousehold(ctx context.Context, h *models.Household) error

	// GetHousehold retrieves a household by its ID.
	// Returns an error wrapping ErrNotFound if the household does not exist.
	GetHousehold(ctx context.Context, id string) (*models.Household, error)

	// SaveHousehold replaces the stored roster and ledger of an existing
	// household and bumps UpdatedAt.
	SaveHousehold(ctx context.Context, h *models.Household) error

	// ListHouseholds returns every household, most recently updated first.
	ListHouseholds(ctx context.Context) ([]*models.Household, error)

	// Close releases any resources held by the store.
	Close() error
}

// PrepareNew fills in the fields a store assigns on creation.
func PrepareNew(h *models.Household) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if h.CreatedAt == 0 {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	if h.Name == "" {
		h.Name = DefaultName(h.State.Participants)
	}
}

// DefaultName builds a household name from the participant names.
func DefaultName(r models.Roster) string {
	var names []string
	for _, p := range r {
		if n := strings.TrimSpace(p.Name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("Household - %s", time.Now().Format("Jan 2, 2006"))
	}
	return strings.Join(names, " & ")
}

// NotFound wraps ErrNotFound with the missing ID.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SortByUpdated orders households most recently updated first, breaking
// ties by ID so results are stable.
func SortByUpdated(hs []*models.Household) {
	slices.SortFunc(hs, func(a, b *models.Household) int {
		if c := cmp.Compare(b.UpdatedAt, a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

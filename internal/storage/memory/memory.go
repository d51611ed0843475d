// Package memory provides an in-process implementation of storage.Store.
// Data does not survive a restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps households in a map guarded by a mutex.
type Store struct {
	mu         sync.RWMutex
	households map[string]*models.Household
}

// New returns an empty Store.
func New() *Store {
	return &Store{households: make(map[string]*models.Household)}
}

func clone(h *models.Household) *models.Household {
	c := *h
	c.State.Expenses = slices.Clone(h.State.Expenses)
	for i, p := range c.State.Participants {
		if p.SalaryRemaining != nil {
			v := *p.SalaryRemaining
			c.State.Participants[i].SalaryRemaining = &v
		}
	}
	return &c
}

func (s *Store) CreateHousehold(_ context.Context, h *models.Household) error {
	storage.PrepareNew(h)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.households[h.ID] = clone(h)
	return nil
}

func (s *Store) GetHousehold(_ context.Context, id string) (*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.households[id]
	if !ok {
		return nil, storage.NotFound(id)
	}
	return clone(h), nil
}

func (s *Store) SaveHousehold(_ context.Context, h *models.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.households[h.ID]
	if !ok {
		return storage.NotFound(h.ID)
	}
	h.CreatedAt = existing.CreatedAt
	h.UpdatedAt = time.Now().Unix()
	s.households[h.ID] = clone(h)
	return nil
}

func (s *Store) ListHouseholds(_ context.Context) ([]*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Household, 0, len(s.households))
	for _, h := range s.households {
		out = append(out, clone(h))
	}
	storage.SortByUpdated(out)
	return out, nil
}

func (s *Store) Close() error {
	return nil
}

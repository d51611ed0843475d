// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; serializing through one connection
	// avoids SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateHousehold persists a new household with its roster and ledger.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	storage.PrepareNew(h)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO households (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		h.ID, h.Name, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}

	if err := insertState(ctx, tx, h.ID, h.State); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household by ID, including roster and ledger.
func (s *SQLiteStore) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	h := &models.Household{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM households WHERE id = ?",
		id,
	).Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}

	if err := s.loadState(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// SaveHousehold replaces the roster and ledger of an existing household.
func (s *SQLiteStore) SaveHousehold(ctx context.Context, h *models.Household) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	h.UpdatedAt = time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		"UPDATE households SET name = ?, updated_at = ? WHERE id = ?",
		h.Name, h.UpdatedAt, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update household: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return storage.NotFound(h.ID)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM households WHERE id = ?", h.ID,
	).Scan(&h.CreatedAt); err != nil {
		return fmt.Errorf("failed to read created_at: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE household_id = ?", h.ID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE household_id = ?", h.ID); err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}

	if err := insertState(ctx, tx, h.ID, h.State); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListHouseholds returns all households, most recently updated first.
func (s *SQLiteStore) ListHouseholds(ctx context.Context) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM households ORDER BY updated_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	var households []*models.Household
	for rows.Next() {
		h := &models.Household{}
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate households: %w", err)
	}
	// Release the single connection before the per-household queries.
	rows.Close()

	for _, h := range households {
		if err := s.loadState(ctx, h); err != nil {
			return nil, err
		}
	}
	return households, nil
}

func insertState(ctx context.Context, tx *sql.Tx, householdID string, st models.State) error {
	for pos, p := range st.Participants {
		var remaining sql.NullFloat64
		if p.SalaryRemaining != nil {
			remaining = sql.NullFloat64{Float64: *p.SalaryRemaining, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (household_id, position, name, income, salary_remaining) VALUES (?, ?, ?, ?, ?)",
			householdID, pos, p.Name, p.Income, remaining,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for pos, e := range st.Expenses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (household_id, position, category, amount, paid_by, paid_for,
				first_share, second_share, contribution_first, contribution_second)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			householdID, pos, e.Category, e.Amount, e.PaidBy, e.PaidFor,
			e.FirstPersonShare, e.SecondPersonShare, e.Contribution[0], e.Contribution[1],
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadState(ctx context.Context, h *models.Household) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT position, name, income, salary_remaining FROM participants WHERE household_id = ? ORDER BY position",
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	for rows.Next() {
		var (
			pos       int
			p         models.Participant
			remaining sql.NullFloat64
		)
		if err := rows.Scan(&pos, &p.Name, &p.Income, &remaining); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if remaining.Valid {
			v := remaining.Float64
			p.SalaryRemaining = &v
		}
		if pos >= 0 && pos < len(h.State.Participants) {
			h.State.Participants[pos] = p
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		`SELECT category, amount, paid_by, paid_for, first_share, second_share,
			contribution_first, contribution_second
		FROM expenses WHERE household_id = ? ORDER BY position`,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var e models.Expense
		if err := expRows.Scan(&e.Category, &e.Amount, &e.PaidBy, &e.PaidFor,
			&e.FirstPersonShare, &e.SecondPersonShare, &e.Contribution[0], &e.Contribution[1]); err != nil {
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		h.State.Expenses = append(h.State.Expenses, e)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return nil
}

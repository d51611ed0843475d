// Package postgres implements storage.Store on PostgreSQL through a pgx
// connection pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

//go:embed schema.sql
var schema string

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn, verifies the connection and ensures the schema
// exists. maxConns <= 0 keeps the pgxpool default.
func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateHousehold(ctx context.Context, h *models.Household) error {
	storage.PrepareNew(h)

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO households (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
			h.ID, h.Name, h.CreatedAt, h.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert household: %w", err)
		}
		return insertState(ctx, tx, h.ID, h.State)
	})
}

func (s *Store) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	h := &models.Household{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM households WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *Store) SaveHousehold(ctx context.Context, h *models.Household) error {
	h.UpdatedAt = time.Now().Unix()

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE households SET name = $1, updated_at = $2 WHERE id = $3 RETURNING created_at`,
			h.Name, h.UpdatedAt, h.ID,
		).Scan(&h.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.NotFound(h.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to update household: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM participants WHERE household_id = $1`, h.ID); err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM expenses WHERE household_id = $1`, h.ID); err != nil {
			return fmt.Errorf("failed to delete expenses: %w", err)
		}
		return insertState(ctx, tx, h.ID, h.State)
	})
}

func (s *Store) ListHouseholds(ctx context.Context) ([]*models.Household, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM households ORDER BY updated_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	households, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Household, error) {
		h := &models.Household{}
		err := row.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
		return h, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan households: %w", err)
	}

	for _, h := range households {
		if err := s.loadState(ctx, h); err != nil {
			return nil, err
		}
	}
	return households, nil
}

func insertState(ctx context.Context, tx pgx.Tx, householdID string, st models.State) error {
	batch := &pgx.Batch{}
	for pos, p := range st.Participants {
		batch.Queue(
			`INSERT INTO participants (household_id, position, name, income, salary_remaining)
			VALUES ($1, $2, $3, $4, $5)`,
			householdID, pos, p.Name, p.Income, p.SalaryRemaining,
		)
	}
	for pos, e := range st.Expenses {
		batch.Queue(
			`INSERT INTO expenses (household_id, position, category, amount, paid_by, paid_for,
				first_share, second_share, contribution_first, contribution_second)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			householdID, pos, e.Category, e.Amount, e.PaidBy, e.PaidFor,
			e.FirstPersonShare, e.SecondPersonShare, e.Contribution[0], e.Contribution[1],
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert household state: %w", err)
	}
	return nil
}

func (s *Store) loadState(ctx context.Context, h *models.Household) error {
	rows, err := s.pool.Query(ctx,
		`SELECT position, name, income, salary_remaining
		FROM participants WHERE household_id = $1 ORDER BY position`, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pos int
			p   models.Participant
		)
		if err := rows.Scan(&pos, &p.Name, &p.Income, &p.SalaryRemaining); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if pos >= 0 && pos < len(h.State.Participants) {
			h.State.Participants[pos] = p
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	expRows, err := s.pool.Query(ctx,
		`SELECT category, amount, paid_by, paid_for, first_share, second_share,
			contribution_first, contribution_second
		FROM expenses WHERE household_id = $1 ORDER BY position`, h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	expenses, err := pgx.CollectRows(expRows, func(row pgx.CollectableRow) (models.Expense, error) {
		var e models.Expense
		err := row.Scan(&e.Category, &e.Amount, &e.PaidBy, &e.PaidFor,
			&e.FirstPersonShare, &e.SecondPersonShare, &e.Contribution[0], &e.Contribution[1])
		return e, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan expenses: %w", err)
	}
	if len(expenses) > 0 {
		h.State.Expenses = expenses
	}
	return nil
}

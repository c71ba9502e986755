package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/trainer"
)

const selectColumns = `SELECT id, first_name, last_name, email, active FROM trainer`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new trainer store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a trainer by its ID.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	var t domain.Trainer
	var active int
	err := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id).
		Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trainer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("get trainer %s: %w", id, err)
	}
	t.Active = active == 1
	return t, nil
}

// Save persists a trainer.
func (s *SQLStore) Save(ctx context.Context, t domain.Trainer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trainer (id, first_name, last_name, email, active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT(id) DO UPDATE SET
		   first_name = excluded.first_name, last_name = excluded.last_name,
		   email = excluded.email, active = excluded.active`,
		t.ID, t.FirstName, t.LastName, t.Email, storage.BoolToInt(t.Active))
	if err != nil {
		return fmt.Errorf("save trainer %s: %w", t.ID, err)
	}
	return nil
}

// Delete removes a trainer.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trainer WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trainer %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every trainer.
func (s *SQLStore) List(ctx context.Context) ([]domain.Trainer, error) {
	return s.query(ctx, selectColumns+` ORDER BY last_name, first_name, id`)
}

// ListActive returns active trainers.
func (s *SQLStore) ListActive(ctx context.Context) ([]domain.Trainer, error) {
	return s.query(ctx, selectColumns+` WHERE active = 1 ORDER BY last_name, first_name, id`)
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Trainer, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	var out []domain.Trainer
	for rows.Next() {
		var t domain.Trainer
		var active int
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &active); err != nil {
			return nil, fmt.Errorf("scan trainer: %w", err)
		}
		t.Active = active == 1
		out = append(out, t)
	}
	return out, rows.Err()
}

package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/availability"
	"planning/internal/domain/slot"
)

const selectColumns = `SELECT id, trainer_id, day, half, location_id, status, published, created_at FROM availability_template`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new template store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var e domain.Entry
	var half, createdAt string
	var published int
	if err := row.Scan(&e.ID, &e.TrainerID, &e.Day, &half, &e.LocationID, &e.Status, &published, &createdAt); err != nil {
		return domain.Entry{}, err
	}
	h, err := slot.ParseHalf(half)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("template entry %s: %w", e.ID, err)
	}
	e.Half = h
	e.Published = published == 1
	if e.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

// GetByID retrieves a template entry.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get template entry %s: %w", id, err)
	}
	return e, nil
}

// Save persists a template entry.
func (s *SQLStore) Save(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO availability_template (id, trainer_id, day, half, location_id, status, published, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT(id) DO UPDATE SET
		   trainer_id = excluded.trainer_id, day = excluded.day, half = excluded.half,
		   location_id = excluded.location_id, status = excluded.status, published = excluded.published`,
		e.ID, e.TrainerID, e.Day, e.Half.Code(), e.LocationID, e.Status,
		storage.BoolToInt(e.Published), storage.FormatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("save template entry %s: %w", e.ID, err)
	}
	return nil
}

// Delete removes a template entry.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM availability_template WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTrainer returns every entry of a trainer.
func (s *SQLStore) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Entry, error) {
	return s.query(ctx, selectColumns+` WHERE trainer_id = $1 ORDER BY created_at, id`, trainerID)
}

// ListPublishedByTrainer returns the entries visible to arbitration.
func (s *SQLStore) ListPublishedByTrainer(ctx context.Context, trainerID string) ([]domain.Entry, error) {
	return s.query(ctx,
		selectColumns+` WHERE trainer_id = $1 AND published = 1 AND status = $2 ORDER BY created_at, id`,
		trainerID, domain.StatusAvailable)
}

// PublishForTrainer marks every entry of a trainer as published.
func (s *SQLStore) PublishForTrainer(ctx context.Context, trainerID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE availability_template SET published = 1 WHERE trainer_id = $1 AND published = 0`, trainerID)
	if err != nil {
		return 0, fmt.Errorf("publish template for %s: %w", trainerID, err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list template entries: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

package closure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/closure"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

const selectColumns = `SELECT id, start_date, end_date, half, reason, description, created_at FROM closure`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new closure store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClosure(row scanner) (domain.Closure, error) {
	var c domain.Closure
	var start, end, half, createdAt string
	if err := row.Scan(&c.ID, &start, &end, &half, &c.Reason, &c.Description, &createdAt); err != nil {
		return domain.Closure{}, err
	}
	var err error
	if c.Start, err = storage.ParseDate(start); err != nil {
		return domain.Closure{}, fmt.Errorf("closure %s start: %w", c.ID, err)
	}
	if c.End, err = storage.ParseDate(end); err != nil {
		return domain.Closure{}, fmt.Errorf("closure %s end: %w", c.ID, err)
	}
	if c.Half, err = slot.ParseHalf(half); err != nil {
		return domain.Closure{}, fmt.Errorf("closure %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Closure{}, err
	}
	return c, nil
}

// GetByID retrieves a closure.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Closure, error) {
	c, err := scanClosure(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Closure{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Closure{}, fmt.Errorf("get closure %s: %w", id, err)
	}
	return c, nil
}

// Save persists a closure.
func (s *SQLStore) Save(ctx context.Context, c domain.Closure) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO closure (id, start_date, end_date, half, reason, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT(id) DO UPDATE SET
		   start_date = excluded.start_date, end_date = excluded.end_date, half = excluded.half,
		   reason = excluded.reason, description = excluded.description`,
		c.ID, c.Start.String(), c.End.String(), c.Half.Code(), c.Reason, c.Description, storage.FormatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("save closure %s: %w", c.ID, err)
	}
	return nil
}

// Delete removes a closure.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM closure WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete closure %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOverlapping returns closures overlapping [from, to]. An empty end date
// stands for a single-day closure.
func (s *SQLStore) ListOverlapping(ctx context.Context, from, to week.Date) ([]domain.Closure, error) {
	return s.query(ctx,
		selectColumns+` WHERE start_date <= $1 AND COALESCE(NULLIF(end_date, ''), start_date) >= $2
		 ORDER BY start_date, id`,
		to.String(), from.String())
}

// List returns every closure, most recent start first.
func (s *SQLStore) List(ctx context.Context) ([]domain.Closure, error) {
	return s.query(ctx, selectColumns+` ORDER BY start_date DESC, id`)
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Closure, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	defer rows.Close()

	var out []domain.Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

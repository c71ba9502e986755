package absence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/absence"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

const selectColumns = `SELECT id, trainer_id, start_date, end_date, half, category, status, comment, created_at, decided_at FROM absence`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new absence store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAbsence(row scanner) (domain.Absence, error) {
	var a domain.Absence
	var start, end, half, createdAt, decidedAt string
	if err := row.Scan(&a.ID, &a.TrainerID, &start, &end, &half, &a.Category, &a.Status, &a.Comment, &createdAt, &decidedAt); err != nil {
		return domain.Absence{}, err
	}
	var err error
	if a.Start, err = storage.ParseDate(start); err != nil {
		return domain.Absence{}, fmt.Errorf("absence %s start: %w", a.ID, err)
	}
	if a.End, err = storage.ParseDate(end); err != nil {
		return domain.Absence{}, fmt.Errorf("absence %s end: %w", a.ID, err)
	}
	if a.Half, err = slot.ParseHalf(half); err != nil {
		return domain.Absence{}, fmt.Errorf("absence %s: %w", a.ID, err)
	}
	if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Absence{}, err
	}
	if a.DecidedAt, err = storage.ParseTime(decidedAt); err != nil {
		return domain.Absence{}, err
	}
	return a, nil
}

// GetByID retrieves an absence.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Absence, error) {
	a, err := scanAbsence(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Absence{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Absence{}, fmt.Errorf("get absence %s: %w", id, err)
	}
	return a, nil
}

// Save persists an absence.
func (s *SQLStore) Save(ctx context.Context, a domain.Absence) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO absence (id, trainer_id, start_date, end_date, half, category, status, comment, created_at, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT(id) DO UPDATE SET
		   trainer_id = excluded.trainer_id, start_date = excluded.start_date, end_date = excluded.end_date,
		   half = excluded.half, category = excluded.category, status = excluded.status,
		   comment = excluded.comment, decided_at = excluded.decided_at`,
		a.ID, a.TrainerID, a.Start.String(), a.End.String(), a.Half.Code(), a.Category, a.Status,
		a.Comment, storage.FormatTime(a.CreatedAt), storage.FormatTime(a.DecidedAt))
	if err != nil {
		return fmt.Errorf("save absence %s: %w", a.ID, err)
	}
	return nil
}

// Delete removes an absence.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM absence WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete absence %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListValidatedForTrainer returns validated absences of a trainer overlapping [from, to].
func (s *SQLStore) ListValidatedForTrainer(ctx context.Context, trainerID string, from, to week.Date) ([]domain.Absence, error) {
	return s.query(ctx,
		selectColumns+` WHERE trainer_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $4
		 ORDER BY created_at DESC, id DESC`,
		trainerID, domain.StatusValidated, to.String(), from.String())
}

// ListPending returns absences awaiting a decision.
func (s *SQLStore) ListPending(ctx context.Context) ([]domain.Absence, error) {
	return s.query(ctx, selectColumns+` WHERE status = $1 ORDER BY created_at, id`, domain.StatusPending)
}

// ListForRange returns validated absences of every trainer overlapping [from, to].
func (s *SQLStore) ListForRange(ctx context.Context, from, to week.Date) ([]domain.Absence, error) {
	return s.query(ctx,
		selectColumns+` WHERE status = $1 AND start_date <= $2 AND end_date >= $3 ORDER BY trainer_id, start_date, id`,
		domain.StatusValidated, to.String(), from.String())
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Absence, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	defer rows.Close()

	var out []domain.Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

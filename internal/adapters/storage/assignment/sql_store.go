package assignment

import (
	"context"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/assignment"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Rows come back one per (assignment, trainer) pair, grouped by assignment.
const selectJoined = `SELECT a.id, a.assign_date, a.day, a.half, a.location_id, a.created_at, m.trainer_id
	FROM assignment a JOIN assignment_trainer m ON m.assignment_id = a.id`

const orderJoined = ` ORDER BY a.created_at DESC, a.id DESC, m.trainer_id`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new assignment store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves an assignment with its trainer set.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Assignment, error) {
	list, err := s.query(ctx, selectJoined+` WHERE a.id = $1`+orderJoined, id)
	if err != nil {
		return domain.Assignment{}, err
	}
	if len(list) == 0 {
		return domain.Assignment{}, domain.ErrNotFound
	}
	return list[0], nil
}

// Save persists an assignment and replaces its trainer set in one transaction.
func (s *SQLStore) Save(ctx context.Context, a domain.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save assignment: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assignment (id, assign_date, day, half, location_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT(id) DO UPDATE SET
		   assign_date = excluded.assign_date, day = excluded.day, half = excluded.half,
		   location_id = excluded.location_id, created_at = excluded.created_at`,
		a.ID, a.Date.String(), a.Day, a.Half.Code(), a.LocationID, storage.FormatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("save assignment %s: %w", a.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_trainer WHERE assignment_id = $1`, a.ID); err != nil {
		return fmt.Errorf("clear trainers of %s: %w", a.ID, err)
	}
	for _, trainerID := range domain.NormalizeTrainerIDs(a.TrainerIDs) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO assignment_trainer (assignment_id, trainer_id) VALUES ($1, $2)`, a.ID, trainerID); err != nil {
			return fmt.Errorf("add trainer %s to %s: %w", trainerID, a.ID, err)
		}
	}
	return tx.Commit()
}

// Delete removes an assignment and its trainer set.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete assignment: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_trainer WHERE assignment_id = $1`, id); err != nil {
		return fmt.Errorf("delete trainers of %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// ListForTrainer returns assignments placing trainerID between from and to.
func (s *SQLStore) ListForTrainer(ctx context.Context, trainerID string, from, to week.Date) ([]domain.Assignment, error) {
	return s.query(ctx,
		selectJoined+` WHERE a.id IN (SELECT assignment_id FROM assignment_trainer WHERE trainer_id = $1)
		 AND a.assign_date >= $2 AND a.assign_date <= $3`+orderJoined,
		trainerID, from.String(), to.String())
}

// ListForRange returns every assignment between from and to.
func (s *SQLStore) ListForRange(ctx context.Context, from, to week.Date) ([]domain.Assignment, error) {
	return s.query(ctx,
		selectJoined+` WHERE a.assign_date >= $1 AND a.assign_date <= $2`+orderJoined,
		from.String(), to.String())
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var date, half, createdAt, trainerID string
		if err := rows.Scan(&a.ID, &date, &a.Day, &half, &a.LocationID, &createdAt, &trainerID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].ID == a.ID {
			out[n-1].TrainerIDs = append(out[n-1].TrainerIDs, trainerID)
			continue
		}
		if a.Date, err = storage.ParseDate(date); err != nil {
			return nil, fmt.Errorf("assignment %s date: %w", a.ID, err)
		}
		if a.Half, err = slot.ParseHalf(half); err != nil {
			return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
		if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, err
		}
		a.TrainerIDs = []string{trainerID}
		out = append(out, a)
	}
	return out, rows.Err()
}

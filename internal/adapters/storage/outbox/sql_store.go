package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/outbox"
)

const selectColumns = `SELECT id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, error_message FROM outbox`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new outbox store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var e domain.Entry
	var lastAttemptedAt, createdAt string
	err := row.Scan(&e.ID, &e.ActionType, &e.Payload, &e.Status, &e.Attempts, &e.MaxAttempts,
		&lastAttemptedAt, &createdAt, &e.ErrorMessage)
	if err != nil {
		return domain.Entry{}, err
	}
	if e.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Entry{}, err
	}
	if e.LastAttemptedAt, err = storage.ParseTime(lastAttemptedAt); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

// GetByID retrieves an outbox entry by its ID.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get outbox entry %s: %w", id, err)
	}
	return e, nil
}

// Save persists an outbox entry.
func (s *SQLStore) Save(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox (id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT(id) DO UPDATE SET
		   action_type = excluded.action_type, payload = excluded.payload, status = excluded.status,
		   attempts = excluded.attempts, max_attempts = excluded.max_attempts,
		   last_attempted_at = excluded.last_attempted_at, error_message = excluded.error_message`,
		e.ID, e.ActionType, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		storage.FormatTime(e.LastAttemptedAt), storage.FormatTime(e.CreatedAt), e.ErrorMessage)
	if err != nil {
		return fmt.Errorf("save outbox entry %s: %w", e.ID, err)
	}
	return nil
}

// ListPending returns entries awaiting delivery.
func (s *SQLStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.query(ctx,
		selectColumns+` WHERE status IN ($1, $2) ORDER BY created_at ASC, id LIMIT $3`,
		domain.StatusPending, domain.StatusRetrying, limit)
}

// ListFailed returns entries that exhausted their attempts.
func (s *SQLStore) ListFailed(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.query(ctx,
		selectColumns+` WHERE status = $1 AND attempts >= max_attempts ORDER BY last_attempted_at DESC, id LIMIT $2`,
		domain.StatusFailed, limit)
}

// ListByActionType returns entries of one action type.
func (s *SQLStore) ListByActionType(ctx context.Context, actionType, status string, limit int) ([]domain.Entry, error) {
	if status == "" {
		return s.query(ctx,
			selectColumns+` WHERE action_type = $1 ORDER BY created_at ASC, id LIMIT $2`,
			actionType, limit)
	}
	return s.query(ctx,
		selectColumns+` WHERE action_type = $1 AND status = $2 ORDER BY created_at ASC, id LIMIT $3`,
		actionType, status, limit)
}

// Delete removes an outbox entry.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete outbox entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbox entries: %w", err)
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

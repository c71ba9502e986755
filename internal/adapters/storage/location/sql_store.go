package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planning/internal/adapters/storage"
	domain "planning/internal/domain/location"
)

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new location store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a location by its ID.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Location, error) {
	var l domain.Location
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, initials, color FROM location WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Initials, &l.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %s: %w", id, err)
	}
	return l, nil
}

// Save persists a location.
func (s *SQLStore) Save(ctx context.Context, l domain.Location) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO location (id, name, initials, color) VALUES ($1, $2, $3, $4)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, initials = excluded.initials, color = excluded.color`,
		l.ID, l.Name, l.Initials, l.Color)
	if err != nil {
		return fmt.Errorf("save location %s: %w", l.ID, err)
	}
	return nil
}

// Delete removes a location.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM location WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every location ordered by name.
func (s *SQLStore) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, initials, color FROM location ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Initials, &l.Color); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

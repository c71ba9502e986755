package location

import (
	"context"

	domain "planning/internal/domain/location"
)

// Store defines the interface for location persistence.
type Store interface {
	// GetByID retrieves a location by its ID.
	// PRE: id is non-empty
	// POST: Returns the location or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Location, error)

	// Save persists a location (insert or update).
	// PRE: entity has been validated
	Save(ctx context.Context, l domain.Location) error

	// Delete removes a location.
	Delete(ctx context.Context, id string) error

	// List returns every location ordered by name.
	List(ctx context.Context) ([]domain.Location, error)
}

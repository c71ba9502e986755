package closure

import (
	"context"

	domain "planning/internal/domain/closure"
	"planning/internal/domain/week"
)

// Store defines the interface for facility closure persistence.
type Store interface {
	// GetByID retrieves a closure.
	// PRE: id is non-empty
	// POST: Returns the closure or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Closure, error)

	// Save persists a closure (insert or update).
	// PRE: entity has been validated
	Save(ctx context.Context, c domain.Closure) error

	// Delete removes a closure.
	Delete(ctx context.Context, id string) error

	// ListOverlapping returns closures whose [Start, LastDay] overlaps [from, to].
	ListOverlapping(ctx context.Context, from, to week.Date) ([]domain.Closure, error)

	// List returns every closure ordered by start date, most recent first.
	List(ctx context.Context) ([]domain.Closure, error)
}

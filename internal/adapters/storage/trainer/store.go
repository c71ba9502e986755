package trainer

import (
	"context"

	domain "planning/internal/domain/trainer"
)

// Store defines the interface for trainer persistence.
type Store interface {
	// GetByID retrieves a trainer by its ID.
	// PRE: id is non-empty
	// POST: Returns the trainer or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Trainer, error)

	// Save persists a trainer (insert or update).
	// PRE: entity has been validated
	// POST: Entity is persisted
	Save(ctx context.Context, t domain.Trainer) error

	// Delete removes a trainer.
	// PRE: id is non-empty
	// POST: Trainer is removed, or domain.ErrNotFound
	Delete(ctx context.Context, id string) error

	// List returns every trainer ordered by last name, first name.
	List(ctx context.Context) ([]domain.Trainer, error)

	// ListActive returns active trainers ordered by last name, first name.
	ListActive(ctx context.Context) ([]domain.Trainer, error)
}

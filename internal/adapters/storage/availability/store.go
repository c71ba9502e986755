package availability

import (
	"context"

	domain "planning/internal/domain/availability"
)

// Store defines the interface for weekly template persistence.
type Store interface {
	// GetByID retrieves a template entry.
	// PRE: id is non-empty
	// POST: Returns the entry or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save persists a template entry (insert or update).
	// PRE: entity has been validated
	Save(ctx context.Context, e domain.Entry) error

	// Delete removes a template entry.
	Delete(ctx context.Context, id string) error

	// ListByTrainer returns every entry of a trainer, published or not.
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Entry, error)

	// ListPublishedByTrainer returns the entries visible to arbitration.
	// POST: Every returned entry satisfies IsArbitrable
	ListPublishedByTrainer(ctx context.Context, trainerID string) ([]domain.Entry, error)

	// PublishForTrainer marks every entry of a trainer as published.
	// POST: Returns the number of entries that changed
	PublishForTrainer(ctx context.Context, trainerID string) (int64, error)
}

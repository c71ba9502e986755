package assignment

import (
	"context"

	domain "planning/internal/domain/assignment"
	"planning/internal/domain/week"
)

// Store defines the interface for coordinator assignment persistence.
type Store interface {
	// GetByID retrieves an assignment with its trainer set.
	// PRE: id is non-empty
	// POST: Returns the assignment or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Assignment, error)

	// Save persists an assignment and replaces its trainer set atomically.
	// PRE: entity has been validated
	Save(ctx context.Context, a domain.Assignment) error

	// Delete removes an assignment and its trainer set.
	Delete(ctx context.Context, id string) error

	// ListForTrainer returns assignments placing trainerID between from and to
	// inclusive, most recent first.
	ListForTrainer(ctx context.Context, trainerID string, from, to week.Date) ([]domain.Assignment, error)

	// ListForRange returns every assignment between from and to inclusive, most recent first.
	ListForRange(ctx context.Context, from, to week.Date) ([]domain.Assignment, error)
}

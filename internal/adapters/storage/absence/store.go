package absence

import (
	"context"

	domain "planning/internal/domain/absence"
	"planning/internal/domain/week"
)

// Store defines the interface for absence persistence.
type Store interface {
	// GetByID retrieves an absence.
	// PRE: id is non-empty
	// POST: Returns the absence or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Absence, error)

	// Save persists an absence (insert or update).
	// PRE: entity has been validated
	Save(ctx context.Context, a domain.Absence) error

	// Delete removes an absence.
	Delete(ctx context.Context, id string) error

	// ListValidatedForTrainer returns validated absences of a trainer
	// overlapping [from, to].
	ListValidatedForTrainer(ctx context.Context, trainerID string, from, to week.Date) ([]domain.Absence, error)

	// ListPending returns absences awaiting a decision, oldest first.
	ListPending(ctx context.Context) ([]domain.Absence, error)

	// ListForRange returns validated absences of every trainer overlapping [from, to].
	ListForRange(ctx context.Context, from, to week.Date) ([]domain.Absence, error)
}

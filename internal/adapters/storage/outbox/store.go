package outbox

import (
	"context"

	domain "planning/internal/domain/outbox"
)

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its ID.
	// PRE: id is non-empty
	// POST: Returns the entry or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save persists an outbox entry (insert or update).
	// PRE: entity has been validated
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns entries awaiting delivery (pending or retrying).
	// PRE: limit > 0
	// POST: Returns up to limit entries, oldest first
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListFailed returns entries that exhausted their attempts.
	// PRE: limit > 0
	// POST: Returns up to limit entries, most recently attempted first
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListByActionType returns entries of one action type, optionally filtered by status.
	ListByActionType(ctx context.Context, actionType, status string, limit int) ([]domain.Entry, error)

	// Delete removes an outbox entry.
	Delete(ctx context.Context, id string) error
}

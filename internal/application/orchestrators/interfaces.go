package orchestrators

import (
	"context"

	domainAbsence "planning/internal/domain/absence"
	domainAssignment "planning/internal/domain/assignment"
	domainAvailability "planning/internal/domain/availability"
	domainClosure "planning/internal/domain/closure"
	domainLocation "planning/internal/domain/location"
	domainOutbox "planning/internal/domain/outbox"
	domainTrainer "planning/internal/domain/trainer"
)

// TrainerStoreForOrchestrator defines the store interface needed by trainer orchestrators.
type TrainerStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (domainTrainer.Trainer, error)
	Save(ctx context.Context, t domainTrainer.Trainer) error
	Delete(ctx context.Context, id string) error
}

// LocationStoreForOrchestrator defines the store interface needed by location orchestrators.
type LocationStoreForOrchestrator interface {
	Save(ctx context.Context, l domainLocation.Location) error
	Delete(ctx context.Context, id string) error
}

// AbsenceStoreForOrchestrator defines the store interface needed by absence orchestrators.
type AbsenceStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (domainAbsence.Absence, error)
	Save(ctx context.Context, a domainAbsence.Absence) error
	Delete(ctx context.Context, id string) error
}

// AssignmentStoreForOrchestrator defines the store interface needed by assignment orchestrators.
type AssignmentStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (domainAssignment.Assignment, error)
	Save(ctx context.Context, a domainAssignment.Assignment) error
	Delete(ctx context.Context, id string) error
}

// ClosureStoreForOrchestrator defines the store interface needed by closure orchestrators.
type ClosureStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (domainClosure.Closure, error)
	Save(ctx context.Context, c domainClosure.Closure) error
	Delete(ctx context.Context, id string) error
}

// TemplateStoreForOrchestrator defines the store interface needed by template orchestrators.
type TemplateStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (domainAvailability.Entry, error)
	Save(ctx context.Context, e domainAvailability.Entry) error
	PublishForTrainer(ctx context.Context, trainerID string) (int64, error)
}

// OutboxWriter persists deferred side effects.
type OutboxWriter interface {
	Save(ctx context.Context, e domainOutbox.Entry) error
}

package projections

import (
	"context"

	domainAbsence "planning/internal/domain/absence"
	domainAssignment "planning/internal/domain/assignment"
	domainAvailability "planning/internal/domain/availability"
	domainClosure "planning/internal/domain/closure"
	domainLocation "planning/internal/domain/location"
	domainTrainer "planning/internal/domain/trainer"
	"planning/internal/domain/week"
)

// TrainerStore interface for trainer queries.
type TrainerStore interface {
	GetByID(ctx context.Context, id string) (domainTrainer.Trainer, error)
	ListActive(ctx context.Context) ([]domainTrainer.Trainer, error)
}

// LocationStore interface for location queries.
type LocationStore interface {
	List(ctx context.Context) ([]domainLocation.Location, error)
}

// TemplateStore interface for weekly template queries.
type TemplateStore interface {
	ListPublishedByTrainer(ctx context.Context, trainerID string) ([]domainAvailability.Entry, error)
}

// AbsenceStore interface for absence queries.
type AbsenceStore interface {
	ListValidatedForTrainer(ctx context.Context, trainerID string, from, to week.Date) ([]domainAbsence.Absence, error)
	ListForRange(ctx context.Context, from, to week.Date) ([]domainAbsence.Absence, error)
}

// AssignmentStore interface for coordinator assignment queries.
type AssignmentStore interface {
	ListForTrainer(ctx context.Context, trainerID string, from, to week.Date) ([]domainAssignment.Assignment, error)
	ListForRange(ctx context.Context, from, to week.Date) ([]domainAssignment.Assignment, error)
}

// ClosureStore interface for closure queries.
type ClosureStore interface {
	ListOverlapping(ctx context.Context, from, to week.Date) ([]domainClosure.Closure, error)
}

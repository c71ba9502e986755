package orchestrators

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"planning/internal/domain/assignment"
	"planning/internal/domain/event"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// ErrWeekend is returned for a placement on a Saturday or Sunday.
var ErrWeekend = errors.New("assignments can only target Monday to Friday")

// AssignmentDeps holds dependencies for the assignment workflows.
type AssignmentDeps struct {
	AssignmentStore AssignmentStoreForOrchestrator
	Weekdays        slot.Weekdays // optional: zero uses slot.DefaultWeekdays
	Effects
}

// SaveAssignmentInput carries input for the save assignment orchestrator.
type SaveAssignmentInput struct {
	ID         string // empty creates a new assignment
	Date       week.Date
	HalfLabel  string
	LocationID string
	TrainerIDs []string
}

// ExecuteSaveAssignment places trainers at a location for one date and half.
// Every save stamps CreatedAt, so the latest save wins over older rows for
// the same cell. Trainers dropped by an update are told to refresh.
// PRE: Date is a weekday; HalfLabel names a single half
// POST: Assignment stored with a normalized trainer set; one add command per
// placed trainer and one refresh per removed trainer are enqueued
func ExecuteSaveAssignment(ctx context.Context, input SaveAssignmentInput, deps AssignmentDeps) (assignment.Assignment, error) {
	half, err := slot.ParseHalf(input.HalfLabel)
	if err != nil {
		return assignment.Assignment{}, err
	}
	day := input.Date.WeekdayIndex()
	if !input.Date.IsZero() && day < 0 {
		return assignment.Assignment{}, ErrWeekend
	}
	weekdays := deps.Weekdays
	if weekdays == (slot.Weekdays{}) {
		weekdays = slot.DefaultWeekdays
	}

	var previous []string
	id := input.ID
	if id == "" {
		id = deps.GenerateID()
	} else {
		old, err := deps.AssignmentStore.GetByID(ctx, id)
		if err != nil && !errors.Is(err, assignment.ErrNotFound) {
			return assignment.Assignment{}, err
		}
		previous = old.TrainerIDs
	}

	a := assignment.Assignment{
		ID:         id,
		Date:       input.Date,
		Half:       half,
		LocationID: input.LocationID,
		TrainerIDs: assignment.NormalizeTrainerIDs(input.TrainerIDs),
		CreatedAt:  deps.Now(),
	}
	if day >= 0 {
		a.Day = weekdays[day]
	}
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}
	if err := deps.AssignmentStore.Save(ctx, a); err != nil {
		return assignment.Assignment{}, err
	}

	for _, trainerID := range a.TrainerIDs {
		if err := deps.enqueueCommand(ctx, event.ActionAddTrainer, trainerID, a.Date, "assignment "+a.ID); err != nil {
			return assignment.Assignment{}, err
		}
	}
	for _, trainerID := range previous {
		if slices.Contains(a.TrainerIDs, trainerID) {
			continue
		}
		if err := deps.enqueueCommand(ctx, event.ActionRefresh, trainerID, a.Date, "assignment "+a.ID); err != nil {
			return assignment.Assignment{}, err
		}
	}

	deps.logger().Info("assignment_saved",
		zap.String("assignment_id", a.ID), zap.String("date", a.Date.String()),
		zap.String("half", a.Half.Code()), zap.String("location_id", a.LocationID),
		zap.Strings("trainer_ids", a.TrainerIDs))
	return a, nil
}

// DeleteAssignmentInput carries input for the delete assignment orchestrator.
type DeleteAssignmentInput struct {
	AssignmentID string
}

// ExecuteDeleteAssignment removes an assignment and refreshes its trainers.
// PRE: AssignmentID refers to an existing assignment
// POST: Assignment removed; one refresh per placed trainer is enqueued
func ExecuteDeleteAssignment(ctx context.Context, input DeleteAssignmentInput, deps AssignmentDeps) error {
	a, err := deps.AssignmentStore.GetByID(ctx, input.AssignmentID)
	if err != nil {
		return err
	}
	if err := deps.AssignmentStore.Delete(ctx, a.ID); err != nil {
		return err
	}
	for _, trainerID := range a.TrainerIDs {
		if err := deps.enqueueCommand(ctx, event.ActionRefresh, trainerID, a.Date, "assignment deleted"); err != nil {
			return err
		}
	}
	deps.logger().Info("assignment_deleted", zap.String("assignment_id", a.ID))
	return nil
}

package orchestrators

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"planning/internal/domain/event"
	"planning/internal/domain/location"
	"planning/internal/domain/trainer"
)

// TrainerDeps holds dependencies for the trainer workflows.
type TrainerDeps struct {
	TrainerStore TrainerStoreForOrchestrator
	Effects
}

// SaveTrainerInput carries input for the save trainer orchestrator.
type SaveTrainerInput struct {
	ID        string // empty creates a new trainer
	FirstName string
	LastName  string
	Email     string
	Active    bool
}

// ExecuteSaveTrainer creates or updates a trainer.
// PRE: names are non-empty
// POST: Trainer stored; a refresh is enqueued for them
func ExecuteSaveTrainer(ctx context.Context, input SaveTrainerInput, deps TrainerDeps) (trainer.Trainer, error) {
	id := input.ID
	if id == "" {
		id = deps.GenerateID()
	}
	t := trainer.Trainer{
		ID:        id,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Active:    input.Active,
	}
	if err := t.Validate(); err != nil {
		return trainer.Trainer{}, err
	}
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return trainer.Trainer{}, err
	}
	if err := deps.enqueueCommand(ctx, event.ActionRefresh, t.ID, deps.today(), "trainer saved"); err != nil {
		return trainer.Trainer{}, err
	}
	deps.logger().Info("trainer_saved", zap.String("trainer_id", t.ID), zap.Bool("active", t.Active))
	return t, nil
}

// DeleteTrainerInput carries input for the delete trainer orchestrator.
type DeleteTrainerInput struct {
	TrainerID string
}

// ExecuteDeleteTrainer removes a trainer.
// PRE: TrainerID refers to an existing trainer
// POST: Trainer removed
func ExecuteDeleteTrainer(ctx context.Context, input DeleteTrainerInput, deps TrainerDeps) error {
	if err := deps.TrainerStore.Delete(ctx, input.TrainerID); err != nil {
		return err
	}
	deps.logger().Info("trainer_deleted", zap.String("trainer_id", input.TrainerID))
	return nil
}

// LocationDeps holds dependencies for the location workflows.
type LocationDeps struct {
	LocationStore LocationStoreForOrchestrator
	Effects
}

// SaveLocationInput carries input for the save location orchestrator.
type SaveLocationInput struct {
	ID       string // empty creates a new location
	Name     string
	Initials string
	Color    string
}

// ExecuteSaveLocation creates or updates a location. Grids show location
// names, so every planning is refreshed.
// PRE: Name is non-empty; Color is empty or #RRGGBB
// POST: Location stored; a broadcast refresh is enqueued
func ExecuteSaveLocation(ctx context.Context, input SaveLocationInput, deps LocationDeps) (location.Location, error) {
	id := input.ID
	if id == "" {
		id = deps.GenerateID()
	}
	l := location.Location{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		Initials: strings.TrimSpace(input.Initials),
		Color:    input.Color,
	}
	if err := l.Validate(); err != nil {
		return location.Location{}, err
	}
	if err := deps.LocationStore.Save(ctx, l); err != nil {
		return location.Location{}, err
	}
	if err := deps.enqueueCommand(ctx, event.ActionRefresh, "", deps.today(), "location saved"); err != nil {
		return location.Location{}, err
	}
	deps.logger().Info("location_saved", zap.String("location_id", l.ID), zap.String("name", l.Name))
	return l, nil
}

// DeleteLocationInput carries input for the delete location orchestrator.
type DeleteLocationInput struct {
	LocationID string
}

// ExecuteDeleteLocation removes a location and broadcasts a refresh.
// PRE: LocationID refers to an existing location
// POST: Location removed
func ExecuteDeleteLocation(ctx context.Context, input DeleteLocationInput, deps LocationDeps) error {
	if err := deps.LocationStore.Delete(ctx, input.LocationID); err != nil {
		return err
	}
	if err := deps.enqueueCommand(ctx, event.ActionRefresh, "", deps.today(), "location deleted"); err != nil {
		return err
	}
	deps.logger().Info("location_deleted", zap.String("location_id", input.LocationID))
	return nil
}

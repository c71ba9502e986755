package orchestrators

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"planning/internal/domain/availability"
	"planning/internal/domain/event"
	"planning/internal/domain/slot"
)

var (
	// ErrUnknownWeekday is returned when a template day is not one of the configured weekdays.
	ErrUnknownWeekday = errors.New("unknown weekday label")
	// ErrTrainerMismatch is returned when an edit names another trainer than the stored entry.
	ErrTrainerMismatch = errors.New("template entry belongs to another trainer")
)

// TemplateDeps holds dependencies for the weekly template workflows.
type TemplateDeps struct {
	TemplateStore TemplateStoreForOrchestrator
	Weekdays      slot.Weekdays // optional: zero uses slot.DefaultWeekdays
	Effects
}

// SaveTemplateEntryInput carries input for the save template entry orchestrator.
type SaveTemplateEntryInput struct {
	ID         string // empty creates a new entry
	TrainerID  string
	Day        string // weekday label
	HalfLabel  string
	LocationID string
	Status     string
}

// ExecuteSaveTemplateEntry stores a recurring availability. The entry stays
// out of arbitration until the template is published again.
// PRE: Day is a configured weekday; HalfLabel names a single half; a
// non-empty ID refers to an entry of the same trainer
// POST: Entry stored unpublished, with the canonical weekday label; a refresh
// is enqueued for the trainer
func ExecuteSaveTemplateEntry(ctx context.Context, input SaveTemplateEntryInput, deps TemplateDeps) (availability.Entry, error) {
	half, err := slot.ParseHalf(input.HalfLabel)
	if err != nil {
		return availability.Entry{}, err
	}
	weekdays := deps.Weekdays
	if weekdays == (slot.Weekdays{}) {
		weekdays = slot.DefaultWeekdays
	}
	day := weekdays.Index(input.Day)
	if day < 0 {
		return availability.Entry{}, ErrUnknownWeekday
	}
	id := input.ID
	if id == "" {
		id = deps.GenerateID()
	} else {
		stored, err := deps.TemplateStore.GetByID(ctx, id)
		if err != nil {
			return availability.Entry{}, err
		}
		if stored.TrainerID != input.TrainerID {
			return availability.Entry{}, ErrTrainerMismatch
		}
	}

	e := availability.Entry{
		ID:         id,
		TrainerID:  input.TrainerID,
		Day:        weekdays[day],
		Half:       half,
		LocationID: input.LocationID,
		Status:     input.Status,
		CreatedAt:  deps.Now(),
	}
	if err := e.Validate(); err != nil {
		return availability.Entry{}, err
	}
	if err := deps.TemplateStore.Save(ctx, e); err != nil {
		return availability.Entry{}, err
	}
	if err := deps.enqueueCommand(ctx, event.ActionRefresh, e.TrainerID, deps.today(), "template entry saved"); err != nil {
		return availability.Entry{}, err
	}

	deps.logger().Info("template_entry_saved",
		zap.String("entry_id", e.ID), zap.String("trainer_id", e.TrainerID),
		zap.String("day", e.Day), zap.String("half", e.Half.Code()), zap.String("status", e.Status))
	return e, nil
}

// PublishTemplateInput carries input for the publish template orchestrator.
type PublishTemplateInput struct {
	TrainerID string
}

// ExecutePublishTemplate makes every template entry of a trainer visible to
// arbitration.
// PRE: TrainerID is non-empty
// POST: Returns the number of entries published; a refresh is enqueued when any changed
func ExecutePublishTemplate(ctx context.Context, input PublishTemplateInput, deps TemplateDeps) (int64, error) {
	if input.TrainerID == "" {
		return 0, availability.ErrEmptyTrainerID
	}
	n, err := deps.TemplateStore.PublishForTrainer(ctx, input.TrainerID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := deps.enqueueCommand(ctx, event.ActionRefresh, input.TrainerID, deps.today(), "template published"); err != nil {
			return 0, err
		}
	}
	deps.logger().Info("template_published", zap.String("trainer_id", input.TrainerID), zap.Int64("entries", n))
	return n, nil
}

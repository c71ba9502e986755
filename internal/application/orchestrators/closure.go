package orchestrators

import (
	"context"

	"go.uber.org/zap"

	"planning/internal/domain/closure"
	"planning/internal/domain/event"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// ClosureDeps holds dependencies for the closure workflows.
type ClosureDeps struct {
	ClosureStore ClosureStoreForOrchestrator
	Effects
}

// CreateClosureInput carries input for the create closure orchestrator.
type CreateClosureInput struct {
	Start       week.Date
	End         week.Date // zero means a single day
	HalfLabel   string    // empty closes the whole day
	Reason      string
	Description string // Markdown
}

// ExecuteCreateClosure records a facility closure and tells every trainer's
// planning to refresh.
// PRE: Start is set; Reason is a known closure reason
// POST: Closure stored; a broadcast refresh is enqueued
func ExecuteCreateClosure(ctx context.Context, input CreateClosureInput, deps ClosureDeps) (closure.Closure, error) {
	half, err := slot.ParseHalf(input.HalfLabel)
	if err != nil {
		return closure.Closure{}, err
	}
	c := closure.Closure{
		ID:          deps.GenerateID(),
		Start:       input.Start,
		End:         input.End,
		Half:        half,
		Reason:      input.Reason,
		Description: input.Description,
		CreatedAt:   deps.Now(),
	}
	if err := c.Validate(); err != nil {
		return closure.Closure{}, err
	}
	if err := deps.ClosureStore.Save(ctx, c); err != nil {
		return closure.Closure{}, err
	}
	if err := deps.enqueueCommand(ctx, event.ActionRefresh, "", c.Start, "closure "+c.Reason); err != nil {
		return closure.Closure{}, err
	}

	deps.logger().Info("closure_created",
		zap.String("closure_id", c.ID), zap.String("reason", c.Reason),
		zap.String("start", c.Start.String()), zap.String("end", c.LastDay().String()))
	return c, nil
}

// DeleteClosureInput carries input for the delete closure orchestrator.
type DeleteClosureInput struct {
	ClosureID string
}

// ExecuteDeleteClosure removes a closure and broadcasts a refresh.
// PRE: ClosureID refers to an existing closure
// POST: Closure removed; a broadcast refresh is enqueued
func ExecuteDeleteClosure(ctx context.Context, input DeleteClosureInput, deps ClosureDeps) error {
	c, err := deps.ClosureStore.GetByID(ctx, input.ClosureID)
	if err != nil {
		return err
	}
	if err := deps.ClosureStore.Delete(ctx, c.ID); err != nil {
		return err
	}
	if err := deps.enqueueCommand(ctx, event.ActionRefresh, "", c.Start, "closure deleted"); err != nil {
		return err
	}
	deps.logger().Info("closure_deleted", zap.String("closure_id", c.ID))
	return nil
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"planning/internal/domain/absence"
	"planning/internal/domain/event"
	"planning/internal/domain/slot"
	"planning/internal/domain/trainer"
	"planning/internal/domain/week"
)

// AbsenceDeps holds dependencies for the absence workflows.
type AbsenceDeps struct {
	AbsenceStore AbsenceStoreForOrchestrator
	TrainerStore TrainerStoreForOrchestrator
	Effects
}

// --- Request Absence ---

// RequestAbsenceInput carries input for the request absence orchestrator.
type RequestAbsenceInput struct {
	TrainerID string
	Start     week.Date
	End       week.Date // zero means a single day
	HalfLabel string    // "matin", "apres-midi" or empty for the whole day
	Category  string
	Comment   string
}

// ExecuteRequestAbsence records a new absence awaiting a decision.
// PRE: TrainerID refers to an existing trainer
// POST: Absence stored as pending; nothing is enqueued since pending rows
// do not take part in arbitration
func ExecuteRequestAbsence(ctx context.Context, input RequestAbsenceInput, deps AbsenceDeps) (absence.Absence, error) {
	half, err := slot.ParseHalf(input.HalfLabel)
	if err != nil {
		return absence.Absence{}, err
	}
	if _, err := deps.TrainerStore.GetByID(ctx, input.TrainerID); err != nil {
		return absence.Absence{}, err
	}
	end := input.End
	if end.IsZero() {
		end = input.Start
	}

	a := absence.Absence{
		ID:        deps.GenerateID(),
		TrainerID: input.TrainerID,
		Start:     input.Start,
		End:       end,
		Half:      half,
		Category:  input.Category,
		Status:    absence.StatusPending,
		Comment:   input.Comment,
		CreatedAt: deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return absence.Absence{}, err
	}
	if err := deps.AbsenceStore.Save(ctx, a); err != nil {
		return absence.Absence{}, err
	}

	deps.logger().Info("absence_requested",
		zap.String("absence_id", a.ID), zap.String("trainer_id", a.TrainerID),
		zap.String("start", a.Start.String()), zap.String("end", a.End.String()),
		zap.String("category", a.Category))
	return a, nil
}

// --- Validate / Refuse Absence ---

// DecideAbsenceInput carries input for the validate and refuse orchestrators.
type DecideAbsenceInput struct {
	AbsenceID string
}

// ExecuteValidateAbsence accepts a pending absence. The trainer's planning is
// told to drop them (ordinary absence) or add them (exceptional availability),
// and the trainer is emailed when they have an address.
// PRE: AbsenceID refers to a pending absence
// POST: Absence is validated; a schedule command and optionally an email are enqueued
func ExecuteValidateAbsence(ctx context.Context, input DecideAbsenceInput, deps AbsenceDeps) (absence.Absence, error) {
	a, err := decideAbsence(ctx, input.AbsenceID, true, deps)
	if err != nil {
		return absence.Absence{}, err
	}

	action := event.ActionRemoveTrainer
	if a.IsExceptional() {
		action = event.ActionAddTrainer
	}
	details := fmt.Sprintf("absence %s %s..%s", a.Category, a.Start, a.End)
	if err := deps.enqueueCommand(ctx, action, a.TrainerID, a.Start, details); err != nil {
		return absence.Absence{}, err
	}
	if err := notifyTrainer(ctx, a, "validée", deps); err != nil {
		return absence.Absence{}, err
	}

	deps.logger().Info("absence_validated",
		zap.String("absence_id", a.ID), zap.String("trainer_id", a.TrainerID), zap.String("action", action))
	return a, nil
}

// ExecuteRefuseAbsence rejects a pending absence. The planning is unchanged.
// PRE: AbsenceID refers to a pending absence
// POST: Absence is refused; the trainer is emailed when they have an address
func ExecuteRefuseAbsence(ctx context.Context, input DecideAbsenceInput, deps AbsenceDeps) (absence.Absence, error) {
	a, err := decideAbsence(ctx, input.AbsenceID, false, deps)
	if err != nil {
		return absence.Absence{}, err
	}
	if err := notifyTrainer(ctx, a, "refusée", deps); err != nil {
		return absence.Absence{}, err
	}
	deps.logger().Info("absence_refused",
		zap.String("absence_id", a.ID), zap.String("trainer_id", a.TrainerID))
	return a, nil
}

func decideAbsence(ctx context.Context, id string, validated bool, deps AbsenceDeps) (absence.Absence, error) {
	a, err := deps.AbsenceStore.GetByID(ctx, id)
	if err != nil {
		return absence.Absence{}, err
	}
	if err := a.Decide(validated, deps.Now()); err != nil {
		return absence.Absence{}, err
	}
	if err := deps.AbsenceStore.Save(ctx, a); err != nil {
		return absence.Absence{}, err
	}
	return a, nil
}

// notifyTrainer enqueues the decision email. A trainer without an address,
// or no longer on file, is skipped.
func notifyTrainer(ctx context.Context, a absence.Absence, verdict string, deps AbsenceDeps) error {
	t, err := deps.TrainerStore.GetByID(ctx, a.TrainerID)
	if errors.Is(err, trainer.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if t.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Votre demande d'absence a été %s", verdict)
	body := fmt.Sprintf("Bonjour %s,\n\nVotre demande du **%s** au **%s** (%s) a été **%s**.\n",
		t.FirstName, frenchDate(a.Start), frenchDate(a.End), a.Category, verdict)
	if a.Comment != "" {
		body += "\n> " + a.Comment + "\n"
	}
	return deps.enqueueEmail(ctx, t.Email, subject, body)
}

func frenchDate(d week.Date) string {
	return d.Time().Format("02/01/2006")
}

// --- Delete Absence ---

// DeleteAbsenceInput carries input for the delete absence orchestrator.
type DeleteAbsenceInput struct {
	AbsenceID string
}

// ExecuteDeleteAbsence removes an absence. Removing a validated absence
// changes the planning, so a refresh is enqueued for its trainer.
// PRE: AbsenceID refers to an existing absence
// POST: Absence removed; a refresh is enqueued if it was validated
func ExecuteDeleteAbsence(ctx context.Context, input DeleteAbsenceInput, deps AbsenceDeps) error {
	a, err := deps.AbsenceStore.GetByID(ctx, input.AbsenceID)
	if err != nil {
		return err
	}
	if err := deps.AbsenceStore.Delete(ctx, a.ID); err != nil {
		return err
	}
	if a.IsValidated() {
		if err := deps.enqueueCommand(ctx, event.ActionRefresh, a.TrainerID, a.Start, "absence deleted"); err != nil {
			return err
		}
	}
	deps.logger().Info("absence_deleted",
		zap.String("absence_id", a.ID), zap.String("trainer_id", a.TrainerID))
	return nil
}

package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"planning/internal/domain/event"
	domainOutbox "planning/internal/domain/outbox"
	"planning/internal/domain/week"
)

// Effects groups what every write workflow needs to record its side effects.
type Effects struct {
	Outbox     OutboxWriter
	GenerateID func() string
	Now        func() time.Time
	Kick       func()      // optional: called after each enqueue to request delivery
	Logger     *zap.Logger // optional
}

func (e Effects) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// today is the calendar date of Now, in the clock's location.
func (e Effects) today() week.Date {
	return week.DateOf(e.Now())
}

// enqueueCommand appends a schedule command to the outbox.
// PRE: action is a known event action
// POST: A pending ActionTypeScheduleCommand entry is stored
func (e Effects) enqueueCommand(ctx context.Context, action, trainerID string, date week.Date, details string) error {
	cmd := event.Command{
		Action:    action,
		TrainerID: trainerID,
		Date:      date,
		Details:   details,
		IssuedAt:  e.Now(),
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	payload, err := cmd.Encode()
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	return e.enqueue(ctx, domainOutbox.ActionTypeScheduleCommand, payload,
		zap.String("action", action), zap.String("trainer_id", trainerID))
}

// enqueueEmail appends an email to the outbox.
// PRE: to is a valid address
// POST: A pending ActionTypeEmail entry is stored
func (e Effects) enqueueEmail(ctx context.Context, to, subject, markdown string) error {
	b, err := json.Marshal(domainOutbox.EmailPayload{To: to, Subject: subject, Markdown: markdown})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}
	return e.enqueue(ctx, domainOutbox.ActionTypeEmail, string(b), zap.String("subject", subject))
}

func (e Effects) enqueue(ctx context.Context, actionType, payload string, fields ...zap.Field) error {
	entry := domainOutbox.New(e.GenerateID(), actionType, payload, e.Now())
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := e.Outbox.Save(ctx, entry); err != nil {
		return fmt.Errorf("enqueue %s: %w", actionType, err)
	}
	e.logger().Debug("outbox_enqueued",
		append(fields, zap.String("entry_id", entry.ID), zap.String("action_type", actionType))...)
	if e.Kick != nil {
		e.Kick()
	}
	return nil
}

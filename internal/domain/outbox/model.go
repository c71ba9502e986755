package outbox

import (
	"errors"
	"time"
)

// Status constants for outbox entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Action types delivered by the processor.
const (
	ActionTypeScheduleCommand = "schedule_command" // payload: encoded event.Command
	ActionTypeEmail           = "email"            // payload: JSON EmailPayload
)

// DefaultMaxAttempts applies when an entry is created without a limit.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrEmptyCreatedAt  = errors.New("created_at must be set")
	ErrInvalidStatus   = errors.New("invalid status transition")
	ErrNotFound        = errors.New("outbox entry not found")
)

// EmailPayload is the JSON payload of an ActionTypeEmail entry.
type EmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Markdown string `json:"markdown"`
}

// Entry is one deferred side effect of a write workflow.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ErrorMessage    string // last delivery error
}

// New returns a pending entry ready to be stored.
// PRE: id, actionType and payload are non-empty
// POST: Returned entry passes Validate
func New(id, actionType, payload string, now time.Time) Entry {
	return Entry{
		ID:          id,
		ActionType:  actionType,
		Payload:     payload,
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now,
	}
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise; MaxAttempts defaulted
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrEmptyCreatedAt
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry reports whether the entry may be attempted again.
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying || e.Status == StatusFailed) &&
		e.Attempts < e.MaxAttempts
}

// IsTerminal reports whether the processor will never pick the entry again.
func (e *Entry) IsTerminal() bool {
	switch e.Status {
	case StatusDone, StatusAbandoned:
		return true
	case StatusFailed:
		return e.Attempts >= e.MaxAttempts
	}
	return false
}

// IsDue reports whether the backoff delay since the last attempt has elapsed.
func (e *Entry) IsDue(now time.Time, baseDelay, maxDelay time.Duration) bool {
	if e.Attempts == 0 || e.LastAttemptedAt.IsZero() {
		return true
	}
	return !now.Before(e.LastAttemptedAt.Add(e.NextRetryDelay(baseDelay, maxDelay)))
}

// MarkAttempt records a delivery attempt.
// POST: Attempts incremented, LastAttemptedAt = now, Status = retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess marks the entry delivered.
func (e *Entry) MarkSuccess() {
	e.Status = StatusDone
	e.ErrorMessage = ""
}

// MarkFailed records a delivery error. The entry becomes failed once it
// has used all its attempts and stays retrying otherwise.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned marks the entry abandoned by an admin.
// PRE: entry is not done
func (e *Entry) MarkAbandoned() error {
	if e.Status == StatusDone {
		return ErrInvalidStatus
	}
	e.Status = StatusAbandoned
	return nil
}

// ResetForRetry gives a failed entry a fresh set of attempts.
// PRE: Status is failed or abandoned
func (e *Entry) ResetForRetry() error {
	if e.Status != StatusFailed && e.Status != StatusAbandoned {
		return ErrInvalidStatus
	}
	e.Status = StatusPending
	e.Attempts = 0
	e.ErrorMessage = ""
	return nil
}

// NextRetryDelay returns 2^attempts * baseDelay, capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay time.Duration, maxDelay time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

package absence

import (
	"errors"
	"strings"
	"time"

	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Categories. CategoryExceptional marks a request for availability outside
// the template; every other value, known or not, is an ordinary absence.
const (
	CategoryExceptional = "formation"
	CategoryAbsence     = "absence"
	CategorySickness    = "maladie"
	CategoryLeave       = "conges"
	CategoryPersonal    = "personnel"
)

// Validation statuses.
const (
	StatusPending   = "en_attente"
	StatusValidated = "valide"
	StatusRefused   = "refuse"
)

// Domain errors
var (
	ErrEmptyTrainerID = errors.New("trainer ID cannot be empty")
	ErrEmptyStartDate = errors.New("start date cannot be zero")
	ErrEmptyEndDate   = errors.New("end date cannot be zero")
	ErrInvalidDates   = errors.New("start date must be before or equal to end date")
	ErrEmptyCategory  = errors.New("category cannot be empty")
	ErrInvalidStatus  = errors.New("invalid absence status")
	ErrNotPending     = errors.New("absence has already been decided")
	ErrNotFound       = errors.New("absence not found")
)

// Absence is a date-ranged entry for a trainer: either an ordinary absence or
// an exceptional-availability request, depending on Category.
type Absence struct {
	ID        string
	TrainerID string
	Start     week.Date
	End       week.Date // inclusive
	Half      slot.Half // WholeDay covers both halves
	Category  string
	Status    string
	Comment   string
	CreatedAt time.Time
	DecidedAt time.Time
}

// Validate checks if the Absence has valid data.
// PRE: Absence struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Absence) Validate() error {
	if strings.TrimSpace(a.TrainerID) == "" {
		return ErrEmptyTrainerID
	}
	if a.Start.IsZero() {
		return ErrEmptyStartDate
	}
	if a.End.IsZero() {
		return ErrEmptyEndDate
	}
	if a.End.Before(a.Start) {
		return ErrInvalidDates
	}
	if strings.TrimSpace(a.Category) == "" {
		return ErrEmptyCategory
	}
	switch a.Status {
	case StatusPending, StatusValidated, StatusRefused:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// IsValidated reports whether the entry takes part in arbitration.
func (a Absence) IsValidated() bool {
	return a.Status == StatusValidated
}

// IsExceptional reports whether the entry is an exceptional-availability request.
func (a Absence) IsExceptional() bool {
	return strings.EqualFold(strings.TrimSpace(a.Category), CategoryExceptional)
}

// HasInvertedRange reports whether End falls before Start.
func (a Absence) HasInvertedRange() bool {
	return a.End.Before(a.Start)
}

// Covers reports whether the entry applies to the given date and half.
// INVARIANT: Absence fields are not mutated
func (a Absence) Covers(date week.Date, half slot.Half) bool {
	return date.Between(a.Start, a.End) && a.Half.Covers(half)
}

// Decide moves a pending absence to validated or refused.
// PRE: a.Status is StatusPending
// POST: Status and DecidedAt are set
func (a *Absence) Decide(validated bool, now time.Time) error {
	if a.Status != StatusPending {
		return ErrNotPending
	}
	if validated {
		a.Status = StatusValidated
	} else {
		a.Status = StatusRefused
	}
	a.DecidedAt = now
	return nil
}

package availability

import (
	"errors"
	"strings"
	"time"

	"planning/internal/domain/slot"
)

// Status values stored alongside template entries. Only StatusAvailable
// entries describe normal availability.
const (
	StatusAvailable   = "disponible"
	StatusUnavailable = "indisponible"
	StatusOnRequest   = "sur_demande"
)

// Domain errors
var (
	ErrEmptyTrainerID = errors.New("trainer ID cannot be empty")
	ErrEmptyDay       = errors.New("weekday cannot be empty")
	ErrWholeDay       = errors.New("template entries must target a single half-day")
	ErrInvalidStatus  = errors.New("invalid availability status")
	ErrNotFound       = errors.New("template entry not found")
)

// Entry is one recurring weekly availability of a trainer: "normally
// available on this weekday half, preferably at this location".
type Entry struct {
	ID         string
	TrainerID  string
	Day        string    // weekday label as stored, e.g. "Lundi"
	Half       slot.Half // Morning or Afternoon
	LocationID string    // preferred location, empty for no preference
	Status     string
	Published  bool // set by the admin validation workflow
	CreatedAt  time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.TrainerID) == "" {
		return ErrEmptyTrainerID
	}
	if strings.TrimSpace(e.Day) == "" {
		return ErrEmptyDay
	}
	if e.Half == slot.WholeDay {
		return ErrWholeDay
	}
	switch e.Status {
	case StatusAvailable, StatusUnavailable, StatusOnRequest:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// IsArbitrable reports whether the entry takes part in week arbitration:
// published and describing normal availability.
// INVARIANT: Entry fields are not mutated
func (e Entry) IsArbitrable() bool {
	return e.Published && e.Status == StatusAvailable
}

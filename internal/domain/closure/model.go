package closure

import (
	"errors"
	"time"

	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Reason codes.
const (
	ReasonPublicHoliday = "ferie"
	ReasonVacation      = "vacances"
	ReasonClosed        = "fermeture"
	ReasonStaffTraining = "formation"
	ReasonOther         = "autre"
)

// ValidReasons lists every accepted reason code.
var ValidReasons = []string{ReasonPublicHoliday, ReasonVacation, ReasonClosed, ReasonStaffTraining, ReasonOther}

// Domain errors
var (
	ErrEmptyStartDate = errors.New("start date cannot be zero")
	ErrInvalidDates   = errors.New("start date must be before or equal to end date")
	ErrInvalidReason  = errors.New("invalid closure reason")
	ErrNotFound       = errors.New("closure not found")
)

// Closure is a facility-wide period during which nobody works. It outranks
// every other planning input.
type Closure struct {
	ID          string
	Start       week.Date
	End         week.Date // zero means a single day
	Half        slot.Half // WholeDay closes both halves
	Reason      string
	Description string // Markdown
	CreatedAt   time.Time
}

// Validate checks if the Closure has valid data.
// PRE: Closure struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Closure) Validate() error {
	if c.Start.IsZero() {
		return ErrEmptyStartDate
	}
	if !c.End.IsZero() && c.End.Before(c.Start) {
		return ErrInvalidDates
	}
	if !isValidReason(c.Reason) {
		return ErrInvalidReason
	}
	return nil
}

// LastDay returns End, or Start for an open-ended single-day closure.
func (c Closure) LastDay() week.Date {
	if c.End.IsZero() {
		return c.Start
	}
	return c.End
}

// HasInvertedRange reports whether an explicit End falls before Start.
func (c Closure) HasInvertedRange() bool {
	return !c.End.IsZero() && c.End.Before(c.Start)
}

// Covers reports whether the closure shuts the given date and half.
// INVARIANT: Closure fields are not mutated
func (c Closure) Covers(date week.Date, half slot.Half) bool {
	return date.Between(c.Start, c.LastDay()) && c.Half.Covers(half)
}

func isValidReason(r string) bool {
	for _, v := range ValidReasons {
		if v == r {
			return true
		}
	}
	return false
}

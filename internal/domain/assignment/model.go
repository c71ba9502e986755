package assignment

import (
	"errors"
	"sort"
	"strings"
	"time"

	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Domain errors
var (
	ErrEmptyDate       = errors.New("assignment date cannot be zero")
	ErrEmptyDay        = errors.New("assignment weekday cannot be empty")
	ErrWholeDay        = errors.New("assignment must target a single half-day")
	ErrEmptyLocationID = errors.New("assignment location cannot be empty")
	ErrNoTrainers      = errors.New("assignment must place at least one trainer")
	ErrNotFound        = errors.New("assignment not found")
)

// Assignment is a coordinator's placement of trainers at a location for one
// date and half-day. Several rows may target the same cell; the most recent wins.
type Assignment struct {
	ID         string
	Date       week.Date
	Day        string // weekday label, e.g. "Lundi"
	Half       slot.Half
	LocationID string
	TrainerIDs []string
	CreatedAt  time.Time
}

// Validate checks if the Assignment has valid data.
// PRE: Assignment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Assignment) Validate() error {
	if a.Date.IsZero() {
		return ErrEmptyDate
	}
	if strings.TrimSpace(a.Day) == "" {
		return ErrEmptyDay
	}
	if a.Half == slot.WholeDay {
		return ErrWholeDay
	}
	if strings.TrimSpace(a.LocationID) == "" {
		return ErrEmptyLocationID
	}
	if len(a.TrainerIDs) == 0 {
		return ErrNoTrainers
	}
	return nil
}

// Includes reports whether trainerID is placed by this assignment.
// INVARIANT: Assignment fields are not mutated
func (a Assignment) Includes(trainerID string) bool {
	for _, id := range a.TrainerIDs {
		if id == trainerID {
			return true
		}
	}
	return false
}

// NewerThan orders assignments by CreatedAt, breaking ties on ID so the
// choice never depends on fetch order.
func (a Assignment) NewerThan(o Assignment) bool {
	if !a.CreatedAt.Equal(o.CreatedAt) {
		return a.CreatedAt.After(o.CreatedAt)
	}
	return a.ID > o.ID
}

// NormalizeTrainerIDs trims, drops blanks and dedupes ids, returning them sorted.
func NormalizeTrainerIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

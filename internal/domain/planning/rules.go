package planning

import (
	"strings"

	"planning/internal/domain/absence"
	"planning/internal/domain/assignment"
	"planning/internal/domain/availability"
	"planning/internal/domain/closure"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Cell is one of the ten (weekday, half) coordinates being resolved.
type Cell struct {
	Day     int // 0 = Monday
	Half    slot.Half
	Date    week.Date
	Weekday string // label used by template and assignment rows
}

// Match carries what a rule took from the input row that won the cell.
type Match struct {
	SourceID    string
	LocationID  string
	Reason      string
	Description string
	Category    string
}

// Rule is one precedence level: a lookup over the sources that either
// claims the cell or lets the next rule try. Rules are evaluated in slice
// order and the first match wins.
type Rule struct {
	Name       string
	Status     Status
	Precedence int
	Match      func(c Cell, src *Sources) (Match, bool)
}

// DefaultRules returns the precedence order: closure, exceptional
// availability, absence, coordinator assignment, template.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "closure", Status: StatusFacilityClosed, Precedence: 0, Match: matchClosure},
		{Name: "exceptional_availability", Status: StatusExceptionallyAvailable, Precedence: 1, Match: matchExceptional},
		{Name: "absence", Status: StatusAbsent, Precedence: 2, Match: matchAbsence},
		{Name: "coordinator_assignment", Status: StatusCoordinatorAssigned, Precedence: 3, Match: matchAssignment},
		{Name: "template", Status: StatusAvailable, Precedence: 4, Match: matchTemplate},
	}
}

func matchClosure(c Cell, src *Sources) (Match, bool) {
	cl, ok := src.ClosureFor(c)
	if !ok {
		return Match{}, false
	}
	return Match{SourceID: cl.ID, Reason: cl.Reason, Description: cl.Description}, true
}

func matchExceptional(c Cell, src *Sources) (Match, bool) {
	a, ok := src.AbsenceFor(c)
	if !ok || !a.IsExceptional() {
		return Match{}, false
	}
	return Match{SourceID: a.ID, Category: a.Category}, true
}

// matchAbsence claims any absence left after matchExceptional. Because the
// two share AbsenceFor, an absent cell never reaches the assignment rule.
func matchAbsence(c Cell, src *Sources) (Match, bool) {
	a, ok := src.AbsenceFor(c)
	if !ok || a.IsExceptional() {
		return Match{}, false
	}
	return Match{SourceID: a.ID, Category: a.Category}, true
}

func matchAssignment(c Cell, src *Sources) (Match, bool) {
	a, ok := src.AssignmentFor(c)
	if !ok {
		return Match{}, false
	}
	return Match{SourceID: a.ID, LocationID: a.LocationID}, true
}

func matchTemplate(c Cell, src *Sources) (Match, bool) {
	e, ok := src.TemplateFor(c)
	if !ok {
		return Match{}, false
	}
	return Match{SourceID: e.ID, LocationID: e.LocationID}, true
}

// Sources holds the sanitized inputs of one arbitration run. The slices are
// private copies; lookups never modify them.
type Sources struct {
	TrainerID   string
	Template    []availability.Entry
	Absences    []absence.Absence
	Assignments []assignment.Assignment
	Closures    []closure.Closure
}

// ClosureFor returns the closure shutting the cell. Overlapping closures
// resolve to the most recently created.
func (s *Sources) ClosureFor(c Cell) (closure.Closure, bool) {
	var best closure.Closure
	found := false
	for _, cl := range s.Closures {
		if !cl.Covers(c.Date, c.Half) {
			continue
		}
		if !found || newer(cl.CreatedAt.UnixNano(), cl.ID, best.CreatedAt.UnixNano(), best.ID) {
			best, found = cl, true
		}
	}
	return best, found
}

// AbsenceFor returns the absence applying to the cell. When several overlap,
// exceptional availability wins over any other category, then the most
// recently created entry, then the greatest ID.
func (s *Sources) AbsenceFor(c Cell) (absence.Absence, bool) {
	var best absence.Absence
	found := false
	for _, a := range s.Absences {
		if !a.Covers(c.Date, c.Half) {
			continue
		}
		if !found {
			best, found = a, true
			continue
		}
		if a.IsExceptional() != best.IsExceptional() {
			if a.IsExceptional() {
				best = a
			}
			continue
		}
		if newer(a.CreatedAt.UnixNano(), a.ID, best.CreatedAt.UnixNano(), best.ID) {
			best = a
		}
	}
	return best, found
}

// AssignmentFor returns the most recent assignment placing the trainer on
// the cell's weekday and half. Rows carrying a date only match that date.
func (s *Sources) AssignmentFor(c Cell) (assignment.Assignment, bool) {
	var best assignment.Assignment
	found := false
	for _, a := range s.Assignments {
		if a.Half != c.Half || !sameLabel(a.Day, c.Weekday) {
			continue
		}
		if !a.Date.IsZero() && a.Date != c.Date {
			continue
		}
		if !a.Includes(s.TrainerID) {
			continue
		}
		if !found || a.NewerThan(best) {
			best, found = a, true
		}
	}
	return best, found
}

// TemplateFor returns the published template entry for the cell's weekday and half.
func (s *Sources) TemplateFor(c Cell) (availability.Entry, bool) {
	var best availability.Entry
	found := false
	for _, e := range s.Template {
		if e.Half != c.Half || !sameLabel(e.Day, c.Weekday) {
			continue
		}
		if !found || newer(e.CreatedAt.UnixNano(), e.ID, best.CreatedAt.UnixNano(), best.ID) {
			best, found = e, true
		}
	}
	return best, found
}

func newer(aAt int64, aID string, bAt int64, bID string) bool {
	if aAt != bAt {
		return aAt > bAt
	}
	return aID > bID
}

func sameLabel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

package planning

import (
	"go.uber.org/zap"

	"planning/internal/domain/absence"
	"planning/internal/domain/assignment"
	"planning/internal/domain/availability"
	"planning/internal/domain/closure"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Inputs are the four collections reconciled for one trainer and one week.
// Template, Absences and Assignments are expected to be pre-filtered to the
// trainer; Closures are facility-wide. A zero Weekdays uses slot.DefaultWeekdays.
type Inputs struct {
	TrainerID   string
	Template    []availability.Entry
	Absences    []absence.Absence
	Assignments []assignment.Assignment
	Closures    []closure.Closure
	WeekDates   [5]week.Date
	Weekdays    slot.Weekdays
}

// ResolvedSlot is the arbitrated state of one (weekday, half) cell. It is a
// derived view and never persisted.
type ResolvedSlot struct {
	Day                int       `json:"day"`
	Weekday            string    `json:"weekday"`
	Half               slot.Half `json:"half"`
	Date               week.Date `json:"date"`
	Status             Status    `json:"status"`
	LocationID         string    `json:"location_id,omitempty"`
	Precedence         int       `json:"precedence"`
	ClosureReason      string    `json:"closure_reason,omitempty"`
	ClosureDescription string    `json:"closure_description,omitempty"`
	AbsenceCategory    string    `json:"absence_category,omitempty"`
	SourceID           string    `json:"source_id,omitempty"`
}

// Slot returns the cell coordinate of r.
func (r ResolvedSlot) Slot() slot.WeekSlot {
	return slot.WeekSlot{Day: r.Day, Half: r.Half}
}

// Arbitrator resolves weekly schedules with a fixed, ordered rule list.
// It holds no mutable state and is safe for concurrent use.
type Arbitrator struct {
	rules  []Rule
	logger *zap.Logger
}

// Option configures an Arbitrator.
type Option func(*Arbitrator)

// WithLogger sets the logger used to report skipped input rows.
func WithLogger(l *zap.Logger) Option {
	return func(a *Arbitrator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRules replaces the default precedence order.
func WithRules(rules []Rule) Option {
	return func(a *Arbitrator) {
		a.rules = append([]Rule(nil), rules...)
	}
}

// NewArbitrator builds an Arbitrator using DefaultRules and a no-op logger
// unless overridden.
func NewArbitrator(opts ...Option) *Arbitrator {
	a := &Arbitrator{rules: DefaultRules(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultArbitrator = NewArbitrator()

// Arbitrate resolves in with the default rules and no logging.
func Arbitrate(in Inputs) []ResolvedSlot {
	return defaultArbitrator.Arbitrate(in)
}

// Arbitrate reconciles template, absences, assignments and closures into
// at most one resolved entry per weekday and half.
// PRE: in.WeekDates holds Monday..Friday of the target week
// POST: Output is ordered by day then half, holds no duplicate cell, and
// omits cells no rule matched. Inputs are not modified.
func (a *Arbitrator) Arbitrate(in Inputs) []ResolvedSlot {
	weekdays := in.Weekdays
	if weekdays == (slot.Weekdays{}) {
		weekdays = slot.DefaultWeekdays
	}
	src := a.sanitize(in)

	out := make([]ResolvedSlot, 0, len(in.WeekDates)*len(slot.Halves))
	for day, date := range in.WeekDates {
		for _, half := range slot.Halves {
			c := Cell{Day: day, Half: half, Date: date, Weekday: weekdays[day]}
			if r, ok := a.resolve(c, src); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

func (a *Arbitrator) resolve(c Cell, src *Sources) (ResolvedSlot, bool) {
	for _, rule := range a.rules {
		m, ok := rule.Match(c, src)
		if !ok {
			continue
		}
		return ResolvedSlot{
			Day:                c.Day,
			Weekday:            c.Weekday,
			Half:               c.Half,
			Date:               c.Date,
			Status:             rule.Status,
			LocationID:         m.LocationID,
			Precedence:         rule.Precedence,
			ClosureReason:      m.Reason,
			ClosureDescription: m.Description,
			AbsenceCategory:    m.Category,
			SourceID:           m.SourceID,
		}, true
	}
	return ResolvedSlot{}, false
}

// sanitize copies the rows that may take part in arbitration. Pending or
// refused absences and unpublished template entries are dropped silently;
// rows with an inverted date range are logged and dropped.
func (a *Arbitrator) sanitize(in Inputs) *Sources {
	src := &Sources{TrainerID: in.TrainerID}

	for _, e := range in.Template {
		if !e.IsArbitrable() || !belongsTo(e.TrainerID, in.TrainerID) {
			continue
		}
		src.Template = append(src.Template, e)
	}

	for _, ab := range in.Absences {
		if !ab.IsValidated() || !belongsTo(ab.TrainerID, in.TrainerID) {
			continue
		}
		if ab.HasInvertedRange() {
			a.logger.Warn("arbitration_skipped_absence",
				zap.String("absence_id", ab.ID),
				zap.String("trainer_id", ab.TrainerID),
				zap.String("start", ab.Start.String()),
				zap.String("end", ab.End.String()))
			continue
		}
		src.Absences = append(src.Absences, ab)
	}

	for _, as := range in.Assignments {
		if as.Half == slot.WholeDay {
			a.logger.Warn("arbitration_skipped_assignment",
				zap.String("assignment_id", as.ID),
				zap.String("reason", "missing half"))
			continue
		}
		as.TrainerIDs = append([]string(nil), as.TrainerIDs...)
		src.Assignments = append(src.Assignments, as)
	}

	for _, cl := range in.Closures {
		if cl.HasInvertedRange() {
			a.logger.Warn("arbitration_skipped_closure",
				zap.String("closure_id", cl.ID),
				zap.String("start", cl.Start.String()),
				zap.String("end", cl.End.String()))
			continue
		}
		src.Closures = append(src.Closures, cl)
	}
	return src
}

// belongsTo accepts rows carrying no trainer id, since callers may pass
// collections already scoped to the trainer.
func belongsTo(rowTrainerID, trainerID string) bool {
	return rowTrainerID == "" || trainerID == "" || rowTrainerID == trainerID
}

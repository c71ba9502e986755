package projections

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	domainAbsence "planning/internal/domain/absence"
	domainAssignment "planning/internal/domain/assignment"
	domainAvailability "planning/internal/domain/availability"
	domainClosure "planning/internal/domain/closure"
	domainLocation "planning/internal/domain/location"
	"planning/internal/domain/planning"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// Source names reported in Degraded when a fetch fails.
const (
	SourceTemplate    = "template"
	SourceAbsences    = "absences"
	SourceAssignments = "assignments"
	SourceClosures    = "closures"
	SourceLocations   = "locations"
)

// ErrEmptyTrainerID is returned when a trainer week is requested without a trainer.
var ErrEmptyTrainerID = errors.New("trainer ID is required")

// GetTrainerWeekQuery carries query parameters.
type GetTrainerWeekQuery struct {
	TrainerID string
	Anchor    week.Date // any day of the wanted week
}

// GetTrainerWeekDeps holds dependencies for GetTrainerWeek.
type GetTrainerWeekDeps struct {
	TrainerStore    TrainerStore
	LocationStore   LocationStore // optional: nil leaves location names empty
	TemplateStore   TemplateStore
	AbsenceStore    AbsenceStore
	AssignmentStore AssignmentStore
	ClosureStore    ClosureStore
	Arbitrator      *planning.Arbitrator // optional: nil uses the default rules
	Weekdays        slot.Weekdays        // optional: zero uses slot.DefaultWeekdays
	Logger          *zap.Logger          // optional
}

// Cell is one rendered half-day of a week grid.
type Cell struct {
	Date          week.Date             `json:"date"`
	Weekday       string                `json:"weekday"`
	Half          slot.Half             `json:"half"`
	Resolved      bool                  `json:"resolved"`
	Slot          planning.ResolvedSlot `json:"-"`
	Label         string                `json:"label"`
	LocationName  string                `json:"location_name,omitempty"`
	LocationShort string                `json:"location_short,omitempty"`
	LocationColor string                `json:"location_color,omitempty"`
	Background    string                `json:"background"`
	Border        string                `json:"border"`
	Text          string                `json:"text"`
}

// TrainerWeek is the arbitrated week of one trainer.
type TrainerWeek struct {
	TrainerID   string                  `json:"trainer_id"`
	TrainerName string                  `json:"trainer_name"`
	Dates       [5]week.Date            `json:"dates"`
	Weekdays    slot.Weekdays           `json:"weekdays"`
	WeekNumber  int                     `json:"week_number"`
	Slots       []planning.ResolvedSlot `json:"slots"`
	Grid        [5][2]Cell              `json:"grid"`
	Degraded    []string                `json:"degraded,omitempty"` // sources that failed and were replaced by empty data
}

// IsDegraded reports whether any source failed to load.
func (w TrainerWeek) IsDegraded() bool {
	return len(w.Degraded) > 0
}

// QueryGetTrainerWeek arbitrates the week containing query.Anchor for one trainer.
// The four planning sources and the location list are fetched concurrently.
// PRE: TrainerID is non-empty; stores are set
// POST: Returns the week, or the trainer lookup error. A failed source is
// replaced by an empty collection and named in Degraded.
func QueryGetTrainerWeek(ctx context.Context, query GetTrainerWeekQuery, deps GetTrainerWeekDeps) (TrainerWeek, error) {
	if query.TrainerID == "" {
		return TrainerWeek{}, ErrEmptyTrainerID
	}
	logger := deps.logger()

	t, err := deps.TrainerStore.GetByID(ctx, query.TrainerID)
	if err != nil {
		return TrainerWeek{}, err
	}

	dates := week.WeekDatesFor(query.Anchor)
	from, to := dates[0], dates[len(dates)-1]
	deg := &degradation{logger: logger.With(zap.String("trainer_id", t.ID))}

	var (
		wg          sync.WaitGroup
		template    []domainAvailability.Entry
		absences    []domainAbsence.Absence
		assignments []domainAssignment.Assignment
		closures    []domainClosure.Closure
		locations   []domainLocation.Location
	)
	wg.Go(func() {
		template = fetch(deg, SourceTemplate, func() ([]domainAvailability.Entry, error) {
			return deps.TemplateStore.ListPublishedByTrainer(ctx, t.ID)
		})
	})
	wg.Go(func() {
		absences = fetch(deg, SourceAbsences, func() ([]domainAbsence.Absence, error) {
			return deps.AbsenceStore.ListValidatedForTrainer(ctx, t.ID, from, to)
		})
	})
	wg.Go(func() {
		assignments = fetch(deg, SourceAssignments, func() ([]domainAssignment.Assignment, error) {
			return deps.AssignmentStore.ListForTrainer(ctx, t.ID, from, to)
		})
	})
	wg.Go(func() {
		closures = fetch(deg, SourceClosures, func() ([]domainClosure.Closure, error) {
			return deps.ClosureStore.ListOverlapping(ctx, from, to)
		})
	})
	if deps.LocationStore != nil {
		wg.Go(func() {
			locations = fetch(deg, SourceLocations, func() ([]domainLocation.Location, error) {
				return deps.LocationStore.List(ctx)
			})
		})
	}
	wg.Wait()

	// A cancelled load is stale, not degraded.
	if err := ctx.Err(); err != nil {
		return TrainerWeek{}, err
	}

	weekdays := deps.weekdays()
	slots := deps.arbitrator().Arbitrate(planning.Inputs{
		TrainerID:   t.ID,
		Template:    template,
		Absences:    absences,
		Assignments: assignments,
		Closures:    closures,
		WeekDates:   dates,
		Weekdays:    weekdays,
	})

	return TrainerWeek{
		TrainerID:   t.ID,
		TrainerName: t.DisplayName(),
		Dates:       dates,
		Weekdays:    weekdays,
		WeekNumber:  week.ISOWeekNumber(from),
		Slots:       slots,
		Grid:        BuildGrid(dates, weekdays, slots, indexLocations(locations)),
		Degraded:    deg.sources(),
	}, nil
}

// BuildGrid lays resolved slots out as 5 days by 2 halves. Cells no rule
// resolved carry the empty label and the neutral palette.
// POST: Grid[d][h] describes dates[d] and slot.Halves[h]
func BuildGrid(dates [5]week.Date, weekdays slot.Weekdays, slots []planning.ResolvedSlot, locations map[string]domainLocation.Location) [5][2]Cell {
	var grid [5][2]Cell
	for d, date := range dates {
		for h, half := range slot.Halves {
			grid[d][h] = Cell{
				Date:       date,
				Weekday:    weekdays[d],
				Half:       half,
				Label:      planning.EmptyCellLabel,
				Background: planning.BackgroundColor(planning.ResolvedSlot{}),
				Border:     planning.BorderColor(planning.ResolvedSlot{}),
				Text:       planning.TextColor(planning.ResolvedSlot{}),
			}
		}
	}
	for _, s := range slots {
		if s.Day < 0 || s.Day >= len(dates) {
			continue
		}
		h := slices.Index(slot.Halves[:], s.Half)
		if h < 0 {
			continue
		}
		c := &grid[s.Day][h]
		c.Resolved = true
		c.Slot = s
		c.Label = s.Label()
		c.Background = planning.BackgroundColor(s)
		c.Border = planning.BorderColor(s)
		c.Text = planning.TextColor(s)
		if l, ok := locations[s.LocationID]; ok {
			c.LocationName = l.Name
			c.LocationShort = l.ShortName()
			c.LocationColor = l.ColorOrDefault()
		}
	}
	return grid
}

func indexLocations(locations []domainLocation.Location) map[string]domainLocation.Location {
	m := make(map[string]domainLocation.Location, len(locations))
	for _, l := range locations {
		m[l.ID] = l
	}
	return m
}

// degradation collects the sources that failed during one load.
type degradation struct {
	logger *zap.Logger

	mu     sync.Mutex
	failed []string
}

func (d *degradation) fail(source string, err error) {
	d.mu.Lock()
	d.failed = append(d.failed, source)
	d.mu.Unlock()
	if errors.Is(err, context.Canceled) {
		return
	}
	d.logger.Warn("week_source_degraded", zap.String("source", source), zap.Error(err))
}

func (d *degradation) sources() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.failed) == 0 {
		return nil
	}
	out := slices.Clone(d.failed)
	slices.Sort(out)
	return out
}

// fetch runs load and substitutes an empty collection on failure.
func fetch[T any](d *degradation, source string, load func() ([]T, error)) []T {
	v, err := load()
	if err != nil {
		d.fail(source, err)
		return []T{}
	}
	return v
}

func (deps GetTrainerWeekDeps) logger() *zap.Logger {
	if deps.Logger == nil {
		return zap.NewNop()
	}
	return deps.Logger
}

func (deps GetTrainerWeekDeps) arbitrator() *planning.Arbitrator {
	if deps.Arbitrator == nil {
		return planning.NewArbitrator(planning.WithLogger(deps.logger()))
	}
	return deps.Arbitrator
}

func (deps GetTrainerWeekDeps) weekdays() slot.Weekdays {
	if deps.Weekdays == (slot.Weekdays{}) {
		return slot.DefaultWeekdays
	}
	return deps.Weekdays
}

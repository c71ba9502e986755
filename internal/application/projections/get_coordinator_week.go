package projections

import (
	"context"
	"fmt"
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

// templateFetchLimit bounds concurrent per-trainer template queries.
const templateFetchLimit = 4

// GetCoordinatorWeekQuery carries query parameters.
type GetCoordinatorWeekQuery struct {
	Anchor week.Date
}

// CoordinatorRow is the arbitrated week of one trainer in the coordinator grid.
type CoordinatorRow struct {
	TrainerID   string                  `json:"trainer_id"`
	TrainerName string                  `json:"trainer_name"`
	Slots       []planning.ResolvedSlot `json:"slots"`
	Grid        [5][2]Cell              `json:"grid"`
}

// CoordinatorWeek is the arbitrated week of every active trainer.
type CoordinatorWeek struct {
	Dates      [5]week.Date     `json:"dates"`
	Weekdays   slot.Weekdays    `json:"weekdays"`
	WeekNumber int              `json:"week_number"`
	Rows       []CoordinatorRow `json:"rows"`
	Degraded   []string         `json:"degraded,omitempty"`
}

// QueryGetCoordinatorWeek arbitrates the week containing query.Anchor for
// every active trainer. Absences, assignments, closures and locations are
// fetched once and shared between trainers.
// PRE: stores are set
// POST: One row per active trainer, in store order. Failed sources are
// named in Degraded; a per-trainer template failure as "template:<id>".
func QueryGetCoordinatorWeek(ctx context.Context, query GetCoordinatorWeekQuery, deps GetTrainerWeekDeps) (CoordinatorWeek, error) {
	logger := deps.logger()
	trainers, err := deps.TrainerStore.ListActive(ctx)
	if err != nil {
		return CoordinatorWeek{}, fmt.Errorf("list active trainers: %w", err)
	}

	dates := week.WeekDatesFor(query.Anchor)
	from, to := dates[0], dates[len(dates)-1]
	deg := &degradation{logger: logger}

	var (
		wg          sync.WaitGroup
		absences    []domainAbsence.Absence
		assignments []domainAssignment.Assignment
		closures    []domainClosure.Closure
		locations   []domainLocation.Location
		templates   = make([][]domainAvailability.Entry, len(trainers))
	)
	wg.Go(func() {
		absences = fetch(deg, SourceAbsences, func() ([]domainAbsence.Absence, error) {
			return deps.AbsenceStore.ListForRange(ctx, from, to)
		})
	})
	wg.Go(func() {
		assignments = fetch(deg, SourceAssignments, func() ([]domainAssignment.Assignment, error) {
			return deps.AssignmentStore.ListForRange(ctx, from, to)
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
	sem := make(chan struct{}, templateFetchLimit)
	for i, t := range trainers {
		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			templates[i] = fetch(deg, SourceTemplate+":"+t.ID, func() ([]domainAvailability.Entry, error) {
				return deps.TemplateStore.ListPublishedByTrainer(ctx, t.ID)
			})
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return CoordinatorWeek{}, err
	}

	weekdays := deps.weekdays()
	arb := deps.arbitrator()
	byID := indexLocations(locations)
	rows := make([]CoordinatorRow, 0, len(trainers))
	for i, t := range trainers {
		slots := arb.Arbitrate(planning.Inputs{
			TrainerID:   t.ID,
			Template:    templates[i],
			Absences:    absences,
			Assignments: assignments,
			Closures:    closures,
			WeekDates:   dates,
			Weekdays:    weekdays,
		})
		rows = append(rows, CoordinatorRow{
			TrainerID:   t.ID,
			TrainerName: t.DisplayName(),
			Slots:       slots,
			Grid:        BuildGrid(dates, weekdays, slots, byID),
		})
	}

	logger.Debug("coordinator_week_arbitrated",
		zap.String("from", from.String()), zap.Int("trainers", len(rows)))
	return CoordinatorWeek{
		Dates:      dates,
		Weekdays:   weekdays,
		WeekNumber: week.ISOWeekNumber(from),
		Rows:       rows,
		Degraded:   deg.sources(),
	}, nil
}

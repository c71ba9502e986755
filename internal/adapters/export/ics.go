package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"planning/internal/application/projections"
	"planning/internal/domain/week"
)

// ProductID identifies the generating application in exported calendars.
const ProductID = "-//ACLEF//Planning//FR"

// WriteTrainerWeekICS writes one calendar event per resolved half-day of the
// week. Mornings run 09:00-12:00 and afternoons 13:30-17:00 in loc.
// PRE: loc is non-nil
// POST: A complete iCalendar document is written to w
func WriteTrainerWeekICS(w io.Writer, tw projections.TrainerWeek, loc *time.Location, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName(fmt.Sprintf("Planning %s, semaine %d", tw.TrainerName, tw.WeekNumber))

	for d := range tw.Grid {
		for _, c := range tw.Grid[d] {
			if !c.Resolved {
				continue
			}
			start, end := halfBounds(c, loc)
			ev := cal.AddEvent(fmt.Sprintf("%s-%s-%s@planning.aclef.fr", tw.TrainerID, c.Date, c.Half.Code()))
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(start)
			ev.SetEndAt(end)
			ev.SetSummary(c.Label)
			if c.LocationName != "" {
				ev.SetLocation(c.LocationName)
			}
			if c.Slot.ClosureDescription != "" {
				ev.SetDescription(c.Slot.ClosureDescription)
			}
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("write ics: %w", err)
	}
	return nil
}

// halfBounds returns the local start and end times of a cell.
func halfBounds(c projections.Cell, loc *time.Location) (time.Time, time.Time) {
	hours := halfHours[c.Half]
	return at(c.Date, hours[0].h, hours[0].m, loc), at(c.Date, hours[1].h, hours[1].m, loc)
}

func at(d week.Date, hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

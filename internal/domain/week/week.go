package week

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used at every boundary.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a string is not a YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

// Date is a calendar day. It carries no time-of-day and no zone, so two
// Dates compare equal whenever they name the same day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate parses an ISO YYYY-MM-DD string.
// PRE: s is non-empty
// POST: Returns the date or ErrInvalidDate
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats d as YYYY-MM-DD. The zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight UTC of d. UTC has no DST, so day arithmetic on the
// result is exact.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Between reports whether start <= d <= end.
func (d Date) Between(start, end Date) bool {
	return d.Compare(start) >= 0 && d.Compare(end) <= 0
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// WeekdayIndex returns 0 for Monday through 4 for Friday, and -1 on weekends.
func (d Date) WeekdayIndex() int {
	switch wd := d.Weekday(); wd {
	case time.Saturday, time.Sunday:
		return -1
	default:
		return int(wd) - 1
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// WeekDatesFor returns the Monday..Friday dates of the week containing anchor.
// Sunday is treated as the last day of the previous week.
// PRE: anchor is a valid date
// POST: result[0] is a Monday and result[i] = result[0] + i days
func WeekDatesFor(anchor Date) [5]Date {
	dow := int(anchor.Weekday())
	offset := 1 - dow
	if dow == 0 {
		offset = -6
	}
	monday := anchor.AddDays(offset)

	var dates [5]Date
	for i := range dates {
		dates[i] = monday.AddDays(i)
	}
	return dates
}

// ISOWeekNumber returns the ISO-8601 week number of d. Week 1 is the week
// holding the year's first Thursday.
func ISOWeekNumber(d Date) int {
	_, w := ISOWeek(d)
	return w
}

// ISOWeek returns the ISO-8601 year and week number of d.
func ISOWeek(d Date) (year, week int) {
	// The Thursday of d's week decides which year the week belongs to.
	t := d.Time()
	dow := int(t.Weekday())
	if dow == 0 {
		dow = 7
	}
	thursday := t.AddDate(0, 0, 4-dow)
	year = thursday.Year()
	week = (thursday.YearDay()-1)/7 + 1
	return year, week
}

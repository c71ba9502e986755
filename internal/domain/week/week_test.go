package week_test

import (
	"encoding/json"
	"testing"
	"time"

	"planning/internal/domain/week"
)

// TestWeekDatesFor tests Monday..Friday resolution, including the Sunday rule.
func TestWeekDatesFor(t *testing.T) {
	tests := []struct {
		name       string
		anchor     string
		wantMonday string
		wantFriday string
	}{
		{"monday anchor", "2025-03-10", "2025-03-10", "2025-03-14"},
		{"wednesday anchor", "2025-03-12", "2025-03-10", "2025-03-14"},
		{"friday anchor", "2025-03-14", "2025-03-10", "2025-03-14"},
		{"saturday anchor", "2025-03-15", "2025-03-10", "2025-03-14"},
		{"sunday belongs to previous week", "2025-03-16", "2025-03-10", "2025-03-14"},
		{"across month boundary", "2025-10-01", "2025-09-29", "2025-10-03"},
		{"across year boundary", "2025-01-01", "2024-12-30", "2025-01-03"},
		{"leap day", "2024-02-29", "2024-02-26", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := week.WeekDatesFor(week.MustParseDate(tt.anchor))
			if got := dates[0].String(); got != tt.wantMonday {
				t.Errorf("monday = %s, want %s", got, tt.wantMonday)
			}
			if got := dates[4].String(); got != tt.wantFriday {
				t.Errorf("friday = %s, want %s", got, tt.wantFriday)
			}
			for i, d := range dates {
				if d.WeekdayIndex() != i {
					t.Errorf("dates[%d] = %s has weekday index %d", i, d, d.WeekdayIndex())
				}
			}
		})
	}
}

// TestWeekDatesFor_DST tests that a week spanning a DST change still yields consecutive days.
func TestWeekDatesFor_DST(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks go forward on Sunday 2025-03-30 and back on Sunday 2025-10-26.
	for _, instant := range []time.Time{
		time.Date(2025, 3, 31, 0, 30, 0, 0, paris),
		time.Date(2025, 10, 27, 23, 59, 0, 0, paris),
	} {
		dates := week.WeekDatesFor(week.DateOf(instant))
		for i := 1; i < len(dates); i++ {
			if dates[i] != dates[i-1].AddDays(1) {
				t.Errorf("non-consecutive dates around %v: %v", instant, dates)
			}
		}
		if dates[0] != week.DateOf(instant) {
			t.Errorf("monday = %s, want %s", dates[0], week.DateOf(instant))
		}
	}
}

// TestISOWeekNumber tests ISO-8601 numbering across year boundaries.
func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		date     string
		wantYear int
		wantWeek int
	}{
		{"2025-03-12", 2025, 11},
		{"2021-01-03", 2020, 53}, // Sunday closing week 53
		{"2020-12-31", 2020, 53},
		{"2021-01-04", 2021, 1},
		{"2024-12-30", 2025, 1}, // Monday of week 1 in December
		{"2026-12-31", 2026, 53},
		{"2027-01-01", 2026, 53},
		{"2023-01-01", 2022, 52},
		{"2023-01-02", 2023, 1},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := week.MustParseDate(tt.date)
			year, w := week.ISOWeek(d)
			if year != tt.wantYear || w != tt.wantWeek {
				t.Errorf("ISOWeek(%s) = %d-W%d, want %d-W%d", tt.date, year, w, tt.wantYear, tt.wantWeek)
			}
			if got := week.ISOWeekNumber(d); got != tt.wantWeek {
				t.Errorf("ISOWeekNumber(%s) = %d, want %d", tt.date, got, tt.wantWeek)
			}
			stdYear, stdWeek := d.Time().ISOWeek()
			if stdYear != year || stdWeek != w {
				t.Errorf("disagrees with time.ISOWeek: %d-W%d", stdYear, stdWeek)
			}
		})
	}
}

// TestDate_Compare tests ordering helpers.
func TestDate_Compare(t *testing.T) {
	a := week.MustParseDate("2025-03-10")
	b := week.MustParseDate("2025-03-11")

	if !a.Before(b) || a.After(b) {
		t.Error("expected a before b")
	}
	if a.Compare(a) != 0 {
		t.Error("expected a == a")
	}
	if !b.Between(a, b) || !a.Between(a, a) {
		t.Error("Between should be inclusive")
	}
	if b.Between(a, a) {
		t.Error("b is not within [a, a]")
	}
}

// TestParseDate tests parsing and formatting.
func TestParseDate(t *testing.T) {
	if _, err := week.ParseDate("2025-13-01"); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := week.ParseDate("10/03/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	d, err := week.ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-03-10" {
		t.Errorf("String() = %s", d.String())
	}
	if (week.Date{}).String() != "" {
		t.Error("zero date should format as empty string")
	}
}

// TestDate_JSON tests text marshalling used by the JSON API.
func TestDate_JSON(t *testing.T) {
	type payload struct {
		Day week.Date `json:"day"`
	}
	raw, err := json.Marshal(payload{Day: week.MustParseDate("2025-03-10")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"day":"2025-03-10"}` {
		t.Errorf("marshal = %s", raw)
	}
	var back payload
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Day != week.MustParseDate("2025-03-10") {
		t.Errorf("round trip = %v", back.Day)
	}
}

package closure_test

import (
	"testing"

	"planning/internal/domain/closure"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// TestClosure_Validate tests validation of Closure.
func TestClosure_Validate(t *testing.T) {
	start := week.MustParseDate("2025-04-21")
	end := week.MustParseDate("2025-04-25")

	tests := []struct {
		name    string
		c       closure.Closure
		wantErr error
	}{
		{"valid range", closure.Closure{Start: start, End: end, Reason: closure.ReasonVacation}, nil},
		{"valid open-ended", closure.Closure{Start: start, Reason: closure.ReasonPublicHoliday}, nil},
		{"zero start", closure.Closure{End: end, Reason: closure.ReasonVacation}, closure.ErrEmptyStartDate},
		{"inverted", closure.Closure{Start: end, End: start, Reason: closure.ReasonVacation}, closure.ErrInvalidDates},
		{"bad reason", closure.Closure{Start: start, Reason: "strike"}, closure.ErrInvalidReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestClosure_Covers tests date and half scoping, including open-ended closures.
func TestClosure_Covers(t *testing.T) {
	single := closure.Closure{Start: week.MustParseDate("2025-05-01"), Reason: closure.ReasonPublicHoliday}
	if !single.Covers(week.MustParseDate("2025-05-01"), slot.Morning) {
		t.Error("open-ended closure must cover its start date")
	}
	if single.Covers(week.MustParseDate("2025-05-02"), slot.Morning) {
		t.Error("open-ended closure must not extend past its start date")
	}

	afternoon := closure.Closure{
		Start: week.MustParseDate("2025-05-05"), End: week.MustParseDate("2025-05-06"),
		Half: slot.Afternoon, Reason: closure.ReasonStaffTraining,
	}
	if afternoon.Covers(week.MustParseDate("2025-05-05"), slot.Morning) {
		t.Error("afternoon closure must not cover the morning")
	}
	if !afternoon.Covers(week.MustParseDate("2025-05-06"), slot.Afternoon) {
		t.Error("afternoon closure must cover the afternoon of its last day")
	}
}

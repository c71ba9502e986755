package planning_test

import (
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"planning/internal/domain/absence"
	"planning/internal/domain/assignment"
	"planning/internal/domain/availability"
	"planning/internal/domain/closure"
	"planning/internal/domain/planning"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

const trainerID = "t-1"

var (
	monday    = week.MustParseDate("2025-03-10")
	weekDates = week.WeekDatesFor(monday)
	baseTime  = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

func templateEntry(day string, half slot.Half, locationID string) availability.Entry {
	return availability.Entry{
		ID:         "tpl-" + day + "-" + half.String(),
		TrainerID:  trainerID,
		Day:        day,
		Half:       half,
		LocationID: locationID,
		Status:     availability.StatusAvailable,
		Published:  true,
	}
}

func validatedAbsence(id, category string, start, end week.Date, half slot.Half) absence.Absence {
	return absence.Absence{
		ID:        id,
		TrainerID: trainerID,
		Start:     start,
		End:       end,
		Half:      half,
		Category:  category,
		Status:    absence.StatusValidated,
		CreatedAt: baseTime,
	}
}

func mondayMorningAssignment(id, locationID string, createdAt time.Time) assignment.Assignment {
	return assignment.Assignment{
		ID:         id,
		Date:       monday,
		Day:        "lundi",
		Half:       slot.Morning,
		LocationID: locationID,
		TrainerIDs: []string{"t-9", trainerID},
		CreatedAt:  createdAt,
	}
}

func find(out []planning.ResolvedSlot, day int, half slot.Half) (planning.ResolvedSlot, bool) {
	for _, r := range out {
		if r.Day == day && r.Half == half {
			return r, true
		}
	}
	return planning.ResolvedSlot{}, false
}

// TestArbitrate_Scenarios tests the reference scenarios end to end.
func TestArbitrate_Scenarios(t *testing.T) {
	tpl := []availability.Entry{templateEntry("Lundi", slot.Morning, "loc-x")}

	t.Run("A template only", func(t *testing.T) {
		out := planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Template: tpl, WeekDates: weekDates})
		if len(out) != 1 {
			t.Fatalf("len(out) = %d, want 1: %+v", len(out), out)
		}
		r := out[0]
		if r.Day != 0 || r.Half != slot.Morning || r.Status != planning.StatusAvailable || r.LocationID != "loc-x" {
			t.Errorf("got %+v", r)
		}
		if r.Precedence != 4 || r.Date != monday {
			t.Errorf("precedence/date = %d/%s", r.Precedence, r.Date)
		}
	})

	t.Run("B full-day sickness suppresses template", func(t *testing.T) {
		out := planning.Arbitrate(planning.Inputs{
			TrainerID: trainerID,
			Template:  tpl,
			Absences:  []absence.Absence{validatedAbsence("a-1", absence.CategorySickness, monday, monday, slot.WholeDay)},
			WeekDates: weekDates,
		})
		if len(out) != 2 {
			t.Fatalf("len(out) = %d, want 2: %+v", len(out), out)
		}
		for i, half := range slot.Halves {
			r := out[i]
			if r.Day != 0 || r.Half != half || r.Status != planning.StatusAbsent || r.AbsenceCategory != "maladie" {
				t.Errorf("out[%d] = %+v", i, r)
			}
		}
	})

	t.Run("C exceptional availability beats assignment", func(t *testing.T) {
		out := planning.Arbitrate(planning.Inputs{
			TrainerID:   trainerID,
			Template:    tpl,
			Absences:    []absence.Absence{validatedAbsence("a-1", absence.CategoryExceptional, monday, monday, slot.WholeDay)},
			Assignments: []assignment.Assignment{mondayMorningAssignment("as-1", "loc-y", baseTime)},
			WeekDates:   weekDates,
		})
		r, ok := find(out, 0, slot.Morning)
		if !ok || r.Status != planning.StatusExceptionallyAvailable {
			t.Fatalf("monday morning = %+v, %v", r, ok)
		}
		if r.LocationID == "loc-y" {
			t.Error("assignment location must not leak into exceptional availability")
		}
	})

	t.Run("D closure beats assignment", func(t *testing.T) {
		out := planning.Arbitrate(planning.Inputs{
			TrainerID:   trainerID,
			Closures:    []closure.Closure{{ID: "c-1", Start: monday, Reason: closure.ReasonPublicHoliday, Description: "Lundi de Pâques"}},
			Assignments: []assignment.Assignment{mondayMorningAssignment("as-1", "loc-y", baseTime)},
			WeekDates:   weekDates,
		})
		r, ok := find(out, 0, slot.Morning)
		if !ok || r.Status != planning.StatusFacilityClosed || r.ClosureReason != closure.ReasonPublicHoliday {
			t.Fatalf("monday morning = %+v, %v", r, ok)
		}
		if r.Precedence != 0 || r.ClosureDescription != "Lundi de Pâques" {
			t.Errorf("got %+v", r)
		}
		// The closure has no half restriction, so the afternoon is closed too.
		if r, ok := find(out, 0, slot.Afternoon); !ok || r.Status != planning.StatusFacilityClosed {
			t.Errorf("monday afternoon = %+v, %v", r, ok)
		}
	})
}

// TestArbitrate_Precedence tests which status wins for each combination of inputs on one cell.
func TestArbitrate_Precedence(t *testing.T) {
	cl := closure.Closure{ID: "c-1", Start: monday, Reason: closure.ReasonVacation}
	sick := validatedAbsence("a-sick", "maladie", monday, monday, slot.WholeDay)
	exc := validatedAbsence("a-exc", absence.CategoryExceptional, monday, monday, slot.WholeDay)
	asg := mondayMorningAssignment("as-1", "loc-y", baseTime)
	tpl := templateEntry("Lundi", slot.Morning, "loc-x")

	tests := []struct {
		name         string
		in           planning.Inputs
		wantStatus   planning.Status
		wantLocation string
	}{
		{
			name:       "closure dominates everything",
			in:         planning.Inputs{Closures: []closure.Closure{cl}, Absences: []absence.Absence{sick, exc}, Assignments: []assignment.Assignment{asg}, Template: []availability.Entry{tpl}},
			wantStatus: planning.StatusFacilityClosed,
		},
		{
			name:       "exceptional dominates absence and assignment",
			in:         planning.Inputs{Absences: []absence.Absence{sick, exc}, Assignments: []assignment.Assignment{asg}, Template: []availability.Entry{tpl}},
			wantStatus: planning.StatusExceptionallyAvailable,
		},
		{
			name:       "absence beats assignment",
			in:         planning.Inputs{Absences: []absence.Absence{sick}, Assignments: []assignment.Assignment{asg}, Template: []availability.Entry{tpl}},
			wantStatus: planning.StatusAbsent,
		},
		{
			name:         "assignment beats template",
			in:           planning.Inputs{Assignments: []assignment.Assignment{asg}, Template: []availability.Entry{tpl}},
			wantStatus:   planning.StatusCoordinatorAssigned,
			wantLocation: "loc-y",
		},
		{
			name:         "template alone",
			in:           planning.Inputs{Template: []availability.Entry{tpl}},
			wantStatus:   planning.StatusAvailable,
			wantLocation: "loc-x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.TrainerID = trainerID
			tt.in.WeekDates = weekDates
			r, ok := find(planning.Arbitrate(tt.in), 0, slot.Morning)
			if !ok {
				t.Fatal("expected monday morning to resolve")
			}
			if r.Status != tt.wantStatus || r.LocationID != tt.wantLocation {
				t.Errorf("got %s at %q, want %s at %q", r.Status, r.LocationID, tt.wantStatus, tt.wantLocation)
			}
		})
	}
}

// TestArbitrate_Empty tests that cells without inputs produce no entry.
func TestArbitrate_Empty(t *testing.T) {
	if out := planning.Arbitrate(planning.Inputs{TrainerID: trainerID, WeekDates: weekDates}); len(out) != 0 {
		t.Errorf("expected no resolved slots, got %+v", out)
	}
	if out := planning.Arbitrate(planning.Inputs{}); len(out) != 0 {
		t.Errorf("zero inputs must resolve to nothing, got %+v", out)
	}
}

// TestArbitrate_SlotScoping tests that half restrictions only affect their own half.
func TestArbitrate_SlotScoping(t *testing.T) {
	tpl := []availability.Entry{
		templateEntry("Lundi", slot.Morning, "loc-x"),
		templateEntry("Lundi", slot.Afternoon, "loc-x"),
	}
	tests := []struct {
		name          string
		half          slot.Half
		wantMorning   planning.Status
		wantAfternoon planning.Status
	}{
		{"morning only", slot.Morning, planning.StatusAbsent, planning.StatusAvailable},
		{"afternoon only", slot.Afternoon, planning.StatusAvailable, planning.StatusAbsent},
		{"whole day", slot.WholeDay, planning.StatusAbsent, planning.StatusAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := planning.Arbitrate(planning.Inputs{
				TrainerID: trainerID,
				Template:  tpl,
				Absences:  []absence.Absence{validatedAbsence("a-1", "conges", monday, monday, tt.half)},
				WeekDates: weekDates,
			})
			am, _ := find(out, 0, slot.Morning)
			pm, _ := find(out, 0, slot.Afternoon)
			if am.Status != tt.wantMorning || pm.Status != tt.wantAfternoon {
				t.Errorf("morning=%s afternoon=%s, want %s/%s", am.Status, pm.Status, tt.wantMorning, tt.wantAfternoon)
			}
		})
	}
}

// TestArbitrate_ClosureHalf tests a closure restricted to the afternoon.
func TestArbitrate_ClosureHalf(t *testing.T) {
	out := planning.Arbitrate(planning.Inputs{
		TrainerID: trainerID,
		Template:  []availability.Entry{templateEntry("Lundi", slot.Morning, ""), templateEntry("Lundi", slot.Afternoon, "")},
		Closures:  []closure.Closure{{ID: "c-1", Start: monday, End: monday, Half: slot.Afternoon, Reason: closure.ReasonStaffTraining}},
		WeekDates: weekDates,
	})
	am, _ := find(out, 0, slot.Morning)
	pm, _ := find(out, 0, slot.Afternoon)
	if am.Status != planning.StatusAvailable || am.LocationID != "" {
		t.Errorf("morning = %+v", am)
	}
	if pm.Status != planning.StatusFacilityClosed {
		t.Errorf("afternoon = %+v", pm)
	}
}

// TestArbitrate_Ranges tests multi-day absences and closures spanning the week.
func TestArbitrate_Ranges(t *testing.T) {
	var tpl []availability.Entry
	for _, day := range slot.DefaultWeekdays {
		tpl = append(tpl, templateEntry(day, slot.Morning, "loc-x"))
	}
	out := planning.Arbitrate(planning.Inputs{
		TrainerID: trainerID,
		Template:  tpl,
		// Tuesday..Wednesday absent, Friday closed into the following week.
		Absences:  []absence.Absence{validatedAbsence("a-1", "conges", weekDates[1], weekDates[2], slot.WholeDay)},
		Closures:  []closure.Closure{{ID: "c-1", Start: weekDates[4], End: weekDates[4].AddDays(10), Reason: closure.ReasonVacation}},
		WeekDates: weekDates,
	})
	want := []planning.Status{
		planning.StatusAvailable,
		planning.StatusAbsent, planning.StatusAbsent,
		planning.StatusAbsent, planning.StatusAbsent,
		planning.StatusAvailable,
		planning.StatusFacilityClosed, planning.StatusFacilityClosed,
	}
	if len(out) != len(want) {
		t.Fatalf("len(out) = %d, want %d: %+v", len(out), len(want), out)
	}
	for i, r := range out {
		if r.Status != want[i] {
			t.Errorf("out[%d] (%s %s) = %s, want %s", i, r.Weekday, r.Half, r.Status, want[i])
		}
	}
}

// TestArbitrate_Ordering tests that output is ordered by day then half without duplicates.
func TestArbitrate_Ordering(t *testing.T) {
	var tpl []availability.Entry
	// Insert in reverse to make sure ordering does not follow input order.
	for i := 4; i >= 0; i-- {
		tpl = append(tpl, templateEntry(slot.DefaultWeekdays[i], slot.Afternoon, ""))
		tpl = append(tpl, templateEntry(slot.DefaultWeekdays[i], slot.Morning, ""))
	}
	tpl = append(tpl, templateEntry("Lundi", slot.Morning, "dup"))

	out := planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Template: tpl, WeekDates: weekDates})
	if len(out) != 10 {
		t.Fatalf("len(out) = %d, want 10", len(out))
	}
	seen := make(map[slot.WeekSlot]bool)
	for i, r := range out {
		if r.Day != i/2 || r.Half != slot.Halves[i%2] {
			t.Errorf("out[%d] = day %d %s", i, r.Day, r.Half)
		}
		if seen[r.Slot()] {
			t.Errorf("duplicate cell %+v", r.Slot())
		}
		seen[r.Slot()] = true
		if r.Date != weekDates[r.Day] {
			t.Errorf("out[%d].Date = %s, want %s", i, r.Date, weekDates[r.Day])
		}
	}
}

// TestArbitrate_Filtering tests that invisible rows never take part.
func TestArbitrate_Filtering(t *testing.T) {
	pending := validatedAbsence("a-p", "maladie", monday, monday, slot.WholeDay)
	pending.Status = absence.StatusPending
	refused := validatedAbsence("a-r", "maladie", monday, monday, slot.WholeDay)
	refused.Status = absence.StatusRefused
	unpublished := templateEntry("Lundi", slot.Afternoon, "")
	unpublished.Published = false
	unavailable := templateEntry("Mardi", slot.Morning, "")
	unavailable.Status = availability.StatusUnavailable
	otherTrainer := mondayMorningAssignment("as-o", "loc-y", baseTime)
	otherTrainer.TrainerIDs = []string{"t-9"}

	out := planning.Arbitrate(planning.Inputs{
		TrainerID:   trainerID,
		Template:    []availability.Entry{templateEntry("Lundi", slot.Morning, "loc-x"), unpublished, unavailable},
		Absences:    []absence.Absence{pending, refused},
		Assignments: []assignment.Assignment{otherTrainer},
		WeekDates:   weekDates,
	})
	if len(out) != 1 || out[0].Status != planning.StatusAvailable || out[0].LocationID != "loc-x" {
		t.Errorf("got %+v", out)
	}
}

// TestArbitrate_UnknownCategory tests that unknown categories count as ordinary absences.
func TestArbitrate_UnknownCategory(t *testing.T) {
	out := planning.Arbitrate(planning.Inputs{
		TrainerID:   trainerID,
		Absences:    []absence.Absence{validatedAbsence("a-1", "déménagement", monday, monday, slot.Morning)},
		Assignments: []assignment.Assignment{mondayMorningAssignment("as-1", "loc-y", baseTime)},
		WeekDates:   weekDates,
	})
	if len(out) != 1 || out[0].Status != planning.StatusAbsent || out[0].AbsenceCategory != "déménagement" {
		t.Errorf("got %+v", out)
	}
}

// TestArbitrate_InvertedRanges tests that malformed rows are logged and skipped.
func TestArbitrate_InvertedRanges(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	arb := planning.NewArbitrator(planning.WithLogger(zap.New(core)))

	out := arb.Arbitrate(planning.Inputs{
		TrainerID: trainerID,
		Template:  []availability.Entry{templateEntry("Lundi", slot.Morning, "loc-x")},
		Absences:  []absence.Absence{validatedAbsence("a-bad", "maladie", weekDates[1], monday, slot.WholeDay)},
		Closures:  []closure.Closure{{ID: "c-bad", Start: weekDates[2], End: monday, Reason: closure.ReasonOther}},
		WeekDates: weekDates,
	})
	if len(out) != 1 || out[0].Status != planning.StatusAvailable {
		t.Errorf("got %+v", out)
	}
	if n := logs.FilterMessage("arbitration_skipped_absence").Len(); n != 1 {
		t.Errorf("absence warnings = %d, want 1", n)
	}
	if n := logs.FilterMessage("arbitration_skipped_closure").Len(); n != 1 {
		t.Errorf("closure warnings = %d, want 1", n)
	}
}

// TestArbitrate_AbsenceTieBreak tests the resolution of overlapping absences.
func TestArbitrate_AbsenceTieBreak(t *testing.T) {
	older := validatedAbsence("a-1", "maladie", monday, monday, slot.WholeDay)
	newer := validatedAbsence("a-2", "conges", monday, monday, slot.WholeDay)
	newer.CreatedAt = baseTime.Add(time.Hour)
	sameTime := validatedAbsence("a-3", "personnel", monday, monday, slot.WholeDay)
	sameTime.CreatedAt = newer.CreatedAt
	exc := validatedAbsence("a-0", absence.CategoryExceptional, monday, monday, slot.Morning)

	tests := []struct {
		name         string
		absences     []absence.Absence
		wantCategory string
	}{
		{"most recent wins", []absence.Absence{older, newer}, "conges"},
		{"order independent", []absence.Absence{newer, older}, "conges"},
		{"greatest id on equal time", []absence.Absence{sameTime, newer, older}, "personnel"},
		{"exceptional wins over newer ordinary", []absence.Absence{newer, exc, sameTime}, absence.CategoryExceptional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := find(planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Absences: tt.absences, WeekDates: weekDates}), 0, slot.Morning)
			if !ok || r.AbsenceCategory != tt.wantCategory {
				t.Errorf("got %+v, want category %s", r, tt.wantCategory)
			}
		})
	}
}

// TestArbitrate_AssignmentTieBreak tests that the most recent assignment wins.
func TestArbitrate_AssignmentTieBreak(t *testing.T) {
	old := mondayMorningAssignment("as-1", "loc-old", baseTime)
	recent := mondayMorningAssignment("as-2", "loc-new", baseTime.Add(time.Minute))
	twin := mondayMorningAssignment("as-3", "loc-twin", recent.CreatedAt)

	for _, in := range [][]assignment.Assignment{{old, recent}, {recent, old}} {
		r, _ := find(planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Assignments: in, WeekDates: weekDates}), 0, slot.Morning)
		if r.LocationID != "loc-new" {
			t.Errorf("location = %q, want loc-new", r.LocationID)
		}
	}
	r, _ := find(planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Assignments: []assignment.Assignment{twin, old, recent}, WeekDates: weekDates}), 0, slot.Morning)
	if r.LocationID != "loc-twin" || r.SourceID != "as-3" {
		t.Errorf("equal timestamps should fall back to greatest id, got %+v", r)
	}
}

// TestArbitrate_AssignmentDate tests that a dated assignment only applies to its own date.
func TestArbitrate_AssignmentDate(t *testing.T) {
	lastWeek := mondayMorningAssignment("as-1", "loc-y", baseTime)
	lastWeek.Date = monday.AddDays(-7)
	undated := mondayMorningAssignment("as-2", "loc-z", baseTime)
	undated.Date = week.Date{}

	out := planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Assignments: []assignment.Assignment{lastWeek}, WeekDates: weekDates})
	if len(out) != 0 {
		t.Errorf("assignment from another week leaked: %+v", out)
	}
	out = planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Assignments: []assignment.Assignment{undated}, WeekDates: weekDates})
	if len(out) != 1 || out[0].LocationID != "loc-z" {
		t.Errorf("undated assignment should match by weekday label, got %+v", out)
	}
}

// TestArbitrate_Weekdays tests injected weekday identifiers.
func TestArbitrate_Weekdays(t *testing.T) {
	labels := slot.Weekdays{"Mon", "Tue", "Wed", "Thu", "Fri"}
	tpl := templateEntry("thu", slot.Afternoon, "loc-x")

	out := planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Template: []availability.Entry{tpl}, WeekDates: weekDates, Weekdays: labels})
	if len(out) != 1 || out[0].Day != 3 || out[0].Weekday != "Thu" {
		t.Errorf("got %+v", out)
	}
	if out := planning.Arbitrate(planning.Inputs{TrainerID: trainerID, Template: []availability.Entry{tpl}, WeekDates: weekDates}); len(out) != 0 {
		t.Errorf("default labels should not match %q: %+v", tpl.Day, out)
	}
}

// TestArbitrate_IdempotentAndPure tests determinism and that inputs are left untouched.
func TestArbitrate_IdempotentAndPure(t *testing.T) {
	in := planning.Inputs{
		TrainerID:   trainerID,
		Template:    []availability.Entry{templateEntry("Lundi", slot.Morning, "loc-x"), templateEntry("Mardi", slot.Afternoon, "")},
		Absences:    []absence.Absence{validatedAbsence("a-1", "maladie", weekDates[3], weekDates[3], slot.WholeDay)},
		Assignments: []assignment.Assignment{mondayMorningAssignment("as-1", "loc-y", baseTime)},
		Closures:    []closure.Closure{{ID: "c-1", Start: weekDates[4], Reason: closure.ReasonClosed}},
		WeekDates:   weekDates,
	}
	snapshot := planning.Inputs{
		TrainerID:   in.TrainerID,
		Template:    append([]availability.Entry(nil), in.Template...),
		Absences:    append([]absence.Absence(nil), in.Absences...),
		Assignments: []assignment.Assignment{mondayMorningAssignment("as-1", "loc-y", baseTime)},
		Closures:    append([]closure.Closure(nil), in.Closures...),
		WeekDates:   in.WeekDates,
	}

	first := planning.Arbitrate(in)
	second := planning.Arbitrate(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("non-deterministic output:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(in, snapshot) {
		t.Errorf("inputs were modified:\n%+v\n%+v", in, snapshot)
	}
}

// TestArbitrate_CustomRules tests that precedence is driven by the rule list.
func TestArbitrate_CustomRules(t *testing.T) {
	rules := planning.DefaultRules()
	// Drop the closure rule: the assignment must now surface.
	arb := planning.NewArbitrator(planning.WithRules(rules[1:]))
	out := arb.Arbitrate(planning.Inputs{
		TrainerID:   trainerID,
		Closures:    []closure.Closure{{ID: "c-1", Start: monday, Reason: closure.ReasonPublicHoliday}},
		Assignments: []assignment.Assignment{mondayMorningAssignment("as-1", "loc-y", baseTime)},
		WeekDates:   weekDates,
	})
	if len(out) != 1 || out[0].Status != planning.StatusCoordinatorAssigned {
		t.Errorf("got %+v", out)
	}
	for i, r := range rules {
		if r.Precedence != i {
			t.Errorf("rule %s precedence = %d, want %d", r.Name, r.Precedence, i)
		}
	}
}

// TestArbitrate_Concurrent tests that one Arbitrator can serve concurrent callers.
func TestArbitrate_Concurrent(t *testing.T) {
	arb := planning.NewArbitrator()
	in := planning.Inputs{
		TrainerID: trainerID,
		Template:  []availability.Entry{templateEntry("Lundi", slot.Morning, "loc-x")},
		WeekDates: weekDates,
	}
	want := arb.Arbitrate(in)

	done := make(chan []planning.ResolvedSlot)
	for i := 0; i < 8; i++ {
		go func() { done <- arb.Arbitrate(in) }()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Errorf("concurrent result differs: %+v", got)
		}
	}
}

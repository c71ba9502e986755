package assignment_test

import (
	"reflect"
	"testing"
	"time"

	"planning/internal/domain/assignment"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

// TestAssignment_Validate tests validation of Assignment.
func TestAssignment_Validate(t *testing.T) {
	valid := assignment.Assignment{
		Date: week.MustParseDate("2025-03-10"), Day: "Lundi", Half: slot.Morning,
		LocationID: "l1", TrainerIDs: []string{"t1"},
	}

	tests := []struct {
		name    string
		mutate  func(a *assignment.Assignment)
		wantErr error
	}{
		{"valid", func(a *assignment.Assignment) {}, nil},
		{"zero date", func(a *assignment.Assignment) { a.Date = week.Date{} }, assignment.ErrEmptyDate},
		{"missing day", func(a *assignment.Assignment) { a.Day = "" }, assignment.ErrEmptyDay},
		{"whole day", func(a *assignment.Assignment) { a.Half = slot.WholeDay }, assignment.ErrWholeDay},
		{"missing location", func(a *assignment.Assignment) { a.LocationID = "" }, assignment.ErrEmptyLocationID},
		{"no trainers", func(a *assignment.Assignment) { a.TrainerIDs = nil }, assignment.ErrNoTrainers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			if err := a.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAssignment_Includes tests trainer membership.
func TestAssignment_Includes(t *testing.T) {
	a := assignment.Assignment{TrainerIDs: []string{"t1", "t2"}}
	if !a.Includes("t2") {
		t.Error("expected t2 to be included")
	}
	if a.Includes("t3") {
		t.Error("t3 is not included")
	}
}

// TestAssignment_NewerThan tests the deterministic recency order.
func TestAssignment_NewerThan(t *testing.T) {
	early := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	a := assignment.Assignment{ID: "a", CreatedAt: late}
	b := assignment.Assignment{ID: "b", CreatedAt: early}
	if !a.NewerThan(b) || b.NewerThan(a) {
		t.Error("later created_at must win")
	}

	c := assignment.Assignment{ID: "c", CreatedAt: early}
	if !c.NewerThan(b) || b.NewerThan(c) {
		t.Error("equal created_at must fall back to the greater ID")
	}
}

// TestNormalizeTrainerIDs tests trimming and deduplication.
func TestNormalizeTrainerIDs(t *testing.T) {
	got := assignment.NormalizeTrainerIDs([]string{" t2", "t1", "", "t2", "t1 "})
	if want := []string{"t1", "t2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTrainerIDs() = %v, want %v", got, want)
	}
}

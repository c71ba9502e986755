package projections

import (
	"context"
	"errors"
	"slices"
	"testing"

	domainAssignment "planning/internal/domain/assignment"
	"planning/internal/domain/planning"
	"planning/internal/domain/slot"
)

// TestQueryGetCoordinatorWeek tests one row per active trainer with shared sources.
func TestQueryGetCoordinatorWeek(t *testing.T) {
	deps := seededDeps()
	deps.AssignmentStore = &mockAssignmentStore{assignments: []domainAssignment.Assignment{
		{ID: "as1", Date: tuesday, Day: "Mardi", Half: slot.Morning, LocationID: "loc1", TrainerIDs: []string{"tr1", "tr2"}, CreatedAt: created},
	}}

	got, err := QueryGetCoordinatorWeek(context.Background(), GetCoordinatorWeekQuery{Anchor: anchor}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeekNumber != 11 || len(got.Rows) != 2 {
		t.Fatalf("week %d, %d rows", got.WeekNumber, len(got.Rows))
	}
	if got.Degraded != nil {
		t.Errorf("Degraded = %v", got.Degraded)
	}

	rows := map[string]CoordinatorRow{}
	for _, r := range got.Rows {
		rows[r.TrainerID] = r
	}
	// tr1 is absent on Tuesday, which outranks the assignment.
	if s := rows["tr1"].Grid[1][0].Slot.Status; s != planning.StatusAbsent {
		t.Errorf("tr1 Tuesday AM = %q, want absent", s)
	}
	if s := rows["tr2"].Grid[1][0].Slot.Status; s != planning.StatusCoordinatorAssigned {
		t.Errorf("tr2 Tuesday AM = %q, want coordinator-assigned", s)
	}
	if s := rows["tr2"].Grid[0][1].Slot.Status; s != planning.StatusAvailable {
		t.Errorf("tr2 Monday PM = %q, want available", s)
	}
	for id, r := range rows {
		if s := r.Grid[4][0].Slot.Status; s != planning.StatusFacilityClosed {
			t.Errorf("%s Friday = %q, want closed", id, s)
		}
	}
	if _, ok := rows["tr3"]; ok {
		t.Error("inactive trainer listed")
	}
}

// TestQueryGetCoordinatorWeek_Degraded tests per-trainer template failures.
func TestQueryGetCoordinatorWeek_Degraded(t *testing.T) {
	deps := seededDeps()
	deps.TemplateStore.(*mockTemplateStore).failFor = map[string]error{"tr2": errors.New("boom")}
	deps.AbsenceStore = &mockAbsenceStore{err: errors.New("boom")}

	got, err := QueryGetCoordinatorWeek(context.Background(), GetCoordinatorWeekQuery{Anchor: anchor}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{SourceAbsences, SourceTemplate + ":tr2"}
	if !slices.Equal(got.Degraded, want) {
		t.Errorf("Degraded = %v, want %v", got.Degraded, want)
	}
}

// TestQueryGetCoordinatorWeek_TrainerFailure tests that the trainer list is required.
func TestQueryGetCoordinatorWeek_TrainerFailure(t *testing.T) {
	deps := seededDeps()
	deps.TrainerStore = &mockTrainerStore{err: errors.New("down")}
	if _, err := QueryGetCoordinatorWeek(context.Background(), GetCoordinatorWeekQuery{Anchor: anchor}, deps); err == nil {
		t.Error("expected error")
	}
}

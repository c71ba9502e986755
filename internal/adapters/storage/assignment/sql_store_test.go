package assignment_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	store "planning/internal/adapters/storage/assignment"
	"planning/internal/adapters/storage/storagetest"
	domain "planning/internal/domain/assignment"
	"planning/internal/domain/planning"
	"planning/internal/domain/slot"
	"planning/internal/domain/week"
)

func d(s string) week.Date { return week.MustParseDate(s) }

// TestSQLStore tests trainer sets, ordering and range filters.
func TestSQLStore(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := []domain.Assignment{
		{ID: "as1", Date: d("2025-03-10"), Day: "Lundi", Half: slot.Morning, LocationID: "l1", TrainerIDs: []string{"t2", "t1", "t1"}, CreatedAt: now},
		{ID: "as2", Date: d("2025-03-10"), Day: "Lundi", Half: slot.Morning, LocationID: "l2", TrainerIDs: []string{"t1"}, CreatedAt: now.Add(time.Hour)},
		{ID: "as3", Date: d("2025-03-11"), Day: "Mardi", Half: slot.Afternoon, LocationID: "l1", TrainerIDs: []string{"t3"}, CreatedAt: now},
		{ID: "as4", Date: d("2025-03-17"), Day: "Lundi", Half: slot.Morning, LocationID: "l1", TrainerIDs: []string{"t1"}, CreatedAt: now},
	}
	for _, a := range rows {
		if err := s.Save(ctx, a); err != nil {
			t.Fatalf("Save(%s): %v", a.ID, err)
		}
	}

	got, err := s.GetByID(ctx, "as1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(got.TrainerIDs, []string{"t1", "t2"}) || got.Half != slot.Morning || got.Day != "Lundi" {
		t.Errorf("GetByID = %+v", got)
	}

	mine, err := s.ListForTrainer(ctx, "t1", d("2025-03-10"), d("2025-03-14"))
	if err != nil {
		t.Fatalf("ListForTrainer: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "as2" || mine[1].ID != "as1" {
		t.Fatalf("ListForTrainer = %+v", mine)
	}
	if len(mine[1].TrainerIDs) != 2 {
		t.Errorf("full trainer set expected, got %v", mine[1].TrainerIDs)
	}

	all, _ := s.ListForRange(ctx, d("2025-03-10"), d("2025-03-14"))
	if len(all) != 3 {
		t.Errorf("ListForRange = %d rows, want 3", len(all))
	}

	got.TrainerIDs = []string{"t3"}
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if mine, _ := s.ListForTrainer(ctx, "t1", d("2025-03-10"), d("2025-03-14")); len(mine) != 1 {
		t.Errorf("trainer set not replaced: %+v", mine)
	}

	if err := s.Delete(ctx, "as1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, "as1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID after delete = %v", err)
	}
	if err := s.Delete(ctx, "as1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete = %v", err)
	}
}

// TestSQLStore_EditRestampsCreatedAt tests that re-saving an assignment stores
// the new CreatedAt, so the edited row becomes the most recent for its cell.
func TestSQLStore_EditRestampsCreatedAt(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	a := domain.Assignment{ID: "a", Date: d("2025-03-10"), Day: "Lundi", Half: slot.Morning, LocationID: "l1", TrainerIDs: []string{"t1"}, CreatedAt: t1}
	b := domain.Assignment{ID: "b", Date: d("2025-03-10"), Day: "Lundi", Half: slot.Morning, LocationID: "l2", TrainerIDs: []string{"t1"}, CreatedAt: t1.Add(time.Hour)}
	for _, row := range []domain.Assignment{a, b} {
		if err := s.Save(ctx, row); err != nil {
			t.Fatalf("Save(%s): %v", row.ID, err)
		}
	}

	a.LocationID = "l3"
	a.CreatedAt = t1.Add(2 * time.Hour)
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := s.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) || got.LocationID != "l3" {
		t.Errorf("GetByID = %+v, want CreatedAt %v and location l3", got, a.CreatedAt)
	}

	mine, err := s.ListForTrainer(ctx, "t1", d("2025-03-10"), d("2025-03-14"))
	if err != nil {
		t.Fatalf("ListForTrainer: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "a" {
		t.Fatalf("ListForTrainer = %+v, want the edited row first", mine)
	}

	resolved := planning.Arbitrate(planning.Inputs{
		TrainerID:   "t1",
		Assignments: mine,
		WeekDates:   week.WeekDatesFor(d("2025-03-10")),
	})
	if len(resolved) != 1 {
		t.Fatalf("Arbitrate = %+v, want one cell", resolved)
	}
	if r := resolved[0]; r.Status != planning.StatusCoordinatorAssigned || r.LocationID != "l3" || r.SourceID != "a" {
		t.Errorf("Monday morning = %+v, want the edited assignment at l3", r)
	}
}

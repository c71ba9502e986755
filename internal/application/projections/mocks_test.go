package projections

import (
	"context"

	domainAbsence "planning/internal/domain/absence"
	domainAssignment "planning/internal/domain/assignment"
	domainAvailability "planning/internal/domain/availability"
	domainClosure "planning/internal/domain/closure"
	domainLocation "planning/internal/domain/location"
	domainTrainer "planning/internal/domain/trainer"
	"planning/internal/domain/week"
)

// hook runs at the start of every mock call; a non-nil error fails the call.
type hook func(ctx context.Context) error

func (h hook) run(ctx context.Context) error {
	if h == nil {
		return nil
	}
	return h(ctx)
}

type mockTrainerStore struct {
	trainers []domainTrainer.Trainer
	err      error
}

// GetByID returns the seeded trainer with the given ID.
// PRE: id is non-empty
// POST: Returns the trainer or ErrNotFound
func (m *mockTrainerStore) GetByID(_ context.Context, id string) (domainTrainer.Trainer, error) {
	for _, t := range m.trainers {
		if t.ID == id {
			return t, nil
		}
	}
	return domainTrainer.Trainer{}, domainTrainer.ErrNotFound
}

// ListActive returns every seeded active trainer.
func (m *mockTrainerStore) ListActive(_ context.Context) ([]domainTrainer.Trainer, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainTrainer.Trainer
	for _, t := range m.trainers {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockLocationStore struct {
	locations []domainLocation.Location
	err       error
}

// List returns the seeded locations.
func (m *mockLocationStore) List(_ context.Context) ([]domainLocation.Location, error) {
	return m.locations, m.err
}

type mockTemplateStore struct {
	entries []domainAvailability.Entry
	failFor map[string]error
	before  hook
}

// ListPublishedByTrainer returns seeded entries of trainerID.
func (m *mockTemplateStore) ListPublishedByTrainer(ctx context.Context, trainerID string) ([]domainAvailability.Entry, error) {
	if err := m.before.run(ctx); err != nil {
		return nil, err
	}
	if err := m.failFor[trainerID]; err != nil {
		return nil, err
	}
	var out []domainAvailability.Entry
	for _, e := range m.entries {
		if e.TrainerID == trainerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockAbsenceStore struct {
	absences []domainAbsence.Absence
	err      error
	before   hook
}

// ListValidatedForTrainer returns seeded absences of trainerID; the range is not filtered.
func (m *mockAbsenceStore) ListValidatedForTrainer(ctx context.Context, trainerID string, _, _ week.Date) ([]domainAbsence.Absence, error) {
	if err := m.before.run(ctx); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []domainAbsence.Absence
	for _, a := range m.absences {
		if a.TrainerID == trainerID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListForRange returns every seeded absence.
func (m *mockAbsenceStore) ListForRange(ctx context.Context, _, _ week.Date) ([]domainAbsence.Absence, error) {
	if err := m.before.run(ctx); err != nil {
		return nil, err
	}
	return m.absences, m.err
}

type mockAssignmentStore struct {
	assignments []domainAssignment.Assignment
	err         error
	before      hook
}

// ListForTrainer returns seeded assignments including trainerID.
func (m *mockAssignmentStore) ListForTrainer(ctx context.Context, trainerID string, _, _ week.Date) ([]domainAssignment.Assignment, error) {
	if err := m.before.run(ctx); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []domainAssignment.Assignment
	for _, a := range m.assignments {
		if a.Includes(trainerID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListForRange returns every seeded assignment.
func (m *mockAssignmentStore) ListForRange(ctx context.Context, _, _ week.Date) ([]domainAssignment.Assignment, error) {
	if err := m.before.run(ctx); err != nil {
		return nil, err
	}
	return m.assignments, m.err
}

type mockClosureStore struct {
	closures []domainClosure.Closure
	err      error
	before   hook
}

// ListOverlapping returns every seeded closure.
func (m *mockClosureStore) ListOverlapping(ctx context.Context, _, _ week.Date) ([]domainClosure.Closure, error) {
	if err := m.before.run(ctx); err != nil {
		return nil, err
	}
	return m.closures, m.err
}

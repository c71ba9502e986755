package orchestrators

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	domainAbsence "planning/internal/domain/absence"
	domainAssignment "planning/internal/domain/assignment"
	domainAvailability "planning/internal/domain/availability"
	domainClosure "planning/internal/domain/closure"
	"planning/internal/domain/event"
	domainLocation "planning/internal/domain/location"
	domainOutbox "planning/internal/domain/outbox"
	domainTrainer "planning/internal/domain/trainer"
)

var testTime = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockOutbox records enqueued entries in order.
type mockOutbox struct {
	mu      sync.Mutex
	entries []domainOutbox.Entry
	saveErr error
}

// Save implements OutboxWriter, replacing an entry with the same ID.
// PRE: entry is valid
// POST: entry is persisted
func (m *mockOutbox) Save(_ context.Context, e domainOutbox.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for i := range m.entries {
		if m.entries[i].ID == e.ID {
			m.entries[i] = e
			return nil
		}
	}
	m.entries = append(m.entries, e)
	return nil
}

// GetByID returns the entry with the given ID.
func (m *mockOutbox) GetByID(_ context.Context, id string) (domainOutbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domainOutbox.Entry{}, domainOutbox.ErrNotFound
}

// ListPending returns pending and retrying entries in insertion order.
func (m *mockOutbox) ListPending(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainOutbox.Entry
	for _, e := range m.entries {
		if e.Status == domainOutbox.StatusPending || e.Status == domainOutbox.StatusRetrying {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// commands decodes every enqueued schedule command.
func (m *mockOutbox) commands() []event.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []event.Command
	for _, e := range m.entries {
		if e.ActionType != domainOutbox.ActionTypeScheduleCommand {
			continue
		}
		cmd, err := event.Decode(e.Payload)
		if err != nil {
			panic(err)
		}
		out = append(out, cmd)
	}
	return out
}

// emails returns every enqueued email entry.
func (m *mockOutbox) emails() []domainOutbox.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainOutbox.Entry
	for _, e := range m.entries {
		if e.ActionType == domainOutbox.ActionTypeEmail {
			out = append(out, e)
		}
	}
	return out
}

// summary renders commands as "action:trainer" for compact assertions.
func summary(cmds []event.Command) string {
	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		parts = append(parts, c.Action+":"+c.TrainerID)
	}
	return strings.Join(parts, ",")
}

func testEffects(o *mockOutbox) Effects {
	return Effects{Outbox: o, GenerateID: seqIDs(), Now: testNow}
}

type mockTrainerStore struct {
	trainers map[string]domainTrainer.Trainer
	getErr   error
}

func newMockTrainerStore(ts ...domainTrainer.Trainer) *mockTrainerStore {
	m := &mockTrainerStore{trainers: make(map[string]domainTrainer.Trainer)}
	for _, t := range ts {
		m.trainers[t.ID] = t
	}
	return m
}

// GetByID implements TrainerStoreForOrchestrator.
func (m *mockTrainerStore) GetByID(_ context.Context, id string) (domainTrainer.Trainer, error) {
	if m.getErr != nil {
		return domainTrainer.Trainer{}, m.getErr
	}
	t, ok := m.trainers[id]
	if !ok {
		return domainTrainer.Trainer{}, domainTrainer.ErrNotFound
	}
	return t, nil
}

// Save implements TrainerStoreForOrchestrator.
func (m *mockTrainerStore) Save(_ context.Context, t domainTrainer.Trainer) error {
	m.trainers[t.ID] = t
	return nil
}

// Delete implements TrainerStoreForOrchestrator.
func (m *mockTrainerStore) Delete(_ context.Context, id string) error {
	if _, ok := m.trainers[id]; !ok {
		return domainTrainer.ErrNotFound
	}
	delete(m.trainers, id)
	return nil
}

type mockLocationStore struct {
	locations map[string]domainLocation.Location
}

// Save implements LocationStoreForOrchestrator.
func (m *mockLocationStore) Save(_ context.Context, l domainLocation.Location) error {
	m.locations[l.ID] = l
	return nil
}

// Delete implements LocationStoreForOrchestrator.
func (m *mockLocationStore) Delete(_ context.Context, id string) error {
	if _, ok := m.locations[id]; !ok {
		return domainLocation.ErrNotFound
	}
	delete(m.locations, id)
	return nil
}

type mockAbsenceStore struct {
	absences map[string]domainAbsence.Absence
}

// GetByID implements AbsenceStoreForOrchestrator.
func (m *mockAbsenceStore) GetByID(_ context.Context, id string) (domainAbsence.Absence, error) {
	a, ok := m.absences[id]
	if !ok {
		return domainAbsence.Absence{}, domainAbsence.ErrNotFound
	}
	return a, nil
}

// Save implements AbsenceStoreForOrchestrator.
func (m *mockAbsenceStore) Save(_ context.Context, a domainAbsence.Absence) error {
	m.absences[a.ID] = a
	return nil
}

// Delete implements AbsenceStoreForOrchestrator.
func (m *mockAbsenceStore) Delete(_ context.Context, id string) error {
	delete(m.absences, id)
	return nil
}

type mockAssignmentStore struct {
	assignments map[string]domainAssignment.Assignment
}

// GetByID implements AssignmentStoreForOrchestrator.
func (m *mockAssignmentStore) GetByID(_ context.Context, id string) (domainAssignment.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return domainAssignment.Assignment{}, domainAssignment.ErrNotFound
	}
	return a, nil
}

// Save implements AssignmentStoreForOrchestrator.
func (m *mockAssignmentStore) Save(_ context.Context, a domainAssignment.Assignment) error {
	a.TrainerIDs = slices.Clone(a.TrainerIDs)
	m.assignments[a.ID] = a
	return nil
}

// Delete implements AssignmentStoreForOrchestrator.
func (m *mockAssignmentStore) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

type mockClosureStore struct {
	closures map[string]domainClosure.Closure
}

// GetByID implements ClosureStoreForOrchestrator.
func (m *mockClosureStore) GetByID(_ context.Context, id string) (domainClosure.Closure, error) {
	c, ok := m.closures[id]
	if !ok {
		return domainClosure.Closure{}, domainClosure.ErrNotFound
	}
	return c, nil
}

// Save implements ClosureStoreForOrchestrator.
func (m *mockClosureStore) Save(_ context.Context, c domainClosure.Closure) error {
	m.closures[c.ID] = c
	return nil
}

// Delete implements ClosureStoreForOrchestrator.
func (m *mockClosureStore) Delete(_ context.Context, id string) error {
	delete(m.closures, id)
	return nil
}

type mockTemplateStore struct {
	entries map[string]domainAvailability.Entry
}

// GetByID implements TemplateStoreForOrchestrator.
func (m *mockTemplateStore) GetByID(_ context.Context, id string) (domainAvailability.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return domainAvailability.Entry{}, domainAvailability.ErrNotFound
	}
	return e, nil
}

// Save implements TemplateStoreForOrchestrator.
func (m *mockTemplateStore) Save(_ context.Context, e domainAvailability.Entry) error {
	m.entries[e.ID] = e
	return nil
}

// PublishForTrainer implements TemplateStoreForOrchestrator.
func (m *mockTemplateStore) PublishForTrainer(_ context.Context, trainerID string) (int64, error) {
	var n int64
	for id, e := range m.entries {
		if e.TrainerID == trainerID && !e.Published {
			e.Published = true
			m.entries[id] = e
			n++
		}
	}
	return n, nil
}

package projections

import (
	"context"
	"sync"
	"sync/atomic"
)

// WeekLoader loads trainer weeks for a single view. Every Load is keyed by a
// monotonically increasing token; starting a load cancels the previous one,
// and callers must drop any result whose token is no longer current.
// Nothing is cached: every Load re-fetches and re-arbitrates.
type WeekLoader struct {
	deps GetTrainerWeekDeps
	seq  atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewWeekLoader creates a loader for one view.
func NewWeekLoader(deps GetTrainerWeekDeps) *WeekLoader {
	return &WeekLoader{deps: deps}
}

// Load fetches and arbitrates the week, cancelling any load still in flight.
// PRE: query is valid for QueryGetTrainerWeek
// POST: Returns the week and the token of this load. A load superseded
// while running returns a context error.
func (l *WeekLoader) Load(ctx context.Context, query GetTrainerWeekQuery) (TrainerWeek, uint64, error) {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	token := l.seq.Add(1)
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.mu.Unlock()

	w, err := QueryGetTrainerWeek(ctx, query, l.deps)

	l.mu.Lock()
	if l.seq.Load() == token {
		l.cancel = nil
	}
	l.mu.Unlock()
	cancel()
	return w, token, err
}

// IsCurrent reports whether token belongs to the most recently started load.
func (l *WeekLoader) IsCurrent(token uint64) bool {
	return l.seq.Load() == token
}

// Close cancels the load in flight, if any.
func (l *WeekLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

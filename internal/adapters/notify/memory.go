package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"planning/internal/domain/event"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// MemoryBroker is an in-process Broker. A subscriber whose buffer is full
// misses the command; the drop is logged and the subscriber recovers on the
// next delivery since every command triggers a full re-arbitration.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[int]chan event.Command
	next   int
	closed bool
	buffer int
	logger *zap.Logger
}

var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker creates an in-process broker.
func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryBroker{subs: make(map[int]chan event.Command), buffer: DefaultBuffer, logger: logger}
}

// Publish delivers cmd to every subscriber without blocking.
func (b *MemoryBroker) Publish(_ context.Context, cmd event.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	for id, ch := range b.subs {
		select {
		case ch <- cmd:
		default:
			b.logger.Warn("broker_subscriber_lagging",
				zap.Int("subscriber", id),
				zap.String("action", cmd.Action))
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx is done.
func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan event.Command, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	id := b.next
	b.next++
	ch := make(chan event.Command, b.buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()
	return ch, nil
}

func (b *MemoryBroker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *MemoryBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}

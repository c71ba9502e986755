package notify

import (
	"context"
	"errors"

	"planning/internal/domain/event"
)

// ErrClosed is returned when publishing or subscribing on a closed broker.
var ErrClosed = errors.New("broker is closed")

// Broker fans planning commands out to every subscriber, in-process or
// across server instances.
type Broker interface {
	// Publish delivers cmd to current subscribers.
	// PRE: cmd passes Validate
	Publish(ctx context.Context, cmd event.Command) error

	// Subscribe returns a channel of commands published after the call.
	// POST: The channel is closed once ctx is done or the broker closes
	Subscribe(ctx context.Context) (<-chan event.Command, error)

	// Close stops delivery and closes every subscription.
	Close() error
}

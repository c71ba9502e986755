package notify

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"planning/internal/domain/event"
)

// Channel is the Redis pub/sub channel carrying planning commands.
const Channel = "planning:commands"

// RedisBroker shares commands between server instances over Redis pub/sub.
type RedisBroker struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker connects to addr and checks the connection.
// PRE: addr is host:port
// POST: Returns a broker with a live connection, or an error
func NewRedisBroker(addr string, logger *zap.Logger) (*RedisBroker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logger.Info("redis_connected", zap.String("addr", addr))
	return &RedisBroker{rdb: rdb, logger: logger}, nil
}

// Publish encodes cmd as JSON and publishes it on Channel.
func (b *RedisBroker) Publish(ctx context.Context, cmd event.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	payload, err := cmd.Encode()
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	if err := b.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe listens on Channel until ctx is done. Undecodable messages are
// logged and skipped.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan event.Command, error) {
	ps := b.rdb.Subscribe(ctx, Channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan event.Command, DefaultBuffer)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				cmd, err := event.Decode(msg.Payload)
				if err != nil {
					b.logger.Warn("broker_bad_message", zap.Error(err))
					continue
				}
				select {
				case out <- cmd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the Redis client, ending every subscription.
func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}

package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// NoopSender logs sends without delivering them. Used in development and
// whenever no provider key is configured. Sent requests are kept for inspection.
type NoopSender struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []SendRequest
}

// NewNoopSender creates a new NoopSender. A nil logger disables logging.
func NewNoopSender(logger *zap.Logger) *NoopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopSender{logger: logger}
}

// Send logs the email but does not deliver it.
// PRE: req is a valid SendRequest
// POST: Returns a noop result without actual delivery
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.mu.Unlock()

	s.logger.Info("noop_email_send", zap.Strings("to", req.To), zap.String("subject", req.Subject))
	now := time.Now()
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", now.UnixNano()),
		SentAt:    now,
	}, nil
}

// Sent returns a copy of every request passed to Send.
func (s *NoopSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SendRequest(nil), s.sent...)
}

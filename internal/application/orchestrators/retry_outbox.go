package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"planning/internal/adapters/email"
	"planning/internal/domain/event"
	domain "planning/internal/domain/outbox"
	"planning/internal/logging"
)

// Outbox processing defaults.
const (
	DefaultRetryBaseDelay = 30 * time.Second
	DefaultRetryMaxDelay  = 1 * time.Hour
	DefaultBatchSize      = 50
)

// ErrNoExecutor is recorded on entries whose action type has no executor.
var ErrNoExecutor = errors.New("no executor registered for action type")

// OutboxStoreForProcessor defines the store interface needed by the processor.
type OutboxStoreForProcessor interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor executes a specific type of deferred action.
type ActionExecutor interface {
	// Execute runs the action with the given payload.
	Execute(ctx context.Context, payload string) error
}

// OutboxProcessor delivers outbox entries, retrying failures with exponential backoff.
// Batches never overlap: the kick worker, the cron schedule and admin
// retries take turns.
type OutboxProcessor struct {
	batchMu   sync.Mutex
	kick      chan struct{}
	store     OutboxStoreForProcessor
	executors map[string]ActionExecutor
	logger    *zap.Logger
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// NewOutboxProcessor creates a new outbox processor.
// PRE: store is non-nil; executors maps action types to executors
// POST: Returns a processor using the default delays and batch size
func NewOutboxProcessor(store OutboxStoreForProcessor, executors map[string]ActionExecutor, logger *zap.Logger) *OutboxProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxProcessor{
		kick:      make(chan struct{}, 1),
		store:     store,
		executors: executors,
		logger:    logger,
		now:       time.Now,
		baseDelay: DefaultRetryBaseDelay,
		maxDelay:  DefaultRetryMaxDelay,
		batchSize: DefaultBatchSize,
	}
}

// ProcessPending delivers every pending entry whose backoff has elapsed.
// PRE: Context is valid
// POST: Returns the number of entries attempted; failures are recorded on the entries
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	p.batchMu.Lock()
	defer p.batchMu.Unlock()

	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox entries: %w", err)
	}

	var attempted, failed int
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return attempted, err
		}
		if !entry.IsDue(p.now(), p.baseDelay, p.maxDelay) {
			continue
		}
		attempted++
		ok, err := p.processEntry(ctx, entry)
		if err != nil {
			p.logger.Error("outbox_save_failed", zap.String("entry_id", entry.ID), zap.Error(err))
		}
		if !ok {
			failed++
		}
	}

	if attempted > 0 {
		p.logger.Info("outbox_processed",
			zap.Int("attempted", attempted), zap.Int("failed", failed), zap.Int("listed", len(entries)))
	}
	return attempted, nil
}

// processEntry runs one attempt and persists the outcome.
// POST: Reports whether delivery succeeded; the error is the save error
func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) (bool, error) {
	entry.MarkAttempt(p.now())

	var err error
	executor, found := p.executors[entry.ActionType]
	if !found {
		err = fmt.Errorf("%w: %s", ErrNoExecutor, entry.ActionType)
	} else {
		err = executor.Execute(ctx, entry.Payload)
	}

	if err != nil {
		entry.MarkFailed(err)
		p.logger.Warn("outbox_action_failed",
			zap.String("entry_id", entry.ID), zap.String("action_type", entry.ActionType),
			zap.Int("attempt", entry.Attempts), zap.String("status", entry.Status), zap.Error(err))
	} else {
		entry.MarkSuccess()
		p.logger.Debug("outbox_action_succeeded",
			zap.String("entry_id", entry.ID), zap.String("action_type", entry.ActionType))
	}
	return err == nil, p.store.Save(ctx, entry)
}

// Retry gives an entry a fresh set of attempts and delivers it immediately (admin retry).
// PRE: entryID refers to a failed or abandoned entry
// POST: Entry attempted once; returns the updated entry
func (p *OutboxProcessor) Retry(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return domain.Entry{}, err
	}
	p.batchMu.Lock()
	_, err = p.processEntry(ctx, entry)
	p.batchMu.Unlock()
	if err != nil {
		return domain.Entry{}, err
	}
	return p.store.GetByID(ctx, entryID)
}

// Abandon marks an entry as abandoned by an admin.
// PRE: entryID refers to an entry that is not done
// POST: Entry status set to abandoned
func (p *OutboxProcessor) Abandon(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := entry.MarkAbandoned(); err != nil {
		return domain.Entry{}, err
	}
	if err := p.store.Save(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	p.logger.Info("outbox_entry_abandoned", zap.String("entry_id", entry.ID))
	return entry, nil
}

// StartScheduler runs ProcessPending on the given cron spec until the
// returned stop function is called. Overlapping runs are skipped.
// PRE: spec is a robfig/cron spec such as "@every 30s"
// POST: Scheduler started; stop waits for a running batch to finish
func (p *OutboxProcessor) StartScheduler(spec string, timeout time.Duration) (stop func(), err error) {
	cronLogger := logging.CronLogger{S: p.logger.Named("cron").Sugar()}
	c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger)))
	_, err = c.AddFunc(spec, func() {
		p.runBatch(context.Background(), timeout, "scheduler")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule outbox processing %q: %w", spec, err)
	}
	c.Start()
	p.logger.Info("outbox_scheduler_started", zap.String("spec", spec))
	return func() {
		<-c.Stop().Done()
		p.logger.Info("outbox_scheduler_stopped")
	}, nil
}

// Kick asks the worker started by StartWorker to deliver pending entries now.
// It never blocks; kicks arriving while a batch runs coalesce into one more batch.
func (p *OutboxProcessor) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// StartWorker runs ProcessPending after every Kick until the returned stop
// function is called. Entries still in backoff are left to the scheduler.
// POST: Worker started; stop cancels a running batch and waits for it
func (p *OutboxProcessor) StartWorker(timeout time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.kick:
				p.runBatch(ctx, timeout, "worker")
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (p *OutboxProcessor) runBatch(parent context.Context, timeout time.Duration, source string) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	if _, err := p.ProcessPending(ctx); err != nil && parent.Err() == nil {
		p.logger.Error("outbox_batch_failed", zap.String("source", source), zap.Error(err))
	}
}

// --- Schedule Command Executor ---

// CommandPublisher publishes schedule commands to subscribers.
type CommandPublisher interface {
	Publish(ctx context.Context, cmd event.Command) error
}

// BrokerExecutor publishes schedule commands.
type BrokerExecutor struct {
	Broker CommandPublisher
}

// Execute decodes the command and publishes it.
// PRE: payload is an encoded event.Command
// POST: Command published to every subscriber
// INVARIANT: outbox entry status managed by caller
func (e *BrokerExecutor) Execute(ctx context.Context, payload string) error {
	cmd, err := event.Decode(payload)
	if err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	return e.Broker.Publish(ctx, cmd)
}

// --- Email Executor ---

// EmailExecutor renders Markdown emails and sends them.
type EmailExecutor struct {
	Sender email.Sender
}

// Execute sends an email from the payload.
// PRE: payload is valid JSON matching domain.EmailPayload
// POST: email accepted by the sender
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) error {
	var p domain.EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	html, err := email.RenderMarkdown(p.Markdown)
	if err != nil {
		return err
	}
	_, err = e.Sender.Send(ctx, email.SendRequest{
		To:      []string{p.To},
		Subject: p.Subject,
		HTML:    html,
	})
	return err
}

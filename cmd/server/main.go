package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"planning/internal/adapters/email"
	web "planning/internal/adapters/http"
	"planning/internal/adapters/http/perf"
	"planning/internal/adapters/notify"
	"planning/internal/adapters/storage"
	absenceStore "planning/internal/adapters/storage/absence"
	assignmentStore "planning/internal/adapters/storage/assignment"
	availabilityStore "planning/internal/adapters/storage/availability"
	closureStore "planning/internal/adapters/storage/closure"
	locationStore "planning/internal/adapters/storage/location"
	outboxStore "planning/internal/adapters/storage/outbox"
	trainerStore "planning/internal/adapters/storage/trainer"
	"planning/internal/application/orchestrators"
	"planning/internal/config"
	"planning/internal/domain/outbox"
	"planning/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// Timeouts for background work and shutdown.
const (
	outboxBatchTimeout = 2 * time.Minute
	shutdownTimeout    = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "planning:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.Migrate(ctx, db, cfg.DBDriver, logger); err != nil {
		return err
	}
	schema, err := storage.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, logger.Named("db"), cfg.SlowQuery)

	stores := &web.Stores{
		TrainerStore:    trainerStore.NewSQLStore(timedDB),
		LocationStore:   locationStore.NewSQLStore(timedDB),
		TemplateStore:   availabilityStore.NewSQLStore(timedDB),
		AbsenceStore:    absenceStore.NewSQLStore(timedDB),
		AssignmentStore: assignmentStore.NewSQLStore(timedDB),
		ClosureStore:    closureStore.NewSQLStore(timedDB),
		OutboxStore:     outboxStore.NewSQLStore(timedDB),
	}

	broker, err := newBroker(cfg, logger)
	if err != nil {
		return err
	}
	defer broker.Close()

	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeScheduleCommand: &orchestrators.BrokerExecutor{Broker: broker},
		outbox.ActionTypeEmail:           &orchestrators.EmailExecutor{Sender: newSender(cfg, logger)},
	}, logger.Named("outbox"))
	stopScheduler, err := processor.StartScheduler(cfg.OutboxSchedule, outboxBatchTimeout)
	if err != nil {
		return err
	}
	defer stopScheduler()
	stopWorker := processor.StartWorker(outboxBatchTimeout)
	defer stopWorker()

	handler, stopMux := web.NewMux(cfg, stores, web.Services{
		Broker:    broker,
		Processor: processor,
		Collector: collector,
		Logger:    logger.Named("http"),
		Ping:      timedDB.PingContext,
	})
	defer stopMux()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting",
			zap.String("version", version),
			zap.String("addr", cfg.Addr),
			zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.DBDriver),
			zap.Int64("schema", schema))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("server_stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// newBroker shares notifications through Redis when configured, in process otherwise.
func newBroker(cfg *config.Config, logger *zap.Logger) (notify.Broker, error) {
	if cfg.RedisAddr == "" {
		logger.Info("broker_configured", zap.String("kind", "memory"))
		return notify.NewMemoryBroker(logger.Named("broker")), nil
	}
	b, err := notify.NewRedisBroker(cfg.RedisAddr, logger.Named("broker"))
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("broker_configured", zap.String("kind", "redis"), zap.String("addr", cfg.RedisAddr))
	return b, nil
}

// newSender delivers through Resend when a key is set, otherwise records and logs.
func newSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	if cfg.ResendKey != "" {
		logger.Info("email_sender_configured", zap.String("kind", "resend"))
		return email.NewResendSender(cfg.ResendKey, cfg.EmailFrom, logger.Named("email"))
	}
	if cfg.IsProduction() {
		logger.Warn("email_delivery_disabled", zap.String("hint", "set PLANNING_RESEND_KEY"))
	}
	return email.NewNoopSender(logger.Named("email"))
}

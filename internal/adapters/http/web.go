package web

import (
	"context"
	"crypto/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"planning/internal/adapters/http/middleware"
	"planning/internal/adapters/http/perf"
	"planning/internal/adapters/notify"
	absenceStore "planning/internal/adapters/storage/absence"
	assignmentStore "planning/internal/adapters/storage/assignment"
	availabilityStore "planning/internal/adapters/storage/availability"
	closureStore "planning/internal/adapters/storage/closure"
	locationStore "planning/internal/adapters/storage/location"
	outboxStore "planning/internal/adapters/storage/outbox"
	trainerStore "planning/internal/adapters/storage/trainer"
	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
	"planning/internal/config"
	"planning/internal/domain/planning"
	"planning/internal/domain/slot"
)

// Stores holds all storage dependencies.
type Stores struct {
	TrainerStore    trainerStore.Store
	LocationStore   locationStore.Store
	TemplateStore   availabilityStore.Store
	AbsenceStore    absenceStore.Store
	AssignmentStore assignmentStore.Store
	ClosureStore    closureStore.Store
	OutboxStore     outboxStore.Store
}

// Services holds the runtime collaborators shared by handlers.
type Services struct {
	Broker    notify.Broker                   // SSE subscriptions
	Processor *orchestrators.OutboxProcessor // admin retry/abandon
	Collector *perf.Collector                 // optional
	Logger    *zap.Logger                     // optional
	Ping      func(ctx context.Context) error // optional database health check
}

// Global state set by NewMux.
var (
	stores        *Stores
	broker        notify.Broker
	processor     *orchestrators.OutboxProcessor
	perfCollector *perf.Collector
	logger        = zap.NewNop()
	arbitrator    *planning.Arbitrator
	weekdays      = slot.DefaultWeekdays
	tz            = time.UTC
	healthCheck   func(ctx context.Context) error
)

// sseKeepAlive is the interval between comment lines on idle event streams.
var sseKeepAlive = 25 * time.Second

// csrfKey returns the configured key or, outside production, a random one.
func csrfKey(cfg *config.Config) []byte {
	if len(cfg.CSRFKey) == 32 {
		return cfg.CSRFKey
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	logger.Warn("csrf_random_key", zap.String("hint", "set PLANNING_CSRF_KEY to keep form tokens valid across restarts"))
	return key
}

// NewMux wires HTTP handlers for the app.
// PRE: cfg has been validated by config.Parse; s and svc.Broker are set
// POST: Returns the handler chain and a stop function for background work
func NewMux(cfg *config.Config, s *Stores, svc Services) (http.Handler, func()) {
	stores = s
	broker = svc.Broker
	processor = svc.Processor
	perfCollector = svc.Collector
	healthCheck = svc.Ping
	if svc.Logger != nil {
		logger = svc.Logger
	}
	arbitrator = planning.NewArbitrator(planning.WithLogger(logger))
	if cfg.Weekdays != (slot.Weekdays{}) {
		weekdays = cfg.Weekdays
	}
	if cfg.Location != nil {
		tz = cfg.Location
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	chain := []func(http.Handler) http.Handler{
		middleware.CSRF(csrfKey(cfg), cfg.IsProduction(), nil),
		middleware.SecurityHeaders,
	}
	stop := func() {}
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, 0, logger)
		chain = append(chain, middleware.RateLimit(limiter))
		stop = limiter.Stop
	}
	chain = append(chain, middleware.Timing(svc.Collector, logger, cfg.SlowRequest))

	// Request order: Timing -> RateLimit -> SecurityHeaders -> CSRF -> mux
	return middleware.Chain(mux, chain...), stop
}

func weekDeps() projections.GetTrainerWeekDeps {
	return projections.GetTrainerWeekDeps{
		TrainerStore:    stores.TrainerStore,
		LocationStore:   stores.LocationStore,
		TemplateStore:   stores.TemplateStore,
		AbsenceStore:    stores.AbsenceStore,
		AssignmentStore: stores.AssignmentStore,
		ClosureStore:    stores.ClosureStore,
		Arbitrator:      arbitrator,
		Weekdays:        weekdays,
		Logger:          logger,
	}
}

func effects() orchestrators.Effects {
	return orchestrators.Effects{
		Outbox:     stores.OutboxStore,
		GenerateID: generateID,
		Now:        timeNow,
		Kick:       kickOutbox,
		Logger:     logger,
	}
}

// kickOutbox requests immediate delivery of freshly enqueued entries.
func kickOutbox() {
	if processor != nil {
		processor.Kick()
	}
}

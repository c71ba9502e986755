package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"planning/internal/domain/slot"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Configuration errors
var (
	ErrInvalidDriver   = errors.New("PLANNING_DB_DRIVER must be sqlite or postgres")
	ErrMissingCSRFKey  = errors.New("PLANNING_CSRF_KEY is required in production")
	ErrInvalidCSRFKey  = errors.New("PLANNING_CSRF_KEY must be 32 hex-encoded bytes")
	ErrInvalidDuration = errors.New("invalid millisecond duration")
)

// Config is the process configuration, read once at startup.
type Config struct {
	Env            string
	Addr           string
	DBDriver       string
	DBDSN          string
	LogLevel       string
	CSRFKey        []byte // nil outside production means a random key per process
	RedisAddr      string // empty selects the in-memory broker
	ResendKey      string // empty selects the noop email sender
	EmailFrom      string
	OutboxSchedule string // robfig/cron spec
	Weekdays       slot.Weekdays
	Location       *time.Location
	RateLimit      float64 // requests per second per IP, 0 disables
	SlowQuery      time.Duration
	SlowRequest    time.Duration
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional .env file, then the environment.
// PRE: none
// POST: Returns a validated Config or the first configuration error
func Load() (*Config, error) {
	// A missing .env is normal; real deployments set variables directly.
	_ = godotenv.Load(".env")
	return Parse(os.Getenv)
}

// Parse builds a Config from a variable lookup function.
func Parse(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Env:            get("PLANNING_ENV", EnvDevelopment),
		Addr:           get("PLANNING_ADDR", ":8080"),
		DBDriver:       get("PLANNING_DB_DRIVER", DriverSQLite),
		DBDSN:          get("PLANNING_DB_DSN", "planning.db"),
		LogLevel:       get("PLANNING_LOG_LEVEL", "info"),
		RedisAddr:      get("PLANNING_REDIS_ADDR", ""),
		ResendKey:      get("PLANNING_RESEND_KEY", ""),
		EmailFrom:      get("PLANNING_EMAIL_FROM", "ACLEF Planning <planning@aclef.fr>"),
		OutboxSchedule: get("PLANNING_OUTBOX_SCHEDULE", "@every 30s"),
		Weekdays:       slot.DefaultWeekdays,
	}

	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, cfg.DBDriver)
	}

	if raw := get("PLANNING_CSRF_KEY", ""); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return nil, ErrInvalidCSRFKey
		}
		cfg.CSRFKey = key
	} else if cfg.IsProduction() {
		return nil, ErrMissingCSRFKey
	}

	if raw := get("PLANNING_WEEKDAY_LABELS", ""); raw != "" {
		w, err := slot.ParseWeekdays(raw)
		if err != nil {
			return nil, fmt.Errorf("PLANNING_WEEKDAY_LABELS: %w", err)
		}
		cfg.Weekdays = w
	}

	loc, err := time.LoadLocation(get("PLANNING_TIMEZONE", "Europe/Paris"))
	if err != nil {
		return nil, fmt.Errorf("PLANNING_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if raw := get("PLANNING_RATE_LIMIT", "20"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("PLANNING_RATE_LIMIT: invalid rate %q", raw)
		}
		cfg.RateLimit = rate
	}

	if cfg.SlowQuery, err = millis(get("PLANNING_SLOW_QUERY_MS", "50")); err != nil {
		return nil, fmt.Errorf("PLANNING_SLOW_QUERY_MS: %w", err)
	}
	if cfg.SlowRequest, err = millis(get("PLANNING_SLOW_REQUEST_MS", "200")); err != nil {
		return nil, fmt.Errorf("PLANNING_SLOW_REQUEST_MS: %w", err)
	}
	return cfg, nil
}

func millis(raw string) (time.Duration, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	return time.Duration(n) * time.Millisecond, nil
}

package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"planning/internal/domain/week"
	"planning/internal/logging"
)

//go:embed migrations/*.sql
var migrations embed.FS

// TimeLayout is the fixed-width UTC timestamp layout stored in TEXT columns.
// Fixed width keeps lexical and chronological order identical.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteDefaultPragmas are appended to file DSNs without a query string.
const sqliteDefaultPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Open opens and pings a database for driver "sqlite" or "postgres".
// PRE: driver is sqlite or postgres, dsn is non-empty
// POST: Returns a live pool sized for the driver
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	switch driver {
	case "sqlite":
		memory := strings.Contains(dsn, ":memory:")
		if !memory && !strings.Contains(dsn, "?") {
			dsn += sqliteDefaultPragmas
		}
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if memory {
			// Every connection to :memory: is a distinct database.
			db.SetMaxOpenConns(1)
		} else {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(25)
		}
	case "postgres":
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(20)
		db.SetConnMaxIdleTime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// Migrate applies every pending embedded migration.
// PRE: db is open, driver matches the one given to Open
// POST: Schema is at the latest version
func Migrate(ctx context.Context, db *sql.DB, driver string, logger *zap.Logger) error {
	dialect := "sqlite3"
	if driver == "postgres" {
		dialect = "postgres"
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(logging.GooseLogger{S: logger.Sugar()})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return v, nil
}

// FormatTime formats t for storage; the zero time is stored as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp; "" yields the zero time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseDate parses a stored calendar date; "" yields the zero Date.
func ParseDate(s string) (week.Date, error) {
	if s == "" {
		return week.Date{}, nil
	}
	return week.ParseDate(s)
}

// BoolToInt encodes a boolean for an INTEGER column.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

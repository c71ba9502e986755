// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"go.uber.org/zap"

	"planning/internal/adapters/storage"
)

// Open returns a migrated in-memory SQLite database closed at test cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(ctx, db, "sqlite", zap.NewNop()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

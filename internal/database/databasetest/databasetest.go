// Package databasetest provides migrated in-memory SQLite stores for tests.
package databasetest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"shortly-analytics/internal/database"
)

var seq atomic.Int64

// New returns a freshly migrated in-memory store that is closed with the test.
func New(t testing.TB) *database.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	ctx := context.Background()
	db, err := database.NewConnection(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(ctx, db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// Count runs a COUNT query and fails the test on error.
func Count(t testing.TB, db *database.DB, query string, args ...any) int64 {
	t.Helper()

	var n int64
	if err := db.QueryRowContext(context.Background(), db.Rebind(query), args...).Scan(&n); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	return n
}

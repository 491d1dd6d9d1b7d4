package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/tanzeem/pickup/internal/database"
	"github.com/tanzeem/pickup/internal/migrations"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrations(t *testing.T) {
	db := openMemory(t)

	n, err := migrations.Run(context.Background(), db, goose.DialectSQLite3)
	if err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if n != 1 {
		t.Errorf("applied = %d, want 1", n)
	}

	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", "snapshots",
	).Scan(&name)
	if err != nil {
		t.Errorf("table %q not found: %v", "snapshots", err)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if _, err := migrations.Run(ctx, db, goose.DialectSQLite3); err != nil {
		t.Fatalf("first run: %v", err)
	}
	n, err := migrations.Run(ctx, db, goose.DialectSQLite3)
	if err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
	if n != 0 {
		t.Errorf("second run applied %d migrations", n)
	}
}

func TestMigrationsUnknownDialect(t *testing.T) {
	db := openMemory(t)

	if _, err := migrations.Run(context.Background(), db, goose.Dialect("oracle-ish")); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

// Package migrations holds the embedded SQL schema for the SQL snapshot slot.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

// Run applies all pending migrations against db and returns how many ran.
// dialect is goose.DialectSQLite3 for libSQL or goose.DialectPostgres.
func Run(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int, error) {
	p, err := goose.NewProvider(dialect, db, fs)
	if err != nil {
		return 0, fmt.Errorf("creating migration provider: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("running migrations: %w", err)
	}
	return len(results), nil
}

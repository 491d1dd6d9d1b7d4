package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQL stores snapshots as rows of the snapshots table created by the
// migrations package. It works with libSQL and pgx connections.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

func (s *SQL) bind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	// Rewrite ? placeholders to $n.
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = fmt.Appendf(out, "$%d", n)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		s.bind(`SELECT data FROM snapshots WHERE name = ?`), key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tanzeem.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("selecting snapshot: %w", err)
	}
	return []byte(data), nil
}

func (s *SQL) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, s.bind(`
		INSERT INTO snapshots (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`), key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

func (s *SQL) Check(ctx context.Context) error { return s.db.PingContext(ctx) }

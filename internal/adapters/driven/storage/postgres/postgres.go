package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

const pingTimeout = 5 * time.Second

// Open connects to Postgres and verifies the connection.
// An unreachable server yields domain.ErrMissingDependency.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connecting to postgres: %w", domain.ErrMissingDependency, err)
	}

	return db, nil
}

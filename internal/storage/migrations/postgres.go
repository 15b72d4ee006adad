package migrations

import (
	"context"
	"fmt"

	"reddit-sentiment-lab/internal/logger"
	"reddit-sentiment-lab/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded PostgreSQL migrations in lexical order.
// Migrations are idempotent (IF NOT EXISTS) and run on every start.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log = logger.OrDefault(log)

	files, err := load(PostgresFS, "postgres")
	if err != nil {
		return err
	}

	for _, m := range files {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		log.Debugw("applied postgres migration", "file", m.name)
	}
	return nil
}

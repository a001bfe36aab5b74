package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"smartWaiter/internal/platform/store"
)

// Open connects a pgx pool to databaseURL, optionally applying migrations first.
func Open(ctx context.Context, databaseURL string, runMigrations bool) (*store.Store, error) {
	if runMigrations {
		if err := Migrate(databaseURL); err != nil {
			return nil, err
		}
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return store.New(
		NewTableRepository(pool),
		NewMenuRepository(pool),
		NewOrderRepository(pool),
		pool.Close,
	), nil
}

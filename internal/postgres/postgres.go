// Package postgres owns the connection pool and the idempotent schema setup.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and verifies it with a few ping retries so the
// service survives a database that is still starting up.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	for i := 0; i < 5; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			return pool, nil
		}
		time.Sleep(2 * time.Second)
	}
	pool.Close()
	return nil, fmt.Errorf("ping postgres: %w", err)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		name_localized TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                    TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		name_localized        TEXT NOT NULL DEFAULT '',
		description           TEXT NOT NULL DEFAULT '',
		description_localized TEXT NOT NULL DEFAULT '',
		price                 NUMERIC(12,3) NOT NULL CHECK (price >= 0),
		images                JSONB NOT NULL DEFAULT '[]',
		category_id           TEXT REFERENCES categories(id) ON DELETE SET NULL,
		total_stock           INT NOT NULL DEFAULT 0 CHECK (total_stock >= 0),
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS product_variants (
		id         TEXT NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		stock      INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image      TEXT NOT NULL DEFAULT '',
		position   INT NOT NULL DEFAULT 0,
		PRIMARY KEY (product_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL,
		address    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id            TEXT PRIMARY KEY,
		customer_id   TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		status        TEXT NOT NULL DEFAULT 'processing',
		delivery_type TEXT NOT NULL,
		delivery_area TEXT NOT NULL DEFAULT '',
		notes         TEXT NOT NULL DEFAULT '',
		total         NUMERIC(12,3) NOT NULL,
		delivery_fee  NUMERIC(12,3) NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// order_items.product_id carries no FK: items are historical snapshots
	// and must survive catalog deletions.
	`CREATE TABLE IF NOT EXISTS order_items (
		id         TEXT PRIMARY KEY,
		order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL DEFAULT '',
		quantity   INT NOT NULL CHECK (quantity > 0),
		price      NUMERIC(12,3) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		path       TEXT NOT NULL DEFAULT '',
		referrer   TEXT NOT NULL DEFAULT '',
		lang       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events (created_at DESC)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

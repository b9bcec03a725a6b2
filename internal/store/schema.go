package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id            UUID PRIMARY KEY,
		started_at        TIMESTAMPTZ NOT NULL,
		total_markets     INT NOT NULL,
		unified_groups    INT NOT NULL,
		high_confidence   INT NOT NULL,
		compression_ratio DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id           BIGSERIAL PRIMARY KEY,
		run_id       UUID NOT NULL REFERENCES runs(run_id),
		platform     TEXT NOT NULL,
		market_id    TEXT NOT NULL,
		title        TEXT NOT NULL,
		price        DOUBLE PRECISION NOT NULL,
		volume       DOUBLE PRECISION NOT NULL,
		category     TEXT NOT NULL,
		collected_at TIMESTAMPTZ NOT NULL,
		UNIQUE (run_id, platform, market_id, title)
	)`,
	`CREATE TABLE IF NOT EXISTS unified_groups (
		group_id       UUID PRIMARY KEY,
		run_id         UUID NOT NULL REFERENCES runs(run_id),
		name           TEXT NOT NULL,
		category       TEXT NOT NULL,
		confidence     DOUBLE PRECISION NOT NULL,
		reasoning      TEXT NOT NULL,
		product_count  INT NOT NULL,
		platform_count INT NOT NULL,
		platforms      TEXT[] NOT NULL DEFAULT '{}',
		price_spread   DOUBLE PRECISION NOT NULL,
		arbitrage      BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_run ON listings (run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_groups_confidence ON unified_groups (confidence DESC)`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// InsertStats counts how a batch insert resolved.
type InsertStats struct {
	Inserts   int64
	Conflicts int64
}

// SaveRun persists one pipeline run: the run row, every raw listing,
// and every unified group. Listings already present for the run are
// skipped via ON CONFLICT DO NOTHING.
func (s *Store) SaveRun(ctx context.Context, runID uuid.UUID, raw *model.RawDataset, unified *model.UnifiedDataset) (InsertStats, error) {
	var stats InsertStats

	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (run_id, started_at, total_markets, unified_groups, high_confidence, compression_ratio)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING
	`, runID, raw.CollectedAt, raw.TotalMarkets, unified.UnifiedGroups, unified.HighConfidence, unified.CompressionRatio)
	if err != nil {
		return stats, fmt.Errorf("insert run: %w", err)
	}

	listingStats, err := s.insertListings(ctx, runID, raw.Listings)
	if err != nil {
		return stats, fmt.Errorf("insert listings: %w", err)
	}
	stats.Inserts += listingStats.Inserts
	stats.Conflicts += listingStats.Conflicts

	groupStats, err := s.insertGroups(ctx, runID, unified.Products)
	if err != nil {
		return stats, fmt.Errorf("insert groups: %w", err)
	}
	stats.Inserts += groupStats.Inserts
	stats.Conflicts += groupStats.Conflicts

	s.logger.Info("run persisted",
		"run_id", runID,
		"inserts", stats.Inserts,
		"conflicts", stats.Conflicts)
	return stats, nil
}

func (s *Store) insertListings(ctx context.Context, runID uuid.UUID, listings []model.Listing) (InsertStats, error) {
	batch := &pgx.Batch{}
	for _, l := range listings {
		collectedAt := l.CollectedAt
		if collectedAt.IsZero() {
			collectedAt = time.Now().UTC()
		}
		batch.Queue(`
			INSERT INTO listings (run_id, platform, market_id, title, price, volume, category, collected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (run_id, platform, market_id, title) DO NOTHING
		`, runID, l.Platform, l.MarketID, l.Title, l.Price, l.Volume, l.Category, collectedAt)
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) insertGroups(ctx context.Context, runID uuid.UUID, products []model.UnifiedProduct) (InsertStats, error) {
	batch := &pgx.Batch{}
	for _, p := range products {
		m := model.ComputeGroupMetrics(p)
		batch.Queue(`
			INSERT INTO unified_groups (group_id, run_id, name, category, confidence, reasoning, product_count, platform_count, platforms, price_spread, arbitrage)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (group_id) DO NOTHING
		`, p.GroupID, runID, p.Name, primaryCategory(p), p.Confidence, p.Reasoning, p.ProductCount, m.PlatformCount, m.PlatformList, m.PriceSpread, m.Arbitrage)
	}
	return s.sendBatch(ctx, batch)
}

// primaryCategory picks the first non-empty listing category in
// platform column order, defaulting to "General".
func primaryCategory(p model.UnifiedProduct) string {
	for _, platform := range model.KnownPlatforms() {
		for _, l := range p.Platforms[platform] {
			if l.Category != "" {
				return l.Category
			}
		}
	}
	return "General"
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch) (InsertStats, error) {
	var stats InsertStats
	if batch.Len() == 0 {
		return stats, nil
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		ct, err := results.Exec()
		if err != nil {
			return stats, err
		}
		if ct.RowsAffected() == 0 {
			stats.Conflicts++
		} else {
			stats.Inserts++
		}
	}
	return stats, nil
}

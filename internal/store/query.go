package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// GroupFilter narrows ListGroups results. Zero values are ignored.
type GroupFilter struct {
	RunID         uuid.UUID
	Platform      string
	Category      string
	MinConfidence float64
	ArbitrageOnly bool
	Limit         int
}

// GroupRecord is a persisted unified group row.
type GroupRecord struct {
	GroupID       uuid.UUID
	RunID         uuid.UUID
	Name          string
	Category      string
	Confidence    float64
	Reasoning     string
	ProductCount  int
	PlatformCount int
	Platforms     []string
	PriceSpread   float64
	Arbitrage     bool
}

// ListGroups returns persisted groups matching the filter, highest
// confidence first.
func (s *Store) ListGroups(ctx context.Context, filter GroupFilter) ([]GroupRecord, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("group_id", "run_id", "name", "category", "confidence", "reasoning",
			"product_count", "platform_count", "platforms", "price_spread", "arbitrage").
		From("unified_groups").
		OrderBy("confidence DESC, price_spread DESC")

	if filter.RunID != uuid.Nil {
		builder = builder.Where(sq.Eq{"run_id": filter.RunID})
	}
	if filter.Platform != "" {
		builder = builder.Where(sq.Expr("? = ANY(platforms)", filter.Platform))
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.MinConfidence > 0 {
		builder = builder.Where(sq.GtOrEq{"confidence": filter.MinConfidence})
	}
	if filter.ArbitrageOnly {
		builder = builder.Where(sq.Eq{"arbitrage": true})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var records []GroupRecord
	for rows.Next() {
		var r GroupRecord
		if err := rows.Scan(&r.GroupID, &r.RunID, &r.Name, &r.Category, &r.Confidence, &r.Reasoning,
			&r.ProductCount, &r.PlatformCount, &r.Platforms, &r.PriceSpread, &r.Arbitrage); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

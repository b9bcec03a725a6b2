package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// Manifold collects listings from the Manifold Markets API.
type Manifold struct {
	client *Client
	limit  int
	logger *slog.Logger
}

var _ Collector = (*Manifold)(nil)

// NewManifold creates a Manifold collector.
func NewManifold(client *Client, limit int, logger *slog.Logger) *Manifold {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manifold{client: client, limit: limit, logger: logger}
}

// Name returns the platform name.
func (m *Manifold) Name() string { return model.PlatformManifold }

// manifoldMarket from GET /markets
type manifoldMarket struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Probability float64  `json:"probability"`
	Volume      float64  `json:"volume"`
	OutcomeType string   `json:"outcomeType"`
	IsResolved  bool     `json:"isResolved"`
	GroupSlugs  []string `json:"groupSlugs"`
	TextDesc    string   `json:"textDescription"`
}

// Collect fetches open binary markets.
func (m *Manifold) Collect(ctx context.Context, req CollectRequest) ([]model.Listing, error) {
	limit := req.Limit
	if limit == 0 {
		limit = m.limit
	}

	query := url.Values{}
	// Over-fetch so that filtering resolved and non-binary markets
	// still fills the limit.
	query.Set("limit", strconv.Itoa(limit*2))
	query.Set("sort", "last-bet-time")

	var markets []manifoldMarket
	if err := m.client.getJSON(ctx, m.Name(), "/markets", query, &markets); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	now := time.Now().UTC()
	listings := make([]model.Listing, 0, limit)

	for _, market := range markets {
		if len(listings) >= limit {
			break
		}
		if market.IsResolved || market.OutcomeType != "BINARY" || market.Question == "" {
			continue
		}
		if market.Probability <= 0 || market.Probability >= 1 {
			m.logger.Debug("skipping market with degenerate probability",
				"platform", m.Name(),
				"market_id", market.ID,
				"probability", market.Probability,
			)
			continue
		}

		listings = append(listings, model.Listing{
			Platform:    m.Name(),
			Title:       market.Question,
			Price:       market.Probability,
			Volume:      market.Volume,
			Category:    manifoldCategory(market.GroupSlugs),
			MarketID:    market.ID,
			Description: truncate(market.TextDesc, 200),
			CollectedAt: now,
		})
	}

	return listings, nil
}

// manifoldCategory maps the first group slug to a report category.
func manifoldCategory(slugs []string) string {
	if len(slugs) == 0 {
		return "General"
	}

	switch slugs[0] {
	case "politics", "us-politics", "elections":
		return "Politics"
	case "economics", "finance", "stocks":
		return "Economics"
	case "crypto", "bitcoin", "ethereum":
		return "Crypto"
	case "ai", "technology", "science-technology":
		return "Technology"
	case "sports", "football", "basketball":
		return "Sports"
	default:
		return "General"
	}
}

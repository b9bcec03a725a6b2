package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// marketsPerEvent caps how many markets are taken from a single
// Polymarket event so one large event cannot dominate the dataset.
const marketsPerEvent = 2

// Polymarket collects listings from the Polymarket gamma API.
type Polymarket struct {
	client *Client
	limit  int
	logger *slog.Logger
}

var _ Collector = (*Polymarket)(nil)

// NewPolymarket creates a Polymarket collector.
func NewPolymarket(client *Client, limit int, logger *slog.Logger) *Polymarket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Polymarket{client: client, limit: limit, logger: logger}
}

// Name returns the platform name.
func (p *Polymarket) Name() string { return model.PlatformPolymarket }

// polymarketEvent from GET /events
type polymarketEvent struct {
	Title       string             `json:"title"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Markets     []polymarketMarket `json:"markets"`
}

type polymarketMarket struct {
	ID        string    `json:"id"`
	LastPrice flexFloat `json:"lastTradePrice"`
	Volume    flexFloat `json:"volume"`
}

// Collect fetches events and flattens their markets into listings.
func (p *Polymarket) Collect(ctx context.Context, req CollectRequest) ([]model.Listing, error) {
	limit := req.Limit
	if limit == 0 {
		limit = p.limit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("closed", "false")

	var events []polymarketEvent
	if err := p.client.getJSON(ctx, p.Name(), "/events", query, &events); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}

	now := time.Now().UTC()
	listings := make([]model.Listing, 0, limit)

	for _, event := range events {
		if len(listings) >= limit {
			break
		}
		if event.Title == "" || len(event.Markets) == 0 {
			continue
		}

		category := event.Category
		if category == "" {
			category = "General"
		}

		markets := event.Markets
		if len(markets) > marketsPerEvent {
			markets = markets[:marketsPerEvent]
		}

		for _, market := range markets {
			price := float64(market.LastPrice)
			if price <= 0 || price > 1 {
				p.logger.Warn("skipping market with implausible price",
					"platform", p.Name(),
					"market_id", market.ID,
					"price", price,
				)
				continue
			}

			listings = append(listings, model.Listing{
				Platform:    p.Name(),
				Title:       event.Title,
				Price:       price,
				Volume:      float64(market.Volume),
				Category:    category,
				MarketID:    market.ID,
				Description: truncate(event.Description, 200),
				CollectedAt: now,
			})
		}
	}

	return listings, nil
}

// flexFloat unmarshals a JSON number that gamma sometimes serializes
// as a quoted string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

var _ json.Unmarshaler = (*flexFloat)(nil)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

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

// kalshiPageSize is the max page size accepted by GET /markets.
const kalshiPageSize = 1000

// Kalshi collects listings from the Kalshi trade API.
type Kalshi struct {
	client *Client
	limit  int
	logger *slog.Logger
}

var _ Collector = (*Kalshi)(nil)

// NewKalshi creates a Kalshi collector.
func NewKalshi(client *Client, limit int, logger *slog.Logger) *Kalshi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kalshi{client: client, limit: limit, logger: logger}
}

// Name returns the platform name.
func (k *Kalshi) Name() string { return model.PlatformKalshi }

// kalshiMarketsResponse from GET /markets
type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

// kalshiMarket is the subset of market fields the pipeline consumes.
type kalshiMarket struct {
	Ticker   string `json:"ticker"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category"`
	Status   string `json:"status"`

	// Prices in cents
	YesBid    int `json:"yes_bid"`
	YesAsk    int `json:"yes_ask"`
	LastPrice int `json:"last_price"`

	Volume       int64 `json:"volume"`
	OpenInterest int64 `json:"open_interest"`
}

// Collect pages through /markets until limit listings are gathered or
// the cursor is exhausted.
func (k *Kalshi) Collect(ctx context.Context, req CollectRequest) ([]model.Listing, error) {
	limit := req.Limit
	if limit == 0 {
		limit = k.limit
	}

	now := time.Now().UTC()
	listings := make([]model.Listing, 0, limit)
	cursor := ""

	for len(listings) < limit {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(min(limit, kalshiPageSize)))
		query.Set("status", "open")
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var resp kalshiMarketsResponse
		if err := k.client.getJSON(ctx, k.Name(), "/markets", query, &resp); err != nil {
			return nil, fmt.Errorf("get markets: %w", err)
		}

		for _, market := range resp.Markets {
			if len(listings) >= limit {
				break
			}
			if market.Title == "" {
				continue
			}

			price := kalshiPrice(market)
			if price <= 0 {
				k.logger.Debug("skipping market without a usable price",
					"platform", k.Name(),
					"ticker", market.Ticker,
				)
				continue
			}

			category := market.Category
			if category == "" {
				category = "General"
			}

			listings = append(listings, model.Listing{
				Platform:    k.Name(),
				Title:       market.Title,
				Price:       price,
				Volume:      float64(market.Volume),
				Category:    category,
				MarketID:    market.Ticker,
				Description: truncate(market.Subtitle, 200),
				CollectedAt: now,
			})
		}

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	return listings, nil
}

// kalshiPrice converts cent-denominated quotes to implied probability,
// preferring the last trade and falling back to the yes bid.
func kalshiPrice(m kalshiMarket) float64 {
	cents := m.LastPrice
	if cents == 0 {
		cents = m.YesBid
	}
	return float64(cents) / 100.0
}

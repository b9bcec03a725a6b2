package platform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// PredictionMarket scrapes the Prediction-Market listing page. The site
// has no public JSON API, so listings are extracted from the rendered
// market cards.
type PredictionMarket struct {
	client *Client
	limit  int
	logger *slog.Logger
}

var _ Collector = (*PredictionMarket)(nil)

// NewPredictionMarket creates a Prediction-Market collector.
func NewPredictionMarket(client *Client, limit int, logger *slog.Logger) *PredictionMarket {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionMarket{client: client, limit: limit, logger: logger}
}

// Name returns the platform name.
func (p *PredictionMarket) Name() string { return model.PlatformPredictionMarket }

// Collect fetches the markets page and parses each market card.
func (p *PredictionMarket) Collect(ctx context.Context, req CollectRequest) ([]model.Listing, error) {
	limit := req.Limit
	if limit == 0 {
		limit = p.limit
	}

	body, err := p.client.getBody(ctx, p.Name(), "/markets", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch markets page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse markets page: %w", err)
	}

	now := time.Now().UTC()
	listings := make([]model.Listing, 0, limit)

	doc.Find("div.market-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		listing, err := parseMarketCard(card)
		if err != nil {
			p.logger.Warn("skipping unparseable market card",
				"platform", p.Name(),
				"index", i,
				"error", err,
			)
			return true
		}

		listing.CollectedAt = now
		listings = append(listings, listing)
		return len(listings) < limit
	})

	if len(listings) == 0 {
		return nil, fmt.Errorf("no market cards found on page")
	}

	return listings, nil
}

// parseMarketCard extracts one listing from a market card node.
func parseMarketCard(card *goquery.Selection) (model.Listing, error) {
	title := strings.TrimSpace(card.Find(".market-card__name").First().Text())
	if title == "" {
		return model.Listing{}, fmt.Errorf("card has no market name")
	}

	priceText := strings.TrimSpace(card.Find(".market-card__price").First().Text())
	price, err := parsePrice(priceText)
	if err != nil {
		return model.Listing{}, fmt.Errorf("market %q: %w", title, err)
	}

	volumeText := strings.TrimSpace(card.Find(".market-card__volume").First().Text())
	volume := parseVolume(volumeText)

	category, ok := card.Attr("data-category")
	if !ok || category == "" {
		category = "General"
	}

	marketID, _ := card.Attr("data-contract-id")

	description := strings.TrimSpace(card.Find(".market-card__description").First().Text())

	return model.Listing{
		Platform:    model.PlatformPredictionMarket,
		Title:       title,
		Price:       price,
		Volume:      volume,
		Category:    category,
		MarketID:    marketID,
		Description: truncate(description, 200),
	}, nil
}

// parsePrice accepts the price formats seen on the site: "62¢", "62%",
// "$0.62", and bare "0.62".
func parsePrice(text string) (float64, error) {
	if text == "" {
		return 0, fmt.Errorf("empty price")
	}

	cleaned := strings.TrimSpace(text)
	cents := strings.HasSuffix(cleaned, "¢") || strings.HasSuffix(cleaned, "%")
	cleaned = strings.TrimRight(cleaned, "¢%")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSpace(cleaned)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}

	if cents {
		v /= 100
	}
	if v <= 0 || v > 1 {
		return 0, fmt.Errorf("price %q out of range", text)
	}
	return v, nil
}

// parseVolume accepts "$1.2M", "450K", "1,200,000", or bare numbers.
// Unparseable volumes degrade to zero rather than failing the card.
func parseVolume(text string) float64 {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1e6
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "K"):
		multiplier = 1e3
		cleaned = strings.TrimSuffix(cleaned, "K")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0
	}
	return v * multiplier
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Collected Types
// -----------------------------------------------------------------------------

// Platform names as they appear in listings and report columns.
const (
	PlatformPolymarket       = "Polymarket"
	PlatformKalshi           = "Kalshi"
	PlatformPredictionMarket = "Prediction-Market"
	PlatformManifold         = "Manifold"
)

// Listing is a single market scraped from one platform.
type Listing struct {
	Platform    string    `json:"site"`
	Title       string    `json:"product"`
	Price       float64   `json:"price"`  // Implied probability (0.0-1.0)
	Volume      float64   `json:"volume"` // Platform-native volume
	Category    string    `json:"category"`
	MarketID    string    `json:"market_id"`
	Description string    `json:"description"`
	CollectedAt time.Time `json:"collected_at"`
}

// RawDataset is the collection-stage output written to raw_data.json.
type RawDataset struct {
	CollectedAt  time.Time `json:"collection_timestamp"`
	TotalMarkets int       `json:"total_markets"`
	Platforms    []string  `json:"sources"`
	Categories   []string  `json:"categories"`
	Errors       []string  `json:"collection_errors,omitempty"`
	Listings     []Listing `json:"data"`
}

// -----------------------------------------------------------------------------
// Unified Types
// -----------------------------------------------------------------------------

// UnifiedProduct groups equivalent listings from different platforms.
type UnifiedProduct struct {
	GroupID      uuid.UUID            `json:"group_id"`
	Name         string               `json:"unified_name"`
	Confidence   float64              `json:"confidence"` // Min confidence across merges (0.0-1.0)
	Reasoning    string               `json:"match_reasoning"`
	ProductCount int                  `json:"product_count"`
	Platforms    map[string][]Listing `json:"platforms"` // Keyed by platform name
}

// UnifiedDataset is the matching-stage output written to unified_data.json.
type UnifiedDataset struct {
	ProcessedAt      time.Time        `json:"processing_timestamp"`
	OriginalMarkets  int              `json:"original_markets"`
	UnifiedGroups    int              `json:"unified_groups"`
	CompressionRatio float64          `json:"compression_ratio"`
	HighConfidence   int              `json:"high_confidence_matches"`
	Products         []UnifiedProduct `json:"unified_products"`
}

// -----------------------------------------------------------------------------
// Metrics Types
// -----------------------------------------------------------------------------

// ArbitrageSpreadThreshold is the minimum cross-platform price spread that
// flags a group as an arbitrage candidate.
const ArbitrageSpreadThreshold = 0.05

// GroupMetrics holds derived statistics for one unified product group.
type GroupMetrics struct {
	MinPrice      float64
	MaxPrice      float64
	AvgPrice      float64
	PriceSpread   float64
	PriceVariance float64

	TotalVolume float64
	AvgVolume   float64
	MaxVolume   float64

	PlatformCount int
	PlatformList  []string

	BestPlatform string  // Platform quoting the highest probability
	BestPrice    float64 // That platform's price
	Arbitrage    bool    // Spread exceeds ArbitrageSpreadThreshold
}

// Confidence buckets for distribution reporting.
const (
	ConfidenceHigh   = 0.8
	ConfidenceMedium = 0.6
)

// ConfidenceBucket returns the distribution label for a confidence score.
func ConfidenceBucket(confidence float64) string {
	switch {
	case confidence >= ConfidenceHigh:
		return "High (0.8-1.0)"
	case confidence >= ConfidenceMedium:
		return "Medium (0.6-0.8)"
	default:
		return "Low (0.0-0.6)"
	}
}

// KnownPlatforms returns the platforms with dedicated report columns,
// in column order.
func KnownPlatforms() []string {
	return []string{
		PlatformPolymarket,
		PlatformKalshi,
		PlatformPredictionMarket,
		PlatformManifold,
	}
}

package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// ComprehensiveRow is one line of final_products_comprehensive.csv.
// Optional columns are pointers so absent platforms render as empty cells.
type ComprehensiveRow struct {
	ProductName string
	Confidence  float64

	PolymarketPrice       *float64
	KalshiPrice           *float64
	PredictionMarketPrice *float64
	ManifoldPrice         *float64

	PolymarketVolume       *float64
	KalshiVolume           *float64
	PredictionMarketVolume *float64
	ManifoldVolume         *float64

	PrimaryCategory string
	Metrics         model.GroupMetrics
	MarketIDs       string // "Platform:id | Platform:id"
}

// SimpleRow is one line of final_products_simple.csv (and its
// final_products.csv alias).
type SimpleRow struct {
	Product          string
	Polymarket       string
	Kalshi           string
	PredictionMarket string
	Manifold         string
	BestPrice        string
	PriceSpread      string
	Confidence       float64
	Category         string
	Platforms        int
}

var comprehensiveHeader = []string{
	"Product_Name", "Confidence_Score",
	"Polymarket_Price", "Kalshi_Price", "Prediction_Market_Price", "Manifold_Price",
	"Polymarket_Volume", "Kalshi_Volume", "Prediction_Market_Volume", "Manifold_Volume",
	"Primary_Category",
	"Min_Price", "Max_Price", "Avg_Price", "Price_Spread", "Price_Variance",
	"Total_Volume", "Avg_Volume", "Max_Volume",
	"Platform_Count", "Available_Platforms",
	"Best_Price_Platform", "Best_Price_Value",
	"Market_IDs",
}

var simpleHeader = []string{
	"Product", "Polymarket", "Kalshi", "Prediction_Market", "Manifold",
	"Best_Price", "Price_Spread", "Confidence", "Category", "Platforms",
}

// BuildComprehensiveRows flattens unified groups into report rows,
// sorted by confidence then total volume, both descending.
func BuildComprehensiveRows(ds *model.UnifiedDataset) []ComprehensiveRow {
	rows := make([]ComprehensiveRow, 0, len(ds.Products))
	for _, p := range ds.Products {
		rows = append(rows, buildRow(p))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Confidence != rows[j].Confidence {
			return rows[i].Confidence > rows[j].Confidence
		}
		return rows[i].Metrics.TotalVolume > rows[j].Metrics.TotalVolume
	})
	return rows
}

func buildRow(p model.UnifiedProduct) ComprehensiveRow {
	row := ComprehensiveRow{
		ProductName:     p.Name,
		Confidence:      p.Confidence,
		PrimaryCategory: "General",
		Metrics:         model.ComputeGroupMetrics(p),
	}

	var ids []string
	categorySet := false
	for _, platform := range model.KnownPlatforms() {
		listings := p.Platforms[platform]
		if len(listings) == 0 {
			continue
		}

		// The dedicated columns show the first listing per platform;
		// extra same-platform listings still count toward metrics.
		first := listings[0]
		price, volume := first.Price, first.Volume
		switch platform {
		case model.PlatformPolymarket:
			row.PolymarketPrice, row.PolymarketVolume = &price, &volume
		case model.PlatformKalshi:
			row.KalshiPrice, row.KalshiVolume = &price, &volume
		case model.PlatformPredictionMarket:
			row.PredictionMarketPrice, row.PredictionMarketVolume = &price, &volume
		case model.PlatformManifold:
			row.ManifoldPrice, row.ManifoldVolume = &price, &volume
		}

		if !categorySet && first.Category != "" {
			row.PrimaryCategory = first.Category
			categorySet = true
		}
		for _, l := range listings {
			if l.MarketID != "" {
				ids = append(ids, platform+":"+l.MarketID)
			}
		}
	}
	row.MarketIDs = strings.Join(ids, " | ")
	return row
}

// BuildSimpleRows projects comprehensive rows down to the quick-look
// columns, sorted by confidence descending.
func BuildSimpleRows(rows []ComprehensiveRow) []SimpleRow {
	simple := make([]SimpleRow, 0, len(rows))
	for _, r := range rows {
		s := SimpleRow{
			Product:          r.ProductName,
			Polymarket:       priceOrDash(r.PolymarketPrice),
			Kalshi:           priceOrDash(r.KalshiPrice),
			PredictionMarket: priceOrDash(r.PredictionMarketPrice),
			Manifold:         priceOrDash(r.ManifoldPrice),
			BestPrice:        "-",
			PriceSpread:      "-",
			Confidence:       r.Confidence,
			Category:         r.PrimaryCategory,
			Platforms:        r.Metrics.PlatformCount,
		}
		if r.Metrics.PlatformCount > 0 {
			s.BestPrice = formatFloat(r.Metrics.BestPrice)
			s.PriceSpread = formatFloat(r.Metrics.PriceSpread)
		}
		simple = append(simple, s)
	}
	sort.SliceStable(simple, func(i, j int) bool {
		return simple[i].Confidence > simple[j].Confidence
	})
	return simple
}

func (r ComprehensiveRow) record() []string {
	m := r.Metrics
	return []string{
		r.ProductName,
		formatFloat(r.Confidence),
		formatOpt(r.PolymarketPrice), formatOpt(r.KalshiPrice),
		formatOpt(r.PredictionMarketPrice), formatOpt(r.ManifoldPrice),
		formatOpt(r.PolymarketVolume), formatOpt(r.KalshiVolume),
		formatOpt(r.PredictionMarketVolume), formatOpt(r.ManifoldVolume),
		r.PrimaryCategory,
		formatFloat(m.MinPrice), formatFloat(m.MaxPrice), formatFloat(m.AvgPrice),
		formatFloat(m.PriceSpread), formatFloat(m.PriceVariance),
		formatFloat(m.TotalVolume), formatFloat(m.AvgVolume), formatFloat(m.MaxVolume),
		strconv.Itoa(m.PlatformCount),
		strings.Join(m.PlatformList, ", "),
		m.BestPlatform,
		formatFloat(m.BestPrice),
		r.MarketIDs,
	}
}

func (s SimpleRow) record() []string {
	return []string{
		s.Product,
		s.Polymarket, s.Kalshi, s.PredictionMarket, s.Manifold,
		s.BestPrice, s.PriceSpread,
		formatFloat(s.Confidence),
		s.Category,
		strconv.Itoa(s.Platforms),
	}
}

func priceOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v)
}

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

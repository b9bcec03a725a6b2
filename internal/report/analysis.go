package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// PlatformStat summarizes one platform's presence across all groups.
type PlatformStat struct {
	Count       int     `json:"count"`
	TotalVolume float64 `json:"total_volume"`
}

// AnalysisReports is the analysis_reports.json payload.
type AnalysisReports struct {
	PlatformCoverage       map[string]PlatformStat `json:"platform_coverage"`
	CategoryBreakdown      map[string]int          `json:"category_breakdown"`
	ConfidenceDistribution map[string]int          `json:"confidence_distribution"`
	TotalProducts          int                     `json:"total_products"`
	HighConfidenceMatches  int                     `json:"high_confidence_matches"`
	ArbitrageOpportunities int                     `json:"arbitrage_opportunities"`
	GeneratedAt            time.Time               `json:"generated_at"`
}

// Platform keys in analysis output use underscores, matching the
// comprehensive CSV column prefixes.
func analysisKey(platform string) string {
	if platform == model.PlatformPredictionMarket {
		return "Prediction_Market"
	}
	return platform
}

// BuildAnalysisReports aggregates coverage, category, and confidence
// statistics over the comprehensive rows.
func BuildAnalysisReports(rows []ComprehensiveRow) AnalysisReports {
	reports := AnalysisReports{
		PlatformCoverage:       make(map[string]PlatformStat),
		CategoryBreakdown:      make(map[string]int),
		ConfidenceDistribution: map[string]int{
			"High (0.8-1.0)":   0,
			"Medium (0.6-0.8)": 0,
			"Low (0.0-0.6)":    0,
		},
		TotalProducts: len(rows),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, platform := range model.KnownPlatforms() {
		reports.PlatformCoverage[analysisKey(platform)] = PlatformStat{}
	}

	for _, row := range rows {
		tally := func(platform string, price, volume *float64) {
			if price == nil {
				return
			}
			stat := reports.PlatformCoverage[analysisKey(platform)]
			stat.Count++
			if volume != nil {
				stat.TotalVolume += *volume
			}
			reports.PlatformCoverage[analysisKey(platform)] = stat
		}
		tally(model.PlatformPolymarket, row.PolymarketPrice, row.PolymarketVolume)
		tally(model.PlatformKalshi, row.KalshiPrice, row.KalshiVolume)
		tally(model.PlatformPredictionMarket, row.PredictionMarketPrice, row.PredictionMarketVolume)
		tally(model.PlatformManifold, row.ManifoldPrice, row.ManifoldVolume)

		reports.CategoryBreakdown[row.PrimaryCategory]++
		reports.ConfidenceDistribution[model.ConfidenceBucket(row.Confidence)]++

		if row.Confidence >= model.ConfidenceHigh {
			reports.HighConfidenceMatches++
		}
		if row.Metrics.Arbitrage {
			reports.ArbitrageOpportunities++
		}
	}
	return reports
}

// SummaryRows flattens the analysis reports into the metric/name/value
// triples written to summary_statistics.csv.
func SummaryRows(reports AnalysisReports) [][]string {
	rows := [][]string{{"Metric_Category", "Metric_Name", "Value"}}

	for _, platform := range model.KnownPlatforms() {
		key := analysisKey(platform)
		stat := reports.PlatformCoverage[key]
		rows = append(rows,
			[]string{"platform_coverage", key + "_count", fmt.Sprintf("%d", stat.Count)},
			[]string{"platform_coverage", key + "_total_volume", formatFloat(stat.TotalVolume)},
		)
	}

	for _, category := range sortedKeys(reports.CategoryBreakdown) {
		rows = append(rows, []string{"category_breakdown", category, fmt.Sprintf("%d", reports.CategoryBreakdown[category])})
	}

	for _, bucket := range []string{"High (0.8-1.0)", "Medium (0.6-0.8)", "Low (0.0-0.6)"} {
		rows = append(rows, []string{"confidence_distribution", bucket, fmt.Sprintf("%d", reports.ConfidenceDistribution[bucket])})
	}

	rows = append(rows,
		[]string{"General", "total_products", fmt.Sprintf("%d", reports.TotalProducts)},
		[]string{"General", "high_confidence_matches", fmt.Sprintf("%d", reports.HighConfidenceMatches)},
		[]string{"General", "arbitrage_opportunities", fmt.Sprintf("%d", reports.ArbitrageOpportunities)},
	)
	return rows
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

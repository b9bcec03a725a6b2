package model

import "sort"

// ComputeGroupMetrics derives price and volume statistics for one
// unified group. Groups with no listings return a zero value.
func ComputeGroupMetrics(p UnifiedProduct) GroupMetrics {
	var prices, volumes []float64
	var platforms []string
	var bestPlatform string
	bestPrice := -1.0

	// Visit platforms in column order so ties resolve the same way on
	// every run, regardless of map iteration order.
	for _, platform := range platformsInOrder(p.Platforms) {
		platforms = append(platforms, platform)
		for _, l := range p.Platforms[platform] {
			prices = append(prices, l.Price)
			volumes = append(volumes, l.Volume)
			if l.Price > bestPrice {
				bestPrice = l.Price
				bestPlatform = platform
			}
		}
	}
	if len(prices) == 0 {
		return GroupMetrics{}
	}
	sort.Strings(platforms)

	m := GroupMetrics{
		MinPrice:      prices[0],
		MaxPrice:      prices[0],
		PlatformCount: len(platforms),
		PlatformList:  platforms,
		BestPlatform:  bestPlatform,
		BestPrice:     bestPrice,
	}

	var priceSum float64
	for _, price := range prices {
		priceSum += price
		if price < m.MinPrice {
			m.MinPrice = price
		}
		if price > m.MaxPrice {
			m.MaxPrice = price
		}
	}
	m.AvgPrice = priceSum / float64(len(prices))
	m.PriceSpread = m.MaxPrice - m.MinPrice
	m.Arbitrage = m.PlatformCount > 1 && m.PriceSpread > ArbitrageSpreadThreshold

	var varSum float64
	for _, price := range prices {
		d := price - m.AvgPrice
		varSum += d * d
	}
	m.PriceVariance = varSum / float64(len(prices))

	for _, v := range volumes {
		m.TotalVolume += v
		if v > m.MaxVolume {
			m.MaxVolume = v
		}
	}
	m.AvgVolume = m.TotalVolume / float64(len(volumes))

	return m
}

// platformsInOrder returns the map's keys in report column order, with
// any unknown platforms appended alphabetically.
func platformsInOrder(byPlatform map[string][]Listing) []string {
	out := make([]string, 0, len(byPlatform))
	known := make(map[string]bool)
	for _, platform := range KnownPlatforms() {
		known[platform] = true
		if _, ok := byPlatform[platform]; ok {
			out = append(out, platform)
		}
	}

	var extra []string
	for platform := range byPlatform {
		if !known[platform] {
			extra = append(extra, platform)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

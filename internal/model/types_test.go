package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestConfidenceBucket(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{1.0, "High (0.8-1.0)"},
		{0.8, "High (0.8-1.0)"},
		{0.79, "Medium (0.6-0.8)"},
		{0.6, "Medium (0.6-0.8)"},
		{0.59, "Low (0.0-0.6)"},
		{0.0, "Low (0.0-0.6)"},
	}

	for _, tt := range tests {
		if got := ConfidenceBucket(tt.confidence); got != tt.want {
			t.Errorf("ConfidenceBucket(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestListingJSONFields(t *testing.T) {
	l := Listing{
		Platform:    PlatformKalshi,
		Title:       "Republican to win 2024 presidential election",
		Price:       0.58,
		Volume:      1200000,
		Category:    "Politics",
		MarketID:    "PRES-24",
		CollectedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal listing: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal listing: %v", err)
	}

	// Field names are the contract for raw_data.json consumers.
	for _, key := range []string{"site", "product", "price", "volume", "category", "market_id"} {
		if _, ok := m[key]; !ok {
			t.Errorf("listing JSON missing key %q", key)
		}
	}
	if m["site"] != "Kalshi" {
		t.Errorf("site = %v, want Kalshi", m["site"])
	}
}

func TestUnifiedProductRoundTrip(t *testing.T) {
	p := UnifiedProduct{
		GroupID:      uuid.New(),
		Name:         "Republican victory 2024 presidential election",
		Confidence:   0.87,
		ProductCount: 2,
		Platforms: map[string][]Listing{
			PlatformKalshi:     {{Platform: PlatformKalshi, Title: "GOP wins 2024", Price: 0.58}},
			PlatformPolymarket: {{Platform: PlatformPolymarket, Title: "Trump wins 2024", Price: 0.62}},
		},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got UnifiedProduct
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.GroupID != p.GroupID {
		t.Errorf("GroupID = %v, want %v", got.GroupID, p.GroupID)
	}
	if len(got.Platforms) != 2 {
		t.Errorf("platforms = %d, want 2", len(got.Platforms))
	}
	if got.Platforms[PlatformKalshi][0].Price != 0.58 {
		t.Errorf("kalshi price = %v, want 0.58", got.Platforms[PlatformKalshi][0].Price)
	}
}

func TestKnownPlatformsOrder(t *testing.T) {
	got := KnownPlatforms()
	want := []string{"Polymarket", "Kalshi", "Prediction-Market", "Manifold"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("KnownPlatforms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

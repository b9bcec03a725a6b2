package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`0.62`, 0.62},
		{`"0.62"`, 0.62},
		{`"1500000"`, 1500000},
		{`null`, 0},
		{`""`, 0},
	}

	for _, tt := range tests {
		var f flexFloat
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if float64(f) != tt.want {
			t.Errorf("flexFloat(%s) = %v, want %v", tt.in, f, tt.want)
		}
	}

	var f flexFloat
	if err := json.Unmarshal([]byte(`"not a number"`), &f); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestPolymarketCollectFlattensEvents(t *testing.T) {
	events := `[
		{
			"title": "2024 Presidential Election",
			"category": "Politics",
			"description": "Who wins the 2024 US presidential election",
			"markets": [
				{"id": "m1", "lastTradePrice": 0.62, "volume": "1500000"},
				{"id": "m2", "lastTradePrice": "0.38", "volume": 900000},
				{"id": "m3", "lastTradePrice": 0.10, "volume": 100}
			]
		},
		{
			"title": "Bitcoin above $100k by end of 2025?",
			"markets": [
				{"id": "m4", "lastTradePrice": 0.35, "volume": 2100000}
			]
		},
		{
			"title": "",
			"markets": [{"id": "m5", "lastTradePrice": 0.5}]
		}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("closed") != "false" {
			t.Errorf("closed = %q, want false", r.URL.Query().Get("closed"))
		}
		w.Write([]byte(events))
	}))
	defer server.Close()

	p := NewPolymarket(NewClient(server.URL), 10, nil)

	listings, err := p.Collect(context.Background(), CollectRequest{})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	// First event contributes at most marketsPerEvent listings; the
	// untitled event is skipped.
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(listings))
	}

	if listings[0].Title != "2024 Presidential Election" {
		t.Errorf("Title = %q", listings[0].Title)
	}
	if listings[0].Price != 0.62 {
		t.Errorf("Price = %v, want 0.62", listings[0].Price)
	}
	if listings[0].Volume != 1500000 {
		t.Errorf("Volume = %v, want 1500000 (string-encoded)", listings[0].Volume)
	}
	if listings[0].Category != "Politics" {
		t.Errorf("Category = %q", listings[0].Category)
	}

	// Missing category falls back to General.
	if listings[2].Category != "General" {
		t.Errorf("fallback Category = %q, want General", listings[2].Category)
	}
}

func TestPolymarketCollectSkipsImplausiblePrices(t *testing.T) {
	events := `[
		{"title": "Valid", "markets": [{"id": "ok", "lastTradePrice": 0.5}]},
		{"title": "Zero", "markets": [{"id": "bad", "lastTradePrice": 0}]},
		{"title": "Over", "markets": [{"id": "bad2", "lastTradePrice": 1.7}]}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(events))
	}))
	defer server.Close()

	p := NewPolymarket(NewClient(server.URL), 10, nil)

	listings, err := p.Collect(context.Background(), CollectRequest{})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if listings[0].MarketID != "ok" {
		t.Errorf("MarketID = %q, want ok", listings[0].MarketID)
	}
}

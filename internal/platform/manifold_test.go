package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestManifoldCollectFiltersMarkets(t *testing.T) {
	payload := `[
		{"id": "m1", "question": "Will there be a US recession in 2025?", "probability": 0.32, "volume": 680000, "outcomeType": "BINARY", "groupSlugs": ["economics"]},
		{"id": "m2", "question": "Resolved market", "probability": 0.9, "outcomeType": "BINARY", "isResolved": true},
		{"id": "m3", "question": "Which team wins?", "outcomeType": "MULTIPLE_CHOICE"},
		{"id": "m4", "question": "Degenerate", "probability": 0, "outcomeType": "BINARY"},
		{"id": "m5", "question": "Republican wins 2024 election", "probability": 0.61, "volume": 1100000, "outcomeType": "BINARY", "groupSlugs": ["politics", "elections"]}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()

	m := NewManifold(NewClient(server.URL), 10, nil)

	listings, err := m.Collect(context.Background(), CollectRequest{})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2 (resolved, non-binary, degenerate skipped)", len(listings))
	}

	if listings[0].Category != "Economics" {
		t.Errorf("Category = %q, want Economics", listings[0].Category)
	}
	if listings[1].Category != "Politics" {
		t.Errorf("Category = %q, want Politics", listings[1].Category)
	}
	if listings[1].Price != 0.61 {
		t.Errorf("Price = %v, want 0.61", listings[1].Price)
	}
}

func TestManifoldCategory(t *testing.T) {
	tests := []struct {
		slugs []string
		want  string
	}{
		{nil, "General"},
		{[]string{"politics"}, "Politics"},
		{[]string{"crypto"}, "Crypto"},
		{[]string{"ai"}, "Technology"},
		{[]string{"knitting"}, "General"},
	}

	for _, tt := range tests {
		if got := manifoldCategory(tt.slugs); got != tt.want {
			t.Errorf("manifoldCategory(%v) = %q, want %q", tt.slugs, got, tt.want)
		}
	}
}

package platform

import (
	"context"
	"testing"

	"github.com/crowdwisdom/marketscan/internal/model"
)

type stubCollector struct {
	name string
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(ctx context.Context, req CollectRequest) ([]model.Listing, error) {
	return []model.Listing{{Platform: s.name}}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubCollector{name: "Kalshi"})
	r.Register(&stubCollector{name: "Polymarket"})

	c, err := r.Resolve("Kalshi")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if c.Name() != "Kalshi" {
		t.Errorf("Name = %q, want Kalshi", c.Name())
	}

	if _, err := r.Resolve("Missing"); err == nil {
		t.Error("expected error for unknown collector")
	}

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d collectors, want 2", len(all))
	}
	if all[0].Name() != "Kalshi" || all[1].Name() != "Polymarket" {
		t.Errorf("registration order not preserved: %q, %q", all[0].Name(), all[1].Name())
	}
}

func TestRegistryReplaceKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubCollector{name: "A"})
	r.Register(&stubCollector{name: "B"})
	r.Register(&stubCollector{name: "A"}) // replace

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d collectors, want 2", len(all))
	}
	if all[0].Name() != "A" {
		t.Errorf("first collector = %q, want A", all[0].Name())
	}
}

package platform

import (
	"context"
	"fmt"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// CollectRequest carries per-run collection parameters.
type CollectRequest struct {
	Limit int // Max listings to return, 0 = collector default
}

// Collector fetches listings from a single prediction-market platform.
type Collector interface {
	// Name returns the platform name as used in listings and reports.
	Name() string
	// Collect fetches and normalizes listings.
	Collect(ctx context.Context, req CollectRequest) ([]model.Listing, error)
}

// Registry keeps a mapping from platform names to their collectors.
type Registry struct {
	collectors map[string]Collector
	order      []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: map[string]Collector{}}
}

// Register adds or replaces a collector. Registration order is preserved
// for deterministic collection runs.
func (r *Registry) Register(c Collector) {
	if _, ok := r.collectors[c.Name()]; !ok {
		r.order = append(r.order, c.Name())
	}
	r.collectors[c.Name()] = c
}

// Resolve returns a collector by platform name.
func (r *Registry) Resolve(name string) (Collector, error) {
	if c, ok := r.collectors[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("collector %s is not registered", name)
}

// All returns the registered collectors in registration order.
func (r *Registry) All() []Collector {
	out := make([]Collector, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.collectors[name])
	}
	return out
}

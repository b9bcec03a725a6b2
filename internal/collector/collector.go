package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crowdwisdom/marketscan/internal/model"
	"github.com/crowdwisdom/marketscan/internal/platform"
)

// ErrNoListings is returned when every platform fails or returns nothing.
var ErrNoListings = errors.New("no listings collected from any platform")

// Config holds collection-run settings.
type Config struct {
	Timeout     time.Duration // Per-platform request budget
	Delay       time.Duration // Politeness delay between platform starts
	Concurrency int           // Max platforms collected in parallel
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		Delay:       2 * time.Second,
		Concurrency: 2,
	}
}

// Collector runs all registered platform collectors and aggregates results.
type Collector struct {
	cfg      Config
	registry *platform.Registry
	logger   *slog.Logger
}

// New creates a Collector.
func New(cfg Config, registry *platform.Registry, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Collector{cfg: cfg, registry: registry, logger: logger}
}

// Run collects from every platform. A failing platform is recorded in
// the dataset's error list rather than aborting the run; only a run with
// zero listings overall is an error.
func (c *Collector) Run(ctx context.Context) (*model.RawDataset, error) {
	collectors := c.registry.All()
	if len(collectors) == 0 {
		return nil, errors.New("no collectors registered")
	}

	start := time.Now()
	c.logger.Info("collection started", "platforms", len(collectors))

	type result struct {
		platform string
		listings []model.Listing
		err      error
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, c.cfg.Concurrency)
	results := make([]result, len(collectors))
	var wg sync.WaitGroup
	var collected atomic.Int64

	for i, col := range collectors {
		// Stagger platform starts so concurrent collectors do not
		// hammer upstreams at the same instant.
		if i > 0 && c.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				// Let already-launched collectors finish before
				// returning so none write results after we leave.
				wg.Wait()
				return nil, ctx.Err()
			case <-time.After(c.cfg.Delay):
			}
		}

		wg.Add(1)
		go func(idx int, col platform.Collector) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = result{platform: col.Name(), err: ctx.Err()}
				return
			}

			platformCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()

			listings, err := col.Collect(platformCtx, platform.CollectRequest{})
			if err != nil {
				c.logger.Warn("platform collection failed",
					"platform", col.Name(),
					"error", err,
				)
				results[idx] = result{platform: col.Name(), err: err}
				return
			}

			c.logger.Info("platform collected",
				"platform", col.Name(),
				"listings", len(listings),
			)
			collected.Add(int64(len(listings)))
			results[idx] = result{platform: col.Name(), listings: listings}
		}(i, col)
	}

	wg.Wait()

	dataset := &model.RawDataset{CollectedAt: time.Now().UTC()}
	for _, res := range results {
		if res.err != nil {
			dataset.Errors = append(dataset.Errors, fmt.Sprintf("%s: %v", res.platform, res.err))
			continue
		}
		dataset.Listings = append(dataset.Listings, res.listings...)
	}

	if len(dataset.Listings) == 0 {
		return nil, fmt.Errorf("%w: %d platforms failed", ErrNoListings, len(dataset.Errors))
	}

	dataset.TotalMarkets = len(dataset.Listings)
	dataset.Platforms = distinctPlatforms(dataset.Listings)
	dataset.Categories = distinctCategories(dataset.Listings)

	c.logger.Info("collection complete",
		"listings", dataset.TotalMarkets,
		"platforms", len(dataset.Platforms),
		"categories", len(dataset.Categories),
		"errors", len(dataset.Errors),
		"duration", time.Since(start),
	)

	return dataset, nil
}

func distinctPlatforms(listings []model.Listing) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range listings {
		if _, ok := seen[l.Platform]; !ok {
			seen[l.Platform] = struct{}{}
			out = append(out, l.Platform)
		}
	}
	return out
}

func distinctCategories(listings []model.Listing) []string {
	seen := map[string]struct{}{}
	for _, l := range listings {
		category := l.Category
		if category == "" {
			category = "General"
		}
		seen[category] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

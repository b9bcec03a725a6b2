// Package pipeline runs the collect → unify → arrange stages and
// optionally persists the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crowdwisdom/marketscan/internal/collector"
	"github.com/crowdwisdom/marketscan/internal/matcher"
	"github.com/crowdwisdom/marketscan/internal/model"
	"github.com/crowdwisdom/marketscan/internal/report"
	"github.com/crowdwisdom/marketscan/internal/store"
)

// Persister saves a completed run. *store.Store satisfies this; nil
// disables persistence.
type Persister interface {
	SaveRun(ctx context.Context, runID uuid.UUID, raw *model.RawDataset, unified *model.UnifiedDataset) (store.InsertStats, error)
}

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	RunID          uuid.UUID
	Duration       time.Duration
	TotalMarkets   int
	UnifiedGroups  int
	HighConfidence int
	Arbitrage      int
	Errors         []string
	Persisted      bool
}

// Pipeline wires the run stages together.
type Pipeline struct {
	collector *collector.Collector
	matcher   *matcher.Matcher
	writer    *report.Writer
	persister Persister
	logger    *slog.Logger
}

// New creates a Pipeline. persister may be nil.
func New(c *collector.Collector, m *matcher.Matcher, w *report.Writer, p Persister, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		collector: c,
		matcher:   m,
		writer:    w,
		persister: p,
		logger:    logger,
	}
}

// Run executes the full pipeline. An error at any stage aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{RunID: uuid.New()}
	start := time.Now()
	p.logger.Info("pipeline started", "run_id", summary.RunID)

	var raw *model.RawDataset
	err := p.step(ctx, "collect", func(ctx context.Context) error {
		var err error
		raw, err = p.collector.Run(ctx)
		if err != nil {
			return err
		}
		return p.writer.WriteRaw(raw)
	})
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	summary.TotalMarkets = raw.TotalMarkets
	summary.Errors = raw.Errors

	var unified *model.UnifiedDataset
	err = p.step(ctx, "unify", func(ctx context.Context) error {
		var err error
		unified, err = p.matcher.Unify(ctx, raw.Listings)
		if err != nil {
			return err
		}
		return p.writer.WriteUnified(unified)
	})
	if err != nil {
		return nil, fmt.Errorf("unify: %w", err)
	}
	summary.UnifiedGroups = unified.UnifiedGroups
	summary.HighConfidence = unified.HighConfidence

	err = p.step(ctx, "arrange", func(ctx context.Context) error {
		reports, err := p.writer.WriteProducts(unified)
		if err != nil {
			return err
		}
		summary.Arbitrage = reports.ArbitrageOpportunities
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("arrange: %w", err)
	}

	if p.persister != nil {
		err = p.step(ctx, "persist", func(ctx context.Context) error {
			_, err := p.persister.SaveRun(ctx, summary.RunID, raw, unified)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		summary.Persisted = true
	}

	summary.Duration = time.Since(start)
	p.logger.Info("pipeline complete",
		"run_id", summary.RunID,
		"markets", summary.TotalMarkets,
		"groups", summary.UnifiedGroups,
		"high_confidence", summary.HighConfidence,
		"arbitrage", summary.Arbitrage,
		"duration", summary.Duration,
	)
	return summary, nil
}

// step runs one named stage with timing logs.
func (p *Pipeline) step(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	p.logger.Info("step started", "step", name)

	if err := fn(ctx); err != nil {
		p.logger.Error("step failed", "step", name, "error", err, "duration", time.Since(start))
		return err
	}

	p.logger.Info("step complete", "step", name, "duration", time.Since(start))
	return nil
}

package matcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crowdwisdom/marketscan/internal/llm"
	"github.com/crowdwisdom/marketscan/internal/model"
)

// Judge decides whether two market titles describe the same event.
// *llm.Gemini satisfies this; a nil Judge forces rule-based scoring.
type Judge interface {
	Judge(ctx context.Context, titleA, titleB string) (llm.Judgment, error)
}

// Config holds unification thresholds.
type Config struct {
	MatchThreshold float64 // Minimum confidence to merge a pair
	AutoMerge      float64 // Confidence counted as a high-confidence match
	MaxLLMPairs    int     // LLM comparison budget per run, 0 = unlimited
}

// Matcher groups equivalent listings from different platforms.
type Matcher struct {
	cfg    Config
	judge  Judge
	logger *slog.Logger
}

// New creates a Matcher. judge may be nil, in which case all pairs are
// scored by the rule-based fallback.
func New(cfg Config, judge Judge, logger *slog.Logger) *Matcher {
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = 0.65
	}
	if cfg.AutoMerge <= 0 {
		cfg.AutoMerge = 0.80
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{cfg: cfg, judge: judge, logger: logger}
}

// Unify greedily groups listings: the first unmatched listing seeds a
// group, and every later listing joins the first group whose seed it
// matches above the threshold. Group confidence is the minimum across
// its merges; single-member groups score 1.0.
func (m *Matcher) Unify(ctx context.Context, listings []model.Listing) (*model.UnifiedDataset, error) {
	start := time.Now()
	grouped := make([]bool, len(listings))
	llmPairs := 0

	var products []model.UnifiedProduct
	for i, seed := range listings {
		if grouped[i] {
			continue
		}
		grouped[i] = true

		product := model.UnifiedProduct{
			GroupID:    uuid.New(),
			Name:       seed.Title,
			Confidence: 1.0,
			Reasoning:  "Single market, no cross-platform match",
			Platforms:  map[string][]model.Listing{seed.Platform: {seed}},
		}

		for j := i + 1; j < len(listings); j++ {
			if grouped[j] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			judgment := m.scorePair(ctx, seed.Title, listings[j].Title, &llmPairs)
			if !judgment.SameEvent || judgment.Confidence <= m.cfg.MatchThreshold {
				continue
			}

			grouped[j] = true
			other := listings[j]
			product.Platforms[other.Platform] = append(product.Platforms[other.Platform], other)
			if judgment.Confidence < product.Confidence {
				product.Confidence = judgment.Confidence
			}
			if judgment.UnifiedName != "" {
				product.Name = judgment.UnifiedName
			}
			product.Reasoning = judgment.Reasoning
		}

		product.ProductCount = countListings(product.Platforms)
		products = append(products, product)
	}

	ds := &model.UnifiedDataset{
		ProcessedAt:     time.Now().UTC(),
		OriginalMarkets: len(listings),
		UnifiedGroups:   len(products),
		Products:        products,
	}
	if len(products) > 0 {
		ds.CompressionRatio = float64(len(listings)) / float64(len(products))
	}
	for _, p := range products {
		if p.Confidence >= m.cfg.AutoMerge {
			ds.HighConfidence++
		}
	}

	m.logger.Info("unification complete",
		"markets", len(listings),
		"groups", len(products),
		"high_confidence", ds.HighConfidence,
		"llm_pairs", llmPairs,
		"duration", time.Since(start))
	return ds, nil
}

// scorePair judges one title pair, spending the LLM budget first and
// falling back to rules when the judge is absent, exhausted, or errors.
func (m *Matcher) scorePair(ctx context.Context, titleA, titleB string, llmPairs *int) llm.Judgment {
	if m.judge != nil && (m.cfg.MaxLLMPairs <= 0 || *llmPairs < m.cfg.MaxLLMPairs) {
		*llmPairs++
		judgment, err := m.judge.Judge(ctx, titleA, titleB)
		if err == nil {
			return judgment
		}
		m.logger.Warn("llm judgment failed, using rule fallback",
			"title_a", titleA, "title_b", titleB, "error", err)
	}
	return ruleJudgment(titleA, titleB, m.cfg.MatchThreshold)
}

// ruleJudgment converts a rule score into the same verdict shape the
// LLM produces. The unified name is the shorter of the two titles.
func ruleJudgment(titleA, titleB string, threshold float64) llm.Judgment {
	score := ruleScore(titleA, titleB)
	j := llm.Judgment{
		SameEvent:  score > threshold,
		Confidence: score,
		Reasoning:  "Rule-based keyword and sequence similarity",
	}
	if j.SameEvent {
		j.UnifiedName = titleA
		if len(titleB) < len(titleA) {
			j.UnifiedName = titleB
		}
	}
	return j
}

func countListings(platforms map[string][]model.Listing) int {
	n := 0
	for _, ls := range platforms {
		n += len(ls)
	}
	return n
}

package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/crowdwisdom/marketscan/internal/llm"
	"github.com/crowdwisdom/marketscan/internal/model"
)

// fakeJudge returns canned judgments keyed by title pair.
type fakeJudge struct {
	verdicts map[[2]string]llm.Judgment
	err      error
	calls    int
}

func (f *fakeJudge) Judge(ctx context.Context, a, b string) (llm.Judgment, error) {
	f.calls++
	if f.err != nil {
		return llm.Judgment{}, f.err
	}
	if v, ok := f.verdicts[[2]string{a, b}]; ok {
		return v, nil
	}
	return llm.Judgment{SameEvent: false, Confidence: 0.1, Reasoning: "different"}, nil
}

func testListings() []model.Listing {
	return []model.Listing{
		{Platform: model.PlatformPolymarket, Title: "Trump wins 2024", Price: 0.55},
		{Platform: model.PlatformKalshi, Title: "Donald Trump wins 2024 election", Price: 0.52},
		{Platform: model.PlatformManifold, Title: "Super Bowl winner is Chiefs", Price: 0.30},
	}
}

func TestUnifyMergesMatchedPair(t *testing.T) {
	judge := &fakeJudge{verdicts: map[[2]string]llm.Judgment{
		{"Trump wins 2024", "Donald Trump wins 2024 election"}: {
			SameEvent:   true,
			Confidence:  0.9,
			UnifiedName: "Donald Trump wins 2024",
			Reasoning:   "same election outcome",
		},
	}}

	m := New(Config{MatchThreshold: 0.65, AutoMerge: 0.8}, judge, nil)

	ds, err := m.Unify(context.Background(), testListings())
	if err != nil {
		t.Fatalf("Unify error: %v", err)
	}

	if ds.UnifiedGroups != 2 {
		t.Fatalf("UnifiedGroups = %d, want 2", ds.UnifiedGroups)
	}
	if ds.OriginalMarkets != 3 {
		t.Errorf("OriginalMarkets = %d, want 3", ds.OriginalMarkets)
	}
	if ds.HighConfidence != 2 {
		// The merged group at 0.9 plus the singleton at 1.0.
		t.Errorf("HighConfidence = %d, want 2", ds.HighConfidence)
	}

	merged := ds.Products[0]
	if merged.Name != "Donald Trump wins 2024" {
		t.Errorf("Name = %q, want LLM unified name", merged.Name)
	}
	if merged.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", merged.Confidence)
	}
	if merged.ProductCount != 2 {
		t.Errorf("ProductCount = %d, want 2", merged.ProductCount)
	}
	if len(merged.Platforms[model.PlatformPolymarket]) != 1 || len(merged.Platforms[model.PlatformKalshi]) != 1 {
		t.Errorf("Platforms = %v, want one listing each from Polymarket and Kalshi", merged.Platforms)
	}
}

func TestUnifyEveryListingInExactlyOneGroup(t *testing.T) {
	m := New(Config{}, nil, nil)

	listings := testListings()
	ds, err := m.Unify(context.Background(), listings)
	if err != nil {
		t.Fatalf("Unify error: %v", err)
	}

	total := 0
	for _, p := range ds.Products {
		for _, ls := range p.Platforms {
			total += len(ls)
		}
		if p.Confidence <= 0 || p.Confidence > 1 {
			t.Errorf("group %q confidence %v out of range", p.Name, p.Confidence)
		}
	}
	if total != len(listings) {
		t.Errorf("grouped %d listings, want %d", total, len(listings))
	}
}

func TestUnifySingletonConfidence(t *testing.T) {
	m := New(Config{}, nil, nil)

	ds, err := m.Unify(context.Background(), []model.Listing{
		{Platform: model.PlatformKalshi, Title: "Fed cuts rates in March"},
	})
	if err != nil {
		t.Fatalf("Unify error: %v", err)
	}

	if len(ds.Products) != 1 {
		t.Fatalf("Products = %d, want 1", len(ds.Products))
	}
	if ds.Products[0].Confidence != 1.0 {
		t.Errorf("singleton confidence = %v, want 1.0", ds.Products[0].Confidence)
	}
}

func TestUnifyEmptyInput(t *testing.T) {
	m := New(Config{}, nil, nil)

	ds, err := m.Unify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unify error: %v", err)
	}
	if ds.UnifiedGroups != 0 || ds.CompressionRatio != 0 {
		t.Errorf("empty input produced %+v", ds)
	}
}

func TestUnifyFallsBackWhenJudgeErrors(t *testing.T) {
	judge := &fakeJudge{err: errors.New("quota exceeded")}
	m := New(Config{MatchThreshold: 0.65}, judge, nil)

	ds, err := m.Unify(context.Background(), []model.Listing{
		{Platform: model.PlatformPolymarket, Title: "Trump wins 2024"},
		{Platform: model.PlatformKalshi, Title: "Donald Trump wins 2024"},
	})
	if err != nil {
		t.Fatalf("Unify error: %v", err)
	}

	// Rule fallback should still merge these near-identical titles.
	if ds.UnifiedGroups != 1 {
		t.Errorf("UnifiedGroups = %d, want 1 via rule fallback", ds.UnifiedGroups)
	}
}

func TestUnifyRespectsLLMPairBudget(t *testing.T) {
	judge := &fakeJudge{}
	m := New(Config{MatchThreshold: 0.65, MaxLLMPairs: 1}, judge, nil)

	listings := []model.Listing{
		{Platform: model.PlatformPolymarket, Title: "Fed cuts rates"},
		{Platform: model.PlatformKalshi, Title: "Super Bowl winner"},
		{Platform: model.PlatformManifold, Title: "Oscars best picture"},
	}
	if _, err := m.Unify(context.Background(), listings); err != nil {
		t.Fatalf("Unify error: %v", err)
	}

	if judge.calls != 1 {
		t.Errorf("judge called %d times, want 1", judge.calls)
	}
}

func TestUnifyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Config{}, nil, nil)
	if _, err := m.Unify(ctx, testListings()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crowdwisdom/marketscan/internal/knowledge"
)

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
	systems []string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, user)
	return f.answer, f.err
}

type fakeRetriever struct {
	docs []knowledge.Document
	err  error
}

func (f *fakeRetriever) Search(ctx context.Context, query string, topK int) ([]knowledge.Document, error) {
	return f.docs, f.err
}

func TestAskGroundsPromptInRetrievedDocs(t *testing.T) {
	gen := &fakeGenerator{answer: "Polymarket quotes 0.55."}
	ret := &fakeRetriever{docs: []knowledge.Document{
		{ID: "a", Text: "Market: Trump wins 2024\n- Polymarket: priced at 0.55\n"},
	}}

	bot := NewBot(Config{}, gen, ret, nil)

	answer, err := bot.Ask(context.Background(), "What are Trump's odds?")
	if err != nil {
		t.Fatalf("Ask error: %v", err)
	}
	if answer != "Polymarket quotes 0.55." {
		t.Errorf("answer = %q", answer)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Market: Trump wins 2024") {
		t.Errorf("prompt missing retrieved context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Question: What are Trump's odds?") {
		t.Errorf("prompt missing question:\n%s", prompt)
	}
	if !strings.Contains(gen.systems[0], "prediction market analyst") {
		t.Errorf("system prompt = %q", gen.systems[0])
	}
}

func TestAskKeepsSlidingHistory(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	bot := NewBot(Config{History: 2}, gen, &fakeRetriever{}, nil)

	for _, q := range []string{"first", "second", "third"} {
		if _, err := bot.Ask(context.Background(), q); err != nil {
			t.Fatalf("Ask(%q) error: %v", q, err)
		}
	}

	last := gen.prompts[len(gen.prompts)-1]
	if strings.Contains(last, "User: first") {
		t.Errorf("history window should have dropped the first turn:\n%s", last)
	}
	if !strings.Contains(last, "User: second") {
		t.Errorf("history window should keep the second turn:\n%s", last)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	bot := NewBot(Config{}, &fakeGenerator{}, &fakeRetriever{}, nil)
	if _, err := bot.Ask(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestAskRetrieverError(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("index offline")}
	bot := NewBot(Config{}, &fakeGenerator{answer: "x"}, ret, nil)

	if _, err := bot.Ask(context.Background(), "anything"); err == nil {
		t.Fatal("expected retriever error to surface")
	}
}

func TestSummaryAndArbitrageUseCannedQuestions(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	bot := NewBot(Config{}, gen, &fakeRetriever{}, nil)

	if _, err := bot.Summary(context.Background()); err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if _, err := bot.Arbitrage(context.Background()); err != nil {
		t.Fatalf("Arbitrage error: %v", err)
	}

	if !strings.Contains(gen.prompts[0], "summary of all available prediction markets") {
		t.Errorf("summary prompt = %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "arbitrage opportunities") {
		t.Errorf("arbitrage prompt = %q", gen.prompts[1])
	}
}

func TestResetClearsHistory(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	bot := NewBot(Config{}, gen, &fakeRetriever{}, nil)

	if _, err := bot.Ask(context.Background(), "first"); err != nil {
		t.Fatalf("Ask error: %v", err)
	}
	bot.Reset()
	if _, err := bot.Ask(context.Background(), "second"); err != nil {
		t.Fatalf("Ask error: %v", err)
	}

	last := gen.prompts[len(gen.prompts)-1]
	if strings.Contains(last, "Chat History") {
		t.Errorf("history should be empty after Reset:\n%s", last)
	}
}

// Package chat answers questions about collected market data. A Bot
// retrieves relevant unified groups from the knowledge index, builds a
// grounded prompt, and asks the model. The bot is exposed through a
// terminal REPL and a WebSocket server.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crowdwisdom/marketscan/internal/knowledge"
)

const systemPrompt = `You are an expert prediction market analyst with access to comprehensive market data from multiple platforms including Polymarket, Kalshi, Prediction-Market, and Manifold.

Use the provided market context to answer questions about prediction markets, trading opportunities, arbitrage possibilities, and market analysis.

Instructions:
- Provide accurate, data-driven responses based on the retrieved market data
- When discussing prices, always mention which platform(s) the data comes from
- Highlight arbitrage opportunities when price differences exist across platforms
- Explain confidence scores when relevant
- Be conversational and helpful
- If you don't have specific data to answer a question, say so clearly`

// Canned questions behind the summary and arbitrage shortcuts.
const (
	summaryQuestion   = "Give me a summary of all available prediction markets, including the number of platforms and categories covered."
	arbitrageQuestion = "What are the best arbitrage opportunities available? Show me markets with significant price differences across platforms."
)

// Generator produces chat completions. *llm.Gemini satisfies this.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Retriever finds relevant market documents. *knowledge.Index
// satisfies this.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]knowledge.Document, error)
}

type turn struct {
	question string
	answer   string
}

// Config holds chat behavior settings.
type Config struct {
	TopK    int // Documents retrieved per question
	History int // Conversation turns kept in context
}

// Bot is a retrieval-grounded chat agent over the unified dataset.
type Bot struct {
	cfg       Config
	generator Generator
	retriever Retriever
	logger    *slog.Logger
	history   []turn
}

// NewBot creates a Bot.
func NewBot(cfg Config, generator Generator, retriever Retriever, logger *slog.Logger) *Bot {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.History <= 0 {
		cfg.History = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		cfg:       cfg,
		generator: generator,
		retriever: retriever,
		logger:    logger,
	}
}

// Ask answers one question grounded in retrieved market data and
// records the exchange in the history window.
func (b *Bot) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question")
	}

	docs, err := b.retriever.Search(ctx, question, b.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}

	answer, err := b.generator.Generate(ctx, systemPrompt, b.buildPrompt(question, docs))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	b.history = append(b.history, turn{question: question, answer: answer})
	if len(b.history) > b.cfg.History {
		b.history = b.history[len(b.history)-b.cfg.History:]
	}

	b.logger.Debug("chat turn", "question", question, "documents", len(docs))
	return answer, nil
}

// Summary answers the canned market-overview question.
func (b *Bot) Summary(ctx context.Context) (string, error) {
	return b.Ask(ctx, summaryQuestion)
}

// Arbitrage answers the canned arbitrage-opportunity question.
func (b *Bot) Arbitrage(ctx context.Context) (string, error) {
	return b.Ask(ctx, arbitrageQuestion)
}

// Reset clears the conversation history.
func (b *Bot) Reset() { b.history = nil }

func (b *Bot) buildPrompt(question string, docs []knowledge.Document) string {
	var sb strings.Builder

	sb.WriteString("Context:\n")
	if len(docs) == 0 {
		sb.WriteString("(no market data available)\n")
	}
	for _, d := range docs {
		sb.WriteString(d.Text)
		sb.WriteString("\n")
	}

	if len(b.history) > 0 {
		sb.WriteString("\nChat History:\n")
		for _, t := range b.history {
			fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", t.question, t.answer)
		}
	}

	fmt.Fprintf(&sb, "\nQuestion: %s\n", question)
	return sb.String()
}

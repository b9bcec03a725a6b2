// Package knowledge builds a retrieval index over unified market groups
// for the chat assistant. Documents are embedded once per pipeline run
// and searched in memory with cosine similarity.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// Embedder produces embedding vectors. *llm.Gemini satisfies this.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is one retrievable unit of market knowledge.
type Document struct {
	ID     string
	Text   string
	vector []float32
}

// Index is an in-memory embedding index over market documents.
type Index struct {
	embedder Embedder
	logger   *slog.Logger
	docs     []Document
}

// NewIndex creates an empty index.
func NewIndex(embedder Embedder, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{embedder: embedder, logger: logger}
}

// BuildDocuments renders each unified group as a text document covering
// the fields the assistant is expected to cite: prices per platform,
// volumes, confidence, and the arbitrage flag.
func BuildDocuments(ds *model.UnifiedDataset) []Document {
	docs := make([]Document, 0, len(ds.Products))
	for _, p := range ds.Products {
		docs = append(docs, Document{
			ID:   p.GroupID.String(),
			Text: renderGroup(p),
		})
	}
	return docs
}

func renderGroup(p model.UnifiedProduct) string {
	m := model.ComputeGroupMetrics(p)

	var b strings.Builder
	fmt.Fprintf(&b, "Market: %s\n", p.Name)
	fmt.Fprintf(&b, "Match confidence: %.2f (%s)\n", p.Confidence, model.ConfidenceBucket(p.Confidence))
	fmt.Fprintf(&b, "Listed on %d platform(s): %s\n", m.PlatformCount, strings.Join(m.PlatformList, ", "))

	for _, platform := range model.KnownPlatforms() {
		for _, l := range p.Platforms[platform] {
			fmt.Fprintf(&b, "- %s: %q priced at %.2f (%.0f%% implied probability), volume %.0f\n",
				platform, l.Title, l.Price, l.Price*100, l.Volume)
		}
	}

	fmt.Fprintf(&b, "Average price: %.2f, spread: %.2f\n", m.AvgPrice, m.PriceSpread)
	if m.Arbitrage {
		fmt.Fprintf(&b, "ARBITRAGE OPPORTUNITY: %.2f spread between platforms, best price %.2f on %s\n",
			m.PriceSpread, m.BestPrice, m.BestPlatform)
	}
	if p.Reasoning != "" {
		fmt.Fprintf(&b, "Match reasoning: %s\n", p.Reasoning)
	}
	return b.String()
}

// Load embeds the documents and replaces the index contents.
func (ix *Index) Load(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		ix.docs = nil
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	for i := range docs {
		docs[i].vector = vectors[i]
	}
	ix.docs = docs

	ix.logger.Info("knowledge index loaded", "documents", len(docs))
	return nil
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int { return len(ix.docs) }

// Search returns the topK documents most similar to the query,
// ordered by descending cosine similarity.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Document, error) {
	if len(ix.docs) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = 3
	}

	qv, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		doc   Document
		score float64
	}
	results := make([]scored, 0, len(ix.docs))
	for _, d := range ix.docs {
		results = append(results, scored{doc: d, score: cosine(qv, d.vector)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topK > len(results) {
		topK = len(results)
	}
	out := make([]Document, topK)
	for i := range out {
		out[i] = results[i].doc
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

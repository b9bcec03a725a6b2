package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Judgment is the model's verdict on whether two market questions
// describe the same underlying event.
type Judgment struct {
	SameEvent   bool    `json:"same_event"`
	Confidence  float64 `json:"confidence"`
	UnifiedName string  `json:"unified_name"`
	Reasoning   string  `json:"reasoning"`
}

const judgePromptTemplate = `You are an expert prediction market analyst. Compare these two prediction market questions and determine if they refer to the same underlying event.

Question 1: %q
Question 2: %q

Consider:
- Semantic meaning and intent
- Time periods mentioned
- Specific entities (people, organizations)
- Market outcomes being predicted
- Logical equivalence even with different wording

Respond with valid JSON only:
{"same_event": true/false, "confidence": 0.0-1.0, "unified_name": "standardized event name", "reasoning": "brief explanation"}

Examples of same events:
- "Trump wins 2024" and "Republican victory 2024 presidential election" = same (if Trump is nominee)
- "Bitcoin above $100k" and "BTC over $100,000" = same
- "Democrats control Senate" and "Democratic Senate majority" = same`

// Judge asks the model whether two market titles name the same event.
func (g *Gemini) Judge(ctx context.Context, titleA, titleB string) (Judgment, error) {
	prompt := fmt.Sprintf(judgePromptTemplate, titleA, titleB)

	text, err := g.generateJSON(ctx, prompt)
	if err != nil {
		return Judgment{}, err
	}

	judgment, err := parseJudgment(text)
	if err != nil {
		g.logger.Warn("unparseable judgment response", "error", err)
		return Judgment{}, err
	}
	return judgment, nil
}

// parseJudgment extracts the first JSON object from a model response.
// Models occasionally wrap JSON in prose or markdown fences.
func parseJudgment(text string) (Judgment, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Judgment{}, fmt.Errorf("no JSON object in response")
	}

	var judgment Judgment
	if err := json.Unmarshal([]byte(text[start:end+1]), &judgment); err != nil {
		return Judgment{}, fmt.Errorf("decode judgment: %w", err)
	}

	if judgment.Confidence < 0 || judgment.Confidence > 1 {
		return Judgment{}, fmt.Errorf("confidence %v out of range", judgment.Confidence)
	}
	return judgment, nil
}

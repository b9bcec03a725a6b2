package llm

import (
	"strings"
	"testing"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Judgment
		wantErr bool
	}{
		{
			name:  "bare json",
			input: `{"same_event": true, "confidence": 0.92, "unified_name": "Republican victory 2024", "reasoning": "same election"}`,
			want:  Judgment{SameEvent: true, Confidence: 0.92, UnifiedName: "Republican victory 2024", Reasoning: "same election"},
		},
		{
			name: "markdown fenced",
			input: "```json\n" +
				`{"same_event": false, "confidence": 0.2, "unified_name": "", "reasoning": "different years"}` +
				"\n```",
			want: Judgment{SameEvent: false, Confidence: 0.2, Reasoning: "different years"},
		},
		{
			name:  "json wrapped in prose",
			input: `Here is my analysis: {"same_event": true, "confidence": 0.8, "unified_name": "BTC over $100k"} Hope that helps!`,
			want:  Judgment{SameEvent: true, Confidence: 0.8, UnifiedName: "BTC over $100k"},
		},
		{
			name:    "no json",
			input:   "I cannot compare these questions.",
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			input:   `{"same_event": true, "confidence": 1.7}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			input:   `{"same_event": true, "confidence":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseJudgment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseJudgment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("parseJudgment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJudgePromptIncludesBothTitles(t *testing.T) {
	prompt := strings.ReplaceAll(judgePromptTemplate, "%q", "XX")
	if !strings.Contains(prompt, "Respond with valid JSON only") {
		t.Error("prompt must demand JSON-only output")
	}
	if !strings.Contains(prompt, "same_event") {
		t.Error("prompt must name the same_event field")
	}
}

package matcher

import (
	"regexp"
	"strings"
)

var nonWordRe = regexp.MustCompile(`[^\w\s\-\?\!]`)

// synonyms maps common abbreviations and aliases to canonical phrases.
// Applied in order, as whole-word token replacements.
var synonyms = []struct {
	from string
	to   string
}{
	{"trump", "donald trump"},
	{"biden", "joe biden"},
	{"harris", "kamala harris"},
	{"gop", "republican party"},
	{"dems", "democratic party"},
	{"democrats", "democratic party"},
	{"republicans", "republican party"},
	{"btc", "bitcoin"},
	{"eth", "ethereum"},
	{"above", "over"},
	{"below", "under"},
	{"exceed", "over"},
	{"exceeds", "over"},
	{"prez", "president"},
	{"potus", "president"},
}

// stopwords are tokens too common to distinguish market questions.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "will": true,
	"be": true, "is": true, "are": true, "was": true, "were": true,
}

// normalize lowercases a title, strips punctuation, and expands
// platform-specific abbreviations so cross-platform titles compare
// on equal terms.
func normalize(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWordRe.ReplaceAllString(s, "")

	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		expansion := tok
		for _, syn := range synonyms {
			if tok == syn.from {
				expansion = syn.to
				break
			}
		}
		for _, word := range strings.Fields(expansion) {
			// Collapse runs like "donald donald trump" produced when a
			// title already contains the expanded form.
			if n := len(out); n > 0 && out[n-1] == word {
				continue
			}
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}

// keywords extracts the significant tokens of a normalized title.
func keywords(normalized string) map[string]bool {
	kw := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		if len(tok) > 2 && !stopwords[tok] {
			kw[tok] = true
		}
	}
	return kw
}

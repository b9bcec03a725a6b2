// Package matcher unifies equivalent market listings across platforms.
//
// Pair scoring is LLM-first with a deterministic rule-based fallback
// (keyword Jaccard overlap blended with sequence similarity), so a run
// without an API key still produces usable groups.
package matcher

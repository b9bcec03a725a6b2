package config

import "time"

// Config is the root configuration for a marketscan run.
type Config struct {
	Gemini    GeminiConfig    `yaml:"gemini"`
	Platforms PlatformsConfig `yaml:"platforms"`
	Collector CollectorConfig `yaml:"collector"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Outputs   OutputsConfig   `yaml:"outputs"`
	Database  DatabaseConfig  `yaml:"database"`
	Chat      ChatConfig      `yaml:"chat"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GeminiConfig holds Gemini API settings for matching and chat.
type GeminiConfig struct {
	APIKey     string        `yaml:"api_key"` // Overridden by GEMINI_API_KEY
	Model      string        `yaml:"model"`
	EmbedModel string        `yaml:"embed_model"`
	Timeout    time.Duration `yaml:"timeout"`
}

// PlatformsConfig holds per-platform collection settings.
type PlatformsConfig struct {
	Polymarket       PlatformConfig `yaml:"polymarket"`
	Kalshi           PlatformConfig `yaml:"kalshi"`
	PredictionMarket PlatformConfig `yaml:"prediction_market"`
	Manifold         PlatformConfig `yaml:"manifold"`
}

// PlatformConfig holds a single platform's collection settings.
type PlatformConfig struct {
	BaseURL  string `yaml:"base_url"`
	Limit    int    `yaml:"limit"` // Max listings to collect
	Disabled bool   `yaml:"disabled"`
}

// CollectorConfig holds orchestration settings for the collection stage.
// MaxRetries is a pointer so an explicit zero survives defaulting.
type CollectorConfig struct {
	Timeout     time.Duration `yaml:"timeout"`     // Per-platform request budget
	Delay       time.Duration `yaml:"delay"`       // Politeness delay between platform starts
	Concurrency int           `yaml:"concurrency"` // Max platforms collected in parallel
	MaxRetries  *int          `yaml:"max_retries"` // nil = default, 0 = no retries
}

// MatcherConfig holds product-unification thresholds. MaxLLMPairs is a
// pointer so an explicit zero (= unlimited) survives defaulting.
type MatcherConfig struct {
	MatchThreshold float64 `yaml:"match_threshold"` // Minimum confidence to merge
	AutoMerge      float64 `yaml:"auto_merge"`      // Confidence treated as high
	MaxLLMPairs    *int    `yaml:"max_llm_pairs"`   // nil = default, 0 = unlimited
}

// OutputsConfig holds report file locations.
type OutputsConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig holds the optional Postgres connection for run history.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether persistence is configured.
func (db DatabaseConfig) Enabled() bool {
	return db.Host != "" && db.Name != ""
}

// ChatConfig holds RAG chat settings.
type ChatConfig struct {
	ListenAddr string `yaml:"listen_addr"` // WebSocket server address, empty = terminal only
	TopK       int    `yaml:"top_k"`       // Documents retrieved per question
	History    int    `yaml:"history"`     // Conversation turns kept in context
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

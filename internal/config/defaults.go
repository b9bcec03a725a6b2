package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGeminiModel      = "gemini-2.0-flash"
	DefaultGeminiEmbedModel = "gemini-embedding-001"
	DefaultGeminiTimeout    = 60 * time.Second

	DefaultPolymarketURL       = "https://gamma-api.polymarket.com"
	DefaultKalshiURL           = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultPredictionMarketURL = "https://www.predictit.org"
	DefaultManifoldURL         = "https://api.manifold.markets/v0"
	DefaultPlatformLimit       = 30

	DefaultCollectorTimeout     = 30 * time.Second
	DefaultCollectorDelay       = 2 * time.Second
	DefaultCollectorConcurrency = 2
	DefaultMaxRetries           = 3

	DefaultMatchThreshold = 0.65
	DefaultAutoMerge      = 0.80
	DefaultMaxLLMPairs    = 500

	DefaultOutputDir = "outputs"

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultChatTopK    = 5
	DefaultChatHistory = 10

	DefaultLogLevel = "info"
)

func (c *Config) applyDefaults() {
	// Gemini defaults
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Gemini.EmbedModel == "" {
		c.Gemini.EmbedModel = DefaultGeminiEmbedModel
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = DefaultGeminiTimeout
	}

	// Platform defaults
	applyPlatformDefaults(&c.Platforms.Polymarket, DefaultPolymarketURL)
	applyPlatformDefaults(&c.Platforms.Kalshi, DefaultKalshiURL)
	applyPlatformDefaults(&c.Platforms.PredictionMarket, DefaultPredictionMarketURL)
	applyPlatformDefaults(&c.Platforms.Manifold, DefaultManifoldURL)

	// Collector defaults
	if c.Collector.Timeout == 0 {
		c.Collector.Timeout = DefaultCollectorTimeout
	}
	if c.Collector.Delay == 0 {
		c.Collector.Delay = DefaultCollectorDelay
	}
	if c.Collector.Concurrency == 0 {
		c.Collector.Concurrency = DefaultCollectorConcurrency
	}
	// nil means unset; an explicit max_retries: 0 disables retries.
	if c.Collector.MaxRetries == nil {
		c.Collector.MaxRetries = intPtr(DefaultMaxRetries)
	}

	// Matcher defaults
	if c.Matcher.MatchThreshold == 0 {
		c.Matcher.MatchThreshold = DefaultMatchThreshold
	}
	if c.Matcher.AutoMerge == 0 {
		c.Matcher.AutoMerge = DefaultAutoMerge
	}
	// nil means unset; an explicit max_llm_pairs: 0 means unlimited.
	if c.Matcher.MaxLLMPairs == nil {
		c.Matcher.MaxLLMPairs = intPtr(DefaultMaxLLMPairs)
	}

	// Outputs defaults
	if c.Outputs.Dir == "" {
		c.Outputs.Dir = DefaultOutputDir
	}

	// Database defaults (only meaningful when persistence is configured)
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Chat defaults
	if c.Chat.TopK == 0 {
		c.Chat.TopK = DefaultChatTopK
	}
	if c.Chat.History == 0 {
		c.Chat.History = DefaultChatHistory
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

func intPtr(v int) *int { return &v }

func applyPlatformDefaults(p *PlatformConfig, baseURL string) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Limit == 0 {
		p.Limit = DefaultPlatformLimit
	}
}

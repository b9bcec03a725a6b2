package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Matcher.MatchThreshold <= 0 || c.Matcher.MatchThreshold > 1 {
		return fmt.Errorf("matcher.match_threshold must be in (0, 1], got %v", c.Matcher.MatchThreshold)
	}
	if c.Matcher.AutoMerge <= 0 || c.Matcher.AutoMerge > 1 {
		return fmt.Errorf("matcher.auto_merge must be in (0, 1], got %v", c.Matcher.AutoMerge)
	}
	if c.Matcher.MatchThreshold > c.Matcher.AutoMerge {
		return errors.New("matcher.match_threshold must not exceed matcher.auto_merge")
	}
	if c.Matcher.MaxLLMPairs != nil && *c.Matcher.MaxLLMPairs < 0 {
		return errors.New("matcher.max_llm_pairs must be >= 0")
	}

	if c.Collector.Concurrency < 1 {
		return errors.New("collector.concurrency must be >= 1")
	}
	if c.Collector.MaxRetries != nil && *c.Collector.MaxRetries < 0 {
		return errors.New("collector.max_retries must be >= 0")
	}

	if c.Outputs.Dir == "" {
		return errors.New("outputs.dir is required")
	}

	if c.Database.Enabled() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Chat.TopK < 1 {
		return errors.New("chat.top_k must be >= 1")
	}

	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns must not exceed max_conns", prefix)
	}
	return nil
}

// RequireGemini returns an error when LLM features are requested without a key.
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key is required (set GEMINI_API_KEY)")
	}
	return nil
}

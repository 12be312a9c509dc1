package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// NarrativeConfig configures the LLM narrator.
type NarrativeConfig struct {
	APIKey       string `env:"DUNGEON_OPENAI_API_KEY"`
	SharedAPIKey string `env:"OPENAI_API_KEY"`
	Model        string `env:"DUNGEON_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL      string `env:"DUNGEON_OPENAI_BASE_URL"`

	// Timeout bounds one describe call, retries included.
	Timeout time.Duration `env:"DUNGEON_NARRATIVE_TIMEOUT" envDefault:"8s"`

	// Retries is the number of attempts after the first.
	Retries int `env:"DUNGEON_NARRATIVE_RETRIES" envDefault:"2"`

	// History is how many narrated exchanges are replayed to the model.
	History int `env:"DUNGEON_NARRATIVE_HISTORY" envDefault:"6"`

	MaxTokens   int     `env:"DUNGEON_NARRATIVE_MAX_TOKENS" envDefault:"150"`
	Temperature float64 `env:"DUNGEON_NARRATIVE_TEMPERATURE" envDefault:"0.8"`
}

// LoadNarrativeConfig reads the narrator settings from the environment.
func LoadNarrativeConfig() (NarrativeConfig, error) {
	var cfg NarrativeConfig
	if err := ParseEnv(&cfg); err != nil {
		return NarrativeConfig{}, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = cfg.SharedAPIKey
	}
	if cfg.Timeout <= 0 {
		return NarrativeConfig{}, fmt.Errorf("DUNGEON_NARRATIVE_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.History < 0 {
		cfg.History = 0
	}
	return cfg, nil
}

// Enabled reports whether an API key is available for the LLM narrator.
func (c NarrativeConfig) Enabled() bool {
	return c.APIKey != ""
}

// Package config loads recap.yaml and applies environment overrides for the
// values that should never live in a file (API keys, tokens).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Model     ModelConfig    `yaml:"model"`
	Insights  InsightsConfig `yaml:"insights"`
	OutputDir string         `yaml:"output_dir"`
	LogLevel  string         `yaml:"log_level"`
	Port      int            `yaml:"port"`
	APIToken  string         `yaml:"api_token"`
}

// ModelConfig points at the chat-completion service.
type ModelConfig struct {
	APIKey                string `yaml:"api_key"`
	BaseURL               string `yaml:"base_url"` // empty means the public endpoint
	Name                  string `yaml:"name"`
	MaxTokens             int    `yaml:"max_tokens"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// InsightsConfig tunes chunking and the retry/worker policy.
type InsightsConfig struct {
	Language         string `yaml:"language"`
	ChunkBudgetChars int    `yaml:"chunk_budget_chars"`
	MaxAttempts      int    `yaml:"max_attempts"`
	BackoffBaseMs    int    `yaml:"backoff_base_ms"`
	Concurrency      int    `yaml:"concurrency"`
}

// Load reads the YAML file at path, overlays environment variables, fills
// defaults, and validates. A missing file is fine when path is empty: the
// config then comes entirely from env and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Secrets and deploy-specific knobs come from the environment.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Model.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Model.BaseURL = v
	}
	if v := os.Getenv("RECAP_MODEL"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("RECAP_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RECAP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RECAP_PORT: %w", err)
		}
		cfg.Port = n
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Model.Name == "" {
		c.Model.Name = "gpt-4o-mini"
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 2048
	}
	if c.Model.RequestTimeoutSeconds == 0 {
		c.Model.RequestTimeoutSeconds = 120
	}
	if c.Insights.Language == "" {
		c.Insights.Language = "English"
	}
	if c.Insights.MaxAttempts == 0 {
		c.Insights.MaxAttempts = 4
	}
	if c.Insights.BackoffBaseMs == 0 {
		c.Insights.BackoffBaseMs = 2000
	}
	if c.Insights.Concurrency == 0 {
		c.Insights.Concurrency = 3
	}
	if c.OutputDir == "" {
		c.OutputDir = "./reports"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Port == 0 {
		c.Port = 8760
	}
}

func (c *Config) validate() error {
	if c.Model.APIKey == "" {
		return fmt.Errorf("model.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Insights.MaxAttempts < 1 {
		return fmt.Errorf("insights.max_attempts must be at least 1")
	}
	if c.Insights.Concurrency < 1 {
		return fmt.Errorf("insights.concurrency must be at least 1")
	}
	if c.Insights.ChunkBudgetChars < 0 {
		return fmt.Errorf("insights.chunk_budget_chars must not be negative")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

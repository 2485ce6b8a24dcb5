package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level superbank.yaml configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	View    ViewConfig    `yaml:"view"`
	Ingest  IngestConfig  `yaml:"ingest"`
}

// ServiceConfig locates the backing REST services.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	UserID  string `yaml:"user_id"`
}

// ViewConfig defines the unified view layout.
type ViewConfig struct {
	// SuperHeader is the canonical column set of the unified view.
	SuperHeader []string `yaml:"super_header,omitempty"`
}

// IngestConfig controls the transaction stream retry policy.
type IngestConfig struct {
	MaxRetries   int `yaml:"max_retries"`
	RetryDelayMS int `yaml:"retry_delay_ms"`
}

// Load reads a superbank.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(baseURL, userID string) *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: baseURL,
			UserID:  userID,
		},
		View: ViewConfig{
			SuperHeader: []string{
				"Date",
				"Description",
				"Amount",
				"Dr./Cr.",
				"Bank",
				"Account Number",
				"Tags",
			},
		},
		Ingest: IngestConfig{
			MaxRetries:   3,
			RetryDelayMS: 500,
		},
	}
}

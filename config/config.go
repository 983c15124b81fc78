// Package config loads the CLI configuration: a YAML file overlaid with
// environment variables. Precedence (weakest to strongest): built-in
// defaults, the YAML file, then AGENTHUB_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = ".agenthub/config.yaml"

// Config describes how the CLI reaches the hub and which defaults apply to
// new conversations.
type Config struct {
	BaseURL  string `env:"AGENTHUB_BASE_URL"`
	APIKey   string `env:"AGENTHUB_API_KEY"`
	Model    string `env:"AGENTHUB_MODEL"`
	AgentID  string `env:"AGENTHUB_AGENT_ID"`
	APIKeyID string `env:"AGENTHUB_API_KEY_ID"`

	// InactivityTimeout bounds how long a stream may stall before the
	// session is failed. Zero means the controller default.
	InactivityTimeout time.Duration `env:"AGENTHUB_INACTIVITY_TIMEOUT"`
}

// fileConfig is the YAML schema. Durations are strings on disk ("90s", "2m")
// because yaml.v3 has no native time.Duration support.
type fileConfig struct {
	BaseURL           string `yaml:"base_url"`
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	AgentID           string `yaml:"agent_id"`
	APIKeyID          string `yaml:"api_key_id"`
	InactivityTimeout string `yaml:"inactivity_timeout"`
}

// Load reads path (when it exists) and applies environment overrides.
// A missing file is not an error; env-only configuration is common in CI.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = Config{
			BaseURL:  fc.BaseURL,
			APIKey:   fc.APIKey,
			Model:    fc.Model,
			AgentID:  fc.AgentID,
			APIKeyID: fc.APIKeyID,
		}
		if fc.InactivityTimeout != "" {
			d, err := time.ParseDuration(fc.InactivityTimeout)
			if err != nil {
				return Config{}, fmt.Errorf("config: parse %s: inactivity_timeout: %w", path, err)
			}
			cfg.InactivityTimeout = d
		}
	case os.IsNotExist(err):
		// Fall through to env.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	// envdecode only touches fields whose variable is set.
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields no session can run without.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required (flag, %s, or AGENTHUB_BASE_URL)", DefaultPath)
	}
	return nil
}

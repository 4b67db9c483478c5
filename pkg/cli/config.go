// Package cli provides configuration loading and output helpers shared
// by the voxkit command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the configuration directory under $HOME.
	DefaultBaseDir = ".voxkit"
	// DefaultConfigFile is the configuration filename.
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk CLI configuration. Zero values fall back to
// the documented defaults at load time.
type Config struct {
	// AuthMode selects the authentication strategy: "voice" or
	// "password".
	AuthMode string `yaml:"auth_mode,omitempty"`

	// EmbeddingDim is the voice embedding dimension.
	EmbeddingDim int `yaml:"embedding_dim,omitempty"`

	// VoiceThreshold is the biometric acceptance threshold in (0, 1].
	VoiceThreshold float64 `yaml:"voice_threshold,omitempty"`

	// MatchThreshold is the intent match threshold in (0, 1].
	MatchThreshold float64 `yaml:"match_threshold,omitempty"`

	// SessionTTLMinutes is the session lifetime in minutes.
	SessionTTLMinutes int `yaml:"session_ttl_minutes,omitempty"`

	// GrammarFile is an optional grammar YAML path. Empty means the
	// built-in grammar.
	GrammarFile string `yaml:"grammar_file,omitempty"`

	// configPath is where the config was loaded from.
	configPath string
}

// Defaults mirror the authentication and matching defaults.
const (
	DefaultAuthMode     = "voice"
	DefaultEmbeddingDim = 256
)

// LoadConfig loads ~/.voxkit/config.yaml, creating it with defaults on
// first run. baseDir overrides the directory when non-empty (used by
// --data-dir and tests).
func LoadConfig(baseDir string) (*Config, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cli: home directory: %w", err)
		}
		baseDir = filepath.Join(home, DefaultBaseDir)
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("cli: create config directory: %w", err)
	}

	cfg := &Config{configPath: filepath.Join(baseDir, DefaultConfigFile)}

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("cli: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AuthMode == "" {
		c.AuthMode = DefaultAuthMode
	}
	if c.EmbeddingDim == 0 {
		c.EmbeddingDim = DefaultEmbeddingDim
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = 30
	}
}

// Save writes the configuration back to disk.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cli: marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("cli: write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string { return c.configPath }

// Dir returns the configuration directory.
func (c *Config) Dir() string { return filepath.Dir(c.configPath) }

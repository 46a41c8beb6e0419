package config

import (
	"os"
	"path/filepath"

	"github.com/wardenhq/warden/errors"
	"gopkg.in/yaml.v3"
)

// Fallback model used when no configuration file exists or the requested
// alias cannot be resolved through the configured default.
const (
	FallbackAlias    = "gemini"
	FallbackProvider = "gemini"
	FallbackModel    = "gemini-2.0-flash"
)

// DefaultMaxTurns bounds the agentic loop when the config does not say
// otherwise. The reference behavior was unbounded; we deliberately cap it.
const DefaultMaxTurns = 32

// Model names a provider-specific model identifier.
type Model struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// FilesystemAccess restricts what the file tools may touch, as doublestar
// glob patterns. Hidden paths are invisible to both tools; read-only paths
// reject writes.
type FilesystemAccess struct {
	Hidden   []string `yaml:"hidden"`
	ReadOnly []string `yaml:"read_only"`
}

type Config struct {
	DefaultModel     string           `yaml:"default_model"`
	Models           map[string]Model `yaml:"models"`
	MaxTurns         int              `yaml:"max_turns"`
	FilesystemAccess FilesystemAccess `yaml:"filesystem_access"`
}

// Load reads configuration from the user's home directory and the current
// working directory, with the latter taking precedence. A missing or
// unreadable file is not an error; the hardcoded fallback covers it.
func Load() (*Config, error) {
	cfg := defaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".warden", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			if err := loadFromFile(userPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectPath := filepath.Join(wd, ".warden", "config.yaml")
	if _, err := os.Stat(projectPath); err == nil {
		if err := loadFromFile(projectPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no config file can
// be loaded at all.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	cfg := &Config{
		DefaultModel: FallbackAlias,
		Models: map[string]Model{
			FallbackAlias: {Provider: FallbackProvider, Model: FallbackModel},
		},
		MaxTurns: DefaultMaxTurns,
	}
	// The .warden directory itself stays out of the model's reach.
	cfg.FilesystemAccess.Hidden = append(cfg.FilesystemAccess.Hidden, ".warden", ".warden/**")
	return cfg
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal overwrites fields present in the YAML, so project-level
	// config replaces user-level where both set a field.
	return yaml.Unmarshal(data, cfg)
}

// ResolveModel maps an alias to a provider/model pair. An unknown alias
// falls back to the configured default, then to the hardcoded pair. The
// returned bool is false when a fallback was taken, so the caller can warn.
func (c *Config) ResolveModel(alias string) (Model, bool) {
	requested := alias
	if requested == "" {
		requested = c.DefaultModel
	}
	if m, ok := c.Models[requested]; ok && m.Provider != "" && m.Model != "" {
		return m, true
	}
	if m, ok := c.Models[c.DefaultModel]; ok && m.Provider != "" && m.Model != "" {
		return m, false
	}
	return Model{Provider: FallbackProvider, Model: FallbackModel}, false
}

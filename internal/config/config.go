// Package config loads the tool configuration and the per-project manifest.
// Tool settings live in .uls/config.json at the workspace root; project
// structure (source directories, macros, intrinsic symbol files) lives in
// the uls.toml manifest.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete tool configuration (v1 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`
	Indexing  IndexingConfig  `json:"indexing" mapstructure:"indexing"`
	Analysis  AnalysisConfig  `json:"analysis" mapstructure:"analysis"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// WorkspaceConfig controls document discovery
type WorkspaceConfig struct {
	ManifestName string   `json:"manifestName" mapstructure:"manifestName"`
	Ignore       []string `json:"ignore" mapstructure:"ignore"`
}

// IndexingConfig controls the indexing worker
type IndexingConfig struct {
	DebounceMs int `json:"debounceMs" mapstructure:"debounceMs"`
	QueueSize  int `json:"queueSize" mapstructure:"queueSize"`
}

// AnalysisConfig controls post-index document analysis
type AnalysisConfig struct {
	// Mode is one of none, active, all.
	Mode string `json:"mode" mapstructure:"mode"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Workspace: WorkspaceConfig{
			ManifestName: "uls.toml",
			Ignore:       []string{".git", "Saves", "Cache"},
		},
		Indexing: IndexingConfig{
			DebounceMs: 300,
			QueueSize:  256,
		},
		Analysis: AnalysisConfig{
			Mode: "active",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .uls/config.json under repoRoot,
// falling back to defaults when no file exists.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")
	v.SetDefault("workspace.manifestName", "uls.toml")
	v.SetDefault("indexing.debounceMs", 300)
	v.SetDefault("indexing.queueSize", 256)
	v.SetDefault("analysis.mode", "active")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".uls"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := DefaultConfig()
			cfg.RepoRoot = repoRoot
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.RepoRoot == "." || cfg.RepoRoot == "" {
		cfg.RepoRoot = repoRoot
	}
	return &cfg, nil
}

// Save writes the configuration to .uls/config.json
func (c *Config) Save(repoRoot string) error {
	configPath := filepath.Join(repoRoot, ".uls", "config.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	switch c.Analysis.Mode {
	case "", "none", "active", "all":
	default:
		return &ConfigError{Field: "analysis.mode", Message: "must be none, active or all"}
	}
	if c.Indexing.DebounceMs < 0 {
		return &ConfigError{Field: "indexing.debounceMs", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

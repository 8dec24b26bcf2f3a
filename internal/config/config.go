// Package config loads HKB configuration from .hkb/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete HKB configuration (v2 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Defaults      DefaultsConfig      `json:"defaults" mapstructure:"defaults"`
	KnowledgeBase KnowledgeBaseConfig `json:"knowledgeBase" mapstructure:"knowledgeBase"`
	Cache         CacheConfig         `json:"cache" mapstructure:"cache"`
	API           APIConfig           `json:"api" mapstructure:"api"`
	Logging       LoggingConfig       `json:"logging" mapstructure:"logging"`
}

// DefaultsConfig contains the default evaluation policy
type DefaultsConfig struct {
	Strictness string `json:"strictness" mapstructure:"strictness"`
	Madhab     string `json:"madhab" mapstructure:"madhab"`
}

// KnowledgeBaseConfig controls which record sets are loaded
type KnowledgeBaseConfig struct {
	// IncludeBuiltin loads the record sets embedded in the binary first.
	IncludeBuiltin bool `json:"includeBuiltin" mapstructure:"includeBuiltin"`
	// Paths lists extra record set files merged after the built-in sets;
	// later files override earlier ones on id collision.
	Paths []string `json:"paths" mapstructure:"paths"`
}

// CacheConfig controls the persisted conversion history
type CacheConfig struct {
	Enabled      bool `json:"enabled" mapstructure:"enabled"`
	HistoryLimit int  `json:"historyLimit" mapstructure:"historyLimit"`
	TTLSeconds   int  `json:"ttlSeconds" mapstructure:"ttlSeconds"`
}

// APIConfig contains HTTP API settings
type APIConfig struct {
	Addr           string `json:"addr" mapstructure:"addr"`
	ReadTimeoutMs  int    `json:"readTimeoutMs" mapstructure:"readTimeoutMs"`
	WriteTimeoutMs int    `json:"writeTimeoutMs" mapstructure:"writeTimeoutMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 2,
		Defaults: DefaultsConfig{
			Strictness: "standard",
			Madhab:     "no-preference",
		},
		KnowledgeBase: KnowledgeBaseConfig{
			IncludeBuiltin: true,
			Paths:          []string{},
		},
		Cache: CacheConfig{
			Enabled:      true,
			HistoryLimit: 50,
			TTLSeconds:   86400 * 30,
		},
		API: APIConfig{
			Addr:           "127.0.0.1:7833",
			ReadTimeoutMs:  15000,
			WriteTimeoutMs: 15000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.hkb/config.json
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 2)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".hkb"))

	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <root>/.hkb/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".hkb")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 2 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	switch c.Defaults.Strictness {
	case "strict", "standard", "flexible", "":
	default:
		return &ConfigError{Field: "defaults.strictness", Message: "must be strict, standard, or flexible"}
	}
	if c.Cache.HistoryLimit < 0 {
		return &ConfigError{Field: "cache.historyLimit", Message: "must not be negative"}
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

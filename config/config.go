// Package config provides configuration loading for PageSift.
// Values come from defaults, then an optional YAML file, then environment
// variables; command-line flags are applied last by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvBackendURL    = "PAGESIFT_BACKEND_URL"
	EnvBackendAPIKey = "PAGESIFT_BACKEND_API_KEY"
	EnvBackendModel  = "PAGESIFT_BACKEND_MODEL"
	EnvDBDSN         = "PAGESIFT_DB_DSN"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
)

// Config represents the complete PageSift configuration.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Extract ExtractConfig `yaml:"extract"`
	Chunk   ChunkConfig   `yaml:"chunk"`
	Backend BackendConfig `yaml:"backend"`
	Parse   ParseConfig   `yaml:"parse"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// FetchConfig configures how pages are retrieved.
type FetchConfig struct {
	// Strategy is one of "http", "colly", or "remote".
	Strategy string `yaml:"strategy"`
	// Timeout bounds a single fetch.
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	// RemoteEndpoint is the rendering service used by the "remote" strategy.
	RemoteEndpoint string `yaml:"remote_endpoint"`
	RemoteToken    string `yaml:"remote_token"`
}

// ExtractConfig selects the content extractor.
type ExtractConfig struct {
	// Strategy is "body" (whole body) or "readability" (main article).
	Strategy string `yaml:"strategy"`
}

// ChunkConfig configures text splitting.
type ChunkConfig struct {
	MaxLength int `yaml:"max_length"`
}

// BackendConfig configures the text-processing backend.
type BackendConfig struct {
	// Provider is "ollama" or "openai".
	Provider string        `yaml:"provider"`
	URL      string        `yaml:"url"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ParseConfig configures per-chunk dispatch.
type ParseConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Separator   string `yaml:"separator"`
}

// StoreConfig configures the history database.
type StoreConfig struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Strategy:     "http",
			Timeout:      30 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
		Extract: ExtractConfig{Strategy: "body"},
		Chunk:   ChunkConfig{MaxLength: 6000},
		Backend: BackendConfig{
			Provider: "ollama",
			URL:      "http://localhost:11434",
			Model:    "llama3",
			Timeout:  2 * time.Minute,
		},
		Parse: ParseConfig{
			Concurrency: 1,
			Separator:   "\n",
		},
		Store: StoreConfig{
			Driver: "sqlite3",
			DSN:    "pagesift.db",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Fetch.Strategy {
	case "http", "colly":
	case "remote":
		if c.Fetch.RemoteEndpoint == "" {
			return fmt.Errorf("fetch.remote_endpoint is required with fetch.strategy=remote")
		}
	default:
		return fmt.Errorf("fetch.strategy must be http, colly, or remote (got %q)", c.Fetch.Strategy)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	switch c.Extract.Strategy {
	case "body", "readability":
	default:
		return fmt.Errorf("extract.strategy must be body or readability (got %q)", c.Extract.Strategy)
	}
	if c.Chunk.MaxLength <= 0 {
		return fmt.Errorf("chunk.max_length must be positive (got %d)", c.Chunk.MaxLength)
	}
	switch c.Backend.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("backend.provider must be ollama or openai (got %q)", c.Backend.Provider)
	}
	if c.Parse.Concurrency < 1 {
		return fmt.Errorf("parse.concurrency must be at least 1")
	}
	switch c.Store.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("store.driver must be sqlite3 or postgres (got %q)", c.Store.Driver)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json (got %q)", c.Log.Format)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), and the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides values from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := getenv(EnvBackendModel); v != "" {
		c.Backend.Model = v
	}
	if v := getenv(EnvBackendAPIKey); v != "" {
		c.Backend.APIKey = v
	} else if v := getenv(EnvOpenAIAPIKey); v != "" && c.Backend.APIKey == "" {
		c.Backend.APIKey = v
	}
	if v := getenv(EnvDBDSN); v != "" {
		c.Store.DSN = v
	}
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6000, cfg.Chunk.MaxLength)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "\n", cfg.Parse.Separator)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown fetch strategy", mutate: func(c *Config) { c.Fetch.Strategy = "ftp" }},
		{name: "remote without endpoint", mutate: func(c *Config) { c.Fetch.Strategy = "remote" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Fetch.Timeout = 0 }},
		{name: "unknown extractor", mutate: func(c *Config) { c.Extract.Strategy = "xpath" }},
		{name: "zero chunk length", mutate: func(c *Config) { c.Chunk.MaxLength = 0 }},
		{name: "unknown provider", mutate: func(c *Config) { c.Backend.Provider = "bard" }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Parse.Concurrency = 0 }},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "mysql" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagesift.yaml")
	content := `
fetch:
  strategy: remote
  timeout: 5s
  remote_endpoint: http://render:3000/content
chunk:
  max_length: 2000
backend:
  provider: openai
  model: gpt-4o-mini
parse:
  concurrency: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "remote", cfg.Fetch.Strategy)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "http://render:3000/content", cfg.Fetch.RemoteEndpoint)
	assert.Equal(t, 2000, cfg.Chunk.MaxLength)
	assert.Equal(t, "openai", cfg.Backend.Provider)
	assert.Equal(t, 4, cfg.Parse.Concurrency)
	// Untouched sections keep their defaults.
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.Equal(t, "body", cfg.Extract.Strategy)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackendURL:   "http://gpu-box:11434",
		EnvOpenAIAPIKey: "sk-test",
		EnvDBDSN:        "postgres://u:p@db/pagesift",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "http://gpu-box:11434", cfg.Backend.URL)
	assert.Equal(t, "sk-test", cfg.Backend.APIKey)
	assert.Equal(t, "postgres://u:p@db/pagesift", cfg.Store.DSN)
	assert.Equal(t, "llama3", cfg.Backend.Model)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Chunk.MaxLength = 1234

	require.NoError(t, cfg.SaveToFile(path))
	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

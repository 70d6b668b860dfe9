package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration for the memories core.
// Environment variables are parsed from the MAPMEMORIES_ prefix, e.g.
// MAPMEMORIES_DB_PATH, MAPMEMORIES_LOG_LEVEL.
type Config struct {
	// DBPath is the SQLite database file. Empty means the per-user default
	// under the home directory.
	DBPath string `envconfig:"DB_PATH" default:""`

	// CatalogBaseURL is the music catalog API endpoint.
	CatalogBaseURL string `envconfig:"CATALOG_BASE_URL" default:"https://api.spotify.com/v1"`

	// CatalogToken is a bearer token for catalog search. Only CLI tooling
	// reads it; the app supplies tokens through its own auth flow.
	CatalogToken string `envconfig:"CATALOG_TOKEN" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults derives DBPath when unset.
func (c *Config) ResolveDefaults() error {
	if c.DBPath != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	c.DBPath = filepath.Join(home, ".mapmemories", "memories.db")
	return nil
}

// New creates a Config from environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MAPMEMORIES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewForTesting returns a config pointed at a throwaway database path.
func NewForTesting(dbPath string) *Config {
	return &Config{
		DBPath:         dbPath,
		CatalogBaseURL: "http://localhost:0",
		LogLevel:       "debug",
	}
}

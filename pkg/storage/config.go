package storage

import (
	"fmt"
	"os"
)

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath string
}

// Config contains blob storage configuration.
type Config struct {
	// BasePath is the root directory for fetched documents.
	// Default: ".data/flyers"
	BasePath string `toml:"base_path"`
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	if c.BasePath == "" {
		c.BasePath = ".data/flyers"
	}

	if env != nil && env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}

	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
}

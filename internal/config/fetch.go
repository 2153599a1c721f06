package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
)

const (
	// EnvFetchTimeout overrides the document download timeout.
	EnvFetchTimeout = "FETCH_TIMEOUT"

	// EnvFetchMaxSize overrides the largest accepted document (human size, e.g. "50MB").
	EnvFetchMaxSize = "FETCH_MAX_SIZE"

	// EnvFetchUserAgent overrides the User-Agent sent with downloads.
	EnvFetchUserAgent = "FETCH_USER_AGENT"

	// EnvFetchAllowLocal enables file URLs and bare filesystem paths as sources.
	EnvFetchAllowLocal = "FETCH_ALLOW_LOCAL"
)

// FetchConfig contains document download configuration.
type FetchConfig struct {
	Timeout    string `toml:"timeout"`
	MaxSize    string `toml:"max_size"`
	UserAgent  string `toml:"user_agent"`
	AllowLocal bool   `toml:"allow_local"`
	maxSizeVal int64
}

// TimeoutDuration parses and returns the download timeout as a time.Duration.
func (c *FetchConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxSizeBytes returns the parsed MaxSize. It is only populated after Finalize.
func (c *FetchConfig) MaxSizeBytes() int64 {
	return c.maxSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the fetch configuration.
func (c *FetchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *FetchConfig) Merge(overlay *FetchConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxSize != "" {
		c.MaxSize = overlay.MaxSize
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.AllowLocal {
		c.AllowLocal = true
	}
}

func (c *FetchConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxSize == "" {
		c.MaxSize = "50MB"
	}
	if c.UserAgent == "" {
		c.UserAgent = "flyer-viewer/1.0"
	}
}

func (c *FetchConfig) loadEnv() {
	if v := os.Getenv(EnvFetchTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvFetchMaxSize); v != "" {
		c.MaxSize = v
	}
	if v := os.Getenv(EnvFetchUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(EnvFetchAllowLocal); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AllowLocal = b
		}
	}
}

func (c *FetchConfig) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	size, err := units.FromHumanSize(c.MaxSize)
	if err != nil {
		return fmt.Errorf("invalid max_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_size must be positive")
	}
	c.maxSizeVal = size

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvRenderUpscaleFactor = "RENDER_UPSCALE_FACTOR"
	EnvRenderMinWidth      = "RENDER_MIN_WIDTH"
	EnvRenderMaxWidth      = "RENDER_MAX_WIDTH"
	EnvRenderBackground    = "RENDER_BACKGROUND"
)

// RenderConfig controls page raster sizing.
// Output width is max(nativeWidth * UpscaleFactor, MinWidth) capped at MaxWidth; height keeps
// the page aspect ratio.
type RenderConfig struct {
	UpscaleFactor float64 `toml:"upscale_factor"`
	MinWidth      int     `toml:"min_width"`
	MaxWidth      int     `toml:"max_width"`
	Background    string  `toml:"background"`
}

// Finalize applies defaults, loads environment overrides, and validates the render configuration.
func (c *RenderConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *RenderConfig) Merge(overlay *RenderConfig) {
	if overlay.UpscaleFactor != 0 {
		c.UpscaleFactor = overlay.UpscaleFactor
	}
	if overlay.MinWidth != 0 {
		c.MinWidth = overlay.MinWidth
	}
	if overlay.MaxWidth != 0 {
		c.MaxWidth = overlay.MaxWidth
	}
	if overlay.Background != "" {
		c.Background = overlay.Background
	}
}

func (c *RenderConfig) loadDefaults() {
	if c.UpscaleFactor == 0 {
		c.UpscaleFactor = 2
	}
	if c.MinWidth == 0 {
		c.MinWidth = 1000
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = 4096
	}
	if c.Background == "" {
		c.Background = "white"
	}
}

func (c *RenderConfig) loadEnv() {
	if v := os.Getenv(EnvRenderUpscaleFactor); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.UpscaleFactor = f
		}
	}
	if v := os.Getenv(EnvRenderMinWidth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinWidth = n
		}
	}
	if v := os.Getenv(EnvRenderMaxWidth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxWidth = n
		}
	}
	if v := os.Getenv(EnvRenderBackground); v != "" {
		c.Background = v
	}
}

func (c *RenderConfig) validate() error {
	if c.UpscaleFactor < 1 {
		return fmt.Errorf("upscale_factor must be >= 1")
	}
	if c.MinWidth < 1 {
		return fmt.Errorf("min_width must be positive")
	}
	if c.MaxWidth < c.MinWidth {
		return fmt.Errorf("max_width must be >= min_width")
	}
	return nil
}

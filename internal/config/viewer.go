package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvViewerRetainRadius   = "VIEWER_RETAIN_RADIUS"
	EnvViewerIndexStripSize = "VIEWER_INDEX_STRIP_SIZE"
	EnvViewerSwipeThreshold = "VIEWER_SWIPE_THRESHOLD"
	EnvViewerPurgeOnClose   = "VIEWER_PURGE_ON_CLOSE"
)

// ViewerConfig contains per-session viewer tuning.
type ViewerConfig struct {
	// RetainRadius is how many pages either side of the current page keep their bitmap.
	// Nil means the default of 1; 0 keeps only the current page.
	RetainRadius *int `toml:"retain_radius"`

	// IndexStripSize is the number of page buttons visible in the index strip.
	IndexStripSize int `toml:"index_strip_size"`

	// SwipeThreshold is the horizontal drag distance, in pixels, that changes page.
	SwipeThreshold float64 `toml:"swipe_threshold"`

	// PurgeOnClose removes the fetched document bytes when a session closes.
	PurgeOnClose *bool `toml:"purge_on_close"`
}

// Radius returns the retain radius, 1 when unset.
func (c *ViewerConfig) Radius() int {
	if c.RetainRadius == nil {
		return 1
	}
	return *c.RetainRadius
}

// Purge reports whether fetched bytes are deleted on session close.
func (c *ViewerConfig) Purge() bool {
	return c.PurgeOnClose == nil || *c.PurgeOnClose
}

// Finalize applies defaults, loads environment overrides, and validates the viewer configuration.
func (c *ViewerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ViewerConfig) Merge(overlay *ViewerConfig) {
	if overlay.RetainRadius != nil {
		c.RetainRadius = overlay.RetainRadius
	}
	if overlay.IndexStripSize != 0 {
		c.IndexStripSize = overlay.IndexStripSize
	}
	if overlay.SwipeThreshold != 0 {
		c.SwipeThreshold = overlay.SwipeThreshold
	}
	if overlay.PurgeOnClose != nil {
		c.PurgeOnClose = overlay.PurgeOnClose
	}
}

func (c *ViewerConfig) loadDefaults() {
	if c.RetainRadius == nil {
		radius := 1
		c.RetainRadius = &radius
	}
	if c.IndexStripSize == 0 {
		c.IndexStripSize = 5
	}
	if c.SwipeThreshold == 0 {
		c.SwipeThreshold = 48
	}
}

func (c *ViewerConfig) loadEnv() {
	if v := os.Getenv(EnvViewerRetainRadius); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RetainRadius = &n
		}
	}
	if v := os.Getenv(EnvViewerIndexStripSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IndexStripSize = n
		}
	}
	if v := os.Getenv(EnvViewerSwipeThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.SwipeThreshold = f
		}
	}
	if v := os.Getenv(EnvViewerPurgeOnClose); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.PurgeOnClose = &b
		}
	}
}

func (c *ViewerConfig) validate() error {
	if r := c.Radius(); r < 0 || r > 3 {
		return fmt.Errorf("retain_radius must be between 0 and 3")
	}
	if c.IndexStripSize < 1 {
		return fmt.Errorf("index_strip_size must be positive")
	}
	if c.SwipeThreshold <= 0 {
		return fmt.Errorf("swipe_threshold must be positive")
	}
	return nil
}

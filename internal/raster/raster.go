// Package raster produces page bitmaps from a render handle and keeps the
// bitmaps for pages near the current page resident.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/JaimeStill/flyer-viewer/internal/config"
	"github.com/JaimeStill/flyer-viewer/internal/render"
)

// ErrPageUnavailable wraps any failure to rasterize a single page.
var ErrPageUnavailable = errors.New("page unavailable")

// Bitmap is a rasterized page.
type Bitmap struct {
	Index      int
	Image      *image.RGBA
	Width      int
	Height     int
	RenderedAt time.Time
}

// Cache renders pages through a shared handle and tracks the resident set.
// Render may be called from many goroutines; the handle's token keeps the
// actual rasterization strictly one page at a time.
type Cache struct {
	handle  *render.Handle
	upscale float64
	minW    int
	maxW    int
	radius  int
	logger  *slog.Logger

	mu      sync.Mutex
	bitmaps map[int]*Bitmap
}

// New creates a cache over handle. radius is how many pages either side of
// the retained center keep their bitmaps.
func New(handle *render.Handle, cfg *config.RenderConfig, radius int, logger *slog.Logger) *Cache {
	return &Cache{
		handle:  handle,
		upscale: cfg.UpscaleFactor,
		minW:    cfg.MinWidth,
		maxW:    cfg.MaxWidth,
		radius:  radius,
		logger:  logger.With("system", "raster"),
		bitmaps: make(map[int]*Bitmap),
	}
}

// Render rasterizes page index. widthHint raises the minimum output width
// when it is larger than the configured minimum; the output never exceeds
// the configured maximum width. Requests for the same page are not
// deduplicated here. Context errors are returned as they are.
func (c *Cache) Render(ctx context.Context, index, widthHint int) (*Bitmap, error) {
	minWidth := c.ClampWidth(widthHint)

	var bmp *Bitmap
	err := c.handle.WithPage(ctx, index, func(page render.Page) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("rasterizer panic: %v", r)
			}
		}()

		w, h := OutputSize(page.Size(), c.upscale, minWidth, c.maxW)
		img, err := page.Render(w, h)
		if err != nil {
			return err
		}

		bmp = &Bitmap{
			Index:      index,
			Image:      img,
			Width:      w,
			Height:     h,
			RenderedAt: time.Now(),
		}
		return nil
	})

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.logger.Debug("page render abandoned", "page", index, "error", err)
		return nil, err
	}
	if err != nil {
		c.logger.Error("page render failed", "page", index, "error", err)
		return nil, fmt.Errorf("%w: page %d: %w", ErrPageUnavailable, index, err)
	}

	c.mu.Lock()
	c.bitmaps[index] = bmp
	c.mu.Unlock()

	c.logger.Debug("page rendered", "page", index, "width", bmp.Width, "height", bmp.Height)
	return bmp, nil
}

// ClampWidth bounds a requested width hint to [MinWidth, MaxWidth].
func (c *Cache) ClampWidth(widthHint int) int {
	w := max(c.minW, widthHint)
	if c.maxW > 0 {
		w = min(w, c.maxW)
	}
	return w
}

// Get returns the resident bitmap for index.
func (c *Cache) Get(index int) (*Bitmap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bmp, ok := c.bitmaps[index]
	return bmp, ok
}

// Retain discards bitmaps farther than the configured radius from center
// and returns the discarded indices in ascending order.
func (c *Cache) Retain(center int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var evicted []int
	for index := range c.bitmaps {
		if index < center-c.radius || index > center+c.radius {
			delete(c.bitmaps, index)
			evicted = append(evicted, index)
		}
	}

	slices.Sort(evicted)
	if len(evicted) > 0 {
		c.logger.Debug("bitmaps discarded", "center", center, "pages", evicted)
	}
	return evicted
}

// Window returns the page indices the cache keeps resident around center,
// clipped to the handle's page range.
func (c *Cache) Window(center int) []int {
	lo := max(center-c.radius, 0)
	hi := min(center+c.radius, c.handle.PageCount()-1)

	window := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		window = append(window, i)
	}
	return window
}

// Resident lists the indices that currently hold a bitmap, ascending.
func (c *Cache) Resident() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.bitmaps))
}

// Clear drops every resident bitmap.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.bitmaps)
}

// OutputSize computes the raster size for a page: the width is the native
// width times upscale, but never below minWidth and, when maxWidth is
// positive, never above it; the height keeps the native aspect ratio.
func OutputSize(native render.Size, upscale float64, minWidth, maxWidth int) (width, height int) {
	width = max(int(native.Width*upscale), minWidth)
	if maxWidth > 0 {
		width = min(width, maxWidth)
	}
	if native.Width <= 0 {
		return width, width
	}
	height = int(float64(width) * native.Height / native.Width)
	return width, max(height, 1)
}

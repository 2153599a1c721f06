package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Handle is the live render capability for one document.
// Page access goes through WithPage, which holds the handle's token for the
// whole open/render/close sequence.
type Handle struct {
	backend   Backend
	pageCount int
	token     *semaphore.Weighted
	logger    *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newHandle(backend Backend, logger *slog.Logger) *Handle {
	return &Handle{
		backend:   backend,
		pageCount: backend.PageCount(),
		token:     semaphore.NewWeighted(1),
		logger:    logger,
	}
}

// PageCount returns the number of pages in the document.
func (h *Handle) PageCount() int {
	return h.pageCount
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}

// WithPage opens page index, runs fn with it and closes the page, all while
// holding the handle's token. Waiting for the token honours ctx; once fn is
// running it is allowed to finish.
func (h *Handle) WithPage(ctx context.Context, index int, fn func(Page) error) error {
	if index < 0 || index >= h.pageCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrPageOutOfRange, index, h.pageCount)
	}
	if h.closed.Load() {
		return ErrHandleClosed
	}

	if err := h.token.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.token.Release(1)

	if h.closed.Load() {
		return ErrHandleClosed
	}

	page, err := h.backend.OpenPage(index)
	if err != nil {
		return fmt.Errorf("open page %d: %w", index, err)
	}

	defer func() {
		if err := page.Close(); err != nil {
			h.logger.Warn("page close failed", "page", index, "error", err)
		}
	}()

	return fn(page)
}

// Close marks the handle closed, waits for any in-flight page to release the
// token and closes the backend. Only the first call does any work; later calls
// return the first call's result.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.closed.Store(true)

		// Background: teardown must not skip the wait for an in-flight page.
		if err := h.token.Acquire(context.Background(), 1); err != nil {
			h.closeErr = err
			return
		}
		defer h.token.Release(1)

		h.closeErr = h.backend.Close()
		h.logger.Debug("render handle closed", "pages", h.pageCount)
	})
	return h.closeErr
}

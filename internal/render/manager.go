package render

import (
	"fmt"
	"log/slog"
)

// Manager opens render handles using a configured Opener.
type Manager struct {
	opener Opener
	logger *slog.Logger
}

// NewManager creates a Manager. A nil opener defaults to OpenPDF.
func NewManager(opener Opener, logger *slog.Logger) *Manager {
	if opener == nil {
		opener = OpenPDF
	}
	return &Manager{
		opener: opener,
		logger: logger.With("system", "render"),
	}
}

// Open opens the document at path and returns its handle.
// Unreadable or malformed documents fail with ErrOpenFailed, empty ones with ErrNoPages.
func (m *Manager) Open(path string) (*Handle, error) {
	backend, err := m.opener(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	if backend.PageCount() < 1 {
		if err := backend.Close(); err != nil {
			m.logger.Warn("backend close failed", "path", path, "error", err)
		}
		return nil, ErrNoPages
	}

	h := newHandle(backend, m.logger)
	m.logger.Info("render handle opened", "path", path, "pages", h.PageCount())
	return h, nil
}

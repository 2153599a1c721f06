package viewer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/flyer-viewer/internal/fetcher"
	"github.com/JaimeStill/flyer-viewer/internal/render"
)

// Source is what a caller hands the viewer: where the flyer lives, who
// published it and which page to show first.
type Source struct {
	URL         string `json:"url"`
	Label       string `json:"label"`
	InitialPage int    `json:"initial_page"`
}

// Validate checks the source for required fields.
func (s *Source) Validate() error {
	s.URL = strings.TrimSpace(s.URL)
	if s.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidSource)
	}
	if s.InitialPage < 0 {
		return fmt.Errorf("%w: initial_page must be >= 0", ErrInvalidSource)
	}
	return nil
}

// FailureKind classifies session-ending failures.
type FailureKind string

const (
	FailureNotFound FailureKind = "not_found"
	FailureTransfer FailureKind = "transfer"
	FailureOpen     FailureKind = "open"
)

const (
	expiredMessage = "Flyer is no longer available (Expired)."
	fallbackAction = "Open Link in Browser"
)

// Failure is the terminal error shown in place of the viewer. Its single
// recovery action opens FallbackURL outside the viewer.
type Failure struct {
	Kind        FailureKind `json:"kind"`
	Message     string      `json:"message"`
	Action      string      `json:"action"`
	FallbackURL string      `json:"fallback_url"`
}

func newFailure(err error, sourceURL string) *Failure {
	f := &Failure{
		Action:      fallbackAction,
		FallbackURL: sourceURL,
	}

	switch {
	case errors.Is(err, fetcher.ErrNotFound):
		f.Kind = FailureNotFound
		f.Message = expiredMessage
	case errors.Is(err, render.ErrOpenFailed), errors.Is(err, render.ErrNoPages):
		f.Kind = FailureOpen
		f.Message = "Failed to load flyer: " + err.Error()
	default:
		f.Kind = FailureTransfer
		f.Message = "Failed to load flyer: " + err.Error()
	}

	return f
}

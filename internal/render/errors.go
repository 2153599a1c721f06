package render

import "errors"

var (
	// ErrOpenFailed means the local document is unreadable or malformed.
	ErrOpenFailed = errors.New("document could not be opened")

	// ErrNoPages means the document opened but contains no pages.
	ErrNoPages = errors.New("document has no pages")

	// ErrHandleClosed is returned for page access after Close.
	ErrHandleClosed = errors.New("render handle closed")

	// ErrPageOutOfRange is returned for page indices outside [0, PageCount).
	ErrPageOutOfRange = errors.New("page index out of range")
)

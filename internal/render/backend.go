// Package render owns the render handle: the single, non-reentrant capability
// to open and rasterize pages of a fetched document.
//
// A Handle wraps a Backend and serializes every page access through one token,
// so at most one page is ever open on the backend at a time.
package render

import "image"

// Size is a page's native size in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Backend is a document opened for rasterization. Implementations are not
// required to be safe for concurrent use; Handle serializes all calls.
type Backend interface {
	PageCount() int
	OpenPage(index int) (Page, error)
	Close() error
}

// Page is a single open page on a Backend.
type Page interface {
	Size() Size
	// Render rasterizes the page into a newly allocated width x height buffer.
	Render(width, height int) (*image.RGBA, error)
	Close() error
}

// Opener opens the document stored at path.
type Opener func(path string) (Backend, error)

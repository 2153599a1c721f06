// Package viewer runs flyer viewing sessions: it fetches a document, opens
// its render handle and routes page, pointer and navigation requests to the
// raster cache, viewport and navigation coordinator.
package viewer

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/flyer-viewer/internal/raster"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSource    = errors.New("invalid document source")
	ErrNotReady         = errors.New("session is not ready")
	ErrClosed           = errors.New("session closed")
	ErrInvalidPageRange = errors.New("invalid page range")
	ErrPageOutOfRange   = errors.New("page number out of range")
	ErrInvalidAction    = errors.New("invalid navigation action")
)

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidSource):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, ErrClosed):
		return http.StatusGone
	case errors.Is(err, ErrInvalidPageRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrPageOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, raster.ErrPageUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

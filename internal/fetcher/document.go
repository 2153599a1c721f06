// Package fetcher retrieves flyer documents into local blob storage.
// Failures are typed: ErrNotFound for sources that are gone, ErrTransfer for everything else.
// Nothing here retries; the viewer offers the source URL as a manual fallback instead.
package fetcher

import (
	"time"

	"github.com/google/uuid"
)

// Document is a fetched flyer held in local storage.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	StorageKey  string    `json:"storage_key"`
	Path        string    `json:"-"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	FetchedAt   time.Time `json:"fetched_at"`
}

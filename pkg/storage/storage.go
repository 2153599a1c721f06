package storage

import (
	"context"
	"io"

	"github.com/JaimeStill/flyer-viewer/pkg/lifecycle"
)

// System defines blob storage operations keyed by slash-separated relative paths.
type System interface {
	// Store saves data at key, replacing existing contents atomically.
	Store(ctx context.Context, key string, data []byte) error

	// Write streams r to key and returns the number of bytes written.
	// The blob only becomes visible once the stream is fully written.
	Write(ctx context.Context, key string, r io.Reader) (int64, error)

	// Retrieve returns the data stored at key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists and is accessible.
	Validate(ctx context.Context, key string) (bool, error)

	// Path resolves key to an absolute filesystem path.
	Path(ctx context.Context, key string) (string, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

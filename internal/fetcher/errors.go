package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the source no longer exists (removed or expired flyer).
	ErrNotFound = errors.New("document source not found")

	// ErrTransfer covers every other network or IO failure while fetching.
	ErrTransfer = errors.New("document transfer failed")

	// ErrTooLarge means the document exceeded the configured maximum size.
	ErrTooLarge = fmt.Errorf("%w: document exceeds maximum size", ErrTransfer)

	// ErrInvalidSource means the source is empty or uses an unsupported scheme.
	ErrInvalidSource = fmt.Errorf("%w: invalid document source", ErrTransfer)
)

package files

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no record exists for the requested public id.
	ErrNotFound = errors.New("file not found")

	// ErrTemporarilyUnavailable means refreshing the backing URL, or the
	// fetch retry after a refresh, failed. The caller may try again later.
	ErrTemporarilyUnavailable = errors.New("file temporarily unavailable")
)

// UpstreamError is a non-expiry failure from the backing store. Its status
// is propagated to the caller as-is.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

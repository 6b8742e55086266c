package fetch

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed retrieval errors.
var (
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("transport failure")

	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("file not found")
)

// TransportError reports an HTTP request that failed or returned a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransport) match.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NotFoundError reports a file:// source that does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: file not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

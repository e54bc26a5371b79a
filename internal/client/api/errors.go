package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors, matchable with errors.Is.
var (
	// ErrSessionExpired means the credential pair could not be renewed (or
	// the retried call was still rejected). The store is always cleared by
	// the time this error is returned.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnavailable covers transport-level failures: unreachable server,
	// timeouts, malformed responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrCancelled marks an operation that was superseded or torn down.
	// It is not a failure and must never flip visible state to error.
	ErrCancelled = errors.New("cancelled")
)

// Error is the normalized shape of a non-2xx API response.
type Error struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

func (e *Error) Error() string {
	if len(e.FieldErrors) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}

	fields := make([]string, 0, len(e.FieldErrors))
	for name, msg := range e.FieldErrors {
		fields = append(fields, name+": "+msg)
	}
	sort.Strings(fields)
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(fields, "; "))
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// IsCancelled reports whether err is a cancellation, at either the taxonomy
// or the context level.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

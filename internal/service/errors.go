package service

import (
	"errors"
	"fmt"

	"github.com/pageledger/pageledger-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrDatasetNotFound indicates the requested dataset does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrItemNotFound indicates no live item occupies the addressed identity.
	// API layer should map this to HTTP 404 Not Found.
	ErrItemNotFound = errors.New("item not found")

	// ErrCursorNotFound indicates the cursor session does not exist or has
	// expired. API layer should map this to HTTP 404 Not Found.
	ErrCursorNotFound = errors.New("cursor session not found")

	// ErrPageSizeTooLarge indicates a request asked for more items than the
	// configured maximum. API layer should map this to HTTP 400 Bad Request.
	ErrPageSizeTooLarge = errors.New("page size exceeds configured maximum")
)

// FeedServiceError wraps unexpected errors from the feed service with context.
type FeedServiceError struct {
	// Operation is the operation that failed (e.g., "append_item")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface.
func (e *FeedServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("feed service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FeedServiceError) Unwrap() error {
	return e.Err
}

// newFeedServiceError maps known store sentinels to service sentinels and
// wraps everything else.
func newFeedServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrDatasetNotFound):
		return ErrDatasetNotFound
	case errors.Is(err, store.ErrItemNotFound):
		return ErrItemNotFound
	}

	return &FeedServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

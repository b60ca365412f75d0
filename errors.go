package trancepoint

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrClosed is returned by clients used after Close.
	ErrClosed = errors.New("trancepoint: client is closed")
	// ErrQueueFull is returned by Enqueue when the batch queue has no room left.
	ErrQueueFull = errors.New("trancepoint: event queue is full")
	// ErrRejected marks batches the endpoint refused and that must not be retried.
	ErrRejected = errors.New("trancepoint: batch rejected")
	// ErrUnavailable marks batches that still failed after all retries.
	ErrUnavailable = errors.New("trancepoint: endpoint unavailable")
	// ErrSpanEnded is returned when a span is ended twice.
	ErrSpanEnded = errors.New("trancepoint: span already ended")
)

// StatusError is a non-2xx reply of the ingestion endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("trancepoint: ingestion failed: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("trancepoint: ingestion failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed when sent again.
func (e *StatusError) Retryable() bool {
	return isRetryableStatus(e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	if e.Retryable() {
		return ErrUnavailable
	}
	return ErrRejected
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// PanicError carries the value recovered from a panicking observed function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) ErrorType() string {
	return "panic"
}

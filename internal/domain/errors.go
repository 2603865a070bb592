package domain

import (
	"errors"
	"fmt"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// ValidationError is returned for bad intent parameters. It is raised before
// any network call and is never retriable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *ValidationError) IsRetriable() bool {
	return false
}

// ExchangeError represents a definitive remote rejection. The order did not
// reach the book, so a blind resubmit would duplicate intent. Not retriable.
type ExchangeError struct {
	Code    int
	Message string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange rejected request: code=%d msg=%s", e.Code, e.Message)
}

func (e *ExchangeError) IsRetriable() bool {
	return false
}

// TransportError represents a network or timeout failure with no definitive
// exchange-side outcome. The caller may retry, knowing the original request
// could still have landed.
type TransportError struct {
	Op  string // operation that failed (e.g. "create_order", "get_ticker")
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) IsRetriable() bool {
	return true
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a low-level network failure for an operation.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// ErrNotFound is returned on a ledger or order lookup miss.
var ErrNotFound = errors.New("not found")

package checkout

import (
	"errors"
	"fmt"
)

// ErrSubmitInFlight rejects a submit attempted while a previous one is still
// running. No network call is made.
var ErrSubmitInFlight = errors.New("a checkout submission is already in flight")

// ErrClosed rejects operations on a coordinator that has been torn down.
var ErrClosed = errors.New("checkout coordinator is closed")

// ValidationError covers everything caught before the network: empty cart,
// incomplete shipping details, unknown payment method, unpriceable lines.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout validation failed: %s: %s", e.Field, e.Reason)
}

// SubmissionError wraps a failure from the order service call, transport or
// server-side. The cart is always left untouched when it is returned.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "order submission failed: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

package terminal

import (
	"errors"
	"fmt"
)

// Precondition failures raised before any network call.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnauthenticated = errors.New("no authenticated user")
)

// SubmissionFailedError wraps any non-success response or transport failure
// during order creation. Message is suitable for display to the operator; the
// cart is left intact so the submission can be retried.
type SubmissionFailedError struct {
	StatusCode int // 0 for transport failures
	Message    string
	Err        error
}

func (e *SubmissionFailedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("order submission failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("order submission failed: %s", e.Message)
}

func (e *SubmissionFailedError) Unwrap() error {
	return e.Err
}

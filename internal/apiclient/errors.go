package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

// NetworkError wraps a transport failure or a 5xx response. Retrying is the
// caller's decision; nothing in this package retries on its own.
type NetworkError struct {
	Operation string
	Status    int
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: server returned %d", e.Operation, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a 4xx business-rule rejection. The message is the
// server's own wording and is shown verbatim; it must not be retried.
type ValidationError struct {
	Operation string
	Status    int
	Message   string
	Details   map[string]any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// PriceMismatchError is the checkout rejection raised when the server's
// independently computed total disagrees with the submitted one. Both
// figures are carried so the caller can show them side by side.
type PriceMismatchError struct {
	ExpectedTotal  decimal.Decimal
	SubmittedTotal decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: server expected %s, cart submitted %s",
		e.ExpectedTotal.StringFixed(2), e.SubmittedTotal.StringFixed(2))
}

// AuthError is a 401 from a protected endpoint. The client tears the
// session down on it, except when the failing call is itself a login or
// MFA step.
type AuthError struct {
	Operation string
	Message   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// AsPriceMismatch unwraps err into a PriceMismatchError, or nil.
func AsPriceMismatch(err error) *PriceMismatchError {
	var typed *PriceMismatchError
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsNetworkError reports whether err is a transport-level failure a caller
// may reasonably retry by hand.
func IsNetworkError(err error) bool {
	var typed *NetworkError
	return errors.As(err, &typed)
}

// errorBody is the server's error envelope. The price-mismatch figures only
// appear on checkout rejections.
type errorBody struct {
	Error          string           `json:"error"`
	Message        string           `json:"message"`
	Details        map[string]any   `json:"details"`
	ExpectedTotal  *decimal.Decimal `json:"expectedTotal"`
	SubmittedTotal *decimal.Decimal `json:"submittedTotal"`
}

// decodeError maps a non-2xx response onto the error taxonomy.
func decodeError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var body errorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Error
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Operation: operation, Message: message}

	case body.ExpectedTotal != nil && body.SubmittedTotal != nil:
		return &PriceMismatchError{
			ExpectedTotal:  *body.ExpectedTotal,
			SubmittedTotal: *body.SubmittedTotal,
		}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ValidationError{
			Operation: operation,
			Status:    resp.StatusCode,
			Message:   message,
			Details:   body.Details,
		}

	default:
		return &NetworkError{Operation: operation, Status: resp.StatusCode}
	}
}

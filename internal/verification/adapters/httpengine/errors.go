package httpengine

import (
	"errors"
	"fmt"

	"txguard/pkg/platform/sentinel"
)

// ErrorCategory is the normalized engine failure taxonomy.
type ErrorCategory string

const (
	// ErrorTimeout: the engine did not answer before the deadline
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData: the engine answered with something that is not a verdict
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorEngineOutage: the engine is unreachable, overloaded, or the
	// circuit is open
	ErrorEngineOutage ErrorCategory = "engine_outage"

	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorContractMismatch: the engine rejected the request shape, usually
	// an API version skew
	ErrorContractMismatch ErrorCategory = "contract_mismatch"

	ErrorInternal ErrorCategory = "internal"
)

// EngineError wraps engine failures with a category. This layer never
// retries; Retryable is a hint for callers.
type EngineError struct {
	Category   ErrorCategory
	Message    string
	StatusCode int
	Underlying error
	Retryable  bool
}

func (e *EngineError) Error() string {
	prefix := fmt.Sprintf("detection engine [%s]", e.Category)
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s status %d", prefix, e.StatusCode)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is maps categories onto infrastructure sentinels so transports can
// classify engine failures without importing this package.
func (e *EngineError) Is(target error) bool {
	switch target {
	case sentinel.ErrTimeout:
		return e.Category == ErrorTimeout
	case sentinel.ErrUnavailable:
		return e.Category == ErrorEngineOutage || e.Category == ErrorRateLimited
	case sentinel.ErrBadResponse:
		return e.Category == ErrorBadData || e.Category == ErrorContractMismatch ||
			(e.Category == ErrorInternal && e.StatusCode != 0)
	}
	return false
}

func newEngineError(category ErrorCategory, status int, message string, underlying error) *EngineError {
	retryable := category == ErrorTimeout ||
		category == ErrorEngineOutage ||
		category == ErrorRateLimited

	return &EngineError{
		Category:   category,
		Message:    message,
		StatusCode: status,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether err is an engine failure worth retrying.
func IsRetryable(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Retryable
	}
	return false
}

// CategoryOf extracts the category, defaulting to ErrorInternal.
func CategoryOf(err error) ErrorCategory {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return ErrorInternal
}

// countsAsFailure reports whether the category says the engine is unhealthy,
// as opposed to a bad request or response shape.
func (c ErrorCategory) countsAsFailure() bool {
	switch c {
	case ErrorTimeout, ErrorEngineOutage, ErrorRateLimited, ErrorInternal:
		return true
	default:
		return false
	}
}

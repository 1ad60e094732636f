package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across usecases and handlers.
var (
	// ErrUnauthorized is returned when no valid acting identity is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAccessDenied is returned when the acting identity's tenant does not
	// match the resource's tenant, or its role does not permit the action.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound is returned when a tenant-scoped lookup finds nothing.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyRouted is returned by the conditional promotion write when the
	// submission has already been linked to an application.
	ErrAlreadyRouted = errors.New("submission already routed to pipeline")
	// ErrIllegalTransition is returned for a status move the state machine
	// does not allow.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrEmptyResponse marks an empty classifier reply. Retryable.
	ErrEmptyResponse = errors.New("classifier returned empty response")
)

// ConfigurationError aborts the affected unit immediately: the whole run for
// missing mailbox credentials, a single job's scoring for a missing template.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// StorageError wraps a blob storage upload failure.
type StorageError struct {
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %s: %v", e.Filename, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError wraps a document extraction failure. Per-item, not fatal to a run.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidResponseError marks classifier output that parsed but does not match
// the expected scoring schema. Not retryable: a shape mismatch will not fix
// itself on a second call.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return "invalid classifier response: " + e.Reason
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsInvalidResponse reports whether err is an InvalidResponseError.
func IsInvalidResponse(err error) bool {
	var ie *InvalidResponseError
	return errors.As(err, &ie)
}

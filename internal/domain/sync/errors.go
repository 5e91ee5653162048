package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed marks a credential rejection by the upstream
	// platform. Never retried; the run aborts as failed_auth.
	ErrAuthFailed = errors.New("sync: platform rejected credentials")

	// ErrRunInFlight is returned when a run for the tenant is
	// already executing.
	ErrRunInFlight = errors.New("sync: run already in flight for tenant")

	// ErrTenantNotSyncable is returned when the tenant is inactive
	// or has no access token.
	ErrTenantNotSyncable = errors.New("sync: tenant not eligible for sync")
)

// NormalizationError marks a single record that could not be reduced
// to canonical form. The record is skipped and counted, never fatal
// to the page or run.
type NormalizationError struct {
	Kind   EntityKind
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("sync: cannot normalize %s record: %s", e.Kind, e.Reason)
}

// TransientError wraps a fetch failure worth retrying
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("sync: transient fetch failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a retryable fetch failure
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

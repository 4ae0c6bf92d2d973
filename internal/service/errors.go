package service

import (
	"errors"
	"fmt"
)

// Business failure kinds.  Handlers map these to status codes; the
// services never return raw store errors for business conditions.
var (
	// ErrUnauthorized covers every credential failure uniformly:
	// missing, malformed, unknown device, wrong secret.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers rows that are missing, soft-deleted, or
	// owned by another device.  The three cases are reported
	// identically so existence never leaks across devices.
	ErrNotFound = errors.New("not found")
	// ErrRegistrationConflict is a device-id uniqueness violation
	// that persisted after the single registration retry.
	ErrRegistrationConflict = errors.New("registration conflict")
	// ErrDefaultConflict is an attempt to unset or delete the sole
	// default portion without a replacement.
	ErrDefaultConflict = errors.New("default portion conflict")
	// ErrConflict is a duplicate-state conflict, such as a second
	// weigh-in for the same day.
	ErrConflict = errors.New("conflict")
	// ErrValidation marks structurally invalid input, detected
	// before any mutation.
	ErrValidation = errors.New("validation failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

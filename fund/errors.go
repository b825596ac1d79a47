/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Downstream packages wrap these with additional context.

ERROR CATEGORIES:
  1. Validation errors - malformed input, raised at construction
  2. Optimization errors - the LP solver could not produce an optimal plan
  3. Lookup errors - unknown bills, strategies or input formats

USAGE:
  if errors.Is(err, fund.ErrInvalidArgument) {
      // reject the request, do not retry
  }

There is no transient-failure class: every engine function is pure given
valid input, so nothing in here is retryable.
*/
package fund

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidArgument is returned for malformed input: empty ids,
	// non-positive amounts, inverted date ranges, bad counts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFrequency is returned when a recurrence frequency is
	// not one of the supported cadences.
	ErrUnsupportedFrequency = errors.New("unsupported frequency")

	// ErrInvalidInterval is returned when a contribution interval is not
	// a positive number of days.
	ErrInvalidInterval = errors.New("invalid contribution interval")

	// ErrOptimizationFailed is returned when the smoothing solver cannot
	// reach an optimal solution. Surfaced verbatim, never retried.
	ErrOptimizationFailed = errors.New("optimization failed")

	// ErrUnknownStrategy is returned when a scheduler or allocator name
	// has no registration.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrUnknownFormat is returned when no reader handles an input format.
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrDuplicateBill is returned when a bill id is registered twice.
	ErrDuplicateBill = errors.New("duplicate bill id")

	// ErrBillNotFound is returned when a referenced bill does not exist.
	ErrBillNotFound = errors.New("bill not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OptimizationError reports a non-optimal solver outcome along with the
// status the solver returned.
type OptimizationError struct {
	Status string
}

func (e *OptimizationError) Error() string {
	return fmt.Sprintf("could not find optimal solution: %s", e.Status)
}

func (e *OptimizationError) Unwrap() error {
	return ErrOptimizationFailed
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrUnsupportedFrequency) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrDuplicateBill)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBillNotFound)
}

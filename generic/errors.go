/*
errors.go - Centralized error types for the calendar engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - Malformed units or intervals coming from callers
  2. Source errors - HolidaySource or store failures
  3. Lookup errors - Referenced records that do not exist

DEGENERATE INPUT IS NOT AN ERROR:
  Reversed intervals, zero-length ranges and empty activity lists yield
  zero values. Only I/O can fail inside the engine.

USAGE:
  if errors.Is(err, generic.ErrHolidaySource) {
      // calendar could not be resolved
  }

SEE ALSO:
  - calendar.go: Wraps HolidaySource failures
  - worktime/errors.go: Role cap errors
  - vacation/errors.go: Validation reasons
*/
package generic

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHolidaySource is returned when holidays for an interval cannot be read.
	ErrHolidaySource = errors.New("holiday source failed")

	// ErrUnknownTimeUnit is returned when parsing an unsupported time unit.
	ErrUnknownTimeUnit = errors.New("unknown time unit")

	// ErrInvalidInterval is returned by callers that require End >= Start.
	ErrInvalidInterval = errors.New("invalid interval: end before start")

	// ErrUserNotFound is returned when a referenced user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectRoleNotFound is returned when a referenced project role doesn't exist.
	ErrProjectRoleNotFound = errors.New("project role not found")

	// ErrHolidayNotFound is returned when deleting an unknown holiday.
	ErrHolidayNotFound = errors.New("holiday not found")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownTimeUnit) ||
		errors.Is(err, ErrInvalidInterval)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProjectRoleNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}

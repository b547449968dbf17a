package vacation

import (
	"errors"
	"fmt"
)

// Reason is the closed set of validation failures for vacation requests.
type Reason string

const (
	ReasonInvalidDateRange             Reason = "INVALID_DATE_RANGE"
	ReasonRangeClosed                  Reason = "VACATION_RANGE_CLOSED"
	ReasonBeforeHiringDate             Reason = "VACATION_BEFORE_HIRING_DATE"
	ReasonRequestOverlaps              Reason = "VACATION_REQUEST_OVERLAPS"
	ReasonRequestEmpty                 Reason = "VACATION_REQUEST_EMPTY"
	ReasonNotFound                     Reason = "VACATION_NOT_FOUND"
	ReasonUserUnauthorized             Reason = "USER_UNAUTHORIZED"
	ReasonAlreadyAccepted              Reason = "VACATION_ALREADY_ACCEPTED"
	ReasonAlreadyAcceptedForPastPeriod Reason = "VACATION_ALREADY_ACCEPTED_FOR_PAST_PERIOD"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the parent of every ValidationError.
	ErrValidation = errors.New("vacation request rejected")

	// ErrVacationNotFound is returned when a referenced vacation doesn't exist.
	ErrVacationNotFound = errors.New("vacation not found")

	// ErrUnauthorized is returned when a vacation belongs to another user.
	ErrUnauthorized = errors.New("vacation belongs to another user")

	// ErrInvalidTransition is returned for a state change the lifecycle
	// does not allow.
	ErrInvalidTransition = errors.New("invalid vacation state transition")

	// ErrConflict is returned for overlapping or already accepted periods.
	ErrConflict = errors.New("vacation conflicts with existing state")
)

// ValidationError carries the failing Reason.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, e.Reason)
}

// Unwrap exposes the category of the reason so HTTP handlers can map it
// with errors.Is.
func (e *ValidationError) Unwrap() []error {
	switch e.Reason {
	case ReasonNotFound:
		return []error{ErrValidation, ErrVacationNotFound}
	case ReasonUserUnauthorized:
		return []error{ErrValidation, ErrUnauthorized}
	case ReasonRequestOverlaps, ReasonAlreadyAccepted, ReasonAlreadyAcceptedForPastPeriod:
		return []error{ErrValidation, ErrConflict}
	}
	return []error{ErrValidation}
}

// IsClientError returns true for failures caused by the request content.
func IsClientError(err error) bool {
	if errors.Is(err, ErrInvalidTransition) {
		return true
	}
	return errors.Is(err, ErrValidation) &&
		!errors.Is(err, ErrVacationNotFound) &&
		!errors.Is(err, ErrUnauthorized) &&
		!errors.Is(err, ErrConflict)
}

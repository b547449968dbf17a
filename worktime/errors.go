package worktime

import (
	"errors"
	"fmt"

	"github.com/warp/worktime-engine/generic"
)

var (
	// ErrRoleCapExceeded is returned when an activity would exceed the
	// yearly maximum of its project role.
	ErrRoleCapExceeded = errors.New("project role yearly maximum exceeded")
)

// RoleCapExceededError provides details about a yearly cap violation.
type RoleCapExceededError struct {
	RoleID    string
	Year      int
	Remaining generic.Minutes
	Requested generic.Minutes
}

func (e *RoleCapExceededError) Error() string {
	return fmt.Sprintf("project role %s: %d minutes requested in %d, %d remaining",
		e.RoleID, e.Requested, e.Year, e.Remaining)
}

func (e *RoleCapExceededError) Unwrap() error {
	return ErrRoleCapExceeded
}

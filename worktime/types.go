// Package worktime implements activity accounting on top of the generic
// calendar engine: per-day and per-month worked time, yearly caps per
// project role, and the annual work-time balance.
package worktime

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/generic"
)

// =============================================================================
// PROJECT ROLE
// =============================================================================

// ProjectRole is what activities are logged against. Its TimeUnit decides
// how an activity interval converts to minutes.
type ProjectRole struct {
	ID       string
	Name     string
	TimeUnit generic.TimeUnit

	// MaxAllowedPerYear caps the minutes a user may log against the role in
	// one calendar year. Zero means unlimited.
	MaxAllowedPerYear generic.Minutes
}

// IsCapped reports whether the role has a yearly maximum.
func (r ProjectRole) IsCapped() bool { return r.MaxAllowedPerYear > 0 }

// =============================================================================
// ACTIVITY
// =============================================================================

// Activity is a logged work interval. Duration is denormalized and must
// agree with Start, End and the role's time unit.
type Activity struct {
	ID          string
	UserID      string
	Role        ProjectRole
	Start       time.Time
	End         time.Time
	Duration    generic.Minutes
	Description string
}

// Range returns the wall-clock interval of the activity.
func (a Activity) Range() generic.TimeRange {
	return generic.TimeRange{Start: a.Start, End: a.End}
}

// Interval returns the input for SumActivitiesDuration.
func (a Activity) Interval() ActivityInterval {
	return ActivityInterval{Start: a.Start, End: a.End, Unit: a.Role.TimeUnit}
}

// ActivityInterval is a (start, end, unit) triple.
type ActivityInterval struct {
	Start time.Time
	End   time.Time
	Unit  generic.TimeUnit
}

// =============================================================================
// AGGREGATES
// =============================================================================

// DailyHours is one entry of the dense per-day summary.
type DailyHours struct {
	Date  time.Time
	Hours decimal.Decimal
}

// RoleDuration is the worked time of one project role.
type RoleDuration struct {
	RoleID   string
	Duration generic.Minutes
}

/*
Package generic provides the calendar and time-accounting primitives.

PURPOSE:
  This package contains domain-agnostic types and algorithms for turning
  wall-clock intervals into accounted work time. Activities, vacations and
  summaries in the domain packages are all built on the same three ideas:
  a date interval, a calendar of workable days, and a duration in minutes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Minutes: The only internal representation of a duration
  - TimeUnit: How a logged interval converts to minutes (per project role)
  - Hours: Decimal view of Minutes, rounded half-even at the boundary

DESIGN PRINCIPLES:
  1. Integer minutes internally: no rounding until the outermost value
  2. Precision: decimal.Decimal for hour figures, never float64
  3. Pure computation: nothing here performs I/O except HolidaySource

USAGE:
  d := generic.Duration(start, end, generic.TimeUnitMinutes)
  hours := d.Hours() // decimal, 2 places, half-even

SEE ALSO:
  - calendar.go: Workable days for an interval
  - duration.go: Interval to minutes conversion
  - period.go: DateInterval and year splitting
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MINUTES - Integral duration
// =============================================================================

// Minutes is a duration in whole minutes.
type Minutes int64

const (
	MinutesPerHour Minutes = 60

	// HoursPerDay is the length of a working day.
	HoursPerDay = 8

	// MinutesPerDay is the equivalence of one day for DAYS and NATURAL_DAYS
	// time units.
	MinutesPerDay = HoursPerDay * MinutesPerHour
)

// hourPrecision is the number of decimal places surfaced for hour values.
const hourPrecision = 2

var minutesPerHour = decimal.NewFromInt(int64(MinutesPerHour))

// Hours converts to hours rounded to 2 decimals, half-even.
func (m Minutes) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(minutesPerHour).RoundBank(hourPrecision)
}

// Days returns the number of whole 480-minute days.
func (m Minutes) Days() int64 { return int64(m / MinutesPerDay) }

// NonNegative clamps m to zero.
func (m Minutes) NonNegative() Minutes {
	if m < 0 {
		return 0
	}
	return m
}

// =============================================================================
// TIME UNIT - Per project role conversion policy
// =============================================================================

// TimeUnit governs how an interval converts to a stored duration.
type TimeUnit string

const (
	TimeUnitMinutes     TimeUnit = "minutes"
	TimeUnitDays        TimeUnit = "days"
	TimeUnitNaturalDays TimeUnit = "natural_days"
)

// IsDayBased reports whether the unit counts days rather than minutes.
func (u TimeUnit) IsDayBased() bool {
	return u == TimeUnitDays || u == TimeUnitNaturalDays
}

// Valid reports whether u is one of the three known units.
func (u TimeUnit) Valid() bool {
	switch u {
	case TimeUnitMinutes, TimeUnitDays, TimeUnitNaturalDays:
		return true
	}
	return false
}

// ParseTimeUnit parses the lowercase or uppercase form of a unit.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch s {
	case "minutes", "MINUTES":
		return TimeUnitMinutes, nil
	case "days", "DAYS":
		return TimeUnitDays, nil
	case "natural_days", "NATURAL_DAYS":
		return TimeUnitNaturalDays, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTimeUnit, s)
}

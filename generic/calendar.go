package generic

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// CALENDAR - All days and workable days of an interval
// =============================================================================

// Calendar is the resolved set of days for an interval. It is immutable
// once built: callers must not modify the returned slices.
type Calendar struct {
	Interval     DateInterval
	AllDays      []time.Time
	WorkableDays []time.Time
	Holidays     []Holiday
}

// NewCalendar builds a calendar from an interval and an already fetched
// holiday list. Weekends and holiday dates are not workable.
func NewCalendar(interval DateInterval, holidays []Holiday) Calendar {
	cal := Calendar{Interval: interval, Holidays: holidays}
	if interval.IsEmpty() {
		return cal
	}

	closed := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		closed[DateOf(h.Date)] = struct{}{}
	}

	cal.AllDays = interval.Days()
	cal.WorkableDays = make([]time.Time, 0, len(cal.AllDays))
	for _, d := range cal.AllDays {
		if IsWeekend(d) {
			continue
		}
		if _, ok := closed[d]; ok {
			continue
		}
		cal.WorkableDays = append(cal.WorkableDays, d)
	}
	return cal
}

// IsWorkable reports whether the date of t is a workable day of the calendar.
func (c Calendar) IsWorkable(t time.Time) bool {
	return containsDate(c.WorkableDays, DateOf(t))
}

// WorkableDaysIn returns the workable days inside interval, ascending.
func (c Calendar) WorkableDaysIn(interval DateInterval) []time.Time {
	return daysWithin(c.WorkableDays, interval)
}

// WorkableDaysInMonth counts the workable days of the given month.
func (c Calendar) WorkableDaysInMonth(year int, month time.Month) int {
	return len(c.WorkableDaysIn(MonthInterval(year, month)))
}

// =============================================================================
// CALENDAR FACTORY - Queries the HolidaySource once per build
// =============================================================================

// CalendarProvider builds calendars on demand.
type CalendarProvider interface {
	Build(ctx context.Context, interval DateInterval) (Calendar, error)
}

// CalendarFactory builds calendars from a HolidaySource.
type CalendarFactory struct {
	Holidays HolidaySource
}

func NewCalendarFactory(holidays HolidaySource) *CalendarFactory {
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &CalendarFactory{Holidays: holidays}
}

// Build resolves the calendar for interval. A reversed interval returns an
// empty calendar without touching the HolidaySource.
func (f *CalendarFactory) Build(ctx context.Context, interval DateInterval) (Calendar, error) {
	if interval.IsEmpty() {
		return Calendar{Interval: interval}, nil
	}
	holidays, err := f.Holidays.FindHolidaysBetween(ctx, DateOf(interval.Start), DateOf(interval.End))
	if err != nil {
		return Calendar{}, fmt.Errorf("%w: %s: %v", ErrHolidaySource, interval, err)
	}
	return NewCalendar(interval, holidays), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func containsDate(sorted []time.Time, d time.Time) bool {
	for _, day := range sorted {
		if day.Equal(d) {
			return true
		}
		if day.After(d) {
			return false
		}
	}
	return false
}

func daysWithin(days []time.Time, interval DateInterval) []time.Time {
	if interval.IsEmpty() {
		return nil
	}
	var out []time.Time
	for _, d := range days {
		if interval.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

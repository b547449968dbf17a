package generic

import (
	"context"
	"sort"
	"time"
)

// =============================================================================
// DATES - Calendar dates are time.Time values at 00:00 UTC
// =============================================================================

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// NewDate returns the calendar date at 00:00 UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date. The wall-clock date in t's own
// location is kept, only the representation moves to UTC.
func DateOf(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// StartOfDay returns 00:00 of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's date in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// IsMidnight reports whether t is exactly at the start of its day.
func IsMidnight(t time.Time) bool {
	return t.Equal(StartOfDay(t))
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a public holiday. It never counts as a workable day.
type Holiday struct {
	ID          string
	Description string
	Date        time.Time
	Recurring   bool // same month/day every year
}

// HolidaySource returns the public holidays overlapping [start, end].
// It is the only I/O the calendar engine performs.
type HolidaySource interface {
	FindHolidaysBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}

// HolidaysBetween resolves stored holidays into the concrete dates within
// [start, end]. A recurring holiday yields one entry per year touched;
// Feb 29 only recurs in leap years. Result is ordered by date.
func HolidaysBetween(stored []Holiday, start, end time.Time) []Holiday {
	interval := NewDateInterval(start, end)
	if interval.IsEmpty() {
		return nil
	}
	var out []Holiday
	for _, h := range stored {
		if !h.Recurring {
			if interval.Contains(h.Date) {
				h.Date = DateOf(h.Date)
				out = append(out, h)
			}
			continue
		}
		for year := interval.Start.Year(); year <= interval.End.Year(); year++ {
			d := NewDate(year, h.Date.Month(), h.Date.Day())
			if d.Month() != h.Date.Month() || !interval.Contains(d) {
				continue
			}
			occurrence := h
			occurrence.Date = d
			out = append(out, occurrence)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// NoHolidays is a HolidaySource with no holidays at all.
type NoHolidays struct{}

func (NoHolidays) FindHolidaysBetween(context.Context, time.Time, time.Time) ([]Holiday, error) {
	return nil, nil
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock is the source of "now" for date-relative rules.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Today returns the current date of the clock.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

package generic

import (
	"context"
	"time"
)

// =============================================================================
// DURATION CALCULATOR - Interval to minutes per time unit
// =============================================================================
//
// MINUTES:      whole minutes between start and end, never negative.
// DAYS:         counted workable days × 480.
// NATURAL_DAYS: counted calendar days × 480.
//
// Day counting: the dates from start.date to end.date, except that an end
// at exactly midnight does not count its own date. When the remaining range
// is a single date it counts only if the interval covers that whole day.
// So [d 00:00, d+1 00:00) is one day, [d 00:00, d 23:59] is one day and
// [d 09:00, d 17:00] or start == end is zero.

// Duration converts [start, end] for units that need no holiday lookup.
// For TimeUnitDays only weekends are excluded; use DurationCalculator or
// DurationWithWorkableDays when holidays matter.
func Duration(start, end time.Time, unit TimeUnit) Minutes {
	switch unit {
	case TimeUnitDays:
		return DurationWithWorkableDays(start, end, unit, NewCalendar(TimeRange{start, end}.Dates(), nil).WorkableDays)
	default:
		return DurationWithWorkableDays(start, end, unit, nil)
	}
}

// DurationWithWorkableDays converts [start, end] using workable days that
// were already resolved by a Calendar. workableDays is only read for
// TimeUnitDays and must cover the dates of the interval.
func DurationWithWorkableDays(start, end time.Time, unit TimeUnit, workableDays []time.Time) Minutes {
	switch unit {
	case TimeUnitDays:
		return Minutes(CountDays(start, end, workableDays)) * MinutesPerDay
	case TimeUnitNaturalDays:
		return Minutes(CountDays(start, end, TimeRange{start, end}.Dates().Days())) * MinutesPerDay
	default:
		return minutesBetween(start, end)
	}
}

// DurationByCountingDays applies the unit conversion to a day count that was
// resolved elsewhere. For TimeUnitMinutes the wall-clock minutes are used.
func DurationByCountingDays(start, end time.Time, unit TimeUnit, days int) Minutes {
	if unit.IsDayBased() {
		if days < 0 {
			return 0
		}
		return Minutes(days) * MinutesPerDay
	}
	return minutesBetween(start, end)
}

// CountDays counts the candidate days spanned by [start, end] following the
// day-counting rule above. candidates must be ascending dates.
func CountDays(start, end time.Time, candidates []time.Time) int {
	if !end.After(start) {
		return 0
	}
	dates := TimeRange{Start: start, End: end}.Dates()
	if dates.IsEmpty() {
		return 0
	}
	if dates.Start.Equal(dates.End) && !coversWholeDay(start, end) {
		return 0
	}
	return len(daysWithin(candidates, dates))
}

func coversWholeDay(start, end time.Time) bool {
	return IsMidnight(start) && end.Sub(start) >= 24*time.Hour-time.Minute
}

func minutesBetween(start, end time.Time) Minutes {
	if !end.After(start) {
		return 0
	}
	return Minutes(end.Sub(start) / time.Minute)
}

// DurationCalculator resolves holidays through a CalendarProvider.
type DurationCalculator struct {
	Calendars CalendarProvider
}

func NewDurationCalculator(calendars CalendarProvider) *DurationCalculator {
	return &DurationCalculator{Calendars: calendars}
}

// Duration converts [start, end]. Only TimeUnitDays queries holidays.
func (dc *DurationCalculator) Duration(ctx context.Context, start, end time.Time, unit TimeUnit) (Minutes, error) {
	if unit != TimeUnitDays {
		return DurationWithWorkableDays(start, end, unit, nil), nil
	}
	cal, err := dc.Calendars.Build(ctx, TimeRange{Start: start, End: end}.Dates())
	if err != nil {
		return 0, err
	}
	return DurationWithWorkableDays(start, end, unit, cal.WorkableDays), nil
}

package generic

import "time"

// =============================================================================
// DATE INTERVAL - Inclusive range of calendar dates
// =============================================================================

// DateInterval is the inclusive range [Start, End] of calendar dates.
// A reversed interval (End before Start) is allowed and is simply empty.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// NewDateInterval truncates both ends to calendar dates.
func NewDateInterval(start, end time.Time) DateInterval {
	return DateInterval{Start: DateOf(start), End: DateOf(end)}
}

// YearInterval returns [Jan 1, Dec 31] of year.
func YearInterval(year int) DateInterval {
	return DateInterval{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)}
}

// MonthInterval returns the first to last day of the month.
func MonthInterval(year int, month time.Month) DateInterval {
	start := NewDate(year, month, 1)
	return DateInterval{Start: start, End: start.AddDate(0, 1, -1)}
}

// IsEmpty reports whether the interval contains no dates.
func (i DateInterval) IsEmpty() bool {
	return DateOf(i.End).Before(DateOf(i.Start))
}

// Contains returns true if the date of t is within [Start, End].
func (i DateInterval) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(i.Start)) && !d.After(DateOf(i.End))
}

// Days returns every date from Start to End inclusive, ascending.
func (i DateInterval) Days() []time.Time {
	if i.IsEmpty() {
		return nil
	}
	var days []time.Time
	end := DateOf(i.End)
	for d := DateOf(i.Start); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Overlaps reports whether the two intervals share at least one date.
func (i DateInterval) Overlaps(o DateInterval) bool {
	if i.IsEmpty() || o.IsEmpty() {
		return false
	}
	return !DateOf(i.End).Before(DateOf(o.Start)) && !DateOf(o.End).Before(DateOf(i.Start))
}

// Intersect returns the common dates. The result may be empty.
func (i DateInterval) Intersect(o DateInterval) DateInterval {
	start, end := DateOf(i.Start), DateOf(i.End)
	if s := DateOf(o.Start); s.After(start) {
		start = s
	}
	if e := DateOf(o.End); e.Before(end) {
		end = e
	}
	return DateInterval{Start: start, End: end}
}

// SplitByYear returns one sub-interval per calendar year touched.
func (i DateInterval) SplitByYear() []DateInterval {
	if i.IsEmpty() {
		return nil
	}
	var parts []DateInterval
	start, end := DateOf(i.Start), DateOf(i.End)
	for year := start.Year(); year <= end.Year(); year++ {
		parts = append(parts, i.Intersect(YearInterval(year)))
	}
	return parts
}

func (i DateInterval) String() string {
	return "[" + FormatDate(i.Start) + ", " + FormatDate(i.End) + "]"
}

// =============================================================================
// TIME RANGE - Half-open wall-clock interval of an activity
// =============================================================================

// TimeRange is a wall-clock interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Intersect clips r to [from, to). ok is false when nothing remains.
func (r TimeRange) Intersect(from, to time.Time) (TimeRange, bool) {
	start, end := r.Start, r.End
	if from.After(start) {
		start = from
	}
	if to.Before(end) {
		end = to
	}
	if !end.After(start) {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

// SplitByYear cuts the range at every January 1st 00:00 it crosses.
// A zero-length range yields itself so callers still see its year.
func (r TimeRange) SplitByYear() []TimeRange {
	if !r.End.After(r.Start) {
		return []TimeRange{r}
	}
	loc := r.Start.Location()
	var parts []TimeRange
	for year := r.Start.Year(); year <= r.End.Year(); year++ {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)
		if part, ok := r.Intersect(from, to); ok {
			parts = append(parts, part)
		}
	}
	return parts
}

// Dates returns the calendar-date interval touched by the range. An end at
// exactly midnight does not touch its own date.
func (r TimeRange) Dates() DateInterval {
	last := DateOf(r.End)
	if r.End.After(r.Start) && IsMidnight(r.End) {
		last = last.AddDate(0, 0, -1)
	}
	return DateInterval{Start: DateOf(r.Start), End: last}
}

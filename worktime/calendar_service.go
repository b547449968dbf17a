/*
calendar_service.go - Aggregation of activities over calendars

PURPOSE:
  Turns a set of logged activities into worked-time figures:
  - dense per-day hours for charts and reports
  - sparse per-month totals, overall and per project role
  - remaining yearly allowance of a capped project role

RESULT SHAPES:
  DurationSummaryInHours  dense:  one entry per calendar day, zero-filled
  DurationByMonth         sparse: months without activity are absent
  DurationByMonthlyRoles  sparse: months without activity are absent

CROSS-YEAR ACTIVITIES:
  Yearly caps are per calendar year. An activity straddling Dec 31 is split
  with TimeRange.SplitByYear before its minutes are charged, and only the
  portion inside a year counts against that year's cap.

SEE ALSO:
  - generic/calendar.go: Workable days
  - generic/duration.go: Per-unit conversion
  - recorder.go: Uses CheckRoleCap before persisting
*/
package worktime

import (
	"context"
	"sort"
	"time"

	"github.com/warp/worktime-engine/generic"
)

// ActivityCalendarService aggregates activities. It holds no state besides
// the calendar provider and is safe for concurrent use.
type ActivityCalendarService struct {
	Calendars generic.CalendarProvider
}

func NewActivityCalendarService(calendars generic.CalendarProvider) *ActivityCalendarService {
	return &ActivityCalendarService{Calendars: calendars}
}

// =============================================================================
// PER-DAY SUMMARY (dense)
// =============================================================================

// DurationSummaryInHours returns one entry per day of interval with the
// hours worked that day. A reversed interval yields an empty slice.
func (s *ActivityCalendarService) DurationSummaryInHours(ctx context.Context, activities []Activity, interval generic.DateInterval) ([]DailyHours, error) {
	cal, err := s.Calendars.Build(ctx, interval)
	if err != nil {
		return nil, err
	}
	return DailySummary(cal, activities), nil
}

// DailySummary is DurationSummaryInHours over an already built calendar.
func DailySummary(cal generic.Calendar, activities []Activity) []DailyHours {
	out := make([]DailyHours, 0, len(cal.AllDays))
	for _, minutes := range dailyMinutes(cal, activities) {
		out = append(out, DailyHours{Date: minutes.date, Hours: minutes.total.Hours()})
	}
	return out
}

type dayTotal struct {
	date  time.Time
	total generic.Minutes
}

// dailyMinutes keeps the per-day totals in minutes, in calendar order.
func dailyMinutes(cal generic.Calendar, activities []Activity) []dayTotal {
	counted := make([]bool, len(activities))
	for i, a := range activities {
		counted[i] = countsDays(cal, a)
	}

	out := make([]dayTotal, 0, len(cal.AllDays))
	for _, day := range cal.AllDays {
		var total generic.Minutes
		for i, a := range activities {
			total += durationOnDay(cal, a, counted[i], day)
		}
		out = append(out, dayTotal{date: day, total: total})
	}
	return out
}

// countsDays reports whether a day-based activity uses any day at all under
// the day-counting rule. A partial single day counts none.
func countsDays(cal generic.Calendar, a Activity) bool {
	switch a.Role.TimeUnit {
	case generic.TimeUnitDays:
		return generic.CountDays(a.Start, a.End, cal.WorkableDays) > 0
	case generic.TimeUnitNaturalDays:
		return generic.CountDays(a.Start, a.End, a.Range().Dates().Days()) > 0
	default:
		return false
	}
}

// durationOnDay is the portion of a that falls on day. Day-based activities
// give a full day to every counted date they touch; minutes are clipped to
// the day.
func durationOnDay(cal generic.Calendar, a Activity, counted bool, day time.Time) generic.Minutes {
	if a.Role.TimeUnit.IsDayBased() {
		if !counted || !a.Range().Dates().Contains(day) {
			return 0
		}
		if a.Role.TimeUnit == generic.TimeUnitDays && !cal.IsWorkable(day) {
			return 0
		}
		return generic.MinutesPerDay
	}

	loc := a.Start.Location()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	part, ok := a.Range().Intersect(from, from.AddDate(0, 0, 1))
	if !ok {
		return 0
	}
	return generic.DurationWithWorkableDays(part.Start, part.End, a.Role.TimeUnit, nil)
}

// =============================================================================
// PER-MONTH SUMMARIES (sparse)
// =============================================================================

// DurationByMonth sums activity durations by the month of their start date.
// Activities starting outside interval are ignored. An activity crossing a
// month boundary is attributed entirely to its start month.
func DurationByMonth(activities []Activity, interval generic.DateInterval) map[time.Month]generic.Minutes {
	out := make(map[time.Month]generic.Minutes)
	for _, a := range activities {
		if !interval.Contains(a.Start) {
			continue
		}
		out[a.Start.Month()] += a.Duration
	}
	return out
}

// DurationByMonthlyRoles is DurationByMonth grouped by project role within
// each month. Roles are ordered by id.
func DurationByMonthlyRoles(activities []Activity, interval generic.DateInterval) map[time.Month][]RoleDuration {
	byMonth := make(map[time.Month]map[string]generic.Minutes)
	for _, a := range activities {
		if !interval.Contains(a.Start) {
			continue
		}
		m := a.Start.Month()
		if byMonth[m] == nil {
			byMonth[m] = make(map[string]generic.Minutes)
		}
		byMonth[m][a.Role.ID] += a.Duration
	}

	out := make(map[time.Month][]RoleDuration, len(byMonth))
	for m, roles := range byMonth {
		list := make([]RoleDuration, 0, len(roles))
		for id, d := range roles {
			list = append(list, RoleDuration{RoleID: id, Duration: d})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].RoleID < list[j].RoleID })
		out[m] = list
	}
	return out
}

// SumActivitiesDuration sums the intervals using the calendar's workable
// days, so no holiday lookup happens per activity.
func SumActivitiesDuration(cal generic.Calendar, intervals []ActivityInterval) generic.Minutes {
	var total generic.Minutes
	for _, i := range intervals {
		total += generic.DurationWithWorkableDays(i.Start, i.End, i.Unit, cal.WorkableDays)
	}
	return total
}

// =============================================================================
// YEARLY ROLE CAPS
// =============================================================================

// RemainingForRole returns how many minutes userID may still log against
// role in the calendar year of interval.Start. Uncapped roles return 0.
func (s *ActivityCalendarService) RemainingForRole(ctx context.Context, role ProjectRole, activities []Activity, interval generic.DateInterval, userID string) (generic.Minutes, error) {
	if !role.IsCapped() {
		return 0, nil
	}
	consumed, err := s.ConsumedInYear(ctx, role, activities, userID, generic.DateOf(interval.Start).Year())
	if err != nil {
		return 0, err
	}
	return (role.MaxAllowedPerYear - consumed).NonNegative(), nil
}

// ConsumedInYear sums the minutes userID logged against role inside year.
func (s *ActivityCalendarService) ConsumedInYear(ctx context.Context, role ProjectRole, activities []Activity, userID string, year int) (generic.Minutes, error) {
	years := newYearCalendars(s.Calendars)
	var consumed generic.Minutes
	for _, a := range activities {
		if a.UserID != userID || a.Role.ID != role.ID {
			continue
		}
		d, err := years.portion(ctx, a.Range(), a.Duration, role.TimeUnit, year)
		if err != nil {
			return 0, err
		}
		consumed += d
	}
	return consumed, nil
}

// CheckRoleCap verifies that candidate fits in the remaining allowance of
// every calendar year it touches. existing may contain candidate itself
// (on update); it is skipped by id.
func (s *ActivityCalendarService) CheckRoleCap(ctx context.Context, role ProjectRole, existing []Activity, candidate Activity) error {
	if !role.IsCapped() {
		return nil
	}
	others := make([]Activity, 0, len(existing))
	for _, a := range existing {
		if candidate.ID != "" && a.ID == candidate.ID {
			continue
		}
		others = append(others, a)
	}

	years := newYearCalendars(s.Calendars)
	for _, part := range candidate.Range().SplitByYear() {
		year := part.Start.Year()
		requested, err := years.portion(ctx, candidate.Range(), candidate.Duration, role.TimeUnit, year)
		if err != nil {
			return err
		}
		remaining, err := s.RemainingForRole(ctx, role, others, generic.YearInterval(year), candidate.UserID)
		if err != nil {
			return err
		}
		if requested > remaining {
			return &RoleCapExceededError{
				RoleID:    role.ID,
				Year:      year,
				Remaining: remaining,
				Requested: requested,
			}
		}
	}
	return nil
}

// yearCalendars memoizes one calendar per year for a single call.
type yearCalendars struct {
	provider generic.CalendarProvider
	byYear   map[int]generic.Calendar
}

func newYearCalendars(p generic.CalendarProvider) *yearCalendars {
	return &yearCalendars{provider: p, byYear: make(map[int]generic.Calendar)}
}

func (y *yearCalendars) get(ctx context.Context, year int) (generic.Calendar, error) {
	if cal, ok := y.byYear[year]; ok {
		return cal, nil
	}
	cal, err := y.provider.Build(ctx, generic.YearInterval(year))
	if err != nil {
		return generic.Calendar{}, err
	}
	y.byYear[year] = cal
	return cal, nil
}

// portion returns the minutes of r that fall inside year. When r lies
// entirely inside year the stored duration is trusted as is.
func (y *yearCalendars) portion(ctx context.Context, r generic.TimeRange, stored generic.Minutes, unit generic.TimeUnit, year int) (generic.Minutes, error) {
	parts := r.SplitByYear()
	if len(parts) == 1 {
		if parts[0].Start.Year() == year {
			return stored, nil
		}
		return 0, nil
	}
	for _, part := range parts {
		if part.Start.Year() != year {
			continue
		}
		if unit != generic.TimeUnitDays {
			return generic.DurationWithWorkableDays(part.Start, part.End, unit, nil), nil
		}
		cal, err := y.get(ctx, year)
		if err != nil {
			return 0, err
		}
		return generic.DurationWithWorkableDays(part.Start, part.End, unit, cal.WorkableDays), nil
	}
	return 0, nil
}

package worktime

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/vacation"
)

// SummaryService fetches what BuildTimeSummary needs for one user and year.
type SummaryService struct {
	Users      generic.UserStore
	Activities ActivityStore
	Vacations  vacation.Store
	Calendars  generic.CalendarProvider
	Accounting *vacation.Accounting
	Clock      generic.Clock
}

func NewSummaryService(users generic.UserStore, activities ActivityStore, vacations vacation.Store, calendars generic.CalendarProvider, accounting *vacation.Accounting, clock generic.Clock) *SummaryService {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &SummaryService{
		Users:      users,
		Activities: activities,
		Vacations:  vacations,
		Calendars:  calendars,
		Accounting: accounting,
		Clock:      clock,
	}
}

// UserTimeSummary computes the balance of userID for year.
//
// Targets cover the workable days from the hiring date on. The yearly target
// is those days minus the earned vacation; the monthly recommendation counts
// the workable days up to today that were not enjoyed as vacation.
func (s *SummaryService) UserTimeSummary(ctx context.Context, userID string, year int) (TimeSummary, error) {
	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return TimeSummary{}, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return TimeSummary{}, fmt.Errorf("%w: %s", generic.ErrUserNotFound, userID)
	}

	current, previous := generic.YearInterval(year), generic.YearInterval(year-1)
	cal, err := s.Calendars.Build(ctx, generic.DateInterval{Start: previous.Start, End: current.End})
	if err != nil {
		return TimeSummary{}, err
	}

	activities, err := s.Activities.FindActivities(ctx, userID, previous.Start, current.End.AddDate(0, 0, 1))
	if err != nil {
		return TimeSummary{}, fmt.Errorf("load activities: %w", err)
	}

	charged, err := s.Vacations.FindVacationsByChargeYear(ctx, userID, year)
	if err != nil {
		return TimeSummary{}, fmt.Errorf("load vacations: %w", err)
	}
	dated, err := s.Vacations.FindVacations(ctx, userID, current.Start, current.End)
	if err != nil {
		return TimeSummary{}, fmt.Errorf("load vacations: %w", err)
	}
	if charged, err = s.Accounting.WithDays(ctx, charged); err != nil {
		return TimeSummary{}, err
	}
	if dated, err = s.Accounting.WithDays(ctx, dated); err != nil {
		return TimeSummary{}, err
	}

	earned, err := s.Accounting.EarnedVacationDays(ctx, *user, year)
	if err != nil {
		return TimeSummary{}, err
	}
	previousEarned, err := s.Accounting.EarnedVacationDays(ctx, *user, year-1)
	if err != nil {
		return TimeSummary{}, err
	}

	today := generic.Today(s.Clock)
	requested := vacation.RequestedDays(charged, userID, year)
	var consumed []time.Time
	for _, d := range vacation.EnjoyedDays(dated, userID, current) {
		if !d.After(today) {
			consumed = append(consumed, d)
		}
	}
	enjoyed := make(map[time.Time]struct{}, len(consumed))
	for _, d := range consumed {
		enjoyed[d] = struct{}{}
	}

	var workable [12]generic.Minutes
	var yearWorkable generic.Minutes
	suggested := make(map[time.Month]generic.Minutes)
	for _, d := range cal.WorkableDaysIn(employedIn(*user, current)) {
		workable[d.Month()-1] += generic.MinutesPerDay
		yearWorkable += generic.MinutesPerDay
		if _, ok := enjoyed[d]; ok || d.After(today) {
			continue
		}
		suggested[d.Month()] += generic.MinutesPerDay
	}
	previousWorkable := generic.Minutes(len(cal.WorkableDaysIn(employedIn(*user, previous)))) * generic.MinutesPerDay

	return BuildTimeSummary(TimeSummaryInput{
		Year:                  year,
		WorkedByMonth:         DurationByMonth(activities, current),
		AnnualTarget:          (yearWorkable - generic.Minutes(earned)*generic.MinutesPerDay).NonNegative(),
		SuggestedByMonth:      suggested,
		NotRequestedVacation:  (generic.Minutes(earned-len(requested)) * generic.MinutesPerDay).NonNegative(),
		WorkableMonthly:       workable,
		RolesByMonth:          DurationByMonthlyRoles(activities, current),
		PreviousAnnualTarget:  (previousWorkable - generic.Minutes(previousEarned)*generic.MinutesPerDay).NonNegative(),
		PreviousWorkedByMonth: DurationByMonth(activities, previous),
		RequestedVacations:    requested,
		ConsumedVacationDates: consumed,
	}), nil
}

// employedIn returns the part of interval from the hiring date on. It is
// empty when the user was hired after interval.
func employedIn(user generic.User, interval generic.DateInterval) generic.DateInterval {
	hired := generic.DateOf(user.HiringDate)
	if hired.After(interval.Start) {
		return generic.DateInterval{Start: hired, End: interval.End}
	}
	return interval
}

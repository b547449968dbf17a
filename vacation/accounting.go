/*
accounting.go - Earned, requested and remaining vacation days

PURPOSE:
  Debits vacations against the entitlement of their charge year. A vacation
  consumes its workable days only, so a five day request spanning a
  holiday costs four days.

KEY CONCEPTS:
  Earned:    Days granted for a year by the user's EntitlementStrategy
  Requested: Union of the workable days of PENDING and ACCEPT vacations
             charged to the year (a date is never debited twice)
  Remaining: Earned - Requested, may go negative when over-requested

CROSS-YEAR:
  The charge year decides the bucket, not the dates. A vacation from
  Dec 27 to Jan 3 charged to 2023 debits all its days from 2023.

SEE ALSO:
  - entitlement.go: Strategies
  - validator.go:   Request validation
*/
package vacation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/warp/worktime-engine/generic"
)

// Accounting computes entitlement positions. It performs no storage access
// besides the CalendarProvider.
type Accounting struct {
	Calendars  generic.CalendarProvider
	Agreements AgreementResolver
}

func NewAccounting(calendars generic.CalendarProvider, agreements AgreementResolver) *Accounting {
	return &Accounting{Calendars: calendars, Agreements: agreements}
}

// Days returns the workable dates of [start, end] (dates, inclusive).
// A reversed interval yields no days.
func (a *Accounting) Days(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	cal, err := a.Calendars.Build(ctx, generic.NewDateInterval(start, end))
	if err != nil {
		return nil, err
	}
	return cal.WorkableDays, nil
}

// WithDays resolves Days for every vacation that doesn't have them yet. A
// single calendar spanning all vacations is built.
func (a *Accounting) WithDays(ctx context.Context, vacations []Vacation) ([]Vacation, error) {
	var span generic.DateInterval
	missing := false
	for _, v := range vacations {
		if v.Days != nil {
			continue
		}
		iv := v.Interval()
		if iv.IsEmpty() {
			continue
		}
		if !missing {
			span, missing = iv, true
			continue
		}
		if iv.Start.Before(span.Start) {
			span.Start = iv.Start
		}
		if iv.End.After(span.End) {
			span.End = iv.End
		}
	}
	if !missing {
		return vacations, nil
	}

	cal, err := a.Calendars.Build(ctx, span)
	if err != nil {
		return nil, err
	}
	out := make([]Vacation, len(vacations))
	for i, v := range vacations {
		if v.Days == nil {
			v.Days = cal.WorkableDaysIn(v.Interval())
			if v.Days == nil {
				v.Days = []time.Time{}
			}
		}
		out[i] = v
	}
	return out, nil
}

// EarnedVacationDays returns the entitlement of user for year.
func (a *Accounting) EarnedVacationDays(ctx context.Context, user generic.User, year int) (int, error) {
	strategy, err := a.Agreements.Resolve(user)
	if err != nil {
		return 0, fmt.Errorf("resolve agreement for user %s: %w", user.ID, err)
	}
	return strategy.Earned(ctx, a.Calendars, user, year)
}

// RequestedDays is the sorted union of the days of the active vacations of
// userID charged to year. Days must already be resolved.
func RequestedDays(vacations []Vacation, userID string, year int) []time.Time {
	return unionDays(vacations, func(v Vacation) bool {
		return v.UserID == userID && v.ChargeYear == year && v.State.IsActive()
	})
}

// RemainingVacationDays returns earned(year) minus the requested days.
func (a *Accounting) RemainingVacationDays(ctx context.Context, year int, user generic.User, vacations []Vacation) (int, error) {
	summary, err := a.Summary(ctx, user, year, vacations)
	if err != nil {
		return 0, err
	}
	return summary.Remaining, nil
}

// Summary returns the full entitlement position of user for year.
func (a *Accounting) Summary(ctx context.Context, user generic.User, year int, vacations []Vacation) (Summary, error) {
	earned, err := a.EarnedVacationDays(ctx, user, year)
	if err != nil {
		return Summary{}, err
	}
	resolved, err := a.WithDays(ctx, vacations)
	if err != nil {
		return Summary{}, err
	}

	charged := func(state State) func(Vacation) bool {
		return func(v Vacation) bool {
			return v.UserID == user.ID && v.ChargeYear == year && v.State == state
		}
	}
	requested := RequestedDays(resolved, user.ID, year)
	return Summary{
		Year:      year,
		Earned:    earned,
		Accepted:  len(unionDays(resolved, charged(StateAccept))),
		Pending:   len(unionDays(resolved, charged(StatePending))),
		Requested: len(requested),
		Remaining: earned - len(requested),
	}, nil
}

// EnjoyedDays returns the days of the ACCEPT vacations of userID that fall
// inside interval, whatever their charge year.
func EnjoyedDays(vacations []Vacation, userID string, interval generic.DateInterval) []time.Time {
	all := unionDays(vacations, func(v Vacation) bool {
		return v.UserID == userID && v.State == StateAccept
	})
	var out []time.Time
	for _, d := range all {
		if interval.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

func unionDays(vacations []Vacation, keep func(Vacation) bool) []time.Time {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, v := range vacations {
		if !keep(v) {
			continue
		}
		for _, d := range v.Days {
			d = generic.DateOf(d)
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

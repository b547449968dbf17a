/*
entitlement.go - Vacation days earned per year

PURPOSE:
  Implements the pro-ration of the yearly vacation entitlement for users
  hired during the year. The exact formula is a policy decision of the
  labour agreement, so it is an injectable strategy.

STRATEGIES:
  FixedEntitlement:
    - AnnualDays every year the user is employed, no pro-ration
  WorkableDayProration (default):
    - AnnualDays × workable days from hiring date to Dec 31
                 ÷ workable days of the whole year
  NaturalDayProration:
    - Same proportion over calendar days
  TenureEntitlement:
    - Picks AnnualDays from seniority tiers, then delegates to one of the
      strategies above

ROUNDING:
  The prorated value is rounded to whole days, half away from zero.

EXAMPLE:
  // Hired 2023-07-03, 22 days per year, 130 of 250 workable days left
  s := WorkableDayProration{AnnualDays: 22}
  days, _ := s.Earned(ctx, calendars, user, 2023) // 11 (11.44 rounded)

SEE ALSO:
  - factory/agreement.go: JSON agreement to strategy
  - accounting.go: Uses the strategy for remaining days
*/
package vacation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/generic"
)

// EntitlementStrategy returns the vacation days a user earns for a year.
type EntitlementStrategy interface {
	Earned(ctx context.Context, calendars generic.CalendarProvider, user generic.User, year int) (int, error)
}

// AgreementResolver picks the strategy that applies to a user.
type AgreementResolver interface {
	Resolve(user generic.User) (EntitlementStrategy, error)
}

// StaticAgreement applies the same strategy to every user.
type StaticAgreement struct {
	Strategy EntitlementStrategy
}

func (s StaticAgreement) Resolve(generic.User) (EntitlementStrategy, error) {
	return s.Strategy, nil
}

// =============================================================================
// STRATEGIES
// =============================================================================

// FixedEntitlement grants AnnualDays in every year the user is employed.
type FixedEntitlement struct {
	AnnualDays int
}

func (f FixedEntitlement) Earned(_ context.Context, _ generic.CalendarProvider, user generic.User, year int) (int, error) {
	if !user.HiredBy(generic.NewDate(year, time.December, 31)) {
		return 0, nil
	}
	return f.AnnualDays, nil
}

// WorkableDayProration prorates by workable days.
type WorkableDayProration struct {
	AnnualDays int
}

func (w WorkableDayProration) Earned(ctx context.Context, calendars generic.CalendarProvider, user generic.User, year int) (int, error) {
	employed, full, ok := employedPart(user, year)
	if !ok {
		return 0, nil
	}
	if full {
		return w.AnnualDays, nil
	}
	cal, err := calendars.Build(ctx, generic.YearInterval(year))
	if err != nil {
		return 0, err
	}
	return prorate(w.AnnualDays, len(cal.WorkableDaysIn(employed)), len(cal.WorkableDays)), nil
}

// NaturalDayProration prorates by calendar days.
type NaturalDayProration struct {
	AnnualDays int
}

func (n NaturalDayProration) Earned(_ context.Context, _ generic.CalendarProvider, user generic.User, year int) (int, error) {
	employed, full, ok := employedPart(user, year)
	if !ok {
		return 0, nil
	}
	if full {
		return n.AnnualDays, nil
	}
	return prorate(n.AnnualDays, len(employed.Days()), len(generic.YearInterval(year).Days())), nil
}

// TenureTier grants AnnualDays once the user has AfterYears of service.
type TenureTier struct {
	AfterYears int
	AnnualDays int
}

// TenureEntitlement raises the yearly entitlement with seniority. Service
// years are counted at January 1st of the year. Tiers must be sorted by
// AfterYears ascending; Build turns the chosen days into a strategy.
type TenureEntitlement struct {
	BaseDays int
	Tiers    []TenureTier
	Build    func(annualDays int) EntitlementStrategy
}

func (t TenureEntitlement) Earned(ctx context.Context, calendars generic.CalendarProvider, user generic.User, year int) (int, error) {
	days := t.BaseDays
	service := serviceYears(user.HiringDate, generic.NewDate(year, time.January, 1))
	for _, tier := range t.Tiers {
		if service >= tier.AfterYears {
			days = tier.AnnualDays
		}
	}
	return t.Build(days).Earned(ctx, calendars, user, year)
}

func serviceYears(hired, at time.Time) int {
	hired, at = generic.DateOf(hired), generic.DateOf(at)
	if at.Before(hired) {
		return 0
	}
	years := at.Year() - hired.Year()
	if at.Month() < hired.Month() || (at.Month() == hired.Month() && at.Day() < hired.Day()) {
		years--
	}
	return years
}

// employedPart returns the part of year after the hiring date. ok is false
// when the user was not employed in year; full is true for a whole year.
func employedPart(user generic.User, year int) (generic.DateInterval, bool, bool) {
	yearInterval := generic.YearInterval(year)
	hired := generic.DateOf(user.HiringDate)
	if hired.After(yearInterval.End) {
		return generic.DateInterval{}, false, false
	}
	if !hired.After(yearInterval.Start) {
		return yearInterval, true, true
	}
	return generic.DateInterval{Start: hired, End: yearInterval.End}, false, true
}

func prorate(annual, part, whole int) int {
	if whole == 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(annual)).
		Mul(decimal.NewFromInt(int64(part))).
		Div(decimal.NewFromInt(int64(whole))).
		Round(0)
	return int(v.IntPart())
}

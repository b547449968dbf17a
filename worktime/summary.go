/*
summary.go - Annual and monthly work-time balance

PURPOSE:
  Converts pre-fetched figures (worked minutes by month, targets, vacation
  dates) into the TimeSummary returned to users. No I/O happens here.

BALANCES:
  Monthly:  worked - recommended
  Annual:   worked - (target + not requested vacation)
  Previous: worked - target

ROUNDING:
  Everything is accumulated in integer minutes. Hours are produced at the
  end with two decimals, half-even.

SEE ALSO:
  - summary_service.go: Fetches the inputs
  - calendar_service.go: DurationByMonth, DurationByMonthlyRoles
*/
package worktime

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/generic"
)

// TimeSummaryInput holds everything BuildTimeSummary needs. Month maps are
// sparse: a missing month counts as zero.
type TimeSummaryInput struct {
	Year int

	WorkedByMonth        map[time.Month]generic.Minutes
	AnnualTarget         generic.Minutes
	SuggestedByMonth     map[time.Month]generic.Minutes
	NotRequestedVacation generic.Minutes
	WorkableMonthly      [12]generic.Minutes // index 0 is January
	RolesByMonth         map[time.Month][]RoleDuration

	PreviousAnnualTarget  generic.Minutes
	PreviousWorkedByMonth map[time.Month]generic.Minutes

	// RequestedVacations are the workable days of the active vacations
	// charged to Year. ConsumedVacationDates are the accepted vacation days
	// enjoyed in Year.
	RequestedVacations    []time.Time
	ConsumedVacationDates []time.Time
}

type TimeSummary struct {
	Year     int
	Months   []MonthlyBalance
	Annual   AnnualBalance
	Previous PreviousAnnualBalance
}

type MonthlyBalance struct {
	Month           time.Month
	Workable        decimal.Decimal
	Worked          decimal.Decimal
	Recommended     decimal.Decimal
	Balance         decimal.Decimal
	Roles           []RoleHours
	VacationCharged decimal.Decimal
	VacationEnjoyed decimal.Decimal
}

type RoleHours struct {
	RoleID string
	Hours  decimal.Decimal
}

type AnnualBalance struct {
	Worked               decimal.Decimal
	Target               decimal.Decimal
	NotRequestedVacation decimal.Decimal
	Balance              decimal.Decimal
}

type PreviousAnnualBalance struct {
	Worked  decimal.Decimal
	Target  decimal.Decimal
	Balance decimal.Decimal
}

// BuildTimeSummary produces twelve monthly balances plus the current and
// previous annual balances.
func BuildTimeSummary(in TimeSummaryInput) TimeSummary {
	charged := daysByMonth(in.RequestedVacations, in.Year)
	enjoyed := daysByMonth(in.ConsumedVacationDates, in.Year)

	out := TimeSummary{Year: in.Year, Months: make([]MonthlyBalance, 0, 12)}
	var worked generic.Minutes
	for m := time.January; m <= time.December; m++ {
		w := in.WorkedByMonth[m]
		rec := in.SuggestedByMonth[m]
		worked += w

		roles := make([]RoleHours, 0, len(in.RolesByMonth[m]))
		for _, r := range in.RolesByMonth[m] {
			roles = append(roles, RoleHours{RoleID: r.RoleID, Hours: r.Duration.Hours()})
		}

		out.Months = append(out.Months, MonthlyBalance{
			Month:           m,
			Workable:        in.WorkableMonthly[m-1].Hours(),
			Worked:          w.Hours(),
			Recommended:     rec.Hours(),
			Balance:         (w - rec).Hours(),
			Roles:           roles,
			VacationCharged: (generic.Minutes(charged[m]) * generic.MinutesPerDay).Hours(),
			VacationEnjoyed: (generic.Minutes(enjoyed[m]) * generic.MinutesPerDay).Hours(),
		})
	}

	out.Annual = AnnualBalance{
		Worked:               worked.Hours(),
		Target:               in.AnnualTarget.Hours(),
		NotRequestedVacation: in.NotRequestedVacation.Hours(),
		Balance:              (worked - (in.AnnualTarget + in.NotRequestedVacation)).Hours(),
	}

	var previous generic.Minutes
	for _, w := range in.PreviousWorkedByMonth {
		previous += w
	}
	out.Previous = PreviousAnnualBalance{
		Worked:  previous.Hours(),
		Target:  in.PreviousAnnualTarget.Hours(),
		Balance: (previous - in.PreviousAnnualTarget).Hours(),
	}
	return out
}

// daysByMonth counts the dates of year per month. Dates of other years are
// ignored.
func daysByMonth(dates []time.Time, year int) map[time.Month]int {
	out := make(map[time.Month]int)
	for _, d := range dates {
		if d.Year() != year {
			continue
		}
		out[d.Month()]++
	}
	return out
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's value objects (minutes, time.Time dates) from the external
  contract (YYYY-MM-DD strings, decimal hours).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES AND HOURS:
  Dates are YYYY-MM-DD, instants are RFC3339. Hours are decimals with two
  places (half-even) and serialize as JSON strings, e.g. "7.50".

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/vacation"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalendarDTO lists the days of an interval.
type CalendarDTO struct {
	Start        string       `json:"start"`
	End          string       `json:"end"`
	AllDays      []string     `json:"all_days"`
	WorkableDays []string     `json:"workable_days"`
	Holidays     []HolidayDTO `json:"holidays"`
}

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Recurring   bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to create a holiday.
type CreateHolidayRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Recurring   bool   `json:"recurring"`
}

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	HiringDate string          `json:"hiring_date"`
	Agreement  json.RawMessage `json:"agreement,omitempty"`
}

// CreateUserRequest is the request to create a user. Agreement is optional
// and follows the factory agreement schema.
type CreateUserRequest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	HiringDate string          `json:"hiring_date"`
	Agreement  json.RawMessage `json:"agreement,omitempty"`
}

// ProjectRoleDTO is used both ways.
type ProjectRoleDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TimeUnit          string `json:"time_unit"`
	MaxAllowedMinutes int64  `json:"max_allowed_minutes"`
}

// ActivityDTO represents an activity in API responses.
type ActivityDTO struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	RoleID          string          `json:"role_id"`
	TimeUnit        string          `json:"time_unit"`
	Start           string          `json:"start"`
	End             string          `json:"end"`
	DurationMinutes int64           `json:"duration_minutes"`
	Hours           decimal.Decimal `json:"hours"`
	Description     string          `json:"description,omitempty"`
}

// RecordActivityRequest logs a new activity. Start and End are RFC3339.
type RecordActivityRequest struct {
	RoleID      string `json:"role_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

// DailyHoursDTO is one entry of the dense per-day series.
type DailyHoursDTO struct {
	Date  string          `json:"date"`
	Hours decimal.Decimal `json:"hours"`
}

// RemainingDTO is the unused yearly allowance of a capped role.
type RemainingDTO struct {
	RoleID           string          `json:"role_id"`
	Year             int             `json:"year"`
	Capped           bool            `json:"capped"`
	RemainingMinutes int64           `json:"remaining_minutes"`
	RemainingHours   decimal.Decimal `json:"remaining_hours"`
}

// TimeSummaryDTO is the annual work-time balance.
type TimeSummaryDTO struct {
	Year     int                 `json:"year"`
	Months   []MonthlyBalanceDTO `json:"months"`
	Annual   AnnualBalanceDTO    `json:"annual"`
	Previous PreviousBalanceDTO  `json:"previous_year"`
}

type MonthlyBalanceDTO struct {
	Month           int             `json:"month"`
	Workable        decimal.Decimal `json:"workable"`
	Worked          decimal.Decimal `json:"worked"`
	Recommended     decimal.Decimal `json:"recommended"`
	Balance         decimal.Decimal `json:"balance"`
	Roles           []RoleHoursDTO  `json:"roles"`
	VacationCharged decimal.Decimal `json:"vacation_charged"`
	VacationEnjoyed decimal.Decimal `json:"vacation_enjoyed"`
}

type RoleHoursDTO struct {
	RoleID string          `json:"role_id"`
	Hours  decimal.Decimal `json:"hours"`
}

type AnnualBalanceDTO struct {
	Worked               decimal.Decimal `json:"worked"`
	Target               decimal.Decimal `json:"target"`
	NotRequestedVacation decimal.Decimal `json:"not_requested_vacation"`
	Balance              decimal.Decimal `json:"balance"`
}

type PreviousBalanceDTO struct {
	Worked  decimal.Decimal `json:"worked"`
	Target  decimal.Decimal `json:"target"`
	Balance decimal.Decimal `json:"balance"`
}

// VacationDTO represents a vacation in API responses.
type VacationDTO struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	State       string   `json:"state"`
	ChargeYear  int      `json:"charge_year"`
	Description string   `json:"description,omitempty"`
	Days        []string `json:"days"`
}

// VacationRequest creates or updates a vacation. A zero ChargeYear charges
// the year of Start.
type VacationRequest struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	ChargeYear  int    `json:"charge_year,omitempty"`
	Description string `json:"description,omitempty"`
}

// VacationResultDTO is returned by create and update.
type VacationResultDTO struct {
	Vacation VacationDTO `json:"vacation"`
	Action   string      `json:"action"`
}

// ReviewVacationRequest changes the state of a vacation.
type ReviewVacationRequest struct {
	State string `json:"state"`
}

// VacationSummaryDTO is the entitlement position for a charge year.
type VacationSummaryDTO struct {
	Year      int `json:"year"`
	Earned    int `json:"earned"`
	Accepted  int `json:"accepted"`
	Pending   int `json:"pending"`
	Requested int `json:"requested"`
	Remaining int `json:"remaining"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func formatDates(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = generic.FormatDate(d)
	}
	return out
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:          h.ID,
		Date:        generic.FormatDate(h.Date),
		Description: h.Description,
		Recurring:   h.Recurring,
	}
}

func toHolidayDTOs(list []generic.Holiday) []HolidayDTO {
	out := make([]HolidayDTO, len(list))
	for i, h := range list {
		out[i] = toHolidayDTO(h)
	}
	return out
}

func toCalendarDTO(cal generic.Calendar) CalendarDTO {
	return CalendarDTO{
		Start:        generic.FormatDate(cal.Interval.Start),
		End:          generic.FormatDate(cal.Interval.End),
		AllDays:      formatDates(cal.AllDays),
		WorkableDays: formatDates(cal.WorkableDays),
		Holidays:     toHolidayDTOs(cal.Holidays),
	}
}

func toUserDTO(u generic.User) UserDTO {
	dto := UserDTO{ID: u.ID, Name: u.Name, HiringDate: generic.FormatDate(u.HiringDate)}
	if u.Agreement != "" {
		dto.Agreement = json.RawMessage(u.Agreement)
	}
	return dto
}

func toProjectRoleDTO(r worktime.ProjectRole) ProjectRoleDTO {
	return ProjectRoleDTO{
		ID:                r.ID,
		Name:              r.Name,
		TimeUnit:          string(r.TimeUnit),
		MaxAllowedMinutes: int64(r.MaxAllowedPerYear),
	}
}

func toActivityDTO(a worktime.Activity) ActivityDTO {
	return ActivityDTO{
		ID:              a.ID,
		UserID:          a.UserID,
		RoleID:          a.Role.ID,
		TimeUnit:        string(a.Role.TimeUnit),
		Start:           a.Start.Format(time.RFC3339),
		End:             a.End.Format(time.RFC3339),
		DurationMinutes: int64(a.Duration),
		Hours:           a.Duration.Hours(),
		Description:     a.Description,
	}
}

func toActivityDTOs(list []worktime.Activity) []ActivityDTO {
	out := make([]ActivityDTO, len(list))
	for i, a := range list {
		out[i] = toActivityDTO(a)
	}
	return out
}

func toTimeSummaryDTO(s worktime.TimeSummary) TimeSummaryDTO {
	dto := TimeSummaryDTO{
		Year:   s.Year,
		Months: make([]MonthlyBalanceDTO, len(s.Months)),
		Annual: AnnualBalanceDTO{
			Worked:               s.Annual.Worked,
			Target:               s.Annual.Target,
			NotRequestedVacation: s.Annual.NotRequestedVacation,
			Balance:              s.Annual.Balance,
		},
		Previous: PreviousBalanceDTO{
			Worked:  s.Previous.Worked,
			Target:  s.Previous.Target,
			Balance: s.Previous.Balance,
		},
	}
	for i, m := range s.Months {
		roles := make([]RoleHoursDTO, len(m.Roles))
		for j, r := range m.Roles {
			roles[j] = RoleHoursDTO{RoleID: r.RoleID, Hours: r.Hours}
		}
		dto.Months[i] = MonthlyBalanceDTO{
			Month:           int(m.Month),
			Workable:        m.Workable,
			Worked:          m.Worked,
			Recommended:     m.Recommended,
			Balance:         m.Balance,
			Roles:           roles,
			VacationCharged: m.VacationCharged,
			VacationEnjoyed: m.VacationEnjoyed,
		}
	}
	return dto
}

func toVacationDTO(v vacation.Vacation) VacationDTO {
	return VacationDTO{
		ID:          v.ID,
		UserID:      v.UserID,
		Start:       generic.FormatDate(v.Start),
		End:         generic.FormatDate(v.End),
		State:       string(v.State),
		ChargeYear:  v.ChargeYear,
		Description: v.Description,
		Days:        formatDates(v.Days),
	}
}

func toVacationSummaryDTO(s vacation.Summary) VacationSummaryDTO {
	return VacationSummaryDTO{
		Year:      s.Year,
		Earned:    s.Earned,
		Accepted:  s.Accepted,
		Pending:   s.Pending,
		Requested: s.Requested,
		Remaining: s.Remaining,
	}
}

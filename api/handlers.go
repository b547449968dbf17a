/*
handlers.go - HTTP request handlers for the REST API

PURPOSE:
  Implements all HTTP endpoint handlers. Each handler:
  1. Parses request (path params, query params, body)
  2. Validates input
  3. Calls the engine services
  4. Returns JSON response

HANDLER STRUCTURE:
  Handler holds the store and the services built on top of it:
  - Calendars:  One calendar per request interval (holidays resolved once)
  - Recorder:   Activity creation with duration and yearly cap checks
  - Activities: Per-day aggregation and remaining role allowance
  - Summaries:  Annual work-time balance
  - Vacations:  Vacation requests and entitlement accounting

ERROR HANDLING:
  writeDomainError maps engine errors to HTTP status codes:
  - 400 Bad Request:  Invalid input, vacation validation reasons
  - 403 Forbidden:    Vacation owned by another user
  - 404 Not Found:    Unknown user, role, holiday or vacation
  - 409 Conflict:     Overlapping vacation, accepted vacation, role cap
  - 500 Internal:     Store or holiday source failures (logged)
  Vacation failures carry their reason (e.g. VACATION_REQUEST_OVERLAPS)
  in ErrorResponse.Code.

SEE ALSO:
  - server.go: Route definitions
  - dto.go: Request/response types
  - scenarios.go: Demo data loaders
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/worktime-engine/factory"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/holidays"
	"github.com/warp/worktime-engine/vacation"
	"github.com/warp/worktime-engine/worktime"
)

// Store is everything the API persists.
type Store interface {
	generic.HolidayStore
	generic.UserStore
	worktime.ProjectRoleStore
	worktime.ActivityStore
	vacation.Store

	Reset(ctx context.Context, withHolidays bool) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Calendars  generic.CalendarProvider
	Recorder   *worktime.ActivityRecorder
	Activities *worktime.ActivityCalendarService
	Summaries  *worktime.SummaryService
	Vacations  *vacation.Service
	Holidays   *holidays.Importer
	Clock      generic.Clock
	Logger     *zap.Logger

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler wires the services on top of store. A nil clock uses the
// system clock and a nil logger discards output.
func NewHandler(store Store, agreements vacation.AgreementResolver, clock generic.Clock, logger *zap.Logger) *Handler {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	calendars := generic.NewCalendarFactory(store)
	accounting := vacation.NewAccounting(calendars, agreements)

	return &Handler{
		Store:      store,
		Calendars:  calendars,
		Recorder:   worktime.NewActivityRecorder(store, store, calendars),
		Activities: worktime.NewActivityCalendarService(calendars),
		Summaries:  worktime.NewSummaryService(store, store, store, calendars, accounting, clock),
		Vacations:  vacation.NewService(store, store, accounting, clock),
		Holidays:   holidays.NewImporter(store, logger),
		Clock:      clock,
		Logger:     logger,
	}
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar returns every day, the workable days and the holidays of
// [start, end]. A reversed interval yields empty lists.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	interval, err := dateIntervalParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid interval", err)
		return
	}

	cal, err := h.Calendars.Build(r.Context(), interval)
	if err != nil {
		h.writeDomainError(w, "Failed to build calendar", err)
		return
	}

	dto := toCalendarDTO(cal)
	dto.Start, dto.End = generic.FormatDate(interval.Start), generic.FormatDate(interval.End)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the stored holidays, or the occurrences in
// [start, end] when both are given.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		list []generic.Holiday
		err  error
	)
	if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
		interval, perr := dateIntervalParams(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid interval", perr)
			return
		}
		list, err = h.Store.FindHolidaysBetween(ctx, interval.Start, interval.End)
	} else {
		list, err = h.Store.ListHolidays(ctx)
	}
	if err != nil {
		h.writeDomainError(w, "Failed to list holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTOs(list))
}

// CreateHoliday creates a new holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Description is required", nil)
		return
	}

	holiday := generic.Holiday{
		ID:          uuid.NewString(),
		Date:        date,
		Description: req.Description,
		Recurring:   req.Recurring,
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		h.writeDomainError(w, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// ImportHolidays stores a holiday document. A text/plain body uses the
// line format of holiday files; anything else is read as holidays.FileJSON.
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	var (
		list []generic.Holiday
		err  error
	)
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "text/plain" {
		list, err = h.Holidays.ParseText(r.Body)
	} else {
		list, err = holidays.ParseJSON(r.Body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday document", err)
		return
	}

	n, err := h.Holidays.Save(r.Context(), list)
	if err != nil {
		h.writeDomainError(w, "Failed to import holidays", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}

// DeleteHoliday deletes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete holiday", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// USER AND PROJECT ROLE HANDLERS
// =============================================================================

// CreateUser creates or replaces a user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hired, err := generic.ParseDate(req.HiringDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hiring_date format (use YYYY-MM-DD)", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	user := generic.User{ID: req.ID, Name: req.Name, HiringDate: hired}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if len(req.Agreement) > 0 && string(req.Agreement) != "null" {
		if err := factory.ValidateAgreement(string(req.Agreement)); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid agreement", err)
			return
		}
		user.Agreement = string(req.Agreement)
	}

	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		h.writeDomainError(w, "Failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// GetUser returns a single user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.user(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get user", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// CreateProjectRole creates or replaces a project role.
func (h *Handler) CreateProjectRole(w http.ResponseWriter, r *http.Request) {
	var req ProjectRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	unit, err := generic.ParseTimeUnit(req.TimeUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time_unit", err)
		return
	}
	if req.MaxAllowedMinutes < 0 {
		writeError(w, http.StatusBadRequest, "max_allowed_minutes must not be negative", nil)
		return
	}

	role := worktime.ProjectRole{
		ID:                req.ID,
		Name:              req.Name,
		TimeUnit:          unit,
		MaxAllowedPerYear: generic.Minutes(req.MaxAllowedMinutes),
	}
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	if err := h.Store.SaveProjectRole(r.Context(), role); err != nil {
		h.writeDomainError(w, "Failed to create project role", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectRoleDTO(role))
}

// GetProjectRole returns a single project role.
func (h *Handler) GetProjectRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.role(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get project role", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectRoleDTO(*role))
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// RecordActivity logs an activity for the user in the path.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start (use RFC3339)", err)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end (use RFC3339)", err)
		return
	}
	if _, err := h.user(ctx, userID); err != nil {
		h.writeDomainError(w, "Failed to record activity", err)
		return
	}

	activity, err := h.Recorder.Record(ctx, worktime.RecordRequest{
		UserID:      userID,
		RoleID:      req.RoleID,
		Start:       start.UTC(),
		End:         end.UTC(),
		Description: req.Description,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record activity", err)
		return
	}

	h.Logger.Info("Activity recorded",
		zap.String("user_id", userID),
		zap.String("activity_id", activity.ID),
		zap.String("role_id", activity.Role.ID),
		zap.Int64("minutes", int64(activity.Duration)))
	writeJSON(w, http.StatusCreated, toActivityDTO(*activity))
}

// ListActivities returns the activities that touch [start, end].
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	interval, err := dateIntervalParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid interval", err)
		return
	}
	if _, err := h.user(ctx, userID); err != nil {
		h.writeDomainError(w, "Failed to list activities", err)
		return
	}

	activities, err := h.activitiesIn(ctx, userID, interval)
	if err != nil {
		h.writeDomainError(w, "Failed to list activities", err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityDTOs(activities))
}

// GetWorkingTime returns one entry per day of [start, end] with the hours
// worked that day.
func (h *Handler) GetWorkingTime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	interval, err := dateIntervalParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid interval", err)
		return
	}
	if _, err := h.user(ctx, userID); err != nil {
		h.writeDomainError(w, "Failed to get working time", err)
		return
	}

	activities, err := h.activitiesIn(ctx, userID, interval)
	if err != nil {
		h.writeDomainError(w, "Failed to get working time", err)
		return
	}
	daily, err := h.Activities.DurationSummaryInHours(ctx, activities, interval)
	if err != nil {
		h.writeDomainError(w, "Failed to get working time", err)
		return
	}

	out := make([]DailyHoursDTO, len(daily))
	for i, d := range daily {
		out[i] = DailyHoursDTO{Date: generic.FormatDate(d.Date), Hours: d.Hours}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRemainingForRole returns how much of a capped role's yearly allowance
// the user has left in the year of ?date (today by default).
func (h *Handler) GetRemainingForRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	date := generic.Today(h.Clock)
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := generic.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = d
	}

	if _, err := h.user(ctx, userID); err != nil {
		h.writeDomainError(w, "Failed to get remaining time", err)
		return
	}
	role, err := h.role(ctx, chi.URLParam(r, "roleId"))
	if err != nil {
		h.writeDomainError(w, "Failed to get remaining time", err)
		return
	}

	year := generic.YearInterval(date.Year())
	activities, err := h.Store.FindActivitiesByRole(ctx, userID, role.ID, year.Start, year.End.AddDate(0, 0, 1))
	if err != nil {
		h.writeDomainError(w, "Failed to get remaining time", err)
		return
	}
	remaining, err := h.Activities.RemainingForRole(ctx, *role, activities, generic.NewDateInterval(date, date), userID)
	if err != nil {
		h.writeDomainError(w, "Failed to get remaining time", err)
		return
	}

	writeJSON(w, http.StatusOK, RemainingDTO{
		RoleID:           role.ID,
		Year:             date.Year(),
		Capped:           role.IsCapped(),
		RemainingMinutes: int64(remaining),
		RemainingHours:   remaining.Hours(),
	})
}

// GetTimeSummary returns the annual work-time balance for ?year.
func (h *Handler) GetTimeSummary(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	summary, err := h.Summaries.UserTimeSummary(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		h.writeDomainError(w, "Failed to build time summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeSummaryDTO(summary))
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// ListVacations returns the user's vacations touching ?year.
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	list, err := h.Vacations.List(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		h.writeDomainError(w, "Failed to list vacations", err)
		return
	}

	out := make([]VacationDTO, len(list))
	for i, v := range list {
		out[i] = toVacationDTO(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateVacation submits a new PENDING vacation.
func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVacationRequest(w, r)
	if !ok {
		return
	}
	req.UserID = chi.URLParam(r, "id")

	v, res, err := h.Vacations.Create(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, "Failed to create vacation", err)
		return
	}

	h.Logger.Info("Vacation requested",
		zap.String("user_id", v.UserID),
		zap.String("vacation_id", v.ID),
		zap.Int("days", len(v.Days)))
	writeJSON(w, http.StatusCreated, VacationResultDTO{Vacation: toVacationDTO(*v), Action: string(res.Action)})
}

// UpdateVacation changes the period of a vacation. The response carries
// the new id when the vacation was replaced.
func (h *Handler) UpdateVacation(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVacationRequest(w, r)
	if !ok {
		return
	}
	req.ID = chi.URLParam(r, "vid")
	req.UserID = chi.URLParam(r, "id")

	v, res, err := h.Vacations.Update(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, "Failed to update vacation", err)
		return
	}
	writeJSON(w, http.StatusOK, VacationResultDTO{Vacation: toVacationDTO(*v), Action: string(res.Action)})
}

// DeleteVacation removes a vacation owned by the user in the path.
func (h *Handler) DeleteVacation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Vacations.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "vid")); err != nil {
		h.writeDomainError(w, "Failed to delete vacation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReviewVacation accepts, rejects or cancels a vacation.
func (h *Handler) ReviewVacation(w http.ResponseWriter, r *http.Request) {
	var req ReviewVacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	state := vacation.State(strings.ToUpper(req.State))
	if !state.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid state", fmt.Errorf("unknown state %q", req.State))
		return
	}

	v, err := h.Vacations.Review(r.Context(), chi.URLParam(r, "vid"), state)
	if err != nil {
		h.writeDomainError(w, "Failed to review vacation", err)
		return
	}
	days, err := h.Vacations.Accounting.WithDays(r.Context(), []vacation.Vacation{*v})
	if err != nil {
		h.writeDomainError(w, "Failed to review vacation", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationDTO(days[0]))
}

// GetVacationSummary returns earned, requested and remaining days for the
// charge year ?year.
func (h *Handler) GetVacationSummary(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	summary, err := h.Vacations.Summary(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		h.writeDomainError(w, "Failed to build vacation summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationSummaryDTO(summary))
}

func decodeVacationRequest(w http.ResponseWriter, r *http.Request) (vacation.Request, bool) {
	var body VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return vacation.Request{}, false
	}
	start, err := generic.ParseDate(body.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date format (use YYYY-MM-DD)", err)
		return vacation.Request{}, false
	}
	end, err := generic.ParseDate(body.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date format (use YYYY-MM-DD)", err)
		return vacation.Request{}, false
	}
	return vacation.Request{
		Start:       start,
		End:         end,
		ChargeYear:  body.ChargeYear,
		Description: body.Description,
	}, true
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

func (h *Handler) user(ctx context.Context, id string) (*generic.User, error) {
	user, err := h.Store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrUserNotFound, id)
	}
	return user, nil
}

func (h *Handler) role(ctx context.Context, id string) (*worktime.ProjectRole, error) {
	role, err := h.Store.GetProjectRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrProjectRoleNotFound, id)
	}
	return role, nil
}

// activitiesIn loads the activities touching the dates of interval.
func (h *Handler) activitiesIn(ctx context.Context, userID string, interval generic.DateInterval) ([]worktime.Activity, error) {
	if interval.IsEmpty() {
		return []worktime.Activity{}, nil
	}
	return h.Store.FindActivities(ctx, userID, interval.Start, interval.End.AddDate(0, 0, 1))
}

// dateIntervalParams reads the required ?start and ?end dates.
func dateIntervalParams(r *http.Request) (generic.DateInterval, error) {
	start, err := generic.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return generic.DateInterval{}, fmt.Errorf("start: %w", err)
	}
	end, err := generic.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		return generic.DateInterval{}, fmt.Errorf("end: %w", err)
	}
	return generic.NewDateInterval(start, end), nil
}

// yearParam reads ?year, defaulting to the current year.
func (h *Handler) yearParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return generic.Today(h.Clock).Year(), nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status code for an engine error.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var (
		validation *vacation.ValidationError
		capErr     *worktime.RoleCapExceededError
	)
	switch {
	case errors.As(err, &validation):
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, vacation.ErrVacationNotFound):
			status = http.StatusNotFound
		case errors.Is(err, vacation.ErrUnauthorized):
			status = http.StatusForbidden
		case errors.Is(err, vacation.ErrConflict):
			status = http.StatusConflict
		}
		writeJSON(w, status, ErrorResponse{Error: message, Code: string(validation.Reason), Details: err.Error()})

	case errors.As(err, &capErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: message,
			Code:  "PROJECT_ROLE_CAP_EXCEEDED",
			Details: map[string]any{
				"role_id":           capErr.RoleID,
				"year":              capErr.Year,
				"remaining_minutes": int64(capErr.Remaining),
				"requested_minutes": int64(capErr.Requested),
			},
		})

	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)

	case generic.IsClientError(err), vacation.IsClientError(err), errors.Is(err, factory.ErrInvalidAgreement):
		writeError(w, http.StatusBadRequest, message, err)

	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario creates holidays, project roles, a user,
	activities and vacations through the same services the API uses, so
	durations, caps and vacation validation all apply.

AVAILABLE SCENARIOS:

	standard-year:  Full-time employee with a regular year of activity
	mid-year-hire:  Prorated entitlement for an employee hired in July
	year-boundary:  Activity and vacation crossing New Year's Eve

HOW SCENARIOS WORK:
 1. Reset database (clear all data, holidays included)
 2. Import the holiday calendar of the current year
 3. Create project roles and the user
 4. Record activities
 5. Request vacations, accepting some of them

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "mid-year-hire"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.
	Dates are relative to the current year of the handler clock.

SEE ALSO:
  - handlers.go: Handler and services
  - holidays/importer.go: Holiday import
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/vacation"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-year",
		Name:        "Standard Year",
		Description: "Employee hired years ago: logged weeks, capped training, accepted summer vacation",
	},
	{
		ID:          "mid-year-hire",
		Name:        "Mid-Year Hire",
		Description: "Employee hired in July with prorated vacation entitlement",
	},
	{
		ID:          "year-boundary",
		Name:        "Year Boundary",
		Description: "Overnight activity and Christmas vacation crossing into next year",
	},
}

const (
	roleDevelopment = "development"
	roleTraining    = "training"
	roleSickLeave   = "sick-leave"
)

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context, int) error
	switch req.ScenarioID {
	case "standard-year":
		load = h.loadStandardYearScenario
	case "mid-year-hire":
		load = h.loadMidYearHireScenario
	case "year-boundary":
		load = h.loadYearBoundaryScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx, true); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	year := generic.Today(h.Clock).Year()
	if err := load(ctx, year); err != nil {
		h.Logger.Sugar().Errorw("Failed to load scenario", "scenario", req.ScenarioID, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Logger.Sugar().Infow("Scenario loaded", "scenario", req.ScenarioID, "year", year)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase deletes users, roles, activities and vacations. Holidays
// are deleted too with ?holidays=true.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	withHolidays := r.URL.Query().Get("holidays") == "true"
	if err := h.Store.Reset(r.Context(), withHolidays); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadStandardYearScenario(ctx context.Context, year int) error {
	if err := h.seedCalendar(ctx, year); err != nil {
		return err
	}
	user := generic.User{
		ID:         "user-001",
		Name:       "Lucía Fernández",
		HiringDate: generic.NewDate(year-5, time.January, 9),
	}
	if err := h.Store.SaveUser(ctx, user); err != nil {
		return err
	}

	// Two full weeks in February and a capped training course in March
	if err := h.seedWorkdays(ctx, user.ID, generic.NewDate(year, time.February, 5), generic.NewDate(year, time.February, 16)); err != nil {
		return err
	}
	if err := h.seedActivity(ctx, user.ID, roleTraining,
		generic.NewDate(year, time.March, 4), generic.EndOfDay(generic.NewDate(year, time.March, 6)), "Kubernetes course"); err != nil {
		return err
	}
	if err := h.seedActivity(ctx, user.ID, roleSickLeave,
		generic.NewDate(year, time.April, 15), generic.EndOfDay(generic.NewDate(year, time.April, 17)), "Flu"); err != nil {
		return err
	}

	if err := h.seedVacation(ctx, user.ID, generic.NewDate(year, time.August, 5), generic.NewDate(year, time.August, 23), 0, vacation.StateAccept); err != nil {
		return err
	}
	return h.seedVacation(ctx, user.ID, generic.NewDate(year, time.December, 22), generic.NewDate(year, time.December, 31), 0, vacation.StatePending)
}

func (h *Handler) loadMidYearHireScenario(ctx context.Context, year int) error {
	if err := h.seedCalendar(ctx, year); err != nil {
		return err
	}
	user := generic.User{
		ID:         "user-002",
		Name:       "Marc Puig",
		HiringDate: generic.NewDate(year, time.July, 1),
	}
	if err := h.Store.SaveUser(ctx, user); err != nil {
		return err
	}

	if err := h.seedWorkdays(ctx, user.ID, user.HiringDate, user.HiringDate.AddDate(0, 0, 13)); err != nil {
		return err
	}
	return h.seedVacation(ctx, user.ID, generic.NewDate(year, time.October, 7), generic.NewDate(year, time.October, 11), 0, vacation.StatePending)
}

func (h *Handler) loadYearBoundaryScenario(ctx context.Context, year int) error {
	if err := h.seedCalendar(ctx, year); err != nil {
		return err
	}
	if err := h.seedCalendar(ctx, year+1); err != nil {
		return err
	}
	user := generic.User{
		ID:         "user-003",
		Name:       "Nora Etxeberria",
		HiringDate: generic.NewDate(year-6, time.March, 1),
		Agreement:  `{"annual_days":22,"tiers":[{"after_years":5,"annual_days":24}]}`,
	}
	if err := h.Store.SaveUser(ctx, user); err != nil {
		return err
	}

	// Release night: 20:00 on Dec 31 to 02:00 on Jan 1
	overnight := time.Date(year, time.December, 31, 20, 0, 0, 0, time.UTC)
	if err := h.seedActivity(ctx, user.ID, roleDevelopment, overnight, overnight.Add(6*time.Hour), "Release night"); err != nil {
		return err
	}
	if err := h.seedActivity(ctx, user.ID, roleTraining,
		generic.NewDate(year, time.December, 29), generic.EndOfDay(generic.NewDate(year+1, time.January, 2)), "Winter school"); err != nil {
		return err
	}
	return h.seedVacation(ctx, user.ID, generic.NewDate(year, time.December, 27), generic.NewDate(year+1, time.January, 8), year, vacation.StateAccept)
}

// =============================================================================
// SEED HELPERS
// =============================================================================

// seedCalendar imports the holidays of year and the project roles shared
// by every scenario.
func (h *Handler) seedCalendar(ctx context.Context, year int) error {
	list := []generic.Holiday{
		{Date: generic.NewDate(year, time.January, 1), Description: "New Year's Day", Recurring: true},
		{Date: generic.NewDate(year, time.January, 6), Description: "Epiphany"},
		{Date: generic.NewDate(year, time.May, 1), Description: "Labour Day", Recurring: true},
		{Date: generic.NewDate(year, time.August, 15), Description: "Assumption"},
		{Date: generic.NewDate(year, time.October, 12), Description: "National Day"},
		{Date: generic.NewDate(year, time.December, 25), Description: "Christmas Day", Recurring: true},
	}
	stored, err := h.Store.ListHolidays(ctx)
	if err != nil {
		return err
	}
	// Recurring holidays already cover later years.
	if len(stored) > 0 {
		list = nonRecurring(list)
	}
	if _, err := h.Holidays.Save(ctx, list); err != nil {
		return err
	}

	roles := []worktime.ProjectRole{
		{ID: roleDevelopment, Name: "Development", TimeUnit: generic.TimeUnitMinutes},
		{ID: roleTraining, Name: "Training", TimeUnit: generic.TimeUnitDays, MaxAllowedPerYear: 5 * generic.MinutesPerDay},
		{ID: roleSickLeave, Name: "Sick leave", TimeUnit: generic.TimeUnitNaturalDays},
	}
	for _, role := range roles {
		if err := h.Store.SaveProjectRole(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

func nonRecurring(list []generic.Holiday) []generic.Holiday {
	var out []generic.Holiday
	for _, hol := range list {
		if !hol.Recurring {
			out = append(out, hol)
		}
	}
	return out
}

// seedWorkdays logs 09:00 to 17:00 of development on every weekday of
// [from, to].
func (h *Handler) seedWorkdays(ctx context.Context, userID string, from, to time.Time) error {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if generic.IsWeekend(d) {
			continue
		}
		start := d.Add(9 * time.Hour)
		if err := h.seedActivity(ctx, userID, roleDevelopment, start, start.Add(8*time.Hour), "Sprint work"); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) seedActivity(ctx context.Context, userID, roleID string, start, end time.Time, description string) error {
	_, err := h.Recorder.Record(ctx, worktime.RecordRequest{
		UserID:      userID,
		RoleID:      roleID,
		Start:       start,
		End:         end,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("activity %s on %s: %w", roleID, generic.FormatDate(start), err)
	}
	return nil
}

func (h *Handler) seedVacation(ctx context.Context, userID string, start, end time.Time, chargeYear int, state vacation.State) error {
	v, _, err := h.Vacations.Create(ctx, vacation.Request{
		UserID:     userID,
		Start:      start,
		End:        end,
		ChargeYear: chargeYear,
	})
	if err != nil {
		return fmt.Errorf("vacation %s: %w", generic.FormatDate(start), err)
	}
	if state == vacation.StatePending {
		return nil
	}
	_, err = h.Vacations.Review(ctx, v.ID, state)
	return err
}

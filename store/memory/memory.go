// Package memory provides in-memory stores for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/vacation"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store implements every store interface of the engine. It counts holiday
// queries so tests can assert one lookup per calendar.
type Store struct {
	mu         sync.RWMutex
	holidays   map[string]generic.Holiday
	users      map[string]generic.User
	roles      map[string]worktime.ProjectRole
	activities map[string]worktime.Activity
	vacations  map[string]vacation.Vacation

	holidayQueries int
}

var (
	_ generic.HolidayStore      = (*Store)(nil)
	_ generic.UserStore         = (*Store)(nil)
	_ worktime.ProjectRoleStore = (*Store)(nil)
	_ worktime.ActivityStore    = (*Store)(nil)
	_ vacation.Store            = (*Store)(nil)
)

func New() *Store {
	return &Store{
		holidays:   make(map[string]generic.Holiday),
		users:      make(map[string]generic.User),
		roles:      make(map[string]worktime.ProjectRole),
		activities: make(map[string]worktime.Activity),
		vacations:  make(map[string]vacation.Vacation),
	}
}

// HolidayQueries returns how many times FindHolidaysBetween ran.
func (m *Store) HolidayQueries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holidayQueries
}

// Reset deletes all data. Holidays are kept unless withHolidays is set.
func (m *Store) Reset(_ context.Context, withHolidays bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]generic.User)
	m.roles = make(map[string]worktime.ProjectRole)
	m.activities = make(map[string]worktime.Activity)
	m.vacations = make(map[string]vacation.Vacation)
	if withHolidays {
		m.holidays = make(map[string]generic.Holiday)
	}
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Store) FindHolidaysBetween(_ context.Context, start, end time.Time) ([]generic.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidayQueries++

	stored := make([]generic.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		stored = append(stored, h)
	}
	return generic.HolidaysBetween(stored, start, end), nil
}

func (m *Store) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.Date = generic.DateOf(h.Date)
	m.holidays[h.ID] = h
	return nil
}

func (m *Store) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, id)
	}
	delete(m.holidays, id)
	return nil
}

func (m *Store) ListHolidays(_ context.Context) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]generic.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// =============================================================================
// USERS AND PROJECT ROLES
// =============================================================================

func (m *Store) SaveUser(_ context.Context, u generic.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

// GetUser returns nil, nil when the user doesn't exist.
func (m *Store) GetUser(_ context.Context, id string) (*generic.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Store) SaveProjectRole(_ context.Context, r worktime.ProjectRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.ID] = r
	return nil
}

func (m *Store) GetProjectRole(_ context.Context, id string) (*worktime.ProjectRole, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// =============================================================================
// ACTIVITIES
// =============================================================================

func (m *Store) SaveActivity(_ context.Context, a worktime.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[a.ID] = a
	return nil
}

func (m *Store) DeleteActivity(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.activities, id)
	return nil
}

func (m *Store) FindActivities(_ context.Context, userID string, from, to time.Time) ([]worktime.Activity, error) {
	return m.findActivities(func(a worktime.Activity) bool {
		return a.UserID == userID && overlapsRange(a, from, to)
	}), nil
}

func (m *Store) FindActivitiesByRole(_ context.Context, userID, roleID string, from, to time.Time) ([]worktime.Activity, error) {
	return m.findActivities(func(a worktime.Activity) bool {
		return a.UserID == userID && a.Role.ID == roleID && overlapsRange(a, from, to)
	}), nil
}

func (m *Store) findActivities(keep func(worktime.Activity) bool) []worktime.Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []worktime.Activity
	for _, a := range m.activities {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// overlapsRange matches [Start, End] against [from, to). Zero-length
// activities match when they start inside the range.
func overlapsRange(a worktime.Activity, from, to time.Time) bool {
	if a.Start.Equal(a.End) {
		return !a.Start.Before(from) && a.Start.Before(to)
	}
	return a.Start.Before(to) && a.End.After(from)
}

// =============================================================================
// VACATIONS
// =============================================================================

// SaveVacation stores v without its resolved days.
func (m *Store) SaveVacation(_ context.Context, v vacation.Vacation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.Days = nil
	m.vacations[v.ID] = v
	return nil
}

func (m *Store) GetVacation(_ context.Context, id string) (*vacation.Vacation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vacations[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *Store) DeleteVacation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vacations, id)
	return nil
}

func (m *Store) FindVacations(_ context.Context, userID string, from, to time.Time) ([]vacation.Vacation, error) {
	query := generic.NewDateInterval(from, to)
	return m.findVacations(func(v vacation.Vacation) bool {
		return v.UserID == userID && v.Interval().Overlaps(query)
	}), nil
}

func (m *Store) FindVacationsByChargeYear(_ context.Context, userID string, year int) ([]vacation.Vacation, error) {
	return m.findVacations(func(v vacation.Vacation) bool {
		return v.UserID == userID && v.ChargeYear == year
	}), nil
}

func (m *Store) findVacations(keep func(vacation.Vacation) bool) []vacation.Vacation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []vacation.Vacation
	for _, v := range m.vacations {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

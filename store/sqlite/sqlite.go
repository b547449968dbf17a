/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface of the engine using SQLite:
  holidays (the HolidaySource behind calendars), users, project roles,
  activities and vacations.

INTERFACES IMPLEMENTED:
  generic.HolidayStore:      Holidays, recurring ones expanded per year
  generic.UserStore:         Users and their entitlement agreement
  worktime.ProjectRoleStore: Project roles with time unit and yearly cap
  worktime.ActivityStore:    Logged activities
  vacation.Store:            Vacation periods

KEY TABLES:
  holidays:      Public holidays (date, description, recurring)
  users:         Employees with hiring date and agreement JSON
  project_roles: Time unit and max allowed minutes per year
  activities:    start/end in RFC3339 UTC, denormalized duration
  vacations:     Date range, state, charge year

DATES:
  Calendar dates are stored as YYYY-MM-DD, instants as RFC3339 in UTC so
  that string comparison orders them.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The pool is limited to a single
  connection so ":memory:" databases are shared by every query.

USAGE:
  store, err := sqlite.New("./data/worktime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  calendars := generic.NewCalendarFactory(store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: HolidayStore
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/vacation"
	"github.com/warp/worktime-engine/worktime"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ generic.HolidayStore      = (*Store)(nil)
	_ generic.UserStore         = (*Store)(nil)
	_ worktime.ProjectRoleStore = (*Store)(nil)
	_ worktime.ActivityStore    = (*Store)(nil)
	_ vacation.Store            = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset deletes all data. Holidays are kept unless withHolidays is set.
func (s *Store) Reset(ctx context.Context, withHolidays bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"vacations", "activities", "project_roles", "users"}
	if withHolidays {
		tables = append(tables, "holidays")
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_date_description
		ON holidays(date, description);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hiring_date TEXT NOT NULL,
		agreement_json TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS project_roles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		time_unit TEXT NOT NULL,
		max_allowed_minutes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role_id TEXT NOT NULL REFERENCES project_roles(id),
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	-- Range queries per user (hot path of summaries)
	CREATE INDEX IF NOT EXISTS idx_activities_user_start
		ON activities(user_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_activities_user_role
		ON activities(user_id, role_id, start_at);

	CREATE TABLE IF NOT EXISTS vacations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		state TEXT NOT NULL,
		charge_year INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_vacations_user_dates
		ON vacations(user_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_vacations_user_charge_year
		ON vacations(user_id, charge_year);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY SOURCE (generic.HolidayStore interface)
// =============================================================================

// FindHolidaysBetween returns the holidays within [start, end]. Recurring
// holidays are matched on month and day and moved into each year touched.
func (s *Store) FindHolidaysBetween(ctx context.Context, start, end time.Time) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, description, recurring
		FROM holidays
		WHERE recurring = TRUE OR (date >= ? AND date <= ?)
		ORDER BY date ASC
	`
	stored, err := s.queryHolidays(ctx, query, generic.FormatDate(start), generic.FormatDate(end))
	if err != nil {
		return nil, err
	}
	return generic.HolidaysBetween(stored, start, end), nil
}

// SaveHoliday saves a holiday. An empty ID gets a generated one.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	query := `
		INSERT INTO holidays (id, date, description, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			description = excluded.description,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		generic.FormatDate(h.Date),
		h.Description,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("holiday %s on %s already exists", h.Description, generic.FormatDate(h.Date))
	}
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, id)
	}
	return nil
}

// ListHolidays returns all stored holidays (for admin UI).
func (s *Store) ListHolidays(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryHolidays(ctx, "SELECT id, date, description, recurring FROM holidays ORDER BY date ASC")
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]generic.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Description, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// USER STORE
// =============================================================================

// SaveUser inserts or updates a user.
func (s *Store) SaveUser(ctx context.Context, u generic.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, name, hiring_date, agreement_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			hiring_date = excluded.hiring_date,
			agreement_json = excluded.agreement_json
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name,
		generic.FormatDate(u.HiringDate),
		u.Agreement,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetUser retrieves a user by ID. A missing user returns nil, nil.
func (s *Store) GetUser(ctx context.Context, id string) (*generic.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u generic.User
	var hiringDate string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, hiring_date, agreement_json FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Name, &hiringDate, &u.Agreement)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.HiringDate, _ = generic.ParseDate(hiringDate)
	return &u, nil
}

// =============================================================================
// PROJECT ROLE STORE
// =============================================================================

// SaveProjectRole inserts or updates a project role.
func (s *Store) SaveProjectRole(ctx context.Context, r worktime.ProjectRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO project_roles (id, name, time_unit, max_allowed_minutes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			time_unit = excluded.time_unit,
			max_allowed_minutes = excluded.max_allowed_minutes
	`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.Name, string(r.TimeUnit), int64(r.MaxAllowedPerYear))
	return err
}

// GetProjectRole retrieves a project role by ID. A missing role returns nil, nil.
func (s *Store) GetProjectRole(ctx context.Context, id string) (*worktime.ProjectRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r worktime.ProjectRole
	var unit string
	var maxAllowed int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, time_unit, max_allowed_minutes FROM project_roles WHERE id = ?",
		id,
	).Scan(&r.ID, &r.Name, &unit, &maxAllowed)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.TimeUnit = generic.TimeUnit(unit)
	r.MaxAllowedPerYear = generic.Minutes(maxAllowed)
	return &r, nil
}

// =============================================================================
// ACTIVITY STORE
// =============================================================================

// SaveActivity inserts or updates an activity. The role must exist.
func (s *Store) SaveActivity(ctx context.Context, a worktime.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO activities (id, user_id, role_id, start_at, end_at, duration_minutes, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			role_id = excluded.role_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			duration_minutes = excluded.duration_minutes,
			description = excluded.description
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Role.ID,
		formatInstant(a.Start),
		formatInstant(a.End),
		int64(a.Duration),
		a.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

// DeleteActivity removes an activity.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	return err
}

// FindActivities returns the activities of userID overlapping [from, to).
func (s *Store) FindActivities(ctx context.Context, userID string, from, to time.Time) ([]worktime.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryActivities(ctx, activitySelect+`
		WHERE a.user_id = ? AND `+activityOverlap+`
		ORDER BY a.start_at ASC
	`, userID, formatInstant(to), formatInstant(from), formatInstant(from), formatInstant(to))
}

// FindActivitiesByRole returns the activities of userID against roleID
// overlapping [from, to).
func (s *Store) FindActivitiesByRole(ctx context.Context, userID, roleID string, from, to time.Time) ([]worktime.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryActivities(ctx, activitySelect+`
		WHERE a.user_id = ? AND a.role_id = ? AND `+activityOverlap+`
		ORDER BY a.start_at ASC
	`, userID, roleID, formatInstant(to), formatInstant(from), formatInstant(from), formatInstant(to))
}

const activitySelect = `
	SELECT a.id, a.user_id, a.start_at, a.end_at, a.duration_minutes, a.description,
	       r.id, r.name, r.time_unit, r.max_allowed_minutes
	FROM activities a
	JOIN project_roles r ON r.id = a.role_id
`

// activityOverlap takes (to, from, from, to). Zero-length activities match
// when they start inside the range.
const activityOverlap = `(
	(a.start_at < ? AND a.end_at > ?)
	OR (a.start_at = a.end_at AND a.start_at >= ? AND a.start_at < ?)
)`

func (s *Store) queryActivities(ctx context.Context, query string, args ...any) ([]worktime.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []worktime.Activity
	for rows.Next() {
		var a worktime.Activity
		var start, end, unit string
		var duration, maxAllowed int64
		if err := rows.Scan(&a.ID, &a.UserID, &start, &end, &duration, &a.Description,
			&a.Role.ID, &a.Role.Name, &unit, &maxAllowed); err != nil {
			return nil, err
		}
		a.Start, _ = time.Parse(time.RFC3339, start)
		a.End, _ = time.Parse(time.RFC3339, end)
		a.Duration = generic.Minutes(duration)
		a.Role.TimeUnit = generic.TimeUnit(unit)
		a.Role.MaxAllowedPerYear = generic.Minutes(maxAllowed)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// =============================================================================
// VACATION STORE
// =============================================================================

// SaveVacation inserts or updates a vacation. Days are not persisted.
func (s *Store) SaveVacation(ctx context.Context, v vacation.Vacation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO vacations (id, user_id, start_date, end_date, state, charge_year, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			state = excluded.state,
			charge_year = excluded.charge_year,
			description = excluded.description
	`

	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.UserID,
		generic.FormatDate(v.Start),
		generic.FormatDate(v.End),
		string(v.State),
		v.ChargeYear,
		v.Description,
		formatInstant(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save vacation: %w", err)
	}
	return nil
}

// GetVacation retrieves a vacation by ID. A missing vacation returns nil, nil.
func (s *Store) GetVacation(ctx context.Context, id string) (*vacation.Vacation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vacations, err := s.queryVacations(ctx, vacationSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(vacations) == 0 {
		return nil, nil
	}
	return &vacations[0], nil
}

// DeleteVacation removes a vacation.
func (s *Store) DeleteVacation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM vacations WHERE id = ?", id)
	return err
}

// FindVacations returns the vacations of userID overlapping [from, to].
func (s *Store) FindVacations(ctx context.Context, userID string, from, to time.Time) ([]vacation.Vacation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryVacations(ctx, vacationSelect+`
		WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC
	`, userID, generic.FormatDate(to), generic.FormatDate(from))
}

// FindVacationsByChargeYear returns the vacations of userID charged to year.
func (s *Store) FindVacationsByChargeYear(ctx context.Context, userID string, year int) ([]vacation.Vacation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryVacations(ctx, vacationSelect+`
		WHERE user_id = ? AND charge_year = ?
		ORDER BY start_date ASC
	`, userID, year)
}

const vacationSelect = `
	SELECT id, user_id, start_date, end_date, state, charge_year, description, created_at
	FROM vacations
`

func (s *Store) queryVacations(ctx context.Context, query string, args ...any) ([]vacation.Vacation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vacations []vacation.Vacation
	for rows.Next() {
		var v vacation.Vacation
		var start, end, state, createdAt string
		if err := rows.Scan(&v.ID, &v.UserID, &start, &end, &state, &v.ChargeYear, &v.Description, &createdAt); err != nil {
			return nil, err
		}
		v.Start, _ = generic.ParseDate(start)
		v.End, _ = generic.ParseDate(end)
		v.State = vacation.State(state)
		v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		vacations = append(vacations, v)
	}
	return vacations, rows.Err()
}

// Helper functions

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

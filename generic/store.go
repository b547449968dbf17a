/*
store.go - Persistence interfaces shared by the engine and its callers

PURPOSE:
  Defines the boundary between the pure engine and storage. The engine
  itself never queries storage except through HolidaySource; use cases
  fetch activities and vacations and hand them over as slices.

KEY INTERFACES:
  HolidaySource: Read side used by CalendarFactory (time.go)
  HolidayStore:  Admin write side (import, create, delete)

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/memory/memory.go: In-memory for testing

SEE ALSO:
  - worktime/store.go: Users, project roles, activities
  - vacation/store.go: Vacations
*/
package generic

import "context"

// HolidayStore manages the holiday table behind a HolidaySource.
type HolidayStore interface {
	HolidaySource

	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

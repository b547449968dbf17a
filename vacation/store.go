package vacation

import (
	"context"
	"time"
)

// Store persists vacations. Days are not stored; Accounting.WithDays
// resolves them from the calendar.
type Store interface {
	SaveVacation(ctx context.Context, v Vacation) error
	GetVacation(ctx context.Context, id string) (*Vacation, error)
	DeleteVacation(ctx context.Context, id string) error

	// FindVacations returns the vacations of userID whose [Start, End]
	// overlaps [from, to], ordered by start date.
	FindVacations(ctx context.Context, userID string, from, to time.Time) ([]Vacation, error)

	// FindVacationsByChargeYear returns the vacations of userID charged to
	// year, whatever their dates.
	FindVacationsByChargeYear(ctx context.Context, userID string, year int) ([]Vacation, error)
}

// Package vacation implements vacation entitlement, consumption and
// request validation on top of the generic calendar engine.
package vacation

import (
	"time"

	"github.com/warp/worktime-engine/generic"
)

// =============================================================================
// STATE
// =============================================================================

type State string

const (
	StatePending   State = "PENDING"
	StateAccept    State = "ACCEPT"
	StateReject    State = "REJECT"
	StateCancelled State = "CANCELLED"
)

// IsActive reports whether a vacation in this state debits entitlement and
// blocks overlapping requests.
func (s State) IsActive() bool {
	return s == StatePending || s == StateAccept
}

func (s State) Valid() bool {
	switch s {
	case StatePending, StateAccept, StateReject, StateCancelled:
		return true
	}
	return false
}

// =============================================================================
// VACATION
// =============================================================================

// Vacation is a period of leave charged to the entitlement of ChargeYear.
type Vacation struct {
	ID          string
	UserID      string
	Start       time.Time
	End         time.Time
	State       State
	ChargeYear  int
	Description string
	CreatedAt   time.Time

	// Days are the workable dates of [Start, End]. They are what debits the
	// entitlement. Nil means not yet resolved (see Accounting.WithDays).
	Days []time.Time
}

// Interval returns [Start, End] as calendar dates.
func (v Vacation) Interval() generic.DateInterval {
	return generic.NewDateInterval(v.Start, v.End)
}

// Request is the input for creating or updating a vacation.
type Request struct {
	ID          string // set on update
	UserID      string
	Start       time.Time
	End         time.Time
	ChargeYear  int // zero charges the year of Start
	Description string
}

// Interval returns [Start, End] as calendar dates.
func (r Request) Interval() generic.DateInterval {
	return generic.NewDateInterval(r.Start, r.End)
}

func (r Request) chargeYear() int {
	if r.ChargeYear != 0 {
		return r.ChargeYear
	}
	return r.Start.Year()
}

// Summary is the entitlement position of a user for one charge year.
type Summary struct {
	Year      int
	Earned    int
	Accepted  int // workable days of ACCEPT vacations
	Pending   int // workable days of PENDING vacations
	Requested int // Accepted + Pending, deduplicated by date
	Remaining int // Earned - Requested
}

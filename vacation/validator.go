package vacation

import (
	"context"
	"time"

	"github.com/warp/worktime-engine/generic"
)

// =============================================================================
// RESULT
// =============================================================================

// Action tells the caller how to persist a successful request.
type Action string

const (
	ActionCreate        Action = "CREATE"
	ActionUpdateInPlace Action = "UPDATE_IN_PLACE"
	ActionReplace       Action = "REPLACE" // delete then recreate
	ActionDelete        Action = "DELETE"
)

// Result is the outcome of a validation: success with the resolved
// workable days and an Action, or failure with a Reason.
type Result struct {
	Reason Reason
	Days   []time.Time
	Action Action
}

func (r Result) Success() bool { return r.Reason == "" }

// Err returns nil on success and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Success() {
		return nil
	}
	return &ValidationError{Reason: r.Reason}
}

func failure(reason Reason) Result { return Result{Reason: reason} }

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks vacation requests. Checks run in a fixed order and the
// first failure wins.
type Validator struct {
	Accounting *Accounting
	Clock      generic.Clock
}

func NewValidator(accounting *Accounting, clock generic.Clock) *Validator {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Validator{Accounting: accounting, Clock: clock}
}

// ValidateCreate checks a new request of user against the user's existing
// vacations: date range, closed range, hiring date, overlap, emptiness.
func (v *Validator) ValidateCreate(ctx context.Context, req Request, user generic.User, existing []Vacation) (Result, error) {
	res, err := v.validatePeriod(ctx, req, user, existing, "")
	if err != nil || !res.Success() {
		return res, err
	}
	res.Action = ActionCreate
	return res, nil
}

// ValidateUpdate checks a change of current requested by req.UserID. On
// success the Action is ActionReplace when the workable day count or the
// charge year changes, ActionUpdateInPlace otherwise.
func (v *Validator) ValidateUpdate(ctx context.Context, req Request, user generic.User, current *Vacation, existing []Vacation) (Result, error) {
	if current == nil {
		return failure(ReasonNotFound), nil
	}
	if current.UserID != req.UserID {
		return failure(ReasonUserUnauthorized), nil
	}
	if current.State == StateAccept {
		return failure(ReasonAlreadyAccepted), nil
	}

	res, err := v.validatePeriod(ctx, req, user, existing, current.ID)
	if err != nil || !res.Success() {
		return res, err
	}

	resolved, err := v.Accounting.WithDays(ctx, []Vacation{*current})
	if err != nil {
		return Result{}, err
	}
	if len(resolved[0].Days) != len(res.Days) || current.ChargeYear != req.chargeYear() {
		res.Action = ActionReplace
	} else {
		res.Action = ActionUpdateInPlace
	}
	return res, nil
}

// ValidateDelete checks that callerID may delete current. An accepted
// vacation stays deletable until its end date has passed.
func (v *Validator) ValidateDelete(callerID string, current *Vacation) Result {
	if current == nil {
		return failure(ReasonNotFound)
	}
	if current.UserID != callerID {
		return failure(ReasonUserUnauthorized)
	}
	today := generic.Today(v.Clock)
	if v.rangeClosed(current.Start, today) {
		return failure(ReasonRangeClosed)
	}
	if current.State == StateAccept && generic.DateOf(current.End).Before(today) {
		return failure(ReasonAlreadyAcceptedForPastPeriod)
	}
	return Result{Days: current.Days, Action: ActionDelete}
}

// validatePeriod runs the checks shared by create and update. skipID
// excludes the vacation being updated from the overlap check.
func (v *Validator) validatePeriod(ctx context.Context, req Request, user generic.User, existing []Vacation, skipID string) (Result, error) {
	start, end := generic.DateOf(req.Start), generic.DateOf(req.End)
	if end.Before(start) {
		return failure(ReasonInvalidDateRange), nil
	}
	if v.rangeClosed(start, generic.Today(v.Clock)) {
		return failure(ReasonRangeClosed), nil
	}
	if start.Before(generic.DateOf(user.HiringDate)) {
		return failure(ReasonBeforeHiringDate), nil
	}

	days, err := v.Accounting.Days(ctx, start, end)
	if err != nil {
		return Result{}, err
	}

	others := make([]Vacation, 0, len(existing))
	for _, e := range existing {
		if e.ID == skipID || e.UserID != req.UserID || !e.State.IsActive() {
			continue
		}
		if !e.Interval().Overlaps(generic.NewDateInterval(start, end)) {
			continue
		}
		others = append(others, e)
	}
	others, err = v.Accounting.WithDays(ctx, others)
	if err != nil {
		return Result{}, err
	}
	if overlaps(days, others) {
		return failure(ReasonRequestOverlaps), nil
	}

	if len(days) == 0 {
		return failure(ReasonRequestEmpty), nil
	}
	return Result{Days: days}, nil
}

// rangeClosed reports whether start lies more than one year before today.
func (v *Validator) rangeClosed(start, today time.Time) bool {
	return generic.DateOf(start).Before(today.AddDate(-1, 0, 0))
}

func overlaps(days []time.Time, others []Vacation) bool {
	taken := make(map[time.Time]struct{})
	for _, o := range others {
		for _, d := range o.Days {
			taken[generic.DateOf(d)] = struct{}{}
		}
	}
	for _, d := range days {
		if _, ok := taken[d]; ok {
			return true
		}
	}
	return false
}

package vacation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/store/memory"
	"github.com/warp/worktime-engine/vacation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// today is Wednesday 2023-03-01; requests before 2022-03-01 are closed.
var today = time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return generic.NewDate(year, month, d)
}

func march(d int) time.Time { return day(2023, time.March, d) }

func newValidator(t *testing.T, holidays ...generic.Holiday) *vacation.Validator {
	t.Helper()
	store := memory.New()
	for _, h := range holidays {
		require.NoError(t, store.SaveHoliday(context.Background(), h))
	}
	accounting := vacation.NewAccounting(generic.NewCalendarFactory(store), vacation.StaticAgreement{
		Strategy: vacation.FixedEntitlement{AnnualDays: 22},
	})
	return vacation.NewValidator(accounting, generic.FixedClock{At: today})
}

var employee = generic.User{ID: "u1", Name: "Ana", HiringDate: day(2022, time.January, 10)}

func request(userID string, start, end time.Time) vacation.Request {
	return vacation.Request{UserID: userID, Start: start, End: end}
}

// =============================================================================
// CREATE
// =============================================================================

func TestValidateCreate_OverlapIsPerUser(t *testing.T) {
	// GIVEN: An accepted vacation of u1 on March 15-16
	// WHEN: u1 and u2 request March 16-18
	// THEN: u1 overlaps, u2 gets Thursday and Friday

	v := newValidator(t)
	existing := []vacation.Vacation{{
		ID: "v1", UserID: "u1", State: vacation.StateAccept, ChargeYear: 2023,
		Start: march(15), End: march(16),
	}}

	res, err := v.ValidateCreate(context.Background(), request("u1", march(16), march(18)), employee, existing)
	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonRequestOverlaps, res.Reason)
	assert.False(t, res.Success())

	other := generic.User{ID: "u2", Name: "Marc", HiringDate: day(2021, time.June, 1)}
	res, err = v.ValidateCreate(context.Background(), request("u2", march(16), march(18)), other, existing)
	require.NoError(t, err)
	require.True(t, res.Success())
	assert.Equal(t, vacation.ActionCreate, res.Action)
	assert.Equal(t, []time.Time{march(16), march(17)}, res.Days)
}

func TestValidateCreate_InactiveVacationsDoNotOverlap(t *testing.T) {
	v := newValidator(t)

	for _, state := range []vacation.State{vacation.StateReject, vacation.StateCancelled} {
		existing := []vacation.Vacation{{ID: "v1", UserID: "u1", State: state, ChargeYear: 2023, Start: march(15), End: march(16)}}
		res, err := v.ValidateCreate(context.Background(), request("u1", march(16), march(16)), employee, existing)
		require.NoError(t, err)
		assert.True(t, res.Success(), string(state))
	}

	existing := []vacation.Vacation{{ID: "v1", UserID: "u1", State: vacation.StatePending, ChargeYear: 2023, Start: march(15), End: march(16)}}
	res, err := v.ValidateCreate(context.Background(), request("u1", march(16), march(16)), employee, existing)
	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonRequestOverlaps, res.Reason)
}

func TestValidateCreate_SharedWeekendIsNoOverlap(t *testing.T) {
	// Both periods contain Saturday 18 but no common workable day.
	v := newValidator(t)
	existing := []vacation.Vacation{{ID: "v1", UserID: "u1", State: vacation.StateAccept, ChargeYear: 2023, Start: march(18), End: march(19)}}

	res, err := v.ValidateCreate(context.Background(), request("u1", march(17), march(18)), employee, existing)

	require.NoError(t, err)
	require.True(t, res.Success())
	assert.Equal(t, []time.Time{march(17)}, res.Days)
}

func TestValidateCreate_SingleDay(t *testing.T) {
	v := newValidator(t, generic.Holiday{ID: "h1", Description: "Local festivity", Date: march(16)})
	ctx := context.Background()

	res, err := v.ValidateCreate(ctx, request("u1", march(20), march(20)), employee, nil)
	require.NoError(t, err)
	require.True(t, res.Success())
	assert.Equal(t, []time.Time{march(20)}, res.Days)

	res, err = v.ValidateCreate(ctx, request("u1", march(16), march(16)), employee, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Days)
	assert.Equal(t, vacation.ReasonRequestEmpty, res.Reason)

	res, err = v.ValidateCreate(ctx, request("u1", march(18), march(19)), employee, nil)
	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonRequestEmpty, res.Reason, "weekend only")
}

func TestValidateCreate_HolidayIsNotDebited(t *testing.T) {
	v := newValidator(t, generic.Holiday{ID: "h1", Description: "Local festivity", Date: march(16)})

	res, err := v.ValidateCreate(context.Background(), request("u1", march(13), march(17)), employee, nil)

	require.NoError(t, err)
	assert.Len(t, res.Days, 4)
	assert.NotContains(t, res.Days, march(16))
}

func TestValidateCreate_PeriodChecks(t *testing.T) {
	hiredInFebruary := generic.User{ID: "u1", Name: "Ana", HiringDate: day(2023, time.February, 1)}

	tests := []struct {
		name  string
		user  generic.User
		start time.Time
		end   time.Time
		want  vacation.Reason
	}{
		{"end before start", employee, march(20), march(17), vacation.ReasonInvalidDateRange},
		{"reversed beats closed", employee, day(2021, time.January, 10), day(2021, time.January, 5), vacation.ReasonInvalidDateRange},
		{"more than a year ago", employee, day(2022, time.February, 28), day(2022, time.March, 2), vacation.ReasonRangeClosed},
		{"exactly a year ago", employee, day(2022, time.March, 1), day(2022, time.March, 1), ""},
		{"before hiring", hiredInFebruary, day(2023, time.January, 30), day(2023, time.February, 3), vacation.ReasonBeforeHiringDate},
		{"on hiring date", hiredInFebruary, day(2023, time.February, 1), day(2023, time.February, 3), ""},
		{"next year", employee, day(2024, time.January, 2), day(2024, time.January, 5), ""},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateCreate(context.Background(), request(tt.user.ID, tt.start, tt.end), tt.user, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Reason)
		})
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func pendingVacation(id, userID string, start, end time.Time) *vacation.Vacation {
	return &vacation.Vacation{ID: id, UserID: userID, State: vacation.StatePending, ChargeYear: start.Year(), Start: start, End: end}
}

func TestValidateUpdate_Preconditions(t *testing.T) {
	v := newValidator(t)
	ctx := context.Background()
	req := vacation.Request{ID: "v1", UserID: "u1", Start: march(20), End: march(21)}

	res, err := v.ValidateUpdate(ctx, req, employee, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonNotFound, res.Reason)

	res, err = v.ValidateUpdate(ctx, req, employee, pendingVacation("v1", "u2", march(20), march(21)), nil)
	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonUserUnauthorized, res.Reason)

	accepted := pendingVacation("v1", "u1", march(20), march(21))
	accepted.State = vacation.StateAccept
	res, err = v.ValidateUpdate(ctx, req, employee, accepted, nil)
	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonAlreadyAccepted, res.Reason)
}

func TestValidateUpdate_Action(t *testing.T) {
	// GIVEN: A pending Monday-Tuesday vacation charged to 2023
	// WHEN: Moving it, extending it or charging it elsewhere
	// THEN: Same day count and year updates in place, anything else replaces

	v := newValidator(t)
	current := pendingVacation("v1", "u1", march(20), march(21))
	existing := []vacation.Vacation{*current}

	tests := []struct {
		name string
		req  vacation.Request
		want vacation.Action
	}{
		{"moved by one day", vacation.Request{ID: "v1", UserID: "u1", Start: march(21), End: march(22)}, vacation.ActionUpdateInPlace},
		{"description only", vacation.Request{ID: "v1", UserID: "u1", Start: march(20), End: march(21), Description: "Trip"}, vacation.ActionUpdateInPlace},
		{"extended", vacation.Request{ID: "v1", UserID: "u1", Start: march(20), End: march(22)}, vacation.ActionReplace},
		{"other charge year", vacation.Request{ID: "v1", UserID: "u1", Start: march(20), End: march(21), ChargeYear: 2022}, vacation.ActionReplace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateUpdate(context.Background(), tt.req, employee, current, existing)
			require.NoError(t, err)
			require.True(t, res.Success(), "reason %s", res.Reason)
			assert.Equal(t, tt.want, res.Action)
		})
	}
}

func TestValidateUpdate_OverlapWithOtherVacation(t *testing.T) {
	v := newValidator(t)
	current := pendingVacation("v1", "u1", march(20), march(21))
	existing := []vacation.Vacation{*current, *pendingVacation("v2", "u1", march(23), march(24))}

	res, err := v.ValidateUpdate(context.Background(),
		vacation.Request{ID: "v1", UserID: "u1", Start: march(21), End: march(23)}, employee, current, existing)

	require.NoError(t, err)
	assert.Equal(t, vacation.ReasonRequestOverlaps, res.Reason)
}

// =============================================================================
// DELETE
// =============================================================================

func TestValidateDelete(t *testing.T) {
	accepted := func(start, end time.Time) *vacation.Vacation {
		v := pendingVacation("v1", "u1", start, end)
		v.State = vacation.StateAccept
		return v
	}

	tests := []struct {
		name    string
		caller  string
		current *vacation.Vacation
		want    vacation.Reason
	}{
		{"missing", "u1", nil, vacation.ReasonNotFound},
		{"other user", "u2", pendingVacation("v1", "u1", march(20), march(21)), vacation.ReasonUserUnauthorized},
		{"other user and closed", "u2", pendingVacation("v1", "u1", day(2022, time.January, 10), day(2022, time.January, 11)), vacation.ReasonUserUnauthorized},
		{"closed", "u1", pendingVacation("v1", "u1", day(2022, time.February, 1), day(2022, time.February, 2)), vacation.ReasonRangeClosed},
		{"accepted in the past", "u1", accepted(day(2023, time.February, 20), day(2023, time.February, 21)), vacation.ReasonAlreadyAcceptedForPastPeriod},
		{"accepted ending today", "u1", accepted(day(2023, time.February, 27), march(1)), ""},
		{"accepted in the future", "u1", accepted(march(20), march(21)), ""},
		{"pending in the past", "u1", pendingVacation("v1", "u1", day(2023, time.February, 20), day(2023, time.February, 21)), ""},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateDelete(tt.caller, tt.current)
			assert.Equal(t, tt.want, res.Reason)
			if tt.want == "" {
				assert.Equal(t, vacation.ActionDelete, res.Action)
			}
		})
	}
}

// =============================================================================
// ERRORS
// =============================================================================

func TestResultErr_Categories(t *testing.T) {
	assert.NoError(t, vacation.Result{Action: vacation.ActionCreate}.Err())

	tests := []struct {
		reason   vacation.Reason
		category error
		client   bool
	}{
		{vacation.ReasonInvalidDateRange, vacation.ErrValidation, true},
		{vacation.ReasonRequestEmpty, vacation.ErrValidation, true},
		{vacation.ReasonNotFound, vacation.ErrVacationNotFound, false},
		{vacation.ReasonUserUnauthorized, vacation.ErrUnauthorized, false},
		{vacation.ReasonRequestOverlaps, vacation.ErrConflict, false},
		{vacation.ReasonAlreadyAcceptedForPastPeriod, vacation.ErrConflict, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			err := vacation.Result{Reason: tt.reason}.Err()

			assert.ErrorIs(t, err, vacation.ErrValidation)
			assert.ErrorIs(t, err, tt.category)
			assert.Equal(t, tt.client, vacation.IsClientError(err))
			assert.Contains(t, err.Error(), string(tt.reason))

			var verr *vacation.ValidationError
			require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &verr))
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}

	assert.True(t, vacation.IsClientError(fmt.Errorf("%w: ACCEPT to REJECT", vacation.ErrInvalidTransition)))
	assert.False(t, vacation.IsClientError(errors.New("disk full")))
}

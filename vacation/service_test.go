package vacation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/store/memory"
	"github.com/warp/worktime-engine/vacation"
)

func newService(t *testing.T) (*vacation.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return newServiceOn(t, store, store), store
}

func newServiceOn(t *testing.T, vacations vacation.Store, store *memory.Store) *vacation.Service {
	t.Helper()
	require.NoError(t, store.SaveUser(context.Background(), employee))
	require.NoError(t, store.SaveUser(context.Background(), generic.User{ID: "u2", Name: "Marc", HiringDate: day(2021, time.June, 1)}))
	accounting := vacation.NewAccounting(generic.NewCalendarFactory(store), vacation.StaticAgreement{
		Strategy: vacation.FixedEntitlement{AnnualDays: 22},
	})
	return vacation.NewService(vacations, store, accounting, generic.FixedClock{At: today})
}

// failingSaves rejects SaveVacation once err is set.
type failingSaves struct {
	*memory.Store
	err error
}

func (f *failingSaves) SaveVacation(ctx context.Context, v vacation.Vacation) error {
	if f.err != nil {
		return f.err
	}
	return f.Store.SaveVacation(ctx, v)
}

func create(t *testing.T, svc *vacation.Service, req vacation.Request) *vacation.Vacation {
	t.Helper()
	v, res, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success())
	return v
}

// =============================================================================
// CREATE / UPDATE / DELETE
// =============================================================================

func TestService_CreateStoresPendingVacation(t *testing.T) {
	svc, store := newService(t)

	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(24), Description: "Ski"})

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, vacation.StatePending, v.State)
	assert.Equal(t, 2023, v.ChargeYear)
	assert.Len(t, v.Days, 5)
	assert.Equal(t, today, v.CreatedAt)

	stored, err := store.GetVacation(context.Background(), v.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Ski", stored.Description)
}

func TestService_CreateRejectsOverlap(t *testing.T) {
	// GIVEN: An accepted vacation for u1 on March 15-16
	// WHEN: u1 then u2 request March 16-18
	// THEN: u1 gets VACATION_REQUEST_OVERLAPS, u2 succeeds

	svc, _ := newService(t)
	ctx := context.Background()
	first := create(t, svc, vacation.Request{UserID: "u1", Start: march(15), End: march(16)})
	_, err := svc.Review(ctx, first.ID, vacation.StateAccept)
	require.NoError(t, err)

	_, res, err := svc.Create(ctx, vacation.Request{UserID: "u1", Start: march(16), End: march(18)})
	assert.ErrorIs(t, err, vacation.ErrConflict)
	assert.Equal(t, vacation.ReasonRequestOverlaps, res.Reason)

	v, res, err := svc.Create(ctx, vacation.Request{UserID: "u2", Start: march(16), End: march(18)})
	require.NoError(t, err)
	assert.Equal(t, vacation.ActionCreate, res.Action)
	assert.Len(t, v.Days, 2)
}

func TestService_CreateForUnknownUser(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Create(context.Background(), vacation.Request{UserID: "ghost", Start: march(20), End: march(20)})

	assert.ErrorIs(t, err, generic.ErrUserNotFound)
}

func TestService_UpdateInPlaceKeepsID(t *testing.T) {
	svc, _ := newService(t)
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

	updated, res, err := svc.Update(context.Background(), vacation.Request{ID: v.ID, UserID: "u1", Start: march(21), End: march(22)})

	require.NoError(t, err)
	assert.Equal(t, vacation.ActionUpdateInPlace, res.Action)
	assert.Equal(t, v.ID, updated.ID)
	assert.Equal(t, march(21), updated.Start)
}

func TestService_UpdateReplaceIssuesNewID(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

	updated, res, err := svc.Update(ctx, vacation.Request{ID: v.ID, UserID: "u1", Start: march(20), End: march(24)})

	require.NoError(t, err)
	assert.Equal(t, vacation.ActionReplace, res.Action)
	assert.NotEqual(t, v.ID, updated.ID)
	assert.Len(t, updated.Days, 5)

	old, err := store.GetVacation(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestService_UpdateReplaceKeepsOldRecordWhenSaveFails(t *testing.T) {
	// GIVEN: A pending vacation and a store that stops accepting saves
	// WHEN: Extending it, which replaces the record
	// THEN: The error is returned and the original vacation is still stored

	store := &failingSaves{Store: memory.New()}
	svc := newServiceOn(t, store, store.Store)
	ctx := context.Background()
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

	store.err = errors.New("disk full")
	_, res, err := svc.Update(ctx, vacation.Request{ID: v.ID, UserID: "u1", Start: march(20), End: march(24)})

	require.Error(t, err)
	assert.Equal(t, vacation.ActionReplace, res.Action)

	old, err := store.GetVacation(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.Equal(t, march(21), old.End)
}

func TestService_UpdateKeepsState(t *testing.T) {
	// GIVEN: A cancelled vacation
	// WHEN: Editing its dates
	// THEN: It stays cancelled and debits nothing

	svc, _ := newService(t)
	ctx := context.Background()
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})
	_, err := svc.Review(ctx, v.ID, vacation.StateCancelled)
	require.NoError(t, err)

	updated, res, err := svc.Update(ctx, vacation.Request{ID: v.ID, UserID: "u1", Start: march(20), End: march(24)})
	require.NoError(t, err)
	assert.Equal(t, vacation.ActionReplace, res.Action)
	assert.Equal(t, vacation.StateCancelled, updated.State)

	summary, err := svc.Summary(ctx, "u1", 2023)
	require.NoError(t, err)
	assert.Zero(t, summary.Requested)

	// A pending vacation edited in place stays pending.
	p := create(t, svc, vacation.Request{UserID: "u1", Start: march(27), End: march(28)})
	updated, res, err = svc.Update(ctx, vacation.Request{ID: p.ID, UserID: "u1", Start: march(28), End: march(29)})
	require.NoError(t, err)
	assert.Equal(t, vacation.ActionUpdateInPlace, res.Action)
	assert.Equal(t, vacation.StatePending, updated.State)
}

func TestService_UpdateErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

	_, res, err := svc.Update(ctx, vacation.Request{ID: "missing", UserID: "u1", Start: march(20), End: march(21)})
	assert.ErrorIs(t, err, vacation.ErrVacationNotFound)
	assert.Equal(t, vacation.ReasonNotFound, res.Reason)

	_, _, err = svc.Update(ctx, vacation.Request{ID: v.ID, UserID: "u2", Start: march(20), End: march(21)})
	assert.ErrorIs(t, err, vacation.ErrUnauthorized)

	_, err = svc.Review(ctx, v.ID, vacation.StateAccept)
	require.NoError(t, err)
	_, res, err = svc.Update(ctx, vacation.Request{ID: v.ID, UserID: "u1", Start: march(21), End: march(22)})
	assert.ErrorIs(t, err, vacation.ErrConflict)
	assert.Equal(t, vacation.ReasonAlreadyAccepted, res.Reason)
}

func TestService_Delete(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

	_, err := svc.Delete(ctx, "u2", v.ID)
	assert.ErrorIs(t, err, vacation.ErrUnauthorized)

	res, err := svc.Delete(ctx, "u1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, vacation.ActionDelete, res.Action)

	gone, err := store.GetVacation(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = svc.Delete(ctx, "u1", v.ID)
	assert.ErrorIs(t, err, vacation.ErrVacationNotFound)
}

// =============================================================================
// REVIEW
// =============================================================================

func TestService_ReviewTransitions(t *testing.T) {
	tests := []struct {
		name  string
		steps []vacation.State
		ok    bool
	}{
		{"accept pending", []vacation.State{vacation.StateAccept}, true},
		{"reject pending", []vacation.State{vacation.StateReject}, true},
		{"cancel pending", []vacation.State{vacation.StateCancelled}, true},
		{"cancel accepted", []vacation.State{vacation.StateAccept, vacation.StateCancelled}, true},
		{"reject accepted", []vacation.State{vacation.StateAccept, vacation.StateReject}, false},
		{"accept rejected", []vacation.State{vacation.StateReject, vacation.StateAccept}, false},
		{"cancel cancelled", []vacation.State{vacation.StateCancelled, vacation.StateCancelled}, false},
		{"back to pending", []vacation.State{vacation.StatePending}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

			var err error
			var reviewed *vacation.Vacation
			for _, state := range tt.steps {
				reviewed, err = svc.Review(context.Background(), v.ID, state)
				if err != nil {
					break
				}
			}

			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.steps[len(tt.steps)-1], reviewed.State)
			} else {
				assert.ErrorIs(t, err, vacation.ErrInvalidTransition)
				assert.True(t, vacation.IsClientError(err))
			}
		})
	}
}

func TestService_ReviewMissingVacation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Review(context.Background(), "missing", vacation.StateAccept)

	assert.ErrorIs(t, err, vacation.ErrVacationNotFound)
}

func TestService_CancelledVacationFreesDays(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	v := create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})
	_, err := svc.Review(ctx, v.ID, vacation.StateCancelled)
	require.NoError(t, err)

	_, res, err := svc.Create(ctx, vacation.Request{UserID: "u1", Start: march(20), End: march(21)})

	require.NoError(t, err)
	assert.True(t, res.Success())
}

// =============================================================================
// LIST / SUMMARY
// =============================================================================

func TestService_Summary(t *testing.T) {
	// GIVEN: 22 days a year, 2 accepted and 3 pending days charged to 2023,
	//        one rejected day and 3 days in December charged to 2024
	// WHEN: Summarizing 2023 and 2024
	// THEN: Only active vacations of the charge year are debited

	svc, _ := newService(t)
	ctx := context.Background()

	accepted := create(t, svc, vacation.Request{UserID: "u1", Start: march(15), End: march(16)})
	_, err := svc.Review(ctx, accepted.ID, vacation.StateAccept)
	require.NoError(t, err)
	create(t, svc, vacation.Request{UserID: "u1", Start: march(20), End: march(22)})
	rejected := create(t, svc, vacation.Request{UserID: "u1", Start: day(2023, time.April, 3), End: day(2023, time.April, 3)})
	_, err = svc.Review(ctx, rejected.ID, vacation.StateReject)
	require.NoError(t, err)
	create(t, svc, vacation.Request{UserID: "u1", Start: day(2023, time.December, 27), End: day(2023, time.December, 29), ChargeYear: 2024})

	summary, err := svc.Summary(ctx, "u1", 2023)
	require.NoError(t, err)
	assert.Equal(t, vacation.Summary{Year: 2023, Earned: 22, Accepted: 2, Pending: 3, Requested: 5, Remaining: 17}, summary)

	next, err := svc.Summary(ctx, "u1", 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Requested)
	assert.Equal(t, 19, next.Remaining)

	list, err := svc.List(ctx, "u1", 2023)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for _, v := range list {
		assert.NotNil(t, v.Days, "days are resolved for %s", v.ID)
	}

	other, err := svc.Summary(ctx, "u2", 2023)
	require.NoError(t, err)
	assert.Equal(t, 22, other.Remaining)
}

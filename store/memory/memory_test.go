package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/store/memory"
	"github.com/warp/worktime-engine/vacation"
	"github.com/warp/worktime-engine/worktime"
)

func TestStore_CountsHolidayQueries(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{ID: "h1", Date: generic.NewDate(2023, time.March, 16)}))

	_, err := generic.NewCalendarFactory(store).Build(ctx, generic.YearInterval(2023))
	require.NoError(t, err)

	assert.Equal(t, 1, store.HolidayQueries())
}

func TestStore_ZeroLengthActivityMatchesItsStart(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	role := worktime.ProjectRole{ID: "dev", TimeUnit: generic.TimeUnitMinutes}
	at := time.Date(2023, time.April, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveActivity(ctx, worktime.Activity{ID: "a1", UserID: "u1", Role: role, Start: at, End: at}))

	got, err := store.FindActivities(ctx, "u1", generic.NewDate(2023, time.April, 3), generic.NewDate(2023, time.April, 4))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.FindActivities(ctx, "u1", generic.NewDate(2023, time.April, 2), at)
	require.NoError(t, err)
	assert.Empty(t, got, "range end is exclusive")
}

func TestStore_Reset(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{ID: "h1", Date: generic.NewDate(2023, time.March, 16)}))
	require.NoError(t, store.SaveVacation(ctx, vacation.Vacation{ID: "v1", UserID: "u1"}))

	require.NoError(t, store.Reset(ctx, false))

	v, err := store.GetVacation(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, v)
	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, holidays, 1)

	require.NoError(t, store.Reset(ctx, true))
	holidays, err = store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}

package generic_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/generic"
)

func TestDuration_Minutes(t *testing.T) {
	start := time.Date(2023, time.April, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want generic.Minutes
	}{
		{"same instant", start, 0},
		{"eight hours", start.Add(8 * time.Hour), 480},
		{"partial minute truncated", start.Add(150 * time.Second), 2},
		{"reversed", start.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generic.Duration(start, tt.end, generic.TimeUnitMinutes))
		})
	}
}

func TestDuration_ZeroForAnyInstantAndUnit(t *testing.T) {
	instants := []time.Time{
		date(2023, time.April, 3),
		time.Date(2023, time.April, 3, 13, 37, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC),
	}
	for _, ts := range instants {
		assert.Equal(t, generic.Minutes(0), generic.Duration(ts, ts, generic.TimeUnitMinutes))
		assert.Equal(t, generic.Minutes(0), generic.Duration(ts, ts, generic.TimeUnitDays))
		assert.Equal(t, generic.Minutes(0), generic.Duration(ts, ts, generic.TimeUnitNaturalDays))
	}
}

func TestDuration_Days(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		unit       generic.TimeUnit
		want       generic.Minutes
	}{
		{
			name:  "midnight to midnight on a weekday is one day",
			start: date(2023, time.April, 3), end: date(2023, time.April, 4),
			unit: generic.TimeUnitDays, want: 480,
		},
		{
			name:  "whole day ending 23:59",
			start: date(2023, time.April, 3), end: time.Date(2023, time.April, 3, 23, 59, 0, 0, time.UTC),
			unit: generic.TimeUnitDays, want: 480,
		},
		{
			name:  "office hours on one day count nothing",
			start: time.Date(2023, time.April, 3, 9, 0, 0, 0, time.UTC), end: time.Date(2023, time.April, 3, 17, 0, 0, 0, time.UTC),
			unit: generic.TimeUnitDays, want: 0,
		},
		{
			name:  "full week skips the weekend",
			start: date(2023, time.April, 3), end: time.Date(2023, time.April, 9, 23, 59, 59, 0, time.UTC),
			unit: generic.TimeUnitDays, want: 5 * 480,
		},
		{
			name:  "natural days include the weekend",
			start: date(2023, time.April, 3), end: time.Date(2023, time.April, 9, 23, 59, 59, 0, time.UTC),
			unit: generic.TimeUnitNaturalDays, want: 7 * 480,
		},
		{
			name:  "saturday alone is not workable",
			start: date(2023, time.April, 8), end: date(2023, time.April, 9),
			unit: generic.TimeUnitDays, want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generic.Duration(tt.start, tt.end, tt.unit))
		})
	}
}

func TestDurationCalculator_HolidaysReduceDays(t *testing.T) {
	// GIVEN: A holiday on Thursday 2023-03-16
	// WHEN: Logging Wed 15 to Fri 17 as DAYS and NATURAL_DAYS
	// THEN: DAYS skips the holiday, NATURAL_DAYS does not

	source := &holidaySource{holidays: []generic.Holiday{{ID: "h", Date: date(2023, time.March, 16)}}}
	dc := generic.NewDurationCalculator(generic.NewCalendarFactory(source))
	ctx := context.Background()

	start, end := date(2023, time.March, 15), date(2023, time.March, 18)

	days, err := dc.Duration(ctx, start, end, generic.TimeUnitDays)
	require.NoError(t, err)
	assert.Equal(t, generic.Minutes(2*480), days)
	assert.Equal(t, 1, source.queries)

	natural, err := dc.Duration(ctx, start, end, generic.TimeUnitNaturalDays)
	require.NoError(t, err)
	assert.Equal(t, generic.Minutes(3*480), natural)
	assert.Equal(t, 1, source.queries, "natural days need no holiday lookup")
}

func TestDurationByCountingDays(t *testing.T) {
	start := time.Date(2023, time.April, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(150 * time.Minute)

	assert.Equal(t, generic.Minutes(3*480), generic.DurationByCountingDays(start, end, generic.TimeUnitDays, 3))
	assert.Equal(t, generic.Minutes(0), generic.DurationByCountingDays(start, end, generic.TimeUnitNaturalDays, -1))
	assert.Equal(t, generic.Minutes(150), generic.DurationByCountingDays(start, end, generic.TimeUnitMinutes, 3))
}

func TestMinutes_HoursRoundedToTwoPlaces(t *testing.T) {
	tests := []struct {
		minutes generic.Minutes
		want    string
	}{
		{480, "8"},
		{90, "1.5"},
		{1, "0.02"},
		{20, "0.33"},
		{3, "0.05"},
		{-30, "-0.5"},
	}
	for _, tt := range tests {
		assert.True(t, decimal.RequireFromString(tt.want).Equal(tt.minutes.Hours()),
			"%d minutes: got %s, want %s", tt.minutes, tt.minutes.Hours(), tt.want)
	}

	assert.Equal(t, generic.Minutes(480), generic.MinutesPerDay)
	assert.True(t, decimal.NewFromInt(generic.HoursPerDay).Equal(generic.MinutesPerDay.Hours()))
	assert.True(t, decimal.NewFromInt(1).Equal(generic.MinutesPerHour.Hours()))
}

func TestParseTimeUnit(t *testing.T) {
	unit, err := generic.ParseTimeUnit("NATURAL_DAYS")
	require.NoError(t, err)
	assert.Equal(t, generic.TimeUnitNaturalDays, unit)
	assert.True(t, unit.IsDayBased())

	_, err = generic.ParseTimeUnit("weeks")
	assert.ErrorIs(t, err, generic.ErrUnknownTimeUnit)
	assert.True(t, generic.IsClientError(err))
}

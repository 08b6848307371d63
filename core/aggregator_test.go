package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventOn(id string, start time.Time, end time.Time) Event {
	return Event{Id: id, Title: id, StartTime: start, EndTime: end}
}

func TestBuildDaily(t *testing.T) {
	t.Parallel()

	events := []Event{
		eventOn("congreso", at(1, 18), at(3, 10)),
		eventOn("clase", at(2, 9), at(2, 10)),
		eventOn("otro", at(5, 9), at(5, 10)),
	}

	daily := BuildDaily(Date(2025, time.October, 2), events, time.UTC)

	assert.Equal(t, Date(2025, time.October, 2), daily.Date)
	require.Len(t, daily.Events, 2)
	assert.Equal(t, "congreso", daily.Events[0].Id)
	assert.Equal(t, "clase", daily.Events[1].Id)
}

func TestBuildWeekly(t *testing.T) {
	t.Parallel()

	events := []Event{
		eventOn("lunes", at(13, 9), at(13, 10)),
		eventOn("martes-miercoles", at(14, 20), at(15, 8)),
	}

	weekly, err := BuildWeekly(2025, 42, events, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, Date(2025, time.October, 13), weekly.Start)
	assert.Equal(t, Date(2025, time.October, 19), weekly.End)
	require.Len(t, weekly.Days, 7)
	assert.Len(t, weekly.Days[0].Events, 1)
	assert.Len(t, weekly.Days[1].Events, 1)
	assert.Len(t, weekly.Days[2].Events, 1)
	assert.Empty(t, weekly.Days[6].Events)
	assert.Equal(t, []int{2025, 41, 2025, 43}, []int{weekly.PrevYear, weekly.PrevWeek, weekly.NextYear, weekly.NextWeek})

	last, err := BuildWeekly(2025, 52, nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 1}, []int{last.NextYear, last.NextWeek})

	_, err = BuildWeekly(2025, 54, nil, time.UTC)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestBuildMonthly(t *testing.T) {
	t.Parallel()

	events := []Event{
		eventOn("septiembre-octubre", time.Date(2025, time.September, 30, 9, 0, 0, 0, time.UTC), at(1, 10)),
		eventOn("octubre", at(20, 9), at(20, 10)),
		eventOn("noviembre", time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC), time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)),
	}

	monthly, err := BuildMonthly(2025, 10, events, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "Octubre", monthly.MonthName)
	assert.Len(t, monthly.Weeks, 5)
	require.Len(t, monthly.Events, 2)
	assert.Equal(t, "septiembre-octubre", monthly.Events[0].Id)

	_, err = BuildMonthly(2025, 13, events, time.UTC)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestBuildYearly(t *testing.T) {
	t.Parallel()

	day := func(month time.Month, d int, hour int) time.Time {
		return time.Date(2025, month, d, hour, 0, 0, 0, time.UTC)
	}

	events := []Event{
		eventOn("fin-enero", day(time.January, 30, 9), day(time.February, 2, 9)),
		eventOn("marzo-1", day(time.March, 3, 9), day(time.March, 3, 10)),
		eventOn("marzo-2", day(time.March, 10, 9), day(time.March, 10, 10)),
		eventOn("julio-1", day(time.July, 1, 9), day(time.July, 1, 10)),
		eventOn("julio-2", day(time.July, 2, 9), day(time.July, 2, 10)),
	}

	yearly, err := BuildYearly(2025, events, time.UTC)
	require.NoError(t, err)

	require.Len(t, yearly.Months, 12)
	assert.Equal(t, 1, yearly.Months[0].Count)
	assert.Equal(t, 1, yearly.Months[1].Count)
	assert.Equal(t, 6, yearly.TotalEvents)
	assert.Equal(t, 4, yearly.MonthsWithEvents)
	assert.Equal(t, 2, yearly.MaxMonthEvents)
	assert.Equal(t, "Marzo", yearly.BusiestMonth)
	assert.Equal(t, "Ene", yearly.Months[0].ShortName)
	assert.Equal(t, "Sep", yearly.Months[8].ShortName)
}

func TestBuildYearly_Empty(t *testing.T) {
	t.Parallel()

	yearly, err := BuildYearly(2025, nil, time.UTC)
	require.NoError(t, err)

	assert.Zero(t, yearly.TotalEvents)
	assert.Zero(t, yearly.MaxMonthEvents)
	assert.Zero(t, yearly.MonthsWithEvents)
	assert.Empty(t, yearly.BusiestMonth)

	for _, month := range yearly.Months {
		assert.NotNil(t, month.Events)
	}

	_, err = BuildYearly(0, nil, time.UTC)
	require.ErrorIs(t, err, ErrInvalidDate)
}

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Span(t *testing.T) {
	t.Parallel()

	event := Event{
		Title:     "Congreso",
		StartTime: time.Date(2025, time.October, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.October, 3, 10, 0, 0, 0, time.UTC),
	}

	assert.True(t, event.IsMultiDay(time.UTC))
	assert.Equal(t, 3, event.DurationDays(time.UTC))

	tests := []struct {
		date time.Time
		want bool
	}{
		{Date(2025, time.September, 30), false},
		{Date(2025, time.October, 1), true},
		{Date(2025, time.October, 2), true},
		{Date(2025, time.October, 3), true},
		{Date(2025, time.October, 4), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, event.OccursOn(tt.date, time.UTC), tt.date.Format(time.DateOnly))
	}
}

func TestEvent_SingleDay(t *testing.T) {
	t.Parallel()

	event := Event{
		StartTime: time.Date(2025, time.October, 2, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.October, 2, 10, 0, 0, 0, time.UTC),
	}

	assert.False(t, event.IsMultiDay(time.UTC))
	assert.Equal(t, 1, event.DurationDays(time.UTC))
	assert.True(t, event.OccursOn(time.Date(2025, time.October, 2, 23, 59, 0, 0, time.UTC), time.UTC))
}

func TestEvent_DisplayZone(t *testing.T) {
	t.Parallel()

	santiago, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	// 22:30 on Oct 1 in Santiago is already Oct 2 in UTC.
	event := Event{
		StartTime: time.Date(2025, time.October, 2, 1, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.October, 2, 2, 30, 0, 0, time.UTC),
	}

	assert.True(t, event.OccursOn(Date(2025, time.October, 1), santiago))
	assert.False(t, event.OccursOn(Date(2025, time.October, 2), santiago))
	assert.True(t, event.OccursOn(Date(2025, time.October, 2), time.UTC))
}

func TestIdentity_IsAuthenticated(t *testing.T) {
	t.Parallel()

	assert.False(t, Identity{}.IsAuthenticated())
	assert.True(t, Identity{UserId: "u1"}.IsAuthenticated())
}

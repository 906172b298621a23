package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-01-06 is a Monday.
var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func TestFindOptimalTimePicksBestBucketOnEarliestDay(t *testing.T) {
	// Twitter's top Monday bucket is 9:00.
	got, err := FindOptimalTime("twitter", monday, SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, monday.Add(9*time.Hour), got)
}

func TestFindOptimalTimeIsStrictlyAfter(t *testing.T) {
	// Starting exactly on the 9:00 bucket moves to Monday's next bucket.
	got, err := FindOptimalTime("twitter", monday.Add(9*time.Hour), SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, monday.Add(15*time.Hour), got)
}

func TestFindOptimalTimeFallsBackToNextDay(t *testing.T) {
	// With no engagement buckets at all the search degrades to +24h.
	after := monday.Add(10 * time.Hour)
	got, err := FindOptimalTime("twitter", after, SearchOptions{
		BestTimes: []OptimalPostingTime{},
	})
	require.NoError(t, err)

	assert.Equal(t, after.Add(24*time.Hour), got)
}

func TestFindOptimalTimeSkipsAvoidWindow(t *testing.T) {
	got, err := FindOptimalTime("twitter", monday, SearchOptions{
		AvoidWindows: []AvoidWindow{{StartHour: 8, StartMinute: 0, EndHour: 10, EndMinute: 0}},
	})
	require.NoError(t, err)

	// Monday 9:00 sits inside the window; the retry lands on Monday 15:00.
	assert.Equal(t, monday.Add(15*time.Hour), got)
}

func TestFindOptimalTimeAvoidWindowBoundsAreInclusive(t *testing.T) {
	got, err := FindOptimalTime("twitter", monday, SearchOptions{
		AvoidWindows: []AvoidWindow{{StartHour: 9, StartMinute: 0, EndHour: 9, EndMinute: 0}},
	})
	require.NoError(t, err)

	assert.NotEqual(t, monday.Add(9*time.Hour), got)
}

func TestFindOptimalTimeRespectsMinGap(t *testing.T) {
	occupied := NewReservationSet(monday.Add(9 * time.Hour))

	got, err := FindOptimalTime("twitter", monday, SearchOptions{
		MinGapHours: 2,
		Occupied:    occupied,
	})
	require.NoError(t, err)

	assert.Equal(t, monday.Add(15*time.Hour), got)
}

func TestFindOptimalTimeGivesUpWhenNothingFits(t *testing.T) {
	// An all-day avoid window leaves no candidate, ever.
	_, err := FindOptimalTime("twitter", monday, SearchOptions{
		AvoidWindows: []AvoidWindow{{StartHour: 0, StartMinute: 0, EndHour: 23, EndMinute: 59}},
	})

	assert.ErrorIs(t, err, ErrNoAvailableSlot)
}

func TestFindOptimalTimeCustomBestTimesOverrideTable(t *testing.T) {
	got, err := FindOptimalTime("twitter", monday, SearchOptions{
		BestTimes: []OptimalPostingTime{{Day: 1, Hour: 20, Score: 0.5}},
	})
	require.NoError(t, err)

	assert.Equal(t, monday.Add(20*time.Hour), got)
}

func TestFindOptimalTimeUnknownPlatformUsesDefaultTable(t *testing.T) {
	// Instagram's Monday bucket is 11:00.
	got, err := FindOptimalTime("threads", monday, SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, monday.Add(11*time.Hour), got)
}

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestTimesForKnownPlatform(t *testing.T) {
	times := BestTimesFor("twitter")
	require.NotEmpty(t, times)

	assert.Equal(t, OptimalPostingTime{Day: 1, Hour: 9, Score: 0.92}, times[0])
}

func TestBestTimesForReturnsCopy(t *testing.T) {
	times := BestTimesFor("linkedin")
	require.NotEmpty(t, times)

	times[0] = OptimalPostingTime{Day: 0, Hour: 0, Score: 0}

	fresh := BestTimesFor("linkedin")
	assert.Equal(t, OptimalPostingTime{Day: 2, Hour: 10, Score: 0.91}, fresh[0])
}

func TestBestTimesForUnknownPlatformFallsBack(t *testing.T) {
	unknown := BestTimesFor("threads")
	fallback := BestTimesFor(DefaultPlatform)

	assert.Equal(t, fallback, unknown)
}

func TestMaxPostsPerDay(t *testing.T) {
	assert.Equal(t, 5, MaxPostsPerDay("twitter"))
	assert.Equal(t, 1, MaxPostsPerDay("youtube"))

	// unknown platform borrows the default cap
	assert.Equal(t, MaxPostsPerDay(DefaultPlatform), MaxPostsPerDay("threads"))
}

func TestRecommendedWeeklyFrequency(t *testing.T) {
	assert.Equal(t, 14, RecommendedWeeklyFrequency("twitter"))
	assert.Equal(t, 3, RecommendedWeeklyFrequency("linkedin"))
	assert.Equal(t, RecommendedWeeklyFrequency(DefaultPlatform), RecommendedWeeklyFrequency("threads"))
}

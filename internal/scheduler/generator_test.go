package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekConfig(platforms ...string) *Config {
	return &Config{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 7),
		Platforms: platforms,
	}
}

func TestGenerateScheduleValidation(t *testing.T) {
	items := []ContentItem{{ID: "a", Platforms: []string{"twitter"}}}

	_, err := GenerateSchedule(nil, items, nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = GenerateSchedule(weekConfig("twitter"), nil, nil)
	assert.ErrorIs(t, err, ErrNoContentItems)

	_, err = GenerateSchedule(weekConfig(), items, nil)
	assert.ErrorIs(t, err, ErrNoPlatforms)
}

func TestGenerateScheduleInvalidTimezone(t *testing.T) {
	cfg := weekConfig("twitter")
	cfg.Timezone = "Mars/Olympus"

	_, err := GenerateSchedule(cfg, []ContentItem{{ID: "a", Platforms: []string{"twitter"}}}, nil)
	assert.Error(t, err)
}

func TestGenerateScheduleBalancedSpreadsAcrossSpan(t *testing.T) {
	items := []ContentItem{
		{ID: "a", Platforms: []string{"twitter"}},
		{ID: "b", Platforms: []string{"twitter"}},
		{ID: "c", Platforms: []string{"twitter"}},
	}

	entries, err := GenerateSchedule(weekConfig("twitter"), items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// 3 items over 7 days step every third day: Monday, Thursday, Sunday.
	assert.Equal(t, monday.Add(9*time.Hour), entries[0].ScheduledTime)
	assert.Equal(t, monday.AddDate(0, 0, 3).Add(17*time.Hour), entries[1].ScheduledTime)
	assert.Equal(t, monday.AddDate(0, 0, 6).Add(19*time.Hour), entries[2].ScheduledTime)

	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].ScheduledTime.Before(entries[i].ScheduledTime))
	}
}

func TestGenerateScheduleBalancedHonorsMinGapSameDay(t *testing.T) {
	cfg := &Config{
		StartDate:   monday,
		EndDate:     monday.AddDate(0, 0, 1),
		Platforms:   []string{"twitter"},
		MinGapHours: 4,
	}
	items := []ContentItem{
		{ID: "a", Platforms: []string{"twitter"}},
		{ID: "b", Platforms: []string{"twitter"}},
	}

	entries, err := GenerateSchedule(cfg, items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The second placement skips 9:00 and lands on the later Monday bucket.
	assert.Equal(t, monday.Add(9*time.Hour), entries[0].ScheduledTime)
	assert.Equal(t, monday.Add(15*time.Hour), entries[1].ScheduledTime)
}

func TestGenerateScheduleBalancedHigherPriorityFirst(t *testing.T) {
	items := []ContentItem{
		{ID: "low", Platforms: []string{"twitter"}, Priority: 3},
		{ID: "high", Platforms: []string{"twitter"}, Priority: 9},
	}

	cfg := &Config{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 4),
		Platforms: []string{"twitter"},
	}

	entries, err := GenerateSchedule(cfg, items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Earliest slot goes to the highest priority item.
	assert.Equal(t, "high", entries[0].ContentID)
	assert.Equal(t, "low", entries[1].ContentID)
}

func TestGenerateScheduleBalancedNoonFallback(t *testing.T) {
	// Only Monday buckets exist, so a Tuesday-only span cannot hit one and
	// the day's quota falls back to local noon.
	tuesday := monday.AddDate(0, 0, 1)
	cfg := &Config{
		StartDate: tuesday,
		EndDate:   tuesday.AddDate(0, 0, 1),
		Platforms: []string{"twitter"},
		OptimalTimes: map[string][]OptimalPostingTime{
			"twitter": {{Day: 1, Hour: 9, Score: 0.9}},
		},
	}

	entries, err := GenerateSchedule(cfg, []ContentItem{{ID: "a", Platforms: []string{"twitter"}}}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, tuesday.Add(12*time.Hour), entries[0].ScheduledTime)
}

func TestGenerateScheduleBalancedNoonFallbackKeepsMinGap(t *testing.T) {
	// With an 8h gap the second placement's search escapes the single-day
	// span, and noon sits only 3h from the 9:00 placement. The day must give
	// up the slot rather than break the gap.
	cfg := &Config{
		StartDate:   monday,
		EndDate:     monday.AddDate(0, 0, 1),
		Platforms:   []string{"twitter"},
		MinGapHours: 8,
	}
	items := []ContentItem{
		{ID: "a", Platforms: []string{"twitter"}},
		{ID: "b", Platforms: []string{"twitter"}},
	}

	entries, err := GenerateSchedule(cfg, items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, monday.Add(9*time.Hour), entries[0].ScheduledTime)
}

func TestGenerateScheduleBalancedNoonFallbackRespectsAvoidWindows(t *testing.T) {
	// Monday-only buckets force the Tuesday span onto the noon fallback, and
	// an avoid window over midday forbids it. Nothing gets placed.
	tuesday := monday.AddDate(0, 0, 1)
	cfg := &Config{
		StartDate: tuesday,
		EndDate:   tuesday.AddDate(0, 0, 1),
		Platforms: []string{"twitter"},
		OptimalTimes: map[string][]OptimalPostingTime{
			"twitter": {{Day: 1, Hour: 9, Score: 0.9}},
		},
		AvoidWindows: map[string][]AvoidWindow{
			"twitter": {{StartHour: 11, StartMinute: 0, EndHour: 13, EndMinute: 0}},
		},
	}

	entries, err := GenerateSchedule(cfg, []ContentItem{{ID: "a", Platforms: []string{"twitter"}}}, nil)
	require.NoError(t, err)

	assert.Empty(t, entries)
}

func TestGenerateScheduleSeedsFromOccupied(t *testing.T) {
	cfg := &Config{
		StartDate:   monday,
		EndDate:     monday.AddDate(0, 0, 1),
		Platforms:   []string{"twitter"},
		MinGapHours: 2,
	}

	occupied := NewReservationSet(monday.Add(9 * time.Hour))
	entries, err := GenerateSchedule(cfg, []ContentItem{{ID: "a", Platforms: []string{"twitter"}}}, occupied)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Pre-existing 9:00 reservation pushes the placement later.
	assert.Equal(t, monday.Add(15*time.Hour), entries[0].ScheduledTime)
	assert.Equal(t, 2, occupied.Len())
}

func TestGenerateScheduleConcentratedGroupsThemes(t *testing.T) {
	cfg := weekConfig("twitter")
	cfg.Strategy = StrategyConcentrated

	items := []ContentItem{
		{ID: "a1", Platforms: []string{"twitter"}, Theme: "launch"},
		{ID: "a2", Platforms: []string{"twitter"}, Theme: "launch"},
		{ID: "b1", Platforms: []string{"twitter"}, Theme: "tips"},
	}

	entries, err := GenerateSchedule(cfg, items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ContentID] = e
	}

	assert.Contains(t, byID["a1"].Rationale, "launch")
	assert.Contains(t, byID["b1"].Rationale, "tips")

	// Theme groups stay separated on the calendar.
	launchEnd := byID["a1"].ScheduledTime
	if byID["a2"].ScheduledTime.After(launchEnd) {
		launchEnd = byID["a2"].ScheduledTime
	}
	assert.True(t, byID["b1"].ScheduledTime.After(launchEnd.Add(themeSeparation)))
}

func TestGenerateScheduleConcentratedUntaggedItemsShareDefaultTheme(t *testing.T) {
	cfg := weekConfig("twitter")
	cfg.Strategy = StrategyConcentrated

	items := []ContentItem{
		{ID: "a", Platforms: []string{"twitter"}},
		{ID: "b", Platforms: []string{"twitter"}},
	}

	entries, err := GenerateSchedule(cfg, items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.True(t, strings.Contains(e.Rationale, "default"), "rationale: %s", e.Rationale)
	}
}

func TestGenerateSchedulePlatformPriorityPlacesEachItemOnce(t *testing.T) {
	cfg := weekConfig("twitter", "linkedin")
	cfg.Strategy = StrategyPlatformPriority
	cfg.PriorityPlatforms = []string{"twitter"}

	items := []ContentItem{
		{ID: "both", Platforms: []string{"twitter", "linkedin"}},
		{ID: "li-only", Platforms: []string{"linkedin"}},
	}

	entries, err := GenerateSchedule(cfg, items, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		_, dup := seen[e.ContentID]
		assert.False(t, dup, "item %s placed twice", e.ContentID)
		seen[e.ContentID] = e.Platform
	}

	assert.Equal(t, "twitter", seen["both"])
	assert.Equal(t, "linkedin", seen["li-only"])
}

func TestGenerateScheduleAppliesTimezone(t *testing.T) {
	cfg := weekConfig("twitter")
	cfg.Timezone = "America/New_York"

	entries, err := GenerateSchedule(cfg, []ContentItem{{ID: "a", Platforms: []string{"twitter"}}}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	loc, _ := time.LoadLocation("America/New_York")
	assert.Equal(t, loc.String(), entries[0].ScheduledTime.Location().String())
	assert.NotEmpty(t, entries[0].DisplayTime)
}

package scheduler

import "log/slog"

// OptimalPostingTime is a scored engagement bucket. Day follows time.Weekday
// numbering (0 = Sunday), Hour is 0-23, Score is 0-1 with higher being better.
type OptimalPostingTime struct {
	Day   int     `json:"day"`
	Hour  int     `json:"hour"`
	Score float64 `json:"score"`
}

// DefaultPlatform is the table used for platforms we have no engagement data for.
const DefaultPlatform = "instagram"

var optimalTimes = map[string][]OptimalPostingTime{
	"instagram": {
		{Day: 1, Hour: 11, Score: 0.85},
		{Day: 2, Hour: 14, Score: 0.90},
		{Day: 3, Hour: 11, Score: 0.88},
		{Day: 4, Hour: 15, Score: 0.82},
		{Day: 5, Hour: 10, Score: 0.80},
		{Day: 6, Hour: 12, Score: 0.72},
		{Day: 0, Hour: 13, Score: 0.68},
	},
	"tiktok": {
		{Day: 2, Hour: 19, Score: 0.92},
		{Day: 4, Hour: 20, Score: 0.90},
		{Day: 1, Hour: 18, Score: 0.84},
		{Day: 3, Hour: 21, Score: 0.83},
		{Day: 5, Hour: 17, Score: 0.78},
		{Day: 6, Hour: 20, Score: 0.75},
		{Day: 0, Hour: 19, Score: 0.70},
	},
	"youtube": {
		{Day: 6, Hour: 10, Score: 0.90},
		{Day: 0, Hour: 11, Score: 0.88},
		{Day: 5, Hour: 16, Score: 0.82},
		{Day: 4, Hour: 17, Score: 0.76},
		{Day: 3, Hour: 15, Score: 0.70},
	},
	"twitter": {
		{Day: 1, Hour: 9, Score: 0.92},
		{Day: 3, Hour: 9, Score: 0.88},
		{Day: 2, Hour: 12, Score: 0.85},
		{Day: 4, Hour: 17, Score: 0.80},
		{Day: 5, Hour: 8, Score: 0.78},
		{Day: 1, Hour: 15, Score: 0.74},
		{Day: 0, Hour: 19, Score: 0.65},
		{Day: 6, Hour: 10, Score: 0.60},
	},
	"facebook": {
		{Day: 3, Hour: 13, Score: 0.88},
		{Day: 2, Hour: 11, Score: 0.84},
		{Day: 4, Hour: 14, Score: 0.82},
		{Day: 1, Hour: 10, Score: 0.78},
		{Day: 5, Hour: 13, Score: 0.75},
		{Day: 0, Hour: 12, Score: 0.66},
	},
	"linkedin": {
		{Day: 2, Hour: 10, Score: 0.91},
		{Day: 3, Hour: 12, Score: 0.89},
		{Day: 4, Hour: 9, Score: 0.85},
		{Day: 1, Hour: 8, Score: 0.80},
		{Day: 5, Hour: 11, Score: 0.70},
	},
}

var maxPostsPerDay = map[string]int{
	"instagram": 3,
	"tiktok":    4,
	"youtube":   1,
	"twitter":   5,
	"facebook":  3,
	"linkedin":  2,
}

var weeklyFrequency = map[string]int{
	"instagram": 7,
	"tiktok":    7,
	"youtube":   3,
	"twitter":   14,
	"facebook":  5,
	"linkedin":  3,
}

// BestTimesFor returns the engagement buckets for a platform. Unknown platforms
// borrow the DefaultPlatform table; the fallback is logged so a misconfigured
// platform name does not fail silently. The returned slice is a copy.
func BestTimesFor(platform string) []OptimalPostingTime {
	times, ok := optimalTimes[platform]
	if !ok {
		slog.Info("no engagement data for platform, using default table",
			"platform", platform, "default", DefaultPlatform)
		times = optimalTimes[DefaultPlatform]
	}

	out := make([]OptimalPostingTime, len(times))
	copy(out, times)
	return out
}

// MaxPostsPerDay returns the per-day posting cap for a platform.
func MaxPostsPerDay(platform string) int {
	if n, ok := maxPostsPerDay[platform]; ok {
		return n
	}
	slog.Info("no daily cap for platform, using default",
		"platform", platform, "default", DefaultPlatform)
	return maxPostsPerDay[DefaultPlatform]
}

// RecommendedWeeklyFrequency returns how many posts per week a platform rewards.
func RecommendedWeeklyFrequency(platform string) int {
	if n, ok := weeklyFrequency[platform]; ok {
		return n
	}
	slog.Info("no weekly frequency for platform, using default",
		"platform", platform, "default", DefaultPlatform)
	return weeklyFrequency[DefaultPlatform]
}

package scheduler

import "time"

// Strategy selects how content is distributed across the date range.
type Strategy string

const (
	StrategyBalanced         Strategy = "balanced"
	StrategyConcentrated     Strategy = "concentrated"
	StrategyPlatformPriority Strategy = "platform-priority"
)

// AvoidWindow is a time-of-day interval a platform must not post in.
// Both bounds are inclusive, compared in minutes since midnight.
type AvoidWindow struct {
	StartHour   int `json:"start_hour"`
	StartMinute int `json:"start_minute"`
	EndHour     int `json:"end_hour"`
	EndMinute   int `json:"end_minute"`
}

// Config carries the parameters of one schedule generation request.
type Config struct {
	StartDate         time.Time                       `json:"start_date"`
	EndDate           time.Time                       `json:"end_date"`
	Platforms         []string                        `json:"platforms"`
	Frequency         map[string]int                  `json:"frequency,omitempty"`
	OptimalTimes      map[string][]OptimalPostingTime `json:"optimal_times,omitempty"`
	AvoidWindows      map[string][]AvoidWindow        `json:"avoid_windows,omitempty"`
	MinGapHours       float64                         `json:"min_gap_hours,omitempty"`
	Themes            []string                        `json:"themes,omitempty"`
	Strategy          Strategy                        `json:"strategy,omitempty"`
	PriorityPlatforms []string                        `json:"priority_platforms,omitempty"`
	Timezone          string                          `json:"timezone,omitempty"`
}

// ContentItem is a piece of content to be placed on the calendar. The scheduler
// never reads the content itself, only its id and targeting hints.
type ContentItem struct {
	ID          string   `json:"id"`
	Platforms   []string `json:"platforms"`
	ContentType string   `json:"content_type,omitempty"`
	Priority    int      `json:"priority,omitempty"` // 1-10, higher scheduled first
	Theme       string   `json:"theme,omitempty"`
}

// Entry is one planned (content, platform, time) placement. Entries are a pure
// computation result; committing them to scheduled posts is a separate step.
type Entry struct {
	ContentID     string    `json:"content_id"`
	Platform      string    `json:"platform"`
	ScheduledTime time.Time `json:"scheduled_time"`
	DisplayTime   string    `json:"display_time"`
	Rationale     string    `json:"rationale"`
}

const (
	defaultContentType = "post"
	defaultPriority    = 5
	defaultRangeDays   = 7
	defaultMinGapHours = 2.0
	themeSeparation    = 12 * time.Hour
)

package scheduler

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrNilConfig      = errors.New("scheduler: config is required")
	ErrNoContentItems = errors.New("scheduler: no content items to schedule")
	ErrNoPlatforms    = errors.New("scheduler: config must include at least one target platform")
)

const displayTimeLayout = "Monday, Jan 2 at 3:04 PM"

// GenerateSchedule plans a batch of content items across the config's
// platforms and date range. It is a pure planner: the occupied set seeds gap
// enforcement against posts that already exist, and every placement made here
// is added to it, but nothing is persisted. Entries come back sorted by time.
func GenerateSchedule(cfg *Config, items []ContentItem, occupied *ReservationSet) ([]Entry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if len(items) == 0 {
		return nil, ErrNoContentItems
	}
	if len(cfg.Platforms) == 0 {
		return nil, ErrNoPlatforms
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("scheduler: invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	start := cfg.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	start = start.In(loc)

	end := cfg.EndDate
	if end.IsZero() {
		end = start.AddDate(0, 0, defaultRangeDays)
	}
	end = end.In(loc)

	daySpan := int(math.Ceil(end.Sub(start).Hours() / 24))
	if daySpan < 1 {
		daySpan = 1
	}

	if occupied == nil {
		occupied = NewReservationSet()
	}

	g := &generator{
		cfg:      cfg,
		loc:      loc,
		start:    start,
		end:      end,
		daySpan:  daySpan,
		items:    normalizeItems(items),
		occupied: occupied,
	}

	var err error
	switch cfg.Strategy {
	case StrategyConcentrated:
		err = g.concentrated()
	case StrategyPlatformPriority:
		err = g.platformPriority()
	default:
		err = g.balanced()
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(g.entries, func(i, j int) bool {
		return g.entries[i].ScheduledTime.Before(g.entries[j].ScheduledTime)
	})
	return g.entries, nil
}

type generator struct {
	cfg      *Config
	loc      *time.Location
	start    time.Time
	end      time.Time
	daySpan  int
	items    []ContentItem
	occupied *ReservationSet
	entries  []Entry
}

// normalizeItems fills defaults and orders by priority, highest first. The
// sort is stable so equal-priority items keep their caller-supplied order.
func normalizeItems(items []ContentItem) []ContentItem {
	out := make([]ContentItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ContentType == "" {
			out[i].ContentType = defaultContentType
		}
		if out[i].Priority == 0 {
			out[i].Priority = defaultPriority
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

func (g *generator) optsFor(platform string) SearchOptions {
	return SearchOptions{
		BestTimes:    g.cfg.OptimalTimes[platform],
		AvoidWindows: g.cfg.AvoidWindows[platform],
		MinGapHours:  g.cfg.MinGapHours,
		Occupied:     g.occupied,
	}
}

// slotAllowed applies the avoid-window and minimum-gap constraints to a slot
// chosen outside FindOptimalTime.
func (g *generator) slotAllowed(t time.Time, platform string) bool {
	if inAnyAvoidWindow(t, g.cfg.AvoidWindows[platform]) {
		return false
	}
	return g.cfg.MinGapHours <= 0 || !g.occupied.ViolatesGap(t, g.cfg.MinGapHours)
}

func (g *generator) frequencyFor(platform string) int {
	if f, ok := g.cfg.Frequency[platform]; ok && f > 0 {
		return f
	}
	return RecommendedWeeklyFrequency(platform)
}

func (g *generator) place(item ContentItem, platform string, t time.Time, rationale string) {
	g.occupied.Add(t)
	g.entries = append(g.entries, Entry{
		ContentID:     item.ID,
		Platform:      platform,
		ScheduledTime: t,
		DisplayTime:   t.In(g.loc).Format(displayTimeLayout),
		Rationale:     rationale,
	})
}

// balanced spreads each platform's posts evenly across the span. Day quotas
// come from CalculatePostDistribution; each quota slot takes the next
// highest-priority item not yet placed on that platform and searches from
// that day's midnight. A search result escaping the day falls back to local
// noon when noon itself clears the constraints; otherwise the day forfeits
// its remaining quota.
func (g *generator) balanced() error {
	dist := make(map[string][]int, len(g.cfg.Platforms))
	for _, platform := range g.cfg.Platforms {
		available := 0
		for _, item := range g.items {
			if targetsPlatform(item, platform) {
				available++
			}
		}
		dist[platform] = CalculatePostDistribution(available, g.daySpan, g.frequencyFor(platform))
	}

	placed := make(map[string]map[string]bool, len(g.cfg.Platforms))
	for _, platform := range g.cfg.Platforms {
		placed[platform] = make(map[string]bool)
	}

	for day := 0; day < g.daySpan; day++ {
		d := g.start.AddDate(0, 0, day)
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, g.loc)
		dayEnd := dayStart.AddDate(0, 0, 1)

		for _, platform := range g.cfg.Platforms {
			quota := dist[platform][day]
			if cap := MaxPostsPerDay(platform); quota > cap {
				quota = cap
			}

			for q := 0; q < quota; q++ {
				item, ok := g.nextUnplaced(platform, placed[platform])
				if !ok {
					break
				}
				t, err := FindOptimalTime(platform, dayStart, g.optsFor(platform))
				if err != nil {
					return err
				}
				if !t.Before(dayEnd) {
					// The search escaped the day, so the fallback slot skips
					// FindOptimalTime and must re-check the constraints itself.
					noon := dayStart.Add(12 * time.Hour)
					if !g.slotAllowed(noon, platform) {
						break
					}
					t = noon
				}
				placed[platform][item.ID] = true
				g.place(item, platform, t,
					fmt.Sprintf("Balanced distribution for %s on %s", platform, t.Weekday()))
			}
		}
	}
	return nil
}

// concentrated clusters items by theme. Each group runs a cursor forward from
// the previous placement plus the minimum gap, and finished groups push the
// cursor another 12 hours so themes stay visibly separated on the calendar.
// Untagged items all collapse into a single "default" group.
func (g *generator) concentrated() error {
	gap := g.cfg.MinGapHours
	if gap <= 0 {
		gap = defaultMinGapHours
	}
	gapDur := time.Duration(gap * float64(time.Hour))

	groups, order := groupByTheme(g.items)

	cursor := g.start
	for i, theme := range order {
		if i > 0 {
			cursor = cursor.Add(themeSeparation)
		}
		for _, item := range groups[theme] {
			for _, platform := range item.Platforms {
				if !containsString(g.cfg.Platforms, platform) {
					continue
				}
				t, err := FindOptimalTime(platform, cursor, g.optsFor(platform))
				if err != nil {
					return err
				}
				g.place(item, platform, t,
					fmt.Sprintf("Concentrated %s content for %s", theme, platform))
				cursor = t.Add(gapDur)
			}
		}
	}
	return nil
}

// platformPriority places items on the caller's priority platforms first,
// then gives anything still unplaced one slot on a remaining platform. An
// item is placed at most once overall under this strategy.
func (g *generator) platformPriority() error {
	priority := g.cfg.PriorityPlatforms
	if len(priority) == 0 {
		priority = g.cfg.Platforms
	}
	prioritySet := make(map[string]bool, len(priority))
	for _, p := range priority {
		prioritySet[p] = true
	}

	placed := make(map[string]bool, len(g.items))

	for _, item := range g.items {
		for _, platform := range item.Platforms {
			if !containsString(g.cfg.Platforms, platform) || !prioritySet[platform] {
				continue
			}
			t, err := FindOptimalTime(platform, g.start, g.optsFor(platform))
			if err != nil {
				return err
			}
			g.place(item, platform, t,
				fmt.Sprintf("Priority scheduling for %s at optimal engagement time", platform))
			placed[item.ID] = true
			break
		}
	}

	for _, item := range g.items {
		if placed[item.ID] {
			continue
		}
		for _, platform := range item.Platforms {
			if !containsString(g.cfg.Platforms, platform) || prioritySet[platform] {
				continue
			}
			t, err := FindOptimalTime(platform, g.start, g.optsFor(platform))
			if err != nil {
				return err
			}
			g.place(item, platform, t,
				fmt.Sprintf("Secondary scheduling for %s outside priority set", platform))
			placed[item.ID] = true
			break
		}
	}
	return nil
}

func (g *generator) nextUnplaced(platform string, placed map[string]bool) (ContentItem, bool) {
	for _, item := range g.items {
		if !targetsPlatform(item, platform) || placed[item.ID] {
			continue
		}
		return item, true
	}
	return ContentItem{}, false
}

// groupByTheme buckets items by theme in first-appearance order.
func groupByTheme(items []ContentItem) (map[string][]ContentItem, []string) {
	groups := make(map[string][]ContentItem)
	var order []string
	for _, item := range items {
		theme := item.Theme
		if theme == "" {
			theme = "default"
		}
		if _, ok := groups[theme]; !ok {
			order = append(order, theme)
		}
		groups[theme] = append(groups[theme], item)
	}
	return groups, order
}

func targetsPlatform(item ContentItem, platform string) bool {
	return containsString(item.Platforms, platform)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package scheduler

import (
	"errors"
	"sort"
	"time"
)

const (
	// lookaheadDays bounds the raw bucket scan before the +24h fallback kicks in.
	lookaheadDays = 14

	// maxSearchAttempts bounds the constraint-retry loop. Without a cap an
	// all-day avoid window would advance the start time forever.
	maxSearchAttempts = 64

	avoidRetryStep = 3 * time.Hour
)

// ErrNoAvailableSlot is returned when no candidate satisfies the avoid-window
// and minimum-gap constraints within maxSearchAttempts retries.
var ErrNoAvailableSlot = errors.New("scheduler: no available slot satisfies constraints")

// SearchOptions carries the constraints layered on top of the raw bucket search.
type SearchOptions struct {
	// BestTimes overrides the platform's static table when non-nil.
	BestTimes    []OptimalPostingTime
	AvoidWindows []AvoidWindow
	MinGapHours  float64
	Occupied     *ReservationSet
}

// FindOptimalTime returns the soonest engagement bucket strictly after
// afterTime that is outside every avoid window and keeps MinGapHours from
// every occupied instant. When a candidate is rejected the search restarts
// from an advanced lower bound: +3h past an avoid window, +MinGapHours past
// a gap conflict.
func FindOptimalTime(platform string, afterTime time.Time, opts SearchOptions) (time.Time, error) {
	times := opts.BestTimes
	if times == nil {
		times = BestTimesFor(platform)
	}

	sorted := make([]OptimalPostingTime, len(times))
	copy(sorted, times)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	start := afterTime
	for attempt := 0; attempt < maxSearchAttempts; attempt++ {
		candidate := nextRawCandidate(sorted, start)

		if inAnyAvoidWindow(candidate, opts.AvoidWindows) {
			start = candidate.Add(avoidRetryStep)
			continue
		}
		if opts.MinGapHours > 0 && opts.Occupied.ViolatesGap(candidate, opts.MinGapHours) {
			start = candidate.Add(time.Duration(opts.MinGapHours * float64(time.Hour)))
			continue
		}
		return candidate, nil
	}

	return time.Time{}, ErrNoAvailableSlot
}

// nextRawCandidate scans forward day by day from after's calendar day. The
// first day with any matching bucket wins; within a day buckets are tried in
// score order, so the result is the best bucket on the earliest qualifying
// day, not the best bucket of the whole window. Past the lookahead the search
// degrades to same time tomorrow rather than failing.
func nextRawCandidate(sorted []OptimalPostingTime, after time.Time) time.Time {
	dayStart := time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, after.Location())

	for d := 0; d < lookaheadDays; d++ {
		day := dayStart.AddDate(0, 0, d)
		for _, bucket := range sorted {
			if int(day.Weekday()) != bucket.Day {
				continue
			}
			candidate := time.Date(day.Year(), day.Month(), day.Day(), bucket.Hour, 0, 0, 0, day.Location())
			if candidate.After(after) {
				return candidate
			}
		}
	}

	return after.Add(24 * time.Hour)
}

func inAnyAvoidWindow(t time.Time, windows []AvoidWindow) bool {
	if len(windows) == 0 {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	for _, w := range windows {
		lo := w.StartHour*60 + w.StartMinute
		hi := w.EndHour*60 + w.EndMinute
		if minutes >= lo && minutes <= hi {
			return true
		}
	}
	return false
}

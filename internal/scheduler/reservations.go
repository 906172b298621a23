package scheduler

import "time"

// ReservationSet holds the instants already claimed by a user's scheduled
// posts. Gap checking is platform-agnostic: a reservation on one platform
// counts against new placements on every platform.
//
// A nil *ReservationSet behaves as the empty set on every method; callers
// that need to record placements must start from NewReservationSet.
type ReservationSet struct {
	times []time.Time
}

func NewReservationSet(times ...time.Time) *ReservationSet {
	r := &ReservationSet{times: make([]time.Time, 0, len(times))}
	r.times = append(r.times, times...)
	return r
}

// Add records t. Adding to a nil set is a no-op.
func (r *ReservationSet) Add(t time.Time) {
	if r == nil {
		return
	}
	r.times = append(r.times, t)
}

func (r *ReservationSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.times)
}

// Times returns a copy of the reserved instants.
func (r *ReservationSet) Times() []time.Time {
	if r == nil {
		return nil
	}
	out := make([]time.Time, len(r.times))
	copy(out, r.times)
	return out
}

// ViolatesGap reports whether t is within gapHours of any reservation.
// The comparison is symmetric: reservations before and after t both count.
func (r *ReservationSet) ViolatesGap(t time.Time, gapHours float64) bool {
	if r == nil || gapHours <= 0 {
		return false
	}
	gap := time.Duration(gapHours * float64(time.Hour))
	for _, occupied := range r.times {
		d := t.Sub(occupied)
		if d < 0 {
			d = -d
		}
		if d < gap {
			return true
		}
	}
	return false
}

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationSetViolatesGap(t *testing.T) {
	base := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	r := NewReservationSet(base)

	assert.True(t, r.ViolatesGap(base, 2))
	assert.True(t, r.ViolatesGap(base.Add(time.Hour), 2))
	assert.True(t, r.ViolatesGap(base.Add(-time.Hour), 2))
	assert.False(t, r.ViolatesGap(base.Add(2*time.Hour), 2))
	assert.False(t, r.ViolatesGap(base.Add(-3*time.Hour), 2))
}

func TestReservationSetZeroGapNeverViolates(t *testing.T) {
	base := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	r := NewReservationSet(base)

	assert.False(t, r.ViolatesGap(base, 0))
}

func TestReservationSetNilActsAsEmptySet(t *testing.T) {
	var r *ReservationSet

	r.Add(time.Now())

	assert.Zero(t, r.Len())
	assert.Empty(t, r.Times())
	assert.False(t, r.ViolatesGap(time.Now(), 4))
}

func TestReservationSetTimesReturnsCopy(t *testing.T) {
	base := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	r := NewReservationSet(base)

	times := r.Times()
	times[0] = times[0].Add(time.Hour)

	assert.Equal(t, base, r.Times()[0])
	assert.Equal(t, 1, r.Len())
}

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePostDistributionOnePerDay(t *testing.T) {
	// 10 items over a week at 7 posts/week caps at 7, spread one per day.
	dist := CalculatePostDistribution(10, 7, 7)

	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1}, dist)
}

func TestCalculatePostDistributionSpreadsSparseItems(t *testing.T) {
	// 3 items over 6 days step every second day.
	dist := CalculatePostDistribution(3, 6, 7)

	assert.Equal(t, []int{1, 0, 1, 0, 1, 0}, dist)
}

func TestCalculatePostDistributionFrequencyCap(t *testing.T) {
	// 20 items at 7/week over 7 days still allocates only 7.
	dist := CalculatePostDistribution(20, 7, 7)

	total := 0
	for _, n := range dist {
		total += n
	}
	assert.Equal(t, 7, total)
}

func TestCalculatePostDistributionEdgeCases(t *testing.T) {
	assert.Nil(t, CalculatePostDistribution(5, 0, 7))
	assert.Equal(t, []int{0, 0, 0}, CalculatePostDistribution(0, 3, 7))
	assert.Equal(t, []int{0, 0, 0}, CalculatePostDistribution(5, 3, 0))
}

func TestCalculatePostDistributionSingleDay(t *testing.T) {
	// One-day span gets everything the frequency allows on that day.
	dist := CalculatePostDistribution(2, 1, 14)

	assert.Equal(t, []int{2}, dist)
}

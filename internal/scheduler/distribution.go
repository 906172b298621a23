package scheduler

import "math"

// CalculatePostDistribution spreads posts for one platform across a day span.
// The returned slice has daySpan elements; element i is the number of posts to
// place on day i. At most min(totalItems, ceil(daySpan*weeklyFrequency/7))
// posts are allocated, stepped round-robin through the span so consecutive
// posts land as far apart as the span allows.
func CalculatePostDistribution(totalItems, daySpan, weeklyFrequency int) []int {
	if daySpan <= 0 {
		return nil
	}
	dist := make([]int, daySpan)
	if totalItems <= 0 || weeklyFrequency <= 0 {
		return dist
	}

	target := int(math.Ceil(float64(daySpan*weeklyFrequency) / 7.0))
	total := totalItems
	if target < total {
		total = target
	}

	step := int(math.Ceil(float64(daySpan) / float64(total)))
	if step < 1 {
		step = 1
	}

	idx := 0
	for i := 0; i < total; i++ {
		dist[idx]++
		idx = (idx + step) % daySpan
	}
	return dist
}

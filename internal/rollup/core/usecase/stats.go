package usecase

import "math"

// percentileNearestRank selects the p-th percentile from an ascending-sorted
// list using nearest-rank: index = ceil(p/100 * n) - 1, clamped to [0, n-1].
// The caller guarantees the list is sorted and non-empty.
func percentileNearestRank(sorted []int64, p int) int64 {
	n := len(sorted)
	idx := int(math.Ceil(float64(p)/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// meanRounded returns the mean rounded to the nearest integer millisecond.
// The caller guarantees a non-empty list.
func meanRounded(values []int64) int64 {
	var sum int64
	for _, v := range values {
		sum += v
	}
	return int64(math.Round(float64(sum) / float64(len(values))))
}

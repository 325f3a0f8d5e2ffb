package normalization

import (
	"sort"

	"location-visits/internal/domain"
)

// SortPoints orders points by timestamp ASC. Visit segmentation requires
// non-decreasing local time, which for a fixed zone is equivalent to
// non-decreasing epoch order.
func SortPoints(points []*domain.Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].TimestampMs < points[j].TimestampMs
	})
}

// IsSorted reports whether points are already in non-decreasing timestamp
// order.
func IsSorted(points []*domain.Point) bool {
	return sort.SliceIsSorted(points, func(i, j int) bool {
		return points[i].TimestampMs < points[j].TimestampMs
	})
}

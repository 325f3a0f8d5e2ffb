// Package segmentation groups chronologically ordered in-area points into
// numbered visits.
package segmentation

import (
	"time"

	"location-visits/internal/domain"
)

// DefaultGap is the elapsed time after which a return to the same area on
// the same date counts as a new visit.
const DefaultGap = 3 * time.Hour

// Segmenter assigns visit numbers to in-area points.
type Segmenter struct {
	gap time.Duration
}

// NewSegmenter creates a Segmenter with the given revisit gap; a zero or
// negative gap falls back to DefaultGap.
func NewSegmenter(gap time.Duration) *Segmenter {
	if gap <= 0 {
		gap = DefaultGap
	}
	return &Segmenter{gap: gap}
}

// Segment filters points down to the in-area subsequence and sets VisitNo
// on each. Input must be ordered by non-decreasing local time; this is a
// precondition, not re-checked here.
//
// For every point three 0/1 transition indicators are computed against its
// immediate predecessor (the first point counts as a forced area change):
//
//   - areaChanged: the area differs from the predecessor's
//   - gapExceeded: same area, same date, but more than the configured gap
//     elapsed since the predecessor
//   - dateBoundary: the date differs from the predecessor's
//
// VisitNo is the running sum of all indicators. The indicators are
// additive, not exclusive: when two fire on the same point the visit
// number jumps by two, leaving a gap in the numbering. Downstream counts
// depend on that behavior. Note dateBoundary fires on every date change,
// whether or not the area also changed.
func (s *Segmenter) Segment(points []*domain.Point) []*domain.Point {
	var inArea []*domain.Point
	for _, p := range points {
		if p.InArea {
			inArea = append(inArea, p)
		}
	}

	visitNo := 0
	var prev *domain.Point
	for _, p := range inArea {
		visitNo += s.transitions(prev, p)
		p.VisitNo = visitNo
		prev = p
	}

	return inArea
}

// transitions counts the indicators firing between prev and cur.
func (s *Segmenter) transitions(prev, cur *domain.Point) int {
	if prev == nil {
		return 1
	}

	n := 0
	if cur.Area != prev.Area {
		n++
	}
	if cur.Area == prev.Area && cur.Date == prev.Date &&
		cur.LocalTime.Sub(prev.LocalTime) > s.gap {
		n++
	}
	if cur.Date != prev.Date {
		n++
	}
	return n
}

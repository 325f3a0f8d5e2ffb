// Package metrics computes visit-level aggregates from segmented points.
package metrics

import (
	"sort"
	"time"

	"location-visits/internal/domain"
)

// AggregateVisits groups segmented in-area points by (date, visitNo,
// area) and computes per-visit stay statistics. Visits are returned
// ordered by date ASC, visitNo ASC. Every visit whose stay equals its
// date's maximum is flagged LongestStay (ties flag all of them).
func AggregateVisits(points []*domain.Point) []*domain.Visit {
	type key struct {
		date    string
		visitNo int
		area    string
	}

	type span struct {
		min, max time.Time
		count    int
	}

	byKey := make(map[key]*span)
	for _, p := range points {
		if !p.InArea {
			continue
		}
		k := key{p.Date, p.VisitNo, p.Area}
		s, ok := byKey[k]
		if !ok {
			s = &span{min: p.LocalTime, max: p.LocalTime}
			byKey[k] = s
		}
		if p.LocalTime.Before(s.min) {
			s.min = p.LocalTime
		}
		if p.LocalTime.After(s.max) {
			s.max = p.LocalTime
		}
		s.count++
	}

	visits := make([]*domain.Visit, 0, len(byKey))
	for k, s := range byKey {
		visits = append(visits, &domain.Visit{
			Date:        k.date,
			VisitNo:     k.visitNo,
			Area:        k.area,
			StayedHours: s.max.Sub(s.min).Hours(),
			MinTime:     s.min.Format("15:04"),
			MaxTime:     s.max.Format("15:04"),
			PointCount:  s.count,
		})
	}

	sort.Slice(visits, func(i, j int) bool {
		if visits[i].Date != visits[j].Date {
			return visits[i].Date < visits[j].Date
		}
		if visits[i].VisitNo != visits[j].VisitNo {
			return visits[i].VisitNo < visits[j].VisitNo
		}
		return visits[i].Area < visits[j].Area
	})

	markLongestStays(visits)

	return visits
}

// markLongestStays flags, per date, every visit whose stay matches the
// date's maximum.
func markLongestStays(visits []*domain.Visit) {
	maxByDate := make(map[string]float64)
	for _, v := range visits {
		if v.StayedHours > maxByDate[v.Date] {
			maxByDate[v.Date] = v.StayedHours
		}
	}
	for _, v := range visits {
		v.LongestStay = v.StayedHours == maxByDate[v.Date]
	}
}

// AreaSummaries counts, per area, the days on which that area held the
// longest stay. Returned ordered by area tag.
func AreaSummaries(visits []*domain.Visit) []domain.AreaSummary {
	counts := make(map[string]int)
	for _, v := range visits {
		if v.LongestStay {
			counts[v.Area]++
		}
	}

	summaries := make([]domain.AreaSummary, 0, len(counts))
	for area, days := range counts {
		summaries = append(summaries, domain.AreaSummary{Area: area, DaysInArea: days})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Area < summaries[j].Area
	})
	return summaries
}

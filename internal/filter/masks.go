package filter

import "location-visits/internal/domain"

// Mask is a boolean inclusion predicate over a single point. Masks carry
// no state between points, so a filtered set is independent of the order
// masks are computed or combined in.
type Mask func(p *domain.Point) bool

// VacationMask excludes points whose date is a member of the expanded
// vacation set.
func VacationMask(vacation map[string]bool) Mask {
	return func(p *domain.Point) bool {
		return !vacation[p.Date]
	}
}

// HolidayMask excludes points whose date is an official bank holiday.
func HolidayMask(holidays map[string]bool) Mask {
	return func(p *domain.Point) bool {
		return !holidays[p.Date]
	}
}

// WorkdayMask keeps points whose weekday is in the configured workday set.
func WorkdayMask(workdays map[int]bool) Mask {
	return func(p *domain.Point) bool {
		return workdays[p.Weekday]
	}
}

// WorktimeMask keeps points whose daytime falls within [start, end], both
// inclusive. Zero-padded "HH:MM" strings compare lexicographically the
// same way they compare chronologically within a day, so plain string
// comparison is exact here.
func WorktimeMask(start, end string) Mask {
	return func(p *domain.Point) bool {
		return p.Daytime >= start && p.Daytime <= end
	}
}

// Apply keeps the points that pass every mask. The result equals the
// set intersection of the individual passing sets regardless of mask
// order.
func Apply(points []*domain.Point, masks ...Mask) []*domain.Point {
	var kept []*domain.Point
	for _, p := range points {
		pass := true
		for _, m := range masks {
			if !m(p) {
				pass = false
				break
			}
		}
		if pass {
			kept = append(kept, p)
		}
	}
	return kept
}

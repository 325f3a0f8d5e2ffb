// Package filter reduces a normalized point sequence to the samples that
// qualify for work-location analysis: not on vacation, not a bank
// holiday, on a configured workday, inside the working hours.
package filter

import (
	"errors"
	"fmt"
	"time"

	"location-visits/internal/domain"
)

// ErrInvalidDateRange is returned when a vacation range ends before it
// starts.
var ErrInvalidDateRange = errors.New("invalid date range")

const dateLayout = "2006-01-02"

// ExpandVacations rolls the configured vacation entries out into the set
// of individual calendar dates, inclusive on both ends. Overlapping
// entries collapse into one membership.
func ExpandVacations(entries []domain.VacationEntry) (map[string]bool, error) {
	dates := make(map[string]bool)

	for _, e := range entries {
		from, err := time.Parse(dateLayout, e.From)
		if err != nil {
			return nil, fmt.Errorf("parse vacation date %q: %w", e.From, err)
		}

		to := from
		if e.To != "" {
			to, err = time.Parse(dateLayout, e.To)
			if err != nil {
				return nil, fmt.Errorf("parse vacation date %q: %w", e.To, err)
			}
		}

		if to.Before(from) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange, e.From, e.To)
		}

		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			dates[d.Format(dateLayout)] = true
		}
	}

	return dates, nil
}

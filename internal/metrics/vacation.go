package metrics

import (
	"sort"
	"time"
)

// ActualVacationDays reduces the expanded vacation set to the days that
// actually consumed a vacation entitlement: bank holidays are removed,
// and only configured workdays remain. Returned sorted ascending.
func ActualVacationDays(vacation, holidays map[string]bool, workdays map[int]bool) []string {
	var days []string
	for d := range vacation {
		if holidays[d] {
			continue
		}
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			// Expanded sets only ever hold valid dates.
			continue
		}
		if !workdays[int(t.Weekday())] {
			continue
		}
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

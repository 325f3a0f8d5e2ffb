// Package holiday resolves the official bank holidays for a configured
// region, year by year.
package holiday

import "errors"

// ErrUnknownRegion is returned when a configured state or subdivision has
// no calendar.
var ErrUnknownRegion = errors.New("unknown holiday region")

// Provider returns the official holidays of a year as a set of
// YYYY-MM-DD strings. Holiday computation is year-scoped and callers must
// request each analysis year separately.
type Provider interface {
	Holidays(year int) (map[string]bool, error)
}

// Static is a fixed-date Provider used in tests and for regions without
// calendar support.
type Static map[string]bool

// Holidays returns the static set regardless of year.
func (s Static) Holidays(int) (map[string]bool, error) {
	dates := make(map[string]bool, len(s))
	for d := range s {
		dates[d] = true
	}
	return dates, nil
}

// Package normalization converts raw location records into timezone-local,
// year-scoped points the filter and assignment stages operate on.
package normalization

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"location-visits/internal/domain"
)

// ErrMalformedTimestamp is returned when a record's epoch value cannot be
// parsed. A run never silently drops such records.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Normalizer derives local calendar fields for one analysis year.
type Normalizer struct {
	year int
	loc  *time.Location
}

// NewNormalizer creates a Normalizer for the given year and IANA zone name
// (e.g. "Europe/Berlin").
func NewNormalizer(year int, timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Normalizer{year: year, loc: loc}, nil
}

// Normalize derives the local time fields and decimal coordinates for one
// raw record. The returned bool reports whether the point falls into the
// configured year; the year test uses the LOCAL calendar year, so it must
// run after zone conversion (a 23:30 UTC Dec 31 sample may be Jan 1
// locally).
func (n *Normalizer) Normalize(raw *domain.RawLocation) (*domain.Point, bool, error) {
	ms, err := parseEpochMs(raw.TimestampMs)
	if err != nil {
		return nil, false, err
	}

	local := time.UnixMilli(ms).In(n.loc)
	if local.Year() != n.year {
		return nil, false, nil
	}

	p := &domain.Point{
		TimestampMs: ms,
		LatitudeE7:  raw.LatitudeE7,
		LongitudeE7: raw.LongitudeE7,
		Accuracy:    raw.Accuracy,
		LocalTime:   local,
		Date:        local.Format("2006-01-02"),
		Weekday:     int(local.Weekday()),
		Daytime:     local.Format("15:04"),
		Lat:         float64(raw.LatitudeE7) / 1e7,
		Lng:         float64(raw.LongitudeE7) / 1e7,
	}
	return p, true, nil
}

// NormalizeAll processes a batch, dropping out-of-year records and failing
// the whole batch on the first malformed timestamp.
func (n *Normalizer) NormalizeAll(raws []*domain.RawLocation) ([]*domain.Point, error) {
	var points []*domain.Point
	for i, raw := range raws {
		p, inYear, err := n.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if inYear {
			points = append(points, p)
		}
	}
	return points, nil
}

// parseEpochMs parses an epoch-millisecond value. Exports emit the field
// as a JSON string or number; by the time it reaches here it is a string
// either way.
func parseEpochMs(s string) (int64, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return ms, nil
}

package holiday

import (
	"fmt"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"

	"location-visits/internal/domain"
)

// deRegional maps German state subdivisions to the holidays they observe
// on top of the nationwide set.
var deRegional = map[string][]*cal.Holiday{
	"BW": {de.HeiligeDreiKoenige, de.Fronleichnam, de.Allerheiligen},
	"BY": {de.HeiligeDreiKoenige, de.Fronleichnam, de.MariaHimmelfahrt, de.Allerheiligen},
	"BE": {de.Frauentag},
	"BB": {de.Reformationstag},
	"HB": {de.Reformationstag},
	"HH": {de.Reformationstag},
	"HE": {de.Fronleichnam},
	"MV": {de.Reformationstag},
	"NI": {de.Reformationstag},
	"NW": {de.Fronleichnam, de.Allerheiligen},
	"RP": {de.Fronleichnam, de.Allerheiligen},
	"SL": {de.Fronleichnam, de.MariaHimmelfahrt, de.Allerheiligen},
	"SN": {de.Reformationstag, de.BussUndBettag},
	"ST": {de.HeiligeDreiKoenige, de.Reformationstag},
	"SH": {de.Reformationstag},
	"TH": {de.Weltkindertag, de.Reformationstag},
}

// Calendar is a Provider backed by the rickar/cal holiday definitions.
type Calendar struct {
	holidays []*cal.Holiday
}

// NewCalendar builds a Provider for the given region. Currently the "DE"
// calendar is supported, with per-state subdivisions; an empty province
// yields the nationwide holidays only.
func NewCalendar(region domain.HolidayRegion) (*Calendar, error) {
	if !strings.EqualFold(region.State, "DE") {
		return nil, fmt.Errorf("%w: state %q", ErrUnknownRegion, region.State)
	}

	holidays := append([]*cal.Holiday(nil), de.Holidays...)

	if region.Province != "" {
		extra, ok := deRegional[strings.ToUpper(region.Province)]
		if !ok {
			return nil, fmt.Errorf("%w: province %q", ErrUnknownRegion, region.Province)
		}
		holidays = append(holidays, extra...)
	}

	return &Calendar{holidays: holidays}, nil
}

// Holidays computes the region's holidays for one year.
func (c *Calendar) Holidays(year int) (map[string]bool, error) {
	dates := make(map[string]bool, len(c.holidays))
	for _, h := range c.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		dates[actual.Format("2006-01-02")] = true
	}
	return dates, nil
}

var _ Provider = (*Calendar)(nil)
var _ Provider = Static(nil)

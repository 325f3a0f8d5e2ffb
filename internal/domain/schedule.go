package domain

// HolidayRegion identifies the public-holiday calendar to apply.
// State is an ISO country code ("DE"), Province the state subdivision
// within it ("BW", "BY", ...). Empty Province means national holidays only.
type HolidayRegion struct {
	State    string `yaml:"state"`
	Province string `yaml:"province"`
}

// Schedule describes the work calendar the filter stage applies.
type Schedule struct {
	// WorktimeStart and WorktimeEnd bound the daily window, both
	// inclusive, as zero-padded "HH:MM" strings.
	WorktimeStart string
	WorktimeEnd   string

	// Workdays holds the qualifying weekdays, 0 = Sunday.
	Workdays map[int]bool

	Holidays HolidayRegion
}

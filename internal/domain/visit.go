package domain

// Visit is one aggregated stay: a run of consecutive in-area points that
// share a visit number. Corresponds to the visits table in PostgreSQL.
type Visit struct {
	Date        string  // YYYY-MM-DD
	VisitNo     int     // monotonically non-decreasing over the day's points
	Area        string  // area tag
	StayedHours float64 // max - min, fractional hours
	MinTime     string  // local wall clock, zero-padded "HH:MM"
	MaxTime     string
	LongestStay bool // true for the longest visit of its date
	PointCount  int  // samples aggregated into this visit
}

// AreaSummary counts the days an area held the longest stay.
type AreaSummary struct {
	Area       string
	DaysInArea int
}

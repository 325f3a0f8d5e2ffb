package domain

import "time"

// RawLocation is a single record from a location-history export or live feed.
// Extra export fields (activity, altitude, heading) are accepted by the
// decoder but never carried past ingestion.
type RawLocation struct {
	TimestampMs string // epoch milliseconds; exports emit this as string OR number
	LatitudeE7  int64  // degrees * 1e7
	LongitudeE7 int64  // degrees * 1e7
	Accuracy    int    // reported accuracy in meters
}

// Point is a location sample enriched by the analysis pipeline.
// Each stage fills in its own fields and leaves the rest untouched:
// normalization sets the time fields and decimal coordinates, area
// assignment sets Area/DistanceM/InArea, segmentation sets VisitNo.
type Point struct {
	TimestampMs int64 // source of truth, immutable after ingestion
	LatitudeE7  int64
	LongitudeE7 int64
	Accuracy    int

	// Set by normalization.
	LocalTime time.Time // instant in the configured zone
	Date      string    // YYYY-MM-DD, local zone
	Weekday   int       // 0-6, 0 = Sunday
	Daytime   string    // HH:MM, 24h, local zone
	Lat       float64   // LatitudeE7 / 1e7
	Lng       float64   // LongitudeE7 / 1e7

	// Set by area assignment.
	Area      string  // tag of the matched area, empty if none
	DistanceM float64 // distance to the matched area center, meters
	InArea    bool

	// Set by visit segmentation, only meaningful when InArea is true.
	VisitNo int
}

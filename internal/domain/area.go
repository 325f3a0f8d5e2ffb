package domain

// Area is a named circular geofence. The position of an area in the
// configured list matters: assignment tests areas in list order and the
// first radius match wins.
type Area struct {
	Tag     string  `yaml:"tag"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
	RadiusM float64 `yaml:"radius"` // meters
}

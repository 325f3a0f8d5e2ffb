// Package reporting renders analysis results as CSV files and a
// Markdown summary.
package reporting

import (
	"time"

	"location-visits/internal/domain"
)

// Report is the complete output of one analysis run.
type Report struct {
	GeneratedAt time.Time
	Year        int
	Timezone    string

	// Funnel counts, in processing order.
	RawPoints        int
	NormalizedPoints int
	FilteredPoints   int
	InAreaPoints     int

	Visits        []domain.Visit
	AreaSummaries []domain.AreaSummary
	VacationDays  []string
}

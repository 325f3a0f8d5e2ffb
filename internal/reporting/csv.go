package reporting

import (
	"fmt"
	"strings"

	"location-visits/internal/domain"
)

// RenderVisitsCSV renders per-visit aggregates as CSV string.
func RenderVisitsCSV(visits []domain.Visit) string {
	var sb strings.Builder

	sb.WriteString("date,visitNo,area,stayed,min,max,longest_stay\n")

	for _, v := range visits {
		sb.WriteString(fmt.Sprintf("%s,%d,%s,%.2f,%s,%s,%t\n",
			v.Date,
			v.VisitNo,
			v.Area,
			v.StayedHours,
			v.MinTime,
			v.MaxTime,
			v.LongestStay,
		))
	}

	return sb.String()
}

// RenderAreasCSV renders per-area day counts as CSV string.
func RenderAreasCSV(summaries []domain.AreaSummary) string {
	var sb strings.Builder

	sb.WriteString("area,days_in_area\n")

	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s,%d\n", s.Area, s.DaysInArea))
	}

	return sb.String()
}

// RenderVacationCSV renders actual vacation days as CSV string.
func RenderVacationCSV(days []string) string {
	var sb strings.Builder

	sb.WriteString("date\n")

	for _, d := range days {
		sb.WriteString(d)
		sb.WriteString("\n")
	}

	return sb.String()
}

package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Visit Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Year: %d | Timezone: %s\n\n", r.Year, r.Timezone))

	// Processing funnel
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Stage | Points |\n")
	sb.WriteString("|-------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Raw | %d |\n", r.RawPoints))
	sb.WriteString(fmt.Sprintf("| Normalized | %d |\n", r.NormalizedPoints))
	sb.WriteString(fmt.Sprintf("| After schedule filter | %d |\n", r.FilteredPoints))
	sb.WriteString(fmt.Sprintf("| In area | %d |\n", r.InAreaPoints))
	sb.WriteString("\n")

	// Visits
	sb.WriteString("## Visits\n\n")
	if len(r.Visits) > 0 {
		sb.WriteString("| Date | Visit | Area | Stayed (h) | Min | Max | Longest Stay |\n")
		sb.WriteString("|------|-------|------|-----------|-----|-----|---------------|\n")
		for _, v := range r.Visits {
			longest := ""
			if v.LongestStay {
				longest = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %.2f | %s | %s | %s |\n",
				v.Date, v.VisitNo, v.Area, v.StayedHours, v.MinTime, v.MaxTime, longest))
		}
	} else {
		sb.WriteString("No visits recorded.\n")
	}
	sb.WriteString("\n")

	// Area summaries
	sb.WriteString("## Days In Area\n\n")
	if len(r.AreaSummaries) > 0 {
		sb.WriteString("| Area | Days |\n")
		sb.WriteString("|------|------|\n")
		for _, s := range r.AreaSummaries {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", s.Area, s.DaysInArea))
		}
	} else {
		sb.WriteString("No area activity recorded.\n")
	}
	sb.WriteString("\n")

	// Vacation
	sb.WriteString("## Actual Vacation Days\n\n")
	if len(r.VacationDays) > 0 {
		sb.WriteString(fmt.Sprintf("Total: %d\n\n", len(r.VacationDays)))
		for _, d := range r.VacationDays {
			sb.WriteString(fmt.Sprintf("- %s\n", d))
		}
	} else {
		sb.WriteString("No vacation days taken.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

package domain

// VacationEntry is one configured vacation: a single day (To empty or
// equal to From) or an inclusive date range. Dates are YYYY-MM-DD strings.
type VacationEntry struct {
	From string
	To   string
}

// Package main regenerates report files from previously persisted
// visits without re-running the analysis pipeline.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"location-visits/internal/config"
	"location-visits/internal/domain"
	"location-visits/internal/filter"
	"location-visits/internal/holiday"
	"location-visits/internal/metrics"
	"location-visits/internal/pipeline"
	"location-visits/internal/reporting"
	"location-visits/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	year := flag.Int("year", time.Now().UTC().Year(), "Calendar year of the report")
	timezone := flag.String("timezone", "Europe/Berlin", "IANA timezone name")
	outputDir := flag.String("output-dir", "reports", "Directory for generated report files")
	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags|log.Lshortfile)

	if *postgresDSN == "" {
		logger.Fatal("No PostgreSQL DSN specified, use --postgres-dsn")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	pool, err := postgres.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	store := postgres.NewVisitStore(pool)
	visits, err := store.GetAll(ctx)
	if err != nil {
		logger.Fatalf("Load visits: %v", err)
	}
	logger.Printf("Loaded %d visits", len(visits))

	yearVisits := filterByYear(visits, *year)
	vacationDays, err := resolveVacationDays(cfg, *year)
	if err != nil {
		logger.Fatalf("Resolve vacation days: %v", err)
	}

	report := &reporting.Report{
		GeneratedAt:   time.Now().UTC(),
		Year:          *year,
		Timezone:      *timezone,
		Visits:        visitValues(yearVisits),
		AreaSummaries: metrics.AreaSummaries(yearVisits),
		VacationDays:  vacationDays,
	}

	if err := writeReports(*outputDir, report); err != nil {
		logger.Fatalf("Write reports: %v", err)
	}

	logger.Printf("Report files written to %s", *outputDir)
	logger.Printf("  %s", pipeline.ReportFile)
	logger.Printf("  %s", pipeline.VisitsFile)
	logger.Printf("  %s", pipeline.AreasFile)
	logger.Printf("  %s", pipeline.VacationDaysFile)
}

// filterByYear keeps only visits whose date falls in the given year.
func filterByYear(visits []*domain.Visit, year int) []*domain.Visit {
	var out []*domain.Visit
	for _, v := range visits {
		d, err := time.Parse("2006-01-02", v.Date)
		if err != nil || d.Year() != year {
			continue
		}
		out = append(out, v)
	}
	return out
}

// resolveVacationDays recomputes the vacation days actually taken in
// the report year from the configured entries and holiday calendar.
func resolveVacationDays(cfg *config.Config, year int) ([]string, error) {
	vacation, err := filter.ExpandVacations(cfg.VacationEntries())
	if err != nil {
		return nil, err
	}

	cal, err := holiday.NewCalendar(cfg.BankHolidays)
	if err != nil {
		return nil, err
	}
	holidays, err := cal.Holidays(year)
	if err != nil {
		return nil, err
	}

	return metrics.ActualVacationDays(vacation, holidays, cfg.Schedule().Workdays), nil
}

func writeReports(dir string, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	files := map[string]string{
		pipeline.ReportFile:       reporting.RenderMarkdown(report),
		pipeline.VisitsFile:       reporting.RenderVisitsCSV(report.Visits),
		pipeline.AreasFile:        reporting.RenderAreasCSV(report.AreaSummaries),
		pipeline.VacationDaysFile: reporting.RenderVacationCSV(report.VacationDays),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func visitValues(visits []*domain.Visit) []domain.Visit {
	out := make([]domain.Visit, 0, len(visits))
	for _, v := range visits {
		out = append(out, *v)
	}
	return out
}

// Package pipeline orchestrates a full analysis run: ingest, normalize,
// filter, assign, segment, aggregate, persist and report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"location-visits/internal/assignment"
	"location-visits/internal/config"
	"location-visits/internal/domain"
	"location-visits/internal/filter"
	"location-visits/internal/holiday"
	"location-visits/internal/ingestion"
	"location-visits/internal/metrics"
	"location-visits/internal/normalization"
	"location-visits/internal/observability"
	"location-visits/internal/reporting"
	"location-visits/internal/segmentation"
	"location-visits/internal/storage"
)

// Output file names written to the output directory.
const (
	ReportFile       = "REPORT.md"
	VisitsFile       = "visits.csv"
	AreasFile        = "areas.csv"
	VacationDaysFile = "vacation_days.csv"
)

// Options configures a pipeline run.
type Options struct {
	// Source provides the raw samples to analyze.
	Source ingestion.PointSource

	// Config is the validated analysis configuration.
	Config *config.Config

	// Year restricts the analysis to one calendar year.
	Year int

	// Timezone is the IANA zone local fields are derived in.
	Timezone string

	// Gap is the same-day revisit threshold. Zero means the default.
	Gap time.Duration

	// OutputDir receives the report files.
	OutputDir string

	// VisitStore, when set, persists aggregated visits.
	VisitStore storage.VisitStore

	// StatStore, when set, receives the year's per-area day counts.
	StatStore storage.StatStore

	// Holidays overrides the bank holiday provider. When nil, a calendar
	// for the configured region is used.
	Holidays holiday.Provider

	// Verbose enables per-stage progress logging.
	Verbose bool
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Report   *reporting.Report
	Visits   []*domain.Visit
	Duration time.Duration
}

// Pipeline executes the analysis stages in order.
type Pipeline struct {
	opts     Options
	holidays holiday.Provider
	clock    func() time.Time
	logger   *log.Logger
}

// New creates a pipeline from options.
func New(opts Options) (*Pipeline, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("pipeline: source is required")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	if opts.Year == 0 {
		return nil, fmt.Errorf("pipeline: year is required")
	}
	if opts.Timezone == "" {
		opts.Timezone = "UTC"
	}

	holidays := opts.Holidays
	if holidays == nil {
		cal, err := holiday.NewCalendar(opts.Config.BankHolidays)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		holidays = cal
	}

	logOut := io.Discard
	if opts.Verbose {
		logOut = os.Stdout
	}

	return &Pipeline{
		opts:     opts,
		holidays: holidays,
		clock:    func() time.Time { return time.Now().UTC() },
		logger:   log.New(logOut, "[pipeline] ", log.LstdFlags|log.Lshortfile),
	}, nil
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Run executes the full pipeline and writes the report files.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	started := p.clock()

	result, err := p.run(ctx)

	duration := p.clock().Sub(started)
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordPipelineRun(status, duration.Seconds())

	if err != nil {
		return nil, err
	}
	result.Duration = duration
	observability.DefaultMetrics.LastSuccessfulPipeline.Set(float64(p.clock().Unix()))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context) (*RunResult, error) {
	cfg := p.opts.Config
	schedule := cfg.Schedule()

	// 1. Ingest
	raws, err := p.opts.Source.Points(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest points: %w", err)
	}
	p.logger.Printf("Ingested %d raw samples", len(raws))

	// 2. Normalize into local time, keeping only the analysis year
	normalizer, err := normalization.NewNormalizer(p.opts.Year, p.opts.Timezone)
	if err != nil {
		return nil, err
	}
	points, err := normalizer.NormalizeAll(raws)
	if err != nil {
		return nil, err
	}
	normalization.SortPoints(points)
	p.logger.Printf("Normalized %d samples in year %d", len(points), p.opts.Year)
	observability.DefaultMetrics.PointsNormalized.Add(float64(len(points)))

	// 3. Filter by vacation, holidays, workdays and worktime
	vacation, err := filter.ExpandVacations(cfg.VacationEntries())
	if err != nil {
		return nil, err
	}
	holidays, err := p.holidays.Holidays(p.opts.Year)
	if err != nil {
		return nil, err
	}

	filtered := filter.Apply(points,
		filter.VacationMask(vacation),
		filter.HolidayMask(holidays),
		filter.WorkdayMask(schedule.Workdays),
		filter.WorktimeMask(schedule.WorktimeStart, schedule.WorktimeEnd),
	)
	p.logger.Printf("Schedule filter kept %d of %d samples", len(filtered), len(points))
	observability.DefaultMetrics.PointsFiltered.Add(float64(len(filtered)))

	// 4. Assign samples to areas
	assignment.AssignAreas(filtered, cfg.Areas)
	inArea := assignment.InArea(filtered)
	for _, pt := range inArea {
		observability.DefaultMetrics.PointsAssigned.WithLabelValues(pt.Area).Inc()
	}
	p.logger.Printf("Assigned %d samples to %d areas", len(inArea), len(cfg.Areas))

	// 5. Segment into visits
	segmenter := segmentation.NewSegmenter(p.opts.Gap)
	segmented := segmenter.Segment(filtered)

	// 6. Aggregate
	visits := metrics.AggregateVisits(segmented)
	areaSummaries := metrics.AreaSummaries(visits)
	vacationDays := metrics.ActualVacationDays(vacation, holidays, schedule.Workdays)
	p.logger.Printf("Segmented %d visits across %d areas", len(visits), len(areaSummaries))
	observability.DefaultMetrics.VisitsSegmented.Add(float64(len(visits)))

	// 7. Persist
	if p.opts.VisitStore != nil {
		if err := p.opts.VisitStore.InsertBulk(ctx, visits); err != nil {
			return nil, fmt.Errorf("persist visits: %w", err)
		}
		p.logger.Printf("Persisted %d visits", len(visits))
	}
	if p.opts.StatStore != nil {
		if err := p.opts.StatStore.UpsertAreaSummaries(ctx, p.opts.Year, areaSummaries); err != nil {
			return nil, fmt.Errorf("persist area stats: %w", err)
		}
	}

	// 8. Report
	report := &reporting.Report{
		GeneratedAt:      p.clock(),
		Year:             p.opts.Year,
		Timezone:         p.opts.Timezone,
		RawPoints:        len(raws),
		NormalizedPoints: len(points),
		FilteredPoints:   len(filtered),
		InAreaPoints:     len(inArea),
		Visits:           visitValues(visits),
		AreaSummaries:    areaSummaries,
		VacationDays:     vacationDays,
	}

	if p.opts.OutputDir != "" {
		if err := p.writeReports(report); err != nil {
			return nil, err
		}
		observability.DefaultMetrics.ReportsGenerated.Inc()
	}

	return &RunResult{Report: report, Visits: visits}, nil
}

// writeReports writes the CSV and Markdown outputs.
func (p *Pipeline) writeReports(report *reporting.Report) error {
	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]string{
		VisitsFile:       reporting.RenderVisitsCSV(report.Visits),
		AreasFile:        reporting.RenderAreasCSV(report.AreaSummaries),
		VacationDaysFile: reporting.RenderVacationCSV(report.VacationDays),
		ReportFile:       reporting.RenderMarkdown(report),
	}

	for name, content := range files {
		path := filepath.Join(p.opts.OutputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	p.logger.Printf("Wrote report files to %s", p.opts.OutputDir)
	return nil
}

// visitValues flattens stored visits for report rendering.
func visitValues(visits []*domain.Visit) []domain.Visit {
	out := make([]domain.Visit, len(visits))
	for i, v := range visits {
		out[i] = *v
	}
	return out
}

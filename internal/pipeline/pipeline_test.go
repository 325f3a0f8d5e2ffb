package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"location-visits/internal/config"
	"location-visits/internal/domain"
	"location-visits/internal/holiday"
	"location-visits/internal/storage/memory"
)

// stubSource serves a fixed sample set.
type stubSource struct {
	points []*domain.RawLocation
}

func (s *stubSource) Points(context.Context) ([]*domain.RawLocation, error) {
	return s.points, nil
}

func raw(ms string, latE7, lngE7 int64) *domain.RawLocation {
	return &domain.RawLocation{TimestampMs: ms, LatitudeE7: latE7, LongitudeE7: lngE7, Accuracy: 20}
}

func testConfig() *config.Config {
	return &config.Config{
		Worktimes: []string{"09:00", "18:00"},
		Workdays:  []int{1, 2, 3, 4, 5},
		Areas: []domain.Area{
			{Tag: "Office", Lat: 52.52, Lng: 13.405, RadiusM: 200},
		},
	}
}

// officeSamples covers Thursday 2023-06-15, 11:30 to 13:00 Berlin time,
// all at the Office center.
func officeSamples() []*domain.RawLocation {
	return []*domain.RawLocation{
		raw("1686821400000", 525200000, 134050000), // 11:30 local
		raw("1686823200000", 525200000, 134050000), // 12:00
		raw("1686825000000", 525200000, 134050000), // 12:30
		raw("1686826800000", 525200000, 134050000), // 13:00
	}
}

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()

	if opts.Config == nil {
		opts.Config = testConfig()
	}
	if opts.Year == 0 {
		opts.Year = 2023
	}
	if opts.Timezone == "" {
		opts.Timezone = "Europe/Berlin"
	}
	if opts.Holidays == nil {
		opts.Holidays = holiday.Static{}
	}

	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p.WithClock(func() time.Time {
		return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	})
}

func TestPipeline_SingleVisit(t *testing.T) {
	p := newTestPipeline(t, Options{
		Source: &stubSource{points: officeSamples()},
	})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Visits) != 1 {
		t.Fatalf("visits = %d, want 1", len(result.Visits))
	}
	v := result.Visits[0]
	if v.Date != "2023-06-15" || v.VisitNo != 1 || v.Area != "Office" {
		t.Errorf("visit key = %s/%d/%s", v.Date, v.VisitNo, v.Area)
	}
	if v.MinTime != "11:30" || v.MaxTime != "13:00" {
		t.Errorf("visit span = %s..%s", v.MinTime, v.MaxTime)
	}
	if v.StayedHours != 1.5 {
		t.Errorf("stayed = %f, want 1.5", v.StayedHours)
	}
	if !v.LongestStay {
		t.Error("single visit of the day must be the longest stay")
	}
	if v.PointCount != 4 {
		t.Errorf("point count = %d, want 4", v.PointCount)
	}

	r := result.Report
	if r.RawPoints != 4 || r.NormalizedPoints != 4 || r.FilteredPoints != 4 || r.InAreaPoints != 4 {
		t.Errorf("funnel = %d/%d/%d/%d", r.RawPoints, r.NormalizedPoints, r.FilteredPoints, r.InAreaPoints)
	}
}

func TestPipeline_FilterAndAssignmentFunnel(t *testing.T) {
	samples := officeSamples()
	// Saturday 2023-06-17 14:00 local, at the office: dropped by workday mask.
	samples = append(samples, raw("1687003200000", 525200000, 134050000))
	// Thursday during work hours, ~13km south of the office: no area match.
	samples = append(samples, raw("1686828600000", 524000000, 134050000))

	p := newTestPipeline(t, Options{
		Source: &stubSource{points: samples},
	})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	r := result.Report
	if r.RawPoints != 6 {
		t.Errorf("raw = %d, want 6", r.RawPoints)
	}
	if r.NormalizedPoints != 6 {
		t.Errorf("normalized = %d, want 6", r.NormalizedPoints)
	}
	if r.FilteredPoints != 5 {
		t.Errorf("filtered = %d, want 5 (weekend sample dropped)", r.FilteredPoints)
	}
	if r.InAreaPoints != 4 {
		t.Errorf("in area = %d, want 4 (distant sample unmatched)", r.InAreaPoints)
	}
	if len(result.Visits) != 1 {
		t.Errorf("visits = %d, want 1", len(result.Visits))
	}
}

func TestPipeline_HolidayExcluded(t *testing.T) {
	p := newTestPipeline(t, Options{
		Source:   &stubSource{points: officeSamples()},
		Holidays: holiday.Static{"2023-06-15": true},
	})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Report.FilteredPoints != 0 {
		t.Errorf("filtered = %d, want 0 on a holiday", result.Report.FilteredPoints)
	}
	if len(result.Visits) != 0 {
		t.Errorf("visits = %d, want 0", len(result.Visits))
	}
}

func TestPipeline_PersistsVisits(t *testing.T) {
	store := memory.NewVisitStore()
	p := newTestPipeline(t, Options{
		Source:     &stubSource{points: officeSamples()},
		VisitStore: store,
	})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stored, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(stored) != 1 || stored[0].Area != "Office" {
		t.Errorf("stored visits = %+v", stored)
	}
}

func TestPipeline_PersistsAreaStats(t *testing.T) {
	store := memory.NewStatStore()
	p := newTestPipeline(t, Options{
		Source:    &stubSource{points: officeSamples()},
		StatStore: store,
	})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stats, err := store.GetAreaSummaries(context.Background(), 2023)
	if err != nil {
		t.Fatalf("GetAreaSummaries: %v", err)
	}
	if len(stats) != 1 || stats[0].Area != "Office" || stats[0].DaysInArea != 1 {
		t.Errorf("area stats = %+v", stats)
	}
}

func TestPipeline_WritesReportFiles(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, Options{
		Source:    &stubSource{points: officeSamples()},
		OutputDir: dir,
	})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	visitsCSV, err := os.ReadFile(filepath.Join(dir, VisitsFile))
	if err != nil {
		t.Fatalf("read visits.csv: %v", err)
	}
	if !strings.Contains(string(visitsCSV), "2023-06-15,1,Office,1.50,11:30,13:00,true") {
		t.Errorf("visits.csv = %q", visitsCSV)
	}

	for _, name := range []string{AreasFile, VacationDaysFile, ReportFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}

	md, err := os.ReadFile(filepath.Join(dir, ReportFile))
	if err != nil {
		t.Fatalf("read REPORT.md: %v", err)
	}
	if !strings.Contains(string(md), "Generated: 2024-01-15T10:00:00Z") {
		t.Error("report markdown missing deterministic timestamp")
	}
}

func TestPipeline_VacationReport(t *testing.T) {
	cfg, err := config.Parse([]byte(`
vacation:
  - from: "2023-07-10"
    to: "2023-07-16"
worktimes: ["09:00", "18:00"]
workdays: [1, 2, 3, 4, 5]
areas:
  - tag: Office
    lat: 52.52
    lng: 13.405
    radius: 200
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	p := newTestPipeline(t, Options{
		Source:   &stubSource{points: officeSamples()},
		Config:   cfg,
		Holidays: holiday.Static{"2023-07-14": true}, // Friday inside the vacation
	})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Week of 2023-07-10: Mon-Thu count as taken vacation; Friday is a
	// holiday and the weekend is off-schedule anyway.
	want := []string{"2023-07-10", "2023-07-11", "2023-07-12", "2023-07-13"}
	got := result.Report.VacationDays
	if len(got) != len(want) {
		t.Fatalf("vacation days = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vacation days = %v, want %v", got, want)
		}
	}
}

func TestPipeline_MalformedTimestampFails(t *testing.T) {
	p := newTestPipeline(t, Options{
		Source: &stubSource{points: []*domain.RawLocation{raw("oops", 1, 2)}},
	})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Options{Config: testConfig(), Year: 2023}); err == nil {
		t.Error("expected error without source")
	}
	if _, err := New(Options{Source: &stubSource{}, Year: 2023}); err == nil {
		t.Error("expected error without config")
	}
	if _, err := New(Options{Source: &stubSource{}, Config: testConfig()}); err == nil {
		t.Error("expected error without year")
	}
}

// Package main runs the full batch analysis: ingest, normalize,
// filter, assign areas, segment visits, render reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location-visits/internal/config"
	"location-visits/internal/ingestion"
	"location-visits/internal/pipeline"
	"location-visits/internal/storage"
	"location-visits/internal/storage/memory"
	"location-visits/internal/storage/migrations"
	pgstore "location-visits/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Analysis configuration file")
	inputPath := flag.String("input", "", "Takeout location history JSON file")
	year := flag.Int("year", time.Now().UTC().Year(), "Calendar year to analyze")
	timezone := flag.String("timezone", "Europe/Berlin", "IANA timezone for local time derivation")
	gap := flag.Duration("gap", 3*time.Hour, "Same-day revisit gap threshold")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for visit persistence (empty to skip)")
	flag.Parse()

	logger := log.New(os.Stdout, "[pipeline] ", log.LstdFlags|log.Lshortfile)

	if *inputPath == "" {
		logger.Fatal("No input file specified. Use --input")
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling pipeline...", sig)
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	visitStore, statStore, cleanup, err := createStores(ctx, *postgresDSN, logger)
	if err != nil {
		logger.Fatalf("Create stores: %v", err)
	}
	defer cleanup()

	p, err := pipeline.New(pipeline.Options{
		Source:     ingestion.NewTakeoutSource(*inputPath),
		Config:     cfg,
		Year:       *year,
		Timezone:   *timezone,
		Gap:        *gap,
		OutputDir:  *outputDir,
		VisitStore: visitStore,
		StatStore:  statStore,
		Verbose:    true,
	})
	if err != nil {
		logger.Fatalf("Create pipeline: %v", err)
	}

	result, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Println("Pipeline cancelled")
			return
		}
		logger.Fatalf("Pipeline error: %v", err)
	}

	fmt.Println("Pipeline completed:")
	fmt.Printf("  Raw samples:    %d\n", result.Report.RawPoints)
	fmt.Printf("  In year %d:   %d\n", *year, result.Report.NormalizedPoints)
	fmt.Printf("  After filter:   %d\n", result.Report.FilteredPoints)
	fmt.Printf("  In areas:       %d\n", result.Report.InAreaPoints)
	fmt.Printf("  Visits:         %d\n", len(result.Visits))
	fmt.Printf("  Duration:       %s\n", result.Duration)
	fmt.Printf("Output written to %s/ (%s, %s, %s, %s)\n",
		*outputDir, pipeline.ReportFile, pipeline.VisitsFile, pipeline.AreasFile, pipeline.VacationDaysFile)
}

// createStores returns Postgres-backed stores when a DSN is given,
// in-memory stores otherwise.
func createStores(ctx context.Context, dsn string, logger *log.Logger) (storage.VisitStore, storage.StatStore, func(), error) {
	if dsn == "" {
		return memory.NewVisitStore(), memory.NewStatStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	logger.Println("Connected to PostgreSQL, migrations applied")

	return pgstore.NewVisitStore(pool), pgstore.NewStatStore(pool), pool.Close, nil
}

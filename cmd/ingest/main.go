// Package main ingests raw location samples into storage, either from
// a Takeout export (backfill) or a live WebSocket feed.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location-visits/internal/domain"
	"location-visits/internal/ingestion"
	"location-visits/internal/observability"
	"location-visits/internal/storage"
	chstore "location-visits/internal/storage/clickhouse"
	"location-visits/internal/storage/memory"
	"location-visits/internal/storage/migrations"
)

const liveBatchSize = 100

func main() {
	mode := flag.String("mode", "backfill", "Ingestion mode: backfill or live")
	inputPath := flag.String("input", "", "Takeout location history JSON file (backfill mode)")
	wsEndpoint := flag.String("ws-endpoint", "", "WebSocket feed endpoint (live mode)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of ClickHouse")
	flushInterval := flag.Duration("flush-interval", 10*time.Second, "Live mode batch flush interval")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	store, cleanup, err := createLocationStore(ctx, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Create location store: %v", err)
	}
	defer cleanup()

	switch *mode {
	case "backfill":
		err = runBackfill(ctx, logger, store, *inputPath)
	case "live":
		err = runLive(ctx, logger, store, *wsEndpoint, *flushInterval)
	default:
		logger.Fatalf("Unknown mode: %s", *mode)
	}

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// runBackfill loads a Takeout export and stores it in one batch.
func runBackfill(ctx context.Context, logger *log.Logger, store storage.LocationStore, inputPath string) error {
	if inputPath == "" {
		return errors.New("no input file specified, use --input")
	}

	source := ingestion.NewTakeoutSource(inputPath)
	points, err := source.Points(ctx)
	if err != nil {
		observability.RecordIngestionError("parse")
		return err
	}
	observability.RecordPointsIngested("takeout", len(points))

	if err := store.InsertBulk(ctx, points); err != nil {
		observability.RecordIngestionError("store")
		return err
	}
	observability.DefaultMetrics.PointsStored.Add(float64(len(points)))
	observability.DefaultMetrics.LastSuccessfulIngestion.Set(float64(time.Now().Unix()))

	logger.Printf("Backfilled %d samples", len(points))
	return nil
}

// runLive subscribes to the feed and flushes batches to storage until
// the context is cancelled.
func runLive(ctx context.Context, logger *log.Logger, store storage.LocationStore, wsEndpoint string, flushInterval time.Duration) error {
	if wsEndpoint == "" {
		return errors.New("no feed endpoint specified, use --ws-endpoint")
	}

	source := ingestion.NewWSPointSource(wsEndpoint, nil)
	pointsCh, err := source.Subscribe(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var batch []*domain.RawLocation
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := store.InsertBulk(ctx, batch); err != nil {
			// Duplicates can arrive after a feed reconnect; drop the
			// batch and keep streaming.
			observability.RecordIngestionError("store")
			logger.Printf("Flush of %d samples failed: %v", len(batch), err)
		} else {
			observability.DefaultMetrics.PointsStored.Add(float64(len(batch)))
			observability.DefaultMetrics.LastSuccessfulIngestion.Set(float64(time.Now().Unix()))
			logger.Printf("Flushed %d samples", len(batch))
		}
		batch = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()
		case <-ticker.C:
			flush()
		case p, ok := <-pointsCh:
			if !ok {
				flush()
				return nil
			}
			observability.RecordPointsIngested("ws", 1)
			batch = append(batch, &p)
			if len(batch) >= liveBatchSize {
				flush()
			}
		}
	}
}

// createLocationStore returns a ClickHouse-backed store unless memory
// storage was requested.
func createLocationStore(ctx context.Context, dsn string, useMemory bool, logger *log.Logger) (storage.LocationStore, func(), error) {
	if useMemory || dsn == "" {
		logger.Println("Using in-memory location store")
		return memory.NewLocationStore(), func() {}, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	logger.Println("Connected to ClickHouse, migrations applied")

	return chstore.NewLocationStore(conn), func() { conn.Close() }, nil
}

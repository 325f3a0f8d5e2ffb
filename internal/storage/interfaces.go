package storage

import (
	"context"

	"location-visits/internal/domain"
)

// LocationStore provides access to raw_locations storage.
type LocationStore interface {
	// InsertBulk adds multiple samples. Fails entire batch on duplicate timestamp_ms
	// or on a non-numeric timestamp.
	InsertBulk(ctx context.Context, points []*domain.RawLocation) error

	// GetAll retrieves all samples, ordered by timestamp ASC.
	GetAll(ctx context.Context) ([]*domain.RawLocation, error)

	// GetByTimeRange retrieves samples within [start, end] epoch millis (inclusive).
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.RawLocation, error)

	// Count returns the number of stored samples.
	Count(ctx context.Context) (int, error)
}

// VisitStore provides access to visits storage.
type VisitStore interface {
	// Insert adds a new visit. Returns ErrDuplicateKey if (date, visit_no, area) exists.
	Insert(ctx context.Context, v *domain.Visit) error

	// InsertBulk adds multiple visits atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, visits []*domain.Visit) error

	// GetByDate retrieves all visits on a date, ordered by visit_no ASC.
	GetByDate(ctx context.Context, date string) ([]*domain.Visit, error)

	// GetByArea retrieves all visits to an area, ordered by date, visit_no ASC.
	GetByArea(ctx context.Context, area string) ([]*domain.Visit, error)

	// GetAll retrieves all visits, ordered by date, visit_no, area ASC.
	GetAll(ctx context.Context) ([]*domain.Visit, error)
}

// StatStore provides access to per-year area statistics. Unlike the
// append-only stores, stats are recomputed on every run and upserted.
type StatStore interface {
	// UpsertAreaSummaries replaces the year's per-area day counts.
	UpsertAreaSummaries(ctx context.Context, year int, summaries []domain.AreaSummary) error

	// GetAreaSummaries retrieves the year's day counts, ordered by area ASC.
	GetAreaSummaries(ctx context.Context, year int) ([]domain.AreaSummary, error)
}

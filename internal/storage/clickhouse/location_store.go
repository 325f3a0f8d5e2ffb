package clickhouse

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"location-visits/internal/domain"
	"location-visits/internal/storage"
)

// LocationStore implements storage.LocationStore using ClickHouse.
type LocationStore struct {
	conn *Conn
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(conn *Conn) *LocationStore {
	return &LocationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LocationStore = (*LocationStore)(nil)

// InsertBulk adds multiple samples. Fails entire batch on duplicate timestamp_ms.
// MergeTree doesn't enforce uniqueness, so duplicates are checked explicitly
// before the batch is sent.
func (s *LocationStore) InsertBulk(ctx context.Context, points []*domain.RawLocation) error {
	if len(points) == 0 {
		return nil
	}

	// Validate timestamps and check for intra-batch duplicates
	keys := make([]uint64, len(points))
	seen := make(map[uint64]struct{}, len(points))
	for i, p := range points {
		if p == nil {
			return storage.ErrInvalidInput
		}
		ms, err := strconv.ParseUint(p.TimestampMs, 10, 64)
		if err != nil {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[ms]; exists {
			return storage.ErrDuplicateKey
		}
		seen[ms] = struct{}{}
		keys[i] = ms
	}

	// Check for duplicates against existing DB rows
	for _, ms := range keys {
		exists, err := s.exists(ctx, ms)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO raw_locations (
			timestamp_ms, latitude_e7, longitude_e7, accuracy
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, p := range points {
		err = batch.Append(
			keys[i], p.LatitudeE7, p.LongitudeE7, int32(p.Accuracy),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves all samples, ordered by timestamp ASC.
func (s *LocationStore) GetAll(ctx context.Context) ([]*domain.RawLocation, error) {
	query := `
		SELECT timestamp_ms, latitude_e7, longitude_e7, accuracy
		FROM raw_locations
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// GetByTimeRange retrieves samples within [start, end] (inclusive).
func (s *LocationStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.RawLocation, error) {
	query := `
		SELECT timestamp_ms, latitude_e7, longitude_e7, accuracy
		FROM raw_locations
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// Count returns the number of stored samples.
func (s *LocationStore) Count(ctx context.Context) (int, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM raw_locations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return int(count), nil
}

// exists checks if a sample with the given timestamp exists.
func (s *LocationStore) exists(ctx context.Context, timestampMs uint64) (bool, error) {
	query := `
		SELECT count(*) FROM raw_locations
		WHERE timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, timestampMs).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanLocations scans multiple rows.
func scanLocations(rows driver.Rows) ([]*domain.RawLocation, error) {
	var points []*domain.RawLocation

	for rows.Next() {
		var p domain.RawLocation
		var timestampMs uint64
		var accuracy int32

		err := rows.Scan(
			&timestampMs, &p.LatitudeE7, &p.LongitudeE7, &accuracy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}

		p.TimestampMs = strconv.FormatUint(timestampMs, 10)
		p.Accuracy = int(accuracy)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location rows: %w", err)
	}

	return points, nil
}

package postgres

import (
	"context"
	"fmt"

	"location-visits/internal/domain"
	"location-visits/internal/storage"
)

// StatStore implements storage.StatStore using PostgreSQL.
type StatStore struct {
	pool *Pool
}

// NewStatStore creates a new StatStore.
func NewStatStore(pool *Pool) *StatStore {
	return &StatStore{pool: pool}
}

var _ storage.StatStore = (*StatStore)(nil)

const upsertAreaStatQuery = `
	INSERT INTO area_stats (year, area, days_in_area)
	VALUES ($1, $2, $3)
	ON CONFLICT (year, area) DO UPDATE SET
		days_in_area = EXCLUDED.days_in_area,
		updated_at = now()
`

// UpsertAreaSummaries replaces the year's per-area day counts. Areas
// absent from the new summaries are removed for that year.
func (s *StatStore) UpsertAreaSummaries(ctx context.Context, year int, summaries []domain.AreaSummary) error {
	for _, sum := range summaries {
		if sum.Area == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM area_stats WHERE year = $1`, year); err != nil {
		return fmt.Errorf("clear area stats: %w", err)
	}

	for _, sum := range summaries {
		if _, err := tx.Exec(ctx, upsertAreaStatQuery, year, sum.Area, sum.DaysInArea); err != nil {
			return fmt.Errorf("upsert area stat: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAreaSummaries retrieves the year's day counts, ordered by area ASC.
func (s *StatStore) GetAreaSummaries(ctx context.Context, year int) ([]domain.AreaSummary, error) {
	query := `
		SELECT area, days_in_area
		FROM area_stats
		WHERE year = $1
		ORDER BY area ASC
	`

	rows, err := s.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("get area stats: %w", err)
	}
	defer rows.Close()

	var summaries []domain.AreaSummary
	for rows.Next() {
		var sum domain.AreaSummary
		if err := rows.Scan(&sum.Area, &sum.DaysInArea); err != nil {
			return nil, fmt.Errorf("scan area stat row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate area stat rows: %w", err)
	}

	return summaries, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"location-visits/internal/domain"
	"location-visits/internal/storage"
)

// VisitStore implements storage.VisitStore using PostgreSQL.
type VisitStore struct {
	pool *Pool
}

// NewVisitStore creates a new VisitStore.
func NewVisitStore(pool *Pool) *VisitStore {
	return &VisitStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VisitStore = (*VisitStore)(nil)

const insertVisitQuery = `
	INSERT INTO visits (
		date, visit_no, area, stayed_hours, min_time, max_time, longest_stay, point_count
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Insert adds a new visit. Returns ErrDuplicateKey if (date, visit_no, area) exists.
func (s *VisitStore) Insert(ctx context.Context, v *domain.Visit) error {
	if v == nil || v.Date == "" || v.Area == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertVisitQuery,
		v.Date,
		v.VisitNo,
		v.Area,
		v.StayedHours,
		v.MinTime,
		v.MaxTime,
		v.LongestStay,
		v.PointCount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// InsertBulk adds multiple visits atomically. Fails entire batch on any duplicate.
func (s *VisitStore) InsertBulk(ctx context.Context, visits []*domain.Visit) error {
	if len(visits) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, v := range visits {
		if v == nil || v.Date == "" || v.Area == "" {
			return storage.ErrInvalidInput
		}

		_, err := tx.Exec(ctx, insertVisitQuery,
			v.Date,
			v.VisitNo,
			v.Area,
			v.StayedHours,
			v.MinTime,
			v.MaxTime,
			v.LongestStay,
			v.PointCount,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert visit in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByDate retrieves all visits on a date, ordered by visit_no ASC.
func (s *VisitStore) GetByDate(ctx context.Context, date string) ([]*domain.Visit, error) {
	query := `
		SELECT date, visit_no, area, stayed_hours, min_time, max_time, longest_stay, point_count
		FROM visits
		WHERE date = $1
		ORDER BY visit_no ASC, area ASC
	`

	rows, err := s.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get visits by date: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// GetByArea retrieves all visits to an area, ordered by date, visit_no ASC.
func (s *VisitStore) GetByArea(ctx context.Context, area string) ([]*domain.Visit, error) {
	query := `
		SELECT date, visit_no, area, stayed_hours, min_time, max_time, longest_stay, point_count
		FROM visits
		WHERE area = $1
		ORDER BY date ASC, visit_no ASC
	`

	rows, err := s.pool.Query(ctx, query, area)
	if err != nil {
		return nil, fmt.Errorf("get visits by area: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// GetAll retrieves all visits, ordered by date, visit_no, area ASC.
func (s *VisitStore) GetAll(ctx context.Context) ([]*domain.Visit, error) {
	query := `
		SELECT date, visit_no, area, stayed_hours, min_time, max_time, longest_stay, point_count
		FROM visits
		ORDER BY date ASC, visit_no ASC, area ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all visits: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// scanVisits scans multiple rows into a slice of Visit.
func scanVisits(rows pgx.Rows) ([]*domain.Visit, error) {
	var visits []*domain.Visit

	for rows.Next() {
		var v domain.Visit

		err := rows.Scan(
			&v.Date,
			&v.VisitNo,
			&v.Area,
			&v.StayedHours,
			&v.MinTime,
			&v.MaxTime,
			&v.LongestStay,
			&v.PointCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan visit row: %w", err)
		}

		visits = append(visits, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visit rows: %w", err)
	}

	return visits, nil
}

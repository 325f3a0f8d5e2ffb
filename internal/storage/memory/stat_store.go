package memory

import (
	"context"
	"sort"
	"sync"

	"location-visits/internal/domain"
	"location-visits/internal/storage"
)

// StatStore is an in-memory implementation of storage.StatStore.
type StatStore struct {
	mu sync.RWMutex
	// year -> area -> days
	byYear map[int]map[string]int
}

// NewStatStore creates an empty in-memory stat store.
func NewStatStore() *StatStore {
	return &StatStore{byYear: make(map[int]map[string]int)}
}

var _ storage.StatStore = (*StatStore)(nil)

// UpsertAreaSummaries replaces the year's per-area day counts.
func (s *StatStore) UpsertAreaSummaries(ctx context.Context, year int, summaries []domain.AreaSummary) error {
	for _, sum := range summaries {
		if sum.Area == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(summaries))
	for _, sum := range summaries {
		counts[sum.Area] = sum.DaysInArea
	}
	s.byYear[year] = counts
	return nil
}

// GetAreaSummaries retrieves the year's day counts, ordered by area ASC.
func (s *StatStore) GetAreaSummaries(ctx context.Context, year int) ([]domain.AreaSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.byYear[year]
	summaries := make([]domain.AreaSummary, 0, len(counts))
	for area, days := range counts {
		summaries = append(summaries, domain.AreaSummary{Area: area, DaysInArea: days})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Area < summaries[j].Area
	})
	return summaries, nil
}

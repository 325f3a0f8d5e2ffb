// Package memory provides in-memory store implementations, used by
// tests and single-run pipelines that do not need persistence.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"location-visits/internal/domain"
	"location-visits/internal/storage"
)

// LocationStore is an in-memory implementation of storage.LocationStore.
type LocationStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.RawLocation // keyed by epoch millis
}

// NewLocationStore creates a new in-memory location store.
func NewLocationStore() *LocationStore {
	return &LocationStore{
		data: make(map[int64]*domain.RawLocation),
	}
}

// InsertBulk adds multiple samples. Fails entire batch on any duplicate.
func (s *LocationStore) InsertBulk(_ context.Context, points []*domain.RawLocation) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[int64]struct{}, len(points))

	// First pass: validate and check for duplicates (existing + intra-batch)
	keys := make([]int64, len(points))
	for i, p := range points {
		if p == nil {
			return storage.ErrInvalidInput
		}
		ms, err := strconv.ParseInt(p.TimestampMs, 10, 64)
		if err != nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[ms]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[ms]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[ms] = struct{}{}
		keys[i] = ms
	}

	// Second pass: insert all
	for i, p := range points {
		copy := *p
		s.data[keys[i]] = &copy
	}

	return nil
}

// GetAll retrieves all samples, ordered by timestamp ASC.
func (s *LocationStore) GetAll(_ context.Context) ([]*domain.RawLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(int64) bool { return true }), nil
}

// GetByTimeRange retrieves samples within [start, end] (inclusive).
func (s *LocationStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.RawLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(ms int64) bool { return ms >= start && ms <= end }), nil
}

// Count returns the number of stored samples.
func (s *LocationStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}

// collect copies matching samples sorted by timestamp. Caller holds the lock.
func (s *LocationStore) collect(match func(int64) bool) []*domain.RawLocation {
	type entry struct {
		ms    int64
		point *domain.RawLocation
	}

	var entries []entry
	for ms, p := range s.data {
		if match(ms) {
			copy := *p
			entries = append(entries, entry{ms: ms, point: &copy})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ms < entries[j].ms
	})

	result := make([]*domain.RawLocation, len(entries))
	for i, e := range entries {
		result[i] = e.point
	}
	return result
}

var _ storage.LocationStore = (*LocationStore)(nil)

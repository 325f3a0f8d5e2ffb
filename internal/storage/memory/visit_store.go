package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"location-visits/internal/domain"
	"location-visits/internal/storage"
)

// VisitStore is an in-memory implementation of storage.VisitStore.
type VisitStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Visit // keyed by composite key
}

// NewVisitStore creates a new in-memory visit store.
func NewVisitStore() *VisitStore {
	return &VisitStore{
		data: make(map[string]*domain.Visit),
	}
}

// visitKey generates a unique key for a visit.
func visitKey(date string, visitNo int, area string) string {
	return fmt.Sprintf("%s|%d|%s", date, visitNo, area)
}

// Insert adds a new visit. Returns ErrDuplicateKey if exists.
func (s *VisitStore) Insert(_ context.Context, v *domain.Visit) error {
	if v == nil || v.Date == "" || v.Area == "" {
		return storage.ErrInvalidInput
	}

	key := visitKey(v.Date, v.VisitNo, v.Area)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *v
	s.data[key] = &copy
	return nil
}

// InsertBulk adds multiple visits atomically. Fails entire batch on any duplicate.
func (s *VisitStore) InsertBulk(_ context.Context, visits []*domain.Visit) error {
	if len(visits) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(visits))

	// First pass: check for duplicates (existing + intra-batch)
	for _, v := range visits {
		if v == nil || v.Date == "" || v.Area == "" {
			return storage.ErrInvalidInput
		}
		key := visitKey(v.Date, v.VisitNo, v.Area)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, v := range visits {
		key := visitKey(v.Date, v.VisitNo, v.Area)
		copy := *v
		s.data[key] = &copy
	}

	return nil
}

// GetByDate retrieves all visits on a date, ordered by visit_no ASC.
func (s *VisitStore) GetByDate(_ context.Context, date string) ([]*domain.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Visit
	for _, v := range s.data {
		if v.Date == date {
			copy := *v
			result = append(result, &copy)
		}
	}

	sortVisits(result)
	return result, nil
}

// GetByArea retrieves all visits to an area, ordered by date, visit_no ASC.
func (s *VisitStore) GetByArea(_ context.Context, area string) ([]*domain.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Visit
	for _, v := range s.data {
		if v.Area == area {
			copy := *v
			result = append(result, &copy)
		}
	}

	sortVisits(result)
	return result, nil
}

// GetAll retrieves all visits, ordered by date, visit_no, area ASC.
func (s *VisitStore) GetAll(_ context.Context) ([]*domain.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Visit, 0, len(s.data))
	for _, v := range s.data {
		copy := *v
		result = append(result, &copy)
	}

	sortVisits(result)
	return result, nil
}

// sortVisits orders visits by (date, visit_no, area).
func sortVisits(visits []*domain.Visit) {
	sort.Slice(visits, func(i, j int) bool {
		if visits[i].Date != visits[j].Date {
			return visits[i].Date < visits[j].Date
		}
		if visits[i].VisitNo != visits[j].VisitNo {
			return visits[i].VisitNo < visits[j].VisitNo
		}
		return visits[i].Area < visits[j].Area
	})
}

var _ storage.VisitStore = (*VisitStore)(nil)

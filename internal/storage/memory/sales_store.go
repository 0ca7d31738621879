package memory

import (
	"context"
	"sort"
	"sync"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/storage"
)

// SalesHistoryStore is an in-memory implementation of storage.SalesHistoryStore.
type SalesHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]domain.SalesRecord
}

// NewSalesHistoryStore creates a new in-memory sales history store.
func NewSalesHistoryStore() *SalesHistoryStore {
	return &SalesHistoryStore{data: make(map[string][]domain.SalesRecord)}
}

// Append adds sales records for a product.
func (s *SalesHistoryStore) Append(_ context.Context, productID string, records []domain.SalesRecord) error {
	if productID == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[productID] = append(s.data[productID], records...)
	return nil
}

// GetByProductID retrieves all sales records for a product ordered by date ASC.
// Records with unparseable dates sort last in their insertion order.
func (s *SalesHistoryStore) GetByProductID(_ context.Context, productID string) ([]domain.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.data[productID]
	result := make([]domain.SalesRecord, len(records))
	copy(result, records)

	sort.SliceStable(result, func(i, j int) bool {
		di, erri := result[i].ParsedDate()
		dj, errj := result[j].ParsedDate()
		if erri != nil || errj != nil {
			return errj != nil && erri == nil
		}
		return di.Before(dj)
	})
	return result, nil
}

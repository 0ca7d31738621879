package memory

import (
	"context"
	"sort"
	"sync"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/storage"
)

// OrderSummaryStore is an in-memory implementation of storage.OrderSummaryStore.
// Contents live for the process lifetime only; a restart clears the dashboard.
type OrderSummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OrderSummary
}

// NewOrderSummaryStore creates a new in-memory order summary store.
func NewOrderSummaryStore() *OrderSummaryStore {
	return &OrderSummaryStore{data: make(map[string]*domain.OrderSummary)}
}

// Put inserts or replaces the summary for its order ID.
func (s *OrderSummaryStore) Put(_ context.Context, summary *domain.OrderSummary) error {
	if summary == nil || summary.OrderID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *summary
	s.data[summary.OrderID] = &copy
	return nil
}

// GetByOrderID retrieves a summary. Returns ErrNotFound if not exists.
func (s *OrderSummaryStore) GetByOrderID(_ context.Context, orderID string) (*domain.OrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.data[orderID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *summary
	return &copy, nil
}

// List retrieves all summaries ordered by processing time DESC.
func (s *OrderSummaryStore) List(_ context.Context) ([]*domain.OrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.OrderSummary, 0, len(s.data))
	for _, summary := range s.data {
		copy := *summary
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ProcessedAt.Equal(result[j].ProcessedAt) {
			return result[i].ProcessedAt.After(result[j].ProcessedAt)
		}
		return result[i].OrderID < result[j].OrderID
	})
	return result, nil
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// StockStore is an in-memory implementation of storage.StockStore.
type StockStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string]*domain.Stock // keyed by lowercase name
}

// NewStockStore creates a new in-memory stock store.
func NewStockStore() *StockStore {
	return &StockStore{
		nextID: 1,
		data:   make(map[string]*domain.Stock),
	}
}

// Compile-time interface check.
var _ storage.StockStore = (*StockStore)(nil)

func stockKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Insert adds a stock and assigns its ID.
func (s *StockStore) Insert(_ context.Context, st *domain.Stock) error {
	if st == nil || stockKey(st.Name) == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := stockKey(st.Name)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	st.ID = s.nextID
	s.nextID++

	stockCopy := *st
	stockCopy.Name = key
	s.data[key] = &stockCopy
	return nil
}

// GetByName retrieves a stock by name.
func (s *StockStore) GetByName(_ context.Context, name string) (*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.data[stockKey(name)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	stockCopy := *st
	return &stockCopy, nil
}

// List returns all stocks ordered by name.
func (s *StockStore) List(_ context.Context) ([]*domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Stock, 0, len(s.data))
	for _, st := range s.data {
		stockCopy := *st
		result = append(result, &stockCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

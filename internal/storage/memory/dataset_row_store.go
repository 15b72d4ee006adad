package memory

import (
	"context"
	"sort"
	"sync"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// DatasetRowStore is an in-memory implementation of storage.DatasetRowStore.
type DatasetRowStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.OutputRow // by stock_symbol, insertion order
}

// NewDatasetRowStore creates a new in-memory dataset row store.
func NewDatasetRowStore() *DatasetRowStore {
	return &DatasetRowStore{
		data: make(map[string][]*domain.OutputRow),
	}
}

// Compile-time interface check.
var _ storage.DatasetRowStore = (*DatasetRowStore)(nil)

// InsertBulk adds rows. The batch fails if any (symbol, date) is already stored.
// Repeated dates within one batch are kept; a price series may trade a date twice.
func (s *DatasetRowStore) InsertBulk(_ context.Context, rows []*domain.OutputRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]struct{})
	for _, rs := range s.data {
		for _, r := range rs {
			stored[dayKey(r.StockSymbol, r.Date)] = struct{}{}
		}
	}

	for _, r := range rows {
		if r == nil || r.StockSymbol == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := stored[dayKey(r.StockSymbol, r.Date)]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, r := range rows {
		s.data[r.StockSymbol] = append(s.data[r.StockSymbol], copyRow(r))
	}
	return nil
}

// GetBySymbol retrieves all rows for a symbol, ordered by date. Rows sharing a
// date keep their insertion order.
func (s *DatasetRowStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.OutputRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.OutputRow, 0, len(s.data[symbol]))
	for _, r := range s.data[symbol] {
		result = append(result, copyRow(r))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// copyRow deep-copies the row including its sentiment pointer.
func copyRow(r *domain.OutputRow) *domain.OutputRow {
	rowCopy := *r
	if r.Sentiment != nil {
		sentimentCopy := *r.Sentiment
		rowCopy.Sentiment = &sentimentCopy
	}
	return &rowCopy
}

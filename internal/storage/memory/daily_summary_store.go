package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// DailySummaryStore is an in-memory implementation of storage.DailySummaryStore.
type DailySummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DailySentimentSummary // keyed by (stock_symbol, date)
}

// NewDailySummaryStore creates a new in-memory daily summary store.
func NewDailySummaryStore() *DailySummaryStore {
	return &DailySummaryStore{
		data: make(map[string]*domain.DailySentimentSummary),
	}
}

// Compile-time interface check.
var _ storage.DailySummaryStore = (*DailySummaryStore)(nil)

// dayKey generates a unique key for a (symbol, date) pair.
func dayKey(symbol string, date time.Time) string {
	return fmt.Sprintf("%s|%s", symbol, domain.DateOf(date).Format(time.DateOnly))
}

// InsertBulk adds summaries. Fails entire batch on duplicate.
func (s *DailySummaryStore) InsertBulk(_ context.Context, summaries []*domain.DailySentimentSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(summaries))
	for _, d := range summaries {
		if d == nil || d.StockSymbol == "" {
			return storage.ErrInvalidInput
		}
		key := dayKey(d.StockSymbol, d.Date)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, d := range summaries {
		summaryCopy := *d
		summaryCopy.Date = domain.DateOf(d.Date)
		s.data[dayKey(d.StockSymbol, d.Date)] = &summaryCopy
	}
	return nil
}

// GetByDateRange retrieves summaries for a symbol within [start, end] (inclusive).
func (s *DailySummaryStore) GetByDateRange(_ context.Context, symbol string, start, end time.Time) ([]*domain.DailySentimentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := domain.NewDateWindow(start, end)
	var result []*domain.DailySentimentSummary
	for _, d := range s.data {
		if d.StockSymbol == symbol && window.Contains(d.Date) {
			summaryCopy := *d
			result = append(result, &summaryCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

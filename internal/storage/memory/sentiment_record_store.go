package memory

import (
	"context"
	"sort"
	"sync"

	"reddit-sentiment-lab/internal/domain"
	"reddit-sentiment-lab/internal/storage"
)

// SentimentRecordStore is an in-memory implementation of storage.SentimentRecordStore.
type SentimentRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SentimentRecord // keyed by record_id
}

// NewSentimentRecordStore creates a new in-memory sentiment record store.
func NewSentimentRecordStore() *SentimentRecordStore {
	return &SentimentRecordStore{
		data: make(map[string]*domain.SentimentRecord),
	}
}

// Compile-time interface check.
var _ storage.SentimentRecordStore = (*SentimentRecordStore)(nil)

// Insert adds a record.
func (s *SentimentRecordStore) Insert(ctx context.Context, r *domain.SentimentRecord) error {
	return s.InsertBulk(ctx, []*domain.SentimentRecord{r})
}

// InsertBulk adds multiple records. Fails entire batch on duplicate.
func (s *SentimentRecordStore) InsertBulk(_ context.Context, records []*domain.SentimentRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))

	// First pass: validate and check duplicates (existing + intra-batch)
	for _, r := range records {
		if r == nil || r.RecordID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.RecordID] = struct{}{}
	}

	// Second pass: insert all
	for _, r := range records {
		recordCopy := *r
		s.data[r.RecordID] = &recordCopy
	}
	return nil
}

// GetByStock retrieves all records for a stock.
func (s *SentimentRecordStore) GetByStock(_ context.Context, stockID int64) ([]*domain.SentimentRecord, error) {
	return s.filter(func(r *domain.SentimentRecord) bool { return r.StockID == stockID }), nil
}

// GetByRun retrieves all records of one run.
func (s *SentimentRecordStore) GetByRun(_ context.Context, runID string) ([]*domain.SentimentRecord, error) {
	return s.filter(func(r *domain.SentimentRecord) bool { return r.RunID == runID }), nil
}

func (s *SentimentRecordStore) filter(keep func(*domain.SentimentRecord) bool) []*domain.SentimentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SentimentRecord
	for _, r := range s.data {
		if keep(r) {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].RecordID < result[j].RecordID
	})
	return result
}

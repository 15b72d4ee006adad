package storage

import (
	"context"
	"time"

	"reddit-sentiment-lab/internal/domain"
)

// StockStore provides access to the stocks table.
type StockStore interface {
	// Insert adds a stock and sets its ID. Returns ErrDuplicateKey if name exists.
	Insert(ctx context.Context, s *domain.Stock) error

	// GetByName retrieves a stock by tracked name (case-insensitive). Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.Stock, error)

	// List returns all stocks ordered by name.
	List(ctx context.Context) ([]*domain.Stock, error)
}

// SentimentRecordStore provides access to sentiment_records storage.
type SentimentRecordStore interface {
	// Insert adds a record. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.SentimentRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.SentimentRecord) error

	// GetByStock retrieves all records for a stock, ordered by (created_at, record_id) ASC.
	GetByStock(ctx context.Context, stockID int64) ([]*domain.SentimentRecord, error)

	// GetByRun retrieves all records written by one collection run, ordered by (created_at, record_id) ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.SentimentRecord, error)
}

// DailySummaryStore provides access to daily_sentiment storage.
type DailySummaryStore interface {
	// InsertBulk adds summaries. Fails entire batch on duplicate (stock_symbol, date).
	InsertBulk(ctx context.Context, summaries []*domain.DailySentimentSummary) error

	// GetByDateRange retrieves summaries for a symbol within [start, end] (inclusive), ordered by date ASC.
	GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.DailySentimentSummary, error)
}

// DatasetRowStore provides access to dataset_rows storage (the per-symbol output tables).
type DatasetRowStore interface {
	// InsertBulk adds rows. Fails entire batch on duplicate (stock_symbol, date).
	InsertBulk(ctx context.Context, rows []*domain.OutputRow) error

	// GetBySymbol retrieves all rows for a symbol, ordered by date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.OutputRow, error)
}

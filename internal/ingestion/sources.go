package ingestion

import (
	"context"

	"reddit-sentiment-lab/internal/domain"
)

// PostSource provides the posts table.
type PostSource interface {
	// Posts returns every post row in file order.
	Posts(ctx context.Context) ([]domain.RawPost, error)
}

// StockIndexSource provides the id -> stock symbol index rows.
type StockIndexSource interface {
	StockIndex(ctx context.Context) ([]domain.StockIndexEntry, error)
}

// PriceSource provides daily price history per symbol.
type PriceSource interface {
	// Prices returns the price rows for symbol in file order.
	// Returns an error wrapping ErrPriceDataMissing when the symbol has no price file.
	Prices(ctx context.Context, symbol string) ([]domain.PriceRecord, error)
}
